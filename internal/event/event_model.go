package event

import (
	"time"

	"github.com/labcollective/memberhub/internal/models"
)

const (
	SourceManual = "manual"
	SourceGoogle = "google"
)

// Event is a lab happening shown on the calendar and in the feed. Events
// pulled from Google carry the remote id in ExternalID.
type Event struct {
	models.BaseModel
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description"`
	Location    string    `json:"location" gorm:"size:255"`
	StartsAt    time.Time `json:"starts_at" gorm:"not null;index"`
	EndsAt      time.Time `json:"ends_at" gorm:"not null;index"`
	AllDay      bool      `json:"all_day"`
	Source      string    `json:"source" gorm:"size:16;not null"`
	ExternalID  *string   `json:"external_id,omitempty" gorm:"size:255;uniqueIndex"`
	HTMLLink    string    `json:"html_link,omitempty" gorm:"size:1024"`
	CreatedBy   string    `json:"created_by" gorm:"size:36"`
}

// OAuthToken is the Google credential an admin granted for calendar sync.
type OAuthToken struct {
	models.BaseModel
	MemberID     string `gorm:"size:36;not null;uniqueIndex"`
	AccessToken  string `gorm:"not null"`
	RefreshToken string
	TokenType    string `gorm:"size:32"`
	Expiry       time.Time
}

func (OAuthToken) TableName() string {
	return "google_oauth_tokens"
}

type EventRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description"`
	Location    string     `json:"location" binding:"max=255"`
	StartsAt    time.Time  `json:"starts_at" binding:"required"`
	EndsAt      *time.Time `json:"ends_at"`
	AllDay      bool       `json:"all_day"`
}
