package announcement

import (
	"time"

	"github.com/labcollective/memberhub/internal/models"
)

// Announcement is a post shown to every member, or only to one cohort when Cohort is set.
type Announcement struct {
	models.BaseModel
	Title       string    `json:"title" gorm:"size:255;not null"`
	Body        string    `json:"body"`
	Pinned      bool      `json:"pinned" gorm:"index"`
	Cohort      string    `json:"cohort" gorm:"size:100;index"`
	PublishedAt time.Time `json:"published_at" gorm:"not null;index"`
	CreatedBy   string    `json:"created_by" gorm:"size:36"`
}

type AnnouncementRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Body        string     `json:"body"`
	Pinned      bool       `json:"pinned"`
	Cohort      string     `json:"cohort" binding:"max=100"`
	PublishedAt *time.Time `json:"published_at"`
}
