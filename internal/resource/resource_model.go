package resource

import (
	"time"

	"github.com/labcollective/memberhub/internal/models"
)

// ResourceAssignment is a link handed to one member. A member holds a given URL at most once.
type ResourceAssignment struct {
	models.BaseModel
	MemberID    string     `json:"member_id" gorm:"size:36;not null;uniqueIndex:idx_resource_member_url"`
	Title       string     `json:"title" gorm:"size:255;not null"`
	Description string     `json:"description"`
	URL         string     `json:"url" gorm:"size:1024;not null;uniqueIndex:idx_resource_member_url"`
	Category    string     `json:"category" gorm:"size:100;index"`
	AssignedBy  string     `json:"assigned_by" gorm:"size:36"`
	AssignedAt  time.Time  `json:"assigned_at"`
	ViewedAt    *time.Time `json:"viewed_at"`
}

type AssignRequest struct {
	MemberIDs   []string `json:"member_ids" binding:"required,min=1"`
	Title       string   `json:"title" binding:"required,max=255"`
	URL         string   `json:"url" binding:"required,url,max=1024"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"max=100"`
}
