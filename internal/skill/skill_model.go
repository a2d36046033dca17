package skill

import (
	"github.com/labcollective/memberhub/internal/models"
	"gorm.io/datatypes"
)

const (
	LevelPrimary   = "primary"
	LevelSecondary = "secondary"
	LevelTertiary  = "tertiary"
)

// Levels in display order.
var Levels = []string{LevelPrimary, LevelSecondary, LevelTertiary}

// ContentItem is one learning material attached to a skill.
type ContentItem struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// Milestone is a named checkpoint within a skill's learning path.
type Milestone struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Skill is a learnable competency defined by an admin. ParentID is kept free-form;
// the level of the parent is not checked.
type Skill struct {
	models.BaseModel
	Name         string                           `json:"name" gorm:"size:255;not null"`
	Description  string                           `json:"description"`
	Category     string                           `json:"category" gorm:"size:100;index"`
	Icon         string                           `json:"icon" gorm:"size:100"`
	Color        string                           `json:"color" gorm:"size:32"`
	Level        string                           `json:"level" gorm:"size:16;not null;index"`
	ParentID     *string                          `json:"parent_id" gorm:"size:36;index"`
	ContentItems datatypes.JSONSlice[ContentItem] `json:"content_items"`
	Milestones   datatypes.JSONSlice[Milestone]   `json:"milestones"`
	IsActive     bool                             `json:"is_active" gorm:"index"`
	CreatedBy    string                           `json:"created_by" gorm:"size:36"`
}

// ValidLevel reports whether level is one of the three skill tiers.
func ValidLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

// LevelRank orders levels for display; unknown levels sort last.
func LevelRank(level string) int {
	for i, l := range Levels {
		if l == level {
			return i
		}
	}
	return len(Levels)
}

// HasMilestone reports whether id names one of the skill's milestones.
func (s *Skill) HasMilestone(id string) bool {
	for _, m := range s.Milestones {
		if m.ID == id {
			return true
		}
	}
	return false
}
