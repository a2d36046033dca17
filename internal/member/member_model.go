package member

import (
	"strings"

	"github.com/labcollective/memberhub/internal/models"
	"gorm.io/gorm"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Member is a person using the hub. PasswordHash never leaves the server.
type Member struct {
	models.BaseModel
	Name         string `json:"name" gorm:"size:255;not null"`
	Email        string `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Role         string `json:"role" gorm:"size:16;not null;index"`
	Cohort       string `json:"cohort" gorm:"size:100;index"`
	IsLabMember  bool   `json:"is_lab_member"`
	IsAlumni     bool   `json:"is_alumni"`
	PasswordHash string `json:"-" gorm:"size:255"`
}

// BeforeSave keeps the stored email in its canonical form.
func (m *Member) BeforeSave(tx *gorm.DB) error {
	m.Email = NormalizeEmail(m.Email)
	return nil
}

// HasPassword reports whether a credential has been configured for the account.
func (m *Member) HasPassword() bool {
	return m.PasswordHash != ""
}

// IsAdmin reports whether m holds the admin role.
func (m *Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// NormalizeEmail is the canonical form stored behind the unique index.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidRole reports whether role is one of the two supported values.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}
