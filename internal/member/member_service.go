package member

import (
	"strings"

	"github.com/labcollective/memberhub/pkg/apperror"
	"github.com/labcollective/memberhub/utils"
)

type UpsertMemberRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Email       string `json:"email" binding:"required,email"`
	Role        string `json:"role" binding:"omitempty,oneof=admin member"`
	Cohort      string `json:"cohort" binding:"omitempty,max=100"`
	IsLabMember bool   `json:"is_lab_member"`
	IsAlumni    bool   `json:"is_alumni"`
	Password    string `json:"password" binding:"omitempty,min=6"`
}

// MemberService holds account writes shared by the HTTP API and the CLI.
type MemberService struct {
	repo   MemberRepository
	hasher utils.Hasher
}

func NewMemberService(repo MemberRepository, hasher utils.Hasher) *MemberService {
	return &MemberService{repo: repo, hasher: hasher}
}

// Upsert creates an account or updates the one that owns the email.
// An empty password leaves any stored credential untouched.
func (s *MemberService) Upsert(req UpsertMemberRequest) (*Member, error) {
	role := req.Role
	if role == "" {
		role = RoleMember
	}
	if !ValidRole(role) {
		return nil, apperror.Validation("Role must be admin or member")
	}
	if strings.TrimSpace(req.Name) == "" || NormalizeEmail(req.Email) == "" {
		return nil, apperror.Validation("Name and email are required")
	}
	if req.Password != "" && len(req.Password) < 6 {
		return nil, apperror.Validation("Password must be at least 6 characters")
	}
	if len(req.Password) > utils.MaxPasswordBytes {
		return nil, apperror.Validation("Password must be at most 72 bytes")
	}
	m := &Member{
		Name:        strings.TrimSpace(req.Name),
		Email:       NormalizeEmail(req.Email),
		Role:        role,
		Cohort:      strings.TrimSpace(req.Cohort),
		IsLabMember: req.IsLabMember,
		IsAlumni:    req.IsAlumni,
	}
	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, apperror.Storage("Failed to hash password", err)
		}
		m.PasswordHash = hash
	}
	saved, err := s.repo.Upsert(m, req.Password != "")
	if err != nil {
		return nil, apperror.Storage("Failed to save member", err)
	}
	return saved, nil
}
