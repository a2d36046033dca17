package auth

import (
	"strings"

	"github.com/labcollective/memberhub/internal/member"
	"github.com/labcollective/memberhub/pkg/apperror"
	"github.com/labcollective/memberhub/utils"
)

// AuthService verifies credentials and creates self-service accounts.
type AuthService struct {
	members member.MemberRepository
	hasher  utils.Hasher
}

func NewAuthService(members member.MemberRepository, hasher utils.Hasher) *AuthService {
	return &AuthService{members: members, hasher: hasher}
}

// Register creates a member-role account. The unique email index decides races
// between concurrent registrations; the lookup only gives the common case a fast answer.
func (s *AuthService) Register(req RegisterRequest) (*member.Member, error) {
	name := strings.TrimSpace(req.Name)
	email := member.NormalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, apperror.Validation(msgRegisterRequired)
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperror.Validation(msgPasswordTooShort)
	}
	if len(req.Password) > utils.MaxPasswordBytes {
		return nil, apperror.Validation(msgPasswordTooLong)
	}

	existing, err := s.members.FindByEmail(email)
	if err != nil {
		return nil, apperror.Storage("Failed to check existing member", err)
	}
	if existing != nil {
		return nil, apperror.Conflict(msgEmailTaken)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Storage("Failed to hash password", err)
	}

	m := &member.Member{
		Name:         name,
		Email:        email,
		Role:         member.RoleMember,
		PasswordHash: hash,
	}
	if err := s.members.Create(m); err != nil {
		if apperror.IsUniqueViolation(err) {
			return nil, apperror.Conflict(msgEmailTaken)
		}
		return nil, apperror.Storage("Failed to create member", err)
	}
	return m, nil
}

// Login checks email, password and the case-insensitive display name.
// A wrong name and a wrong password produce the same error.
func (s *AuthService) Login(req LoginRequest) (*member.Member, error) {
	name := strings.TrimSpace(req.Name)
	email := member.NormalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, apperror.Validation(msgLoginRequired)
	}

	m, err := s.members.FindByEmail(email)
	if err != nil {
		return nil, apperror.Storage("Failed to look up member", err)
	}
	if m == nil {
		return nil, apperror.NotFound(msgMemberNotFound)
	}
	if !m.HasPassword() {
		return nil, apperror.Credential(msgNoPasswordSet)
	}

	nameOK := strings.EqualFold(strings.TrimSpace(m.Name), name)
	// verify even when the name is wrong so both failures cost the same
	passwordOK := s.hasher.Verify(req.Password, m.PasswordHash)
	if !nameOK || !passwordOK {
		return nil, apperror.Credential(msgInvalidCredentials)
	}
	return m, nil
}

// AdminLogin looks the account up by email and admin role together, so a member
// email is indistinguishable from an unknown one.
func (s *AuthService) AdminLogin(req AdminLoginRequest) (*member.Member, error) {
	email := member.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperror.Validation(msgAdminRequired)
	}

	admin, err := s.members.FindByEmailAndRole(email, member.RoleAdmin)
	if err != nil {
		return nil, apperror.Storage("Failed to look up admin", err)
	}
	if admin == nil || !admin.HasPassword() {
		return nil, apperror.Credential(msgInvalidAdmin)
	}
	if !s.hasher.Verify(req.Password, admin.PasswordHash) {
		return nil, apperror.Credential(msgInvalidAdmin)
	}
	return admin, nil
}
