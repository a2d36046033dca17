package member

import (
	"strings"
	"testing"

	"github.com/labcollective/memberhub/pkg/apperror"
	"github.com/labcollective/memberhub/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestServiceUpsert(t *testing.T) {
	repo, _ := newRepo(t)
	hasher := utils.NewBcryptHasher(bcrypt.MinCost)
	svc := NewMemberService(repo, hasher)

	m, err := svc.Upsert(UpsertMemberRequest{Name: " Root ", Email: "Root@Lab.org", Role: RoleAdmin, Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "Root", m.Name)
	assert.Equal(t, "root@lab.org", m.Email)
	assert.True(t, m.IsAdmin())
	assert.True(t, hasher.Verify("hunter22", m.PasswordHash))

	m, err = svc.Upsert(UpsertMemberRequest{Name: "Root", Email: "root@lab.org", Role: RoleAdmin, Cohort: "staff"})
	require.NoError(t, err)
	assert.Equal(t, "staff", m.Cohort)
	assert.True(t, hasher.Verify("hunter22", m.PasswordHash))

	m, err = svc.Upsert(UpsertMemberRequest{Name: "Ana", Email: "ana@lab.org"})
	require.NoError(t, err)
	assert.Equal(t, RoleMember, m.Role)
	assert.False(t, m.HasPassword())
}

func TestServiceUpsertValidation(t *testing.T) {
	repo, _ := newRepo(t)
	svc := NewMemberService(repo, utils.NewBcryptHasher(bcrypt.MinCost))

	tests := []struct {
		name string
		req  UpsertMemberRequest
	}{
		{"bad role", UpsertMemberRequest{Name: "A", Email: "a@x.com", Role: "owner"}},
		{"blank name", UpsertMemberRequest{Name: "  ", Email: "a@x.com"}},
		{"blank email", UpsertMemberRequest{Name: "A", Email: " "}},
		{"short password", UpsertMemberRequest{Name: "A", Email: "a@x.com", Password: "12345"}},
		{"password over bcrypt limit", UpsertMemberRequest{Name: "A", Email: "a@x.com", Password: strings.Repeat("a", 73)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upsert(tt.req)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		})
	}
}
