package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/config"
	"github.com/labcollective/memberhub/internal/member"
	"github.com/labcollective/memberhub/internal/testutil"
	"github.com/labcollective/memberhub/pkg/token"
	"github.com/labcollective/memberhub/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupRouter(t *testing.T) (*gin.Engine, member.MemberRepository, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t, &member.Member{})
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiryMinutes = 60

	r := gin.New()
	RegisterAuthRoutes(r.Group("/api"), db, cfg, utils.NewBcryptHasher(bcrypt.MinCost))
	return r, member.NewMemberRepository(db), cfg
}

func postJSON(r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpoint(t *testing.T) {
	r, _, cfg := setupRouter(t)

	w := postJSON(r, "/api/members/register", gin.H{"name": "Ana", "email": "ana@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	var body struct {
		Member map[string]interface{} `json:"member"`
		Token  string                 `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ana@x.com", body.Member["email"])
	assert.Equal(t, "member", body.Member["role"])

	claims, err := token.ValidateJWT(body.Token, cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, body.Member["id"], claims.MemberID)

	w = postJSON(r, "/api/members/register", gin.H{"name": "Ana", "email": "ana@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"A member with this email already exists"}`, w.Body.String())

	w = postJSON(r, "/api/members/register", gin.H{"name": "Bo", "email": "bo@x.com", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Password must be at least 6 characters"}`, w.Body.String())

	w = postJSON(r, "/api/members/register", gin.H{"name": "Cy", "email": "cy@x.com", "password": strings.Repeat("a", 73)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Password must be at most 72 bytes"}`, w.Body.String())
}

func TestLoginEndpoints(t *testing.T) {
	r, repo, _ := setupRouter(t)
	hasher := utils.NewBcryptHasher(bcrypt.MinCost)
	for _, m := range []struct{ name, email, role string }{
		{"Ana", "ana@x.com", member.RoleMember},
		{"Root", "root@x.com", member.RoleAdmin},
	} {
		hash, err := hasher.Hash("secret1")
		require.NoError(t, err)
		require.NoError(t, repo.Create(&member.Member{Name: m.name, Email: m.email, Role: m.role, PasswordHash: hash}))
	}

	tests := []struct {
		name     string
		path     string
		body     gin.H
		wantCode int
		wantKey  string
		wantErr  string
	}{
		{"member ok", "/api/members/login", gin.H{"name": "ANA", "email": "ana@x.com", "password": "secret1"}, http.StatusOK, "member", ""},
		{"member unknown", "/api/members/login", gin.H{"name": "Ana", "email": "zz@x.com", "password": "secret1"}, http.StatusNotFound, "", "No member found with this email"},
		{"member wrong name", "/api/members/login", gin.H{"name": "Eve", "email": "ana@x.com", "password": "secret1"}, http.StatusUnauthorized, "", "Invalid credentials"},
		{"admin ok", "/api/admin/login", gin.H{"email": "root@x.com", "password": "secret1"}, http.StatusOK, "admin", ""},
		{"admin with member email", "/api/admin/login", gin.H{"email": "ana@x.com", "password": "secret1"}, http.StatusUnauthorized, "", msgInvalidAdmin},
		{"malformed body", "/api/admin/login", nil, http.StatusBadRequest, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w *httptest.ResponseRecorder
			if tt.body == nil {
				req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewBufferString("{"))
				req.Header.Set("Content-Type", "application/json")
				w = httptest.NewRecorder()
				r.ServeHTTP(w, req)
			} else {
				w = postJSON(r, tt.path, tt.body)
			}
			require.Equal(t, tt.wantCode, w.Code)
			assert.NotContains(t, w.Body.String(), "password_hash")

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantKey != "" {
				assert.Contains(t, body, tt.wantKey)
				assert.NotEmpty(t, body["token"])
			}
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, body["error"])
			}
		})
	}
}
