package member

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/internal/middleware"
	"github.com/labcollective/memberhub/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupRouter(t *testing.T, actingAs string) (*gin.Engine, MemberRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo, db := newRepo(t)

	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		c.Set(middleware.AuthMemberIDKey, actingAs)
		c.Set(middleware.AuthRoleKey, RoleAdmin)
	})
	RegisterMemberRoutes(api, api.Group("/admin"), db, utils.NewBcryptHasher(bcrypt.MinCost))
	return r, repo
}

func request(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpsertEndpointHidesHash(t *testing.T) {
	r, _ := setupRouter(t, "admin-1")

	w := request(r, http.MethodPost, "/api/admin/members", `{"name":"Ana","email":"ana@lab.org","password":"secret1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.Contains(t, w.Body.String(), `"email":"ana@lab.org"`)

	w = request(r, http.MethodPost, "/api/admin/members", `{"name":"Ana"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(r, http.MethodPost, "/api/admin/members", `{"name":"Bo","email":"bo@lab.org","password":"`+strings.Repeat("a", 73)+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Password must be at most 72 bytes"}`, w.Body.String())
}

func TestMeAndGet(t *testing.T) {
	r, repo := setupRouter(t, "")
	m := &Member{Name: "Ana", Email: "ana@lab.org", Role: RoleMember}
	require.NoError(t, repo.Create(m))

	w := request(r, http.MethodGet, "/api/members/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(r, http.MethodGet, "/api/admin/members/"+m.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Member Member `json:"member"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, m.ID, body.Member.ID)

	w = request(r, http.MethodGet, "/api/admin/members/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Member not found"}`, w.Body.String())
}

func TestListEndpoint(t *testing.T) {
	r, repo := setupRouter(t, "admin-1")
	require.NoError(t, repo.Create(&Member{Name: "Ana", Email: "ana@lab.org", Role: RoleMember}))
	require.NoError(t, repo.Create(&Member{Name: "Ben", Email: "ben@lab.org", Role: RoleMember}))

	w := request(r, http.MethodGet, "/api/admin/members?pageSize=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Members    []Member `json:"members"`
		Pagination struct {
			TotalItems  int64 `json:"total_items"`
			HasNextPage bool  `json:"has_next_page"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Members, 1)
	assert.EqualValues(t, 2, body.Pagination.TotalItems)
	assert.True(t, body.Pagination.HasNextPage)
}

func TestClearAllEndpoint(t *testing.T) {
	r, repo := setupRouter(t, "admin-1")
	require.NoError(t, repo.Create(&Member{Name: "Ana", Email: "ana@lab.org", Role: RoleMember}))
	require.NoError(t, repo.Create(&Member{Name: "Root", Email: "root@lab.org", Role: RoleAdmin}))

	w := request(r, http.MethodDelete, "/api/admin/members", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"deleted":1}`, w.Body.String())

	_, total, err := repo.List(1, 20, ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
