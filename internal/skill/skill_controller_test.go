package skill

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/internal/middleware"
	"github.com/labcollective/memberhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*gin.Engine, SkillRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t, &Skill{})

	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) {
		c.Set(middleware.AuthMemberIDKey, "admin-1")
		c.Set(middleware.AuthRoleKey, "admin")
	})
	RegisterSkillRoutes(api, api.Group("/admin"), db)
	return r, NewSkillRepository(db)
}

func do(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateSkill(t *testing.T) {
	r, repo := setup(t)

	w := do(r, http.MethodPost, "/api/admin/skills", gin.H{
		"name":  "Public Speaking",
		"level": "primary",
		"milestones": []gin.H{
			{"id": "m1", "title": "First talk"},
			{"id": "m2", "title": "Keynote"},
		},
		"content_items": []gin.H{{"title": "Intro video", "type": "video", "url": "https://example.com/v"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Skill Skill `json:"skill"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Skill.IsActive)
	assert.Equal(t, "admin-1", body.Skill.CreatedBy)

	stored, err := repo.GetSkillByID(body.Skill.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Milestones, 2)
	assert.True(t, stored.HasMilestone("m2"))
	assert.Equal(t, "Intro video", stored.ContentItems[0].Title)
}

func TestCreateSkillValidation(t *testing.T) {
	r, _ := setup(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing name", gin.H{"level": "primary"}},
		{"blank name", gin.H{"name": "   ", "level": "primary"}},
		{"bad level", gin.H{"name": "X", "level": "quaternary"}},
		{"duplicate milestone", gin.H{"name": "X", "level": "primary", "milestones": []gin.H{{"id": "a", "title": "A"}, {"id": "a", "title": "B"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/admin/skills", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestApproveRejectSkill(t *testing.T) {
	r, repo := setup(t)
	s := &Skill{Name: "Coaching", Level: LevelSecondary}
	require.NoError(t, repo.CreateSkill(s))

	w := do(r, http.MethodPost, "/api/admin/skills/"+s.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	got, _ := repo.GetSkillByID(s.ID)
	assert.True(t, got.IsActive)

	w = do(r, http.MethodPost, "/api/admin/skills/"+s.ID+"/reject", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got, _ = repo.GetSkillByID(s.ID)
	assert.False(t, got.IsActive)

	w = do(r, http.MethodPost, "/api/admin/skills/missing/approve", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Skill not found"}`, w.Body.String())
}

func TestListActiveSkillsHidesInactive(t *testing.T) {
	r, repo := setup(t)
	require.NoError(t, repo.CreateSkill(&Skill{Name: "Active", Level: LevelPrimary, IsActive: true}))
	require.NoError(t, repo.CreateSkill(&Skill{Name: "Hidden", Level: LevelPrimary}))

	w := do(r, http.MethodGet, "/api/skills", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Active")
	assert.NotContains(t, w.Body.String(), "Hidden")

	w = do(r, http.MethodGet, "/api/admin/skills", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hidden")
}

func TestUpdateSkill(t *testing.T) {
	r, repo := setup(t)
	s := &Skill{Name: "Old", Level: LevelPrimary, IsActive: true}
	require.NoError(t, repo.CreateSkill(s))

	w := do(r, http.MethodPut, "/api/admin/skills/"+s.ID, gin.H{"name": "New", "level": "tertiary", "parent_id": "p1"})
	require.Equal(t, http.StatusOK, w.Code)

	got, err := repo.GetSkillByID(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, LevelTertiary, got.Level)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, "p1", *got.ParentID)

	w = do(r, http.MethodPut, "/api/admin/skills/nope", gin.H{"name": "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPut, "/api/admin/skills/"+s.ID, gin.H{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Skill name must not be blank"}`, w.Body.String())
	got, err = repo.GetSkillByID(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
}

func TestLevelRank(t *testing.T) {
	assert.Less(t, LevelRank(LevelPrimary), LevelRank(LevelSecondary))
	assert.Less(t, LevelRank(LevelSecondary), LevelRank(LevelTertiary))
	assert.Equal(t, 3, LevelRank("unknown"))
	assert.False(t, ValidLevel("quaternary"))
}
