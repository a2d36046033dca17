package event

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/config"
	"github.com/labcollective/memberhub/internal/member"
	"github.com/labcollective/memberhub/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func setupRouter(t *testing.T, f *eventFixture, actingAs string, source CalendarSource) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.App.FrontendURL = "http://hub.test/"

	r := gin.New()
	public := r.Group("/api")
	authed := r.Group("/api", func(c *gin.Context) {
		c.Set(middleware.AuthMemberIDKey, actingAs)
		c.Set(middleware.AuthRoleKey, member.RoleAdmin)
	})
	RegisterEventRoutes(public, authed, authed.Group("/admin"), f.db, cfg, source)
	return r
}

func send(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
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

func TestEventCRUDEndpoints(t *testing.T) {
	f := newEventFixture(t)
	r := setupRouter(t, f, "admin-1", nil)

	w := send(r, http.MethodPost, "/api/admin/events", gin.H{"title": "Lab night", "starts_at": "2025-04-01T18:00:00Z", "location": "Hall A"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Event Event `json:"event"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "admin-1", created.Event.CreatedBy)

	w = send(r, http.MethodPost, "/api/admin/events", gin.H{"location": "Nowhere"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodGet, "/api/events?from=2025-03-31&to=2025-04-30", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lab night")

	w = send(r, http.MethodGet, "/api/events?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodGet, "/api/events/"+created.Event.ID+"/ics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "event-"+created.Event.ID+".ics")
	assert.Contains(t, w.Body.String(), "LOCATION:Hall A\r\n")

	w = send(r, http.MethodPut, "/api/admin/events/"+created.Event.ID, gin.H{"title": "Lab night 2", "starts_at": "2025-04-02T18:00:00Z"})
	require.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodDelete, "/api/admin/events/"+created.Event.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodGet, "/api/events/"+created.Event.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Event not found"}`, w.Body.String())
}

func TestCalendarEndpoints(t *testing.T) {
	f := newEventFixture(t)
	admin := f.admin(t)
	source := &fakeCalendar{exchanged: &oauth2.Token{AccessToken: "at", RefreshToken: "rt"}}
	r := setupRouter(t, f, admin.ID, source)

	w := send(r, http.MethodGet, "/api/admin/calendar/connect", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var connect struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &connect))
	parsed, err := url.Parse(connect.URL)
	require.NoError(t, err)
	state := parsed.Query().Get("state")

	w = send(r, http.MethodGet, "/api/calendar/callback?"+url.Values{"code": {"good-code"}, "state": {state}}.Encode(), nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://hub.test/admin/calendar?connected=1", w.Header().Get("Location"))

	w = send(r, http.MethodGet, "/api/calendar/callback?error=access_denied", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasSuffix(w.Header().Get("Location"), "error=access_denied"))

	w = send(r, http.MethodGet, "/api/calendar/callback?code=good-code&state=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(r, http.MethodPost, "/api/admin/calendar/sync", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"synced":0}`, w.Body.String())
}

func TestCalendarEndpointsWithoutOAuthClient(t *testing.T) {
	f := newEventFixture(t)
	r := setupRouter(t, f, "admin-1", nil)

	w := send(r, http.MethodGet, "/api/admin/calendar/connect", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Google Calendar is not configured"}`, w.Body.String())
}
