package feed

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/internal/announcement"
	"github.com/labcollective/memberhub/internal/event"
	"github.com/labcollective/memberhub/internal/member"
	"github.com/labcollective/memberhub/internal/middleware"
	"github.com/labcollective/memberhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func post(id string, pinned bool, age time.Duration) announcement.Announcement {
	a := announcement.Announcement{Title: id, Pinned: pinned, PublishedAt: base.Add(-age)}
	a.ID = id
	return a
}

func happening(id string, offset time.Duration) event.Event {
	ev := event.Event{Title: id, StartsAt: base.Add(offset), EndsAt: base.Add(offset + time.Hour), Location: "Lab"}
	ev.ID = id
	return ev
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestMergeOrdersPinnedThenNewest(t *testing.T) {
	items := Merge(
		[]announcement.Announcement{post("old", false, 72*time.Hour), post("pin-old", true, 96*time.Hour), post("new", false, time.Hour), post("pin-new", true, 2*time.Hour)},
		[]event.Event{happening("upcoming", 48*time.Hour), happening("past", -24*time.Hour)},
		DefaultLimit,
	)

	assert.Equal(t, []string{"pin-new", "pin-old", "upcoming", "new", "past", "old"}, ids(items))
	assert.Equal(t, KindEvent, items[2].Kind)
	assert.Equal(t, "Lab", items[2].Location)
	assert.Equal(t, KindAnnouncement, items[0].Kind)
}

func TestMergeLimit(t *testing.T) {
	items := Merge([]announcement.Announcement{post("a", false, 1), post("b", false, 2), post("c", false, 3)}, nil, 2)
	assert.Equal(t, []string{"a", "b"}, ids(items))
}

func TestMergeNonPositiveLimit(t *testing.T) {
	posts := []announcement.Announcement{post("a", false, 1), post("b", false, 2)}
	assert.Len(t, Merge(posts, nil, -1), 2)
	assert.Len(t, Merge(posts, nil, 0), 2)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, clampLimit(0))
	assert.Equal(t, DefaultLimit, clampLimit(-3))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, MaxLimit, clampLimit(1000))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "one two", summarize("  one\n\ttwo "))
	long := summarize(strings.Repeat("word ", 200))
	assert.Equal(t, summaryLength, len([]rune(long)))
	assert.True(t, strings.HasSuffix(long, "…"))
}

func TestFeedEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t, &member.Member{}, &announcement.Announcement{}, &event.Event{})

	m := &member.Member{Name: "Ana", Email: "ana@lab.org", Role: member.RoleMember, Cohort: "2025"}
	require.NoError(t, member.NewMemberRepository(db).Create(m))

	now := time.Now().UTC()
	announcements := announcement.NewAnnouncementRepository(db)
	require.NoError(t, announcements.Create(&announcement.Announcement{Title: "Hello", PublishedAt: now.Add(-time.Hour)}))
	require.NoError(t, announcements.Create(&announcement.Announcement{Title: "Other cohort", Cohort: "2019", PublishedAt: now.Add(-time.Hour)}))
	events := event.NewEventRepository(db)
	require.NoError(t, events.CreateEvent(&event.Event{Title: "Soon", StartsAt: now.Add(24 * time.Hour), EndsAt: now.Add(25 * time.Hour), Source: event.SourceManual}))
	require.NoError(t, events.CreateEvent(&event.Event{Title: "Ancient", StartsAt: now.Add(-60 * 24 * time.Hour), EndsAt: now.Add(-60*24*time.Hour + time.Hour), Source: event.SourceManual}))

	r := gin.New()
	api := r.Group("/api", func(c *gin.Context) { c.Set(middleware.AuthMemberIDKey, m.ID) })
	RegisterFeedRoutes(api, db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/feed?limit=10", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items []Item `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	titles := make([]string, 0, len(body.Items))
	for _, it := range body.Items {
		titles = append(titles, it.Title)
	}
	assert.Equal(t, []string{"Soon", "Hello"}, titles)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/feed?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
