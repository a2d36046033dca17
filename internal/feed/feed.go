package feed

import (
	"sort"
	"strings"
	"time"

	"github.com/labcollective/memberhub/internal/announcement"
	"github.com/labcollective/memberhub/internal/event"
)

const (
	KindAnnouncement = "announcement"
	KindEvent        = "event"

	DefaultLimit = 20
	MaxLimit     = 100

	eventLookback = 30 * 24 * time.Hour
	summaryLength = 280
)

// Item is one entry of the member home feed.
type Item struct {
	Kind     string    `json:"kind"`
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Summary  string    `json:"summary"`
	Date     time.Time `json:"date"`
	Pinned   bool      `json:"pinned"`
	Location string    `json:"location,omitempty"`
}

// Merge combines announcements and events into one list: pinned items first, then
// newest first. limit is clamped to 1..MaxLimit, with DefaultLimit for zero or less.
func Merge(announcements []announcement.Announcement, events []event.Event, limit int) []Item {
	limit = clampLimit(limit)
	items := make([]Item, 0, len(announcements)+len(events))
	for _, a := range announcements {
		items = append(items, Item{
			Kind:    KindAnnouncement,
			ID:      a.ID,
			Title:   a.Title,
			Summary: summarize(a.Body),
			Date:    a.PublishedAt,
			Pinned:  a.Pinned,
		})
	}
	for _, ev := range events {
		items = append(items, Item{
			Kind:     KindEvent,
			ID:       ev.ID,
			Title:    ev.Title,
			Summary:  summarize(ev.Description),
			Date:     ev.StartsAt,
			Location: ev.Location,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Pinned != items[j].Pinned {
			return items[i].Pinned
		}
		return items[i].Date.After(items[j].Date)
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func summarize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= summaryLength {
		return text
	}
	return strings.TrimSpace(string(runes[:summaryLength-1])) + "…"
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
