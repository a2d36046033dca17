package feed

import (
	"time"

	"github.com/labcollective/memberhub/internal/announcement"
	"github.com/labcollective/memberhub/internal/event"
	"github.com/labcollective/memberhub/pkg/apperror"
)

type FeedService struct {
	announcements *announcement.AnnouncementService
	events        event.EventRepository
	now           func() time.Time
}

func NewFeedService(announcements *announcement.AnnouncementService, events event.EventRepository) *FeedService {
	return &FeedService{announcements: announcements, events: events, now: time.Now}
}

// For builds the feed of memberID from visible announcements and events that ended
// no more than thirty days ago.
func (s *FeedService) For(memberID string, limit int) ([]Item, error) {
	limit = clampLimit(limit)

	posts, err := s.announcements.ListFor(memberID, limit)
	if err != nil {
		return nil, err
	}
	since := s.now().Add(-eventLookback)
	events, err := s.events.ListEvents(&since, nil)
	if err != nil {
		return nil, apperror.Storage("Failed to retrieve events", err)
	}
	return Merge(posts, events, limit), nil
}
