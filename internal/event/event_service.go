package event

import (
	"context"
	"strings"
	"time"

	"github.com/labcollective/memberhub/internal/member"
	"github.com/labcollective/memberhub/pkg/apperror"
	"github.com/labcollective/memberhub/pkg/token"
)

const (
	msgEventNotFound         = "Event not found"
	msgCalendarNotConfigured = "Google Calendar is not configured"
	msgCalendarNotConnected  = "Google Calendar is not connected"

	stateTokenTTL = 10 * time.Minute
)

// EventService holds event writes and the Google calendar link.
type EventService struct {
	events  EventRepository
	tokens  TokenRepository
	members member.MemberRepository
	source  CalendarSource
	secret  string
	now     func() time.Time
}

// NewEventService builds the service. source may be nil when no OAuth client is configured.
func NewEventService(events EventRepository, tokens TokenRepository, members member.MemberRepository, source CalendarSource, secret string) *EventService {
	return &EventService{
		events:  events,
		tokens:  tokens,
		members: members,
		source:  source,
		secret:  secret,
		now:     time.Now,
	}
}

func (s *EventService) Create(req EventRequest, createdBy string) (*Event, error) {
	ev := &Event{Source: SourceManual, CreatedBy: createdBy}
	if err := apply(ev, req); err != nil {
		return nil, err
	}
	if err := s.events.CreateEvent(ev); err != nil {
		return nil, apperror.Storage("Failed to create event", err)
	}
	return ev, nil
}

func (s *EventService) Update(id string, req EventRequest) (*Event, error) {
	ev, err := s.events.GetEventByID(id)
	if err != nil {
		return nil, apperror.Storage("Failed to load event", err)
	}
	if ev == nil {
		return nil, apperror.NotFound(msgEventNotFound)
	}
	if err := apply(ev, req); err != nil {
		return nil, err
	}
	if err := s.events.UpdateEvent(ev); err != nil {
		return nil, apperror.Storage("Failed to update event", err)
	}
	return ev, nil
}

func (s *EventService) Delete(id string) error {
	affected, err := s.events.DeleteEvent(id)
	if err != nil {
		return apperror.Storage("Failed to delete event", err)
	}
	if affected == 0 {
		return apperror.NotFound(msgEventNotFound)
	}
	return nil
}

func apply(ev *Event, req EventRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return apperror.Validation("Title is required")
	}
	start := req.StartsAt.UTC()
	end := start.Add(time.Hour)
	if req.AllDay {
		y, m, d := start.Date()
		start = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 0, 1)
	}
	if req.EndsAt != nil {
		end = req.EndsAt.UTC()
	}
	if end.Before(start) {
		return apperror.Validation("Event cannot end before it starts")
	}

	ev.Title = title
	ev.Description = strings.TrimSpace(req.Description)
	ev.Location = strings.TrimSpace(req.Location)
	ev.StartsAt = start
	ev.EndsAt = end
	ev.AllDay = req.AllDay
	return nil
}

// ConnectURL returns the Google consent page for adminID. The OAuth state is a
// short-lived signed token that names the admin.
func (s *EventService) ConnectURL(adminID string) (string, error) {
	if s.source == nil {
		return "", apperror.Validation(msgCalendarNotConfigured)
	}
	state, err := token.GenerateStateToken(adminID, s.secret, stateTokenTTL)
	if err != nil {
		return "", apperror.Storage("Failed to start calendar authorization", err)
	}
	return s.source.AuthURL(state), nil
}

// CompleteConnect exchanges the authorization code and stores the credential for
// the admin named in state.
func (s *EventService) CompleteConnect(ctx context.Context, code, state string) error {
	if s.source == nil {
		return apperror.Validation(msgCalendarNotConfigured)
	}
	if code == "" {
		return apperror.Validation("Authorization code is required")
	}
	claims, err := token.ValidateStateToken(state, s.secret)
	if err != nil {
		return apperror.Validation("Invalid or expired authorization state")
	}
	admin, err := s.members.FindByID(claims.MemberID)
	if err != nil {
		return apperror.Storage("Failed to verify admin", err)
	}
	if admin == nil || !admin.IsAdmin() {
		return apperror.Forbidden("Only admins can connect a calendar")
	}

	tok, err := s.source.Exchange(ctx, code)
	if err != nil {
		return apperror.Validation("Google rejected the authorization code")
	}
	if err := s.tokens.SaveToken(fromOAuth2(admin.ID, tok)); err != nil {
		return apperror.Storage("Failed to store calendar credential", err)
	}
	return nil
}

// Sync pulls upcoming events from the admin's calendar and upserts them by external id.
func (s *EventService) Sync(ctx context.Context, adminID string) (int, error) {
	if s.source == nil {
		return 0, apperror.Validation(msgCalendarNotConfigured)
	}
	stored, err := s.tokens.FindToken(adminID)
	if err != nil {
		return 0, apperror.Storage("Failed to load calendar credential", err)
	}
	if stored == nil {
		return 0, apperror.NotFound(msgCalendarNotConnected)
	}

	events, current, err := s.source.Upcoming(ctx, toOAuth2(stored), s.now())
	if err != nil {
		return 0, apperror.Storage("Failed to read Google Calendar", err)
	}
	if current != nil && current.AccessToken != stored.AccessToken {
		if err := s.tokens.SaveToken(fromOAuth2(adminID, current)); err != nil {
			return 0, apperror.Storage("Failed to store calendar credential", err)
		}
	}

	for i := range events {
		events[i].CreatedBy = adminID
	}
	if _, err := s.events.UpsertExternal(events); err != nil {
		return 0, apperror.Storage("Failed to save synced events", err)
	}
	return len(events), nil
}
