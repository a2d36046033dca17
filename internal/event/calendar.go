package event

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/labcollective/memberhub/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const maxSyncedEvents = 250

// CalendarSource is the remote calendar events are synced from.
type CalendarSource interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	// Upcoming lists events starting from since and returns the token in use afterwards,
	// which differs from tok when it had to be refreshed.
	Upcoming(ctx context.Context, tok *oauth2.Token, since time.Time) ([]Event, *oauth2.Token, error)
}

// GoogleCalendar reads a single Google calendar with an admin's offline credential.
type GoogleCalendar struct {
	oauth      *oauth2.Config
	calendarID string
}

func NewGoogleCalendar(cfg *config.Config) *GoogleCalendar {
	return &GoogleCalendar{
		oauth: &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Scopes:       []string{calendar.CalendarReadonlyScope},
			Endpoint:     google.Endpoint,
		},
		calendarID: cfg.Google.CalendarID,
	}
}

func (g *GoogleCalendar) AuthURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (g *GoogleCalendar) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return g.oauth.Exchange(ctx, code)
}

func (g *GoogleCalendar) Upcoming(ctx context.Context, tok *oauth2.Token, since time.Time) ([]Event, *oauth2.Token, error) {
	ts := g.oauth.TokenSource(ctx, tok)
	srv, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, nil, fmt.Errorf("create calendar client: %w", err)
	}

	list, err := srv.Events.List(g.calendarID).
		Context(ctx).
		SingleEvents(true).
		ShowDeleted(false).
		TimeMin(since.UTC().Format(time.RFC3339)).
		OrderBy("startTime").
		MaxResults(maxSyncedEvents).
		Do()
	if err != nil {
		return nil, nil, fmt.Errorf("list calendar events: %w", err)
	}

	events := make([]Event, 0, len(list.Items))
	for _, item := range list.Items {
		ev, ok := fromGoogle(item)
		if ok {
			events = append(events, ev)
		}
	}

	current, err := ts.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("read refreshed token: %w", err)
	}
	return events, current, nil
}

func fromGoogle(item *calendar.Event) (Event, bool) {
	if item == nil || item.Id == "" || item.Status == "cancelled" || item.Start == nil {
		return Event{}, false
	}
	start, allDay, err := parseGoogleTime(item.Start)
	if err != nil {
		return Event{}, false
	}
	end := start
	if item.End != nil {
		if t, _, err := parseGoogleTime(item.End); err == nil {
			end = t
		}
	}
	id := item.Id
	title := strings.TrimSpace(item.Summary)
	if title == "" {
		title = "(untitled)"
	}
	return Event{
		Title:       title,
		Description: item.Description,
		Location:    item.Location,
		StartsAt:    start,
		EndsAt:      end,
		AllDay:      allDay,
		Source:      SourceGoogle,
		ExternalID:  &id,
		HTMLLink:    item.HtmlLink,
	}, true
}

func parseGoogleTime(dt *calendar.EventDateTime) (time.Time, bool, error) {
	if dt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, dt.DateTime)
		return t.UTC(), false, err
	}
	t, err := time.Parse("2006-01-02", dt.Date)
	return t, true, err
}

func toOAuth2(tok *OAuthToken) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
	}
}

func fromOAuth2(memberID string, tok *oauth2.Token) *OAuthToken {
	return &OAuthToken{
		MemberID:     memberID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry.UTC(),
	}
}
