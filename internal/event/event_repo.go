package event

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository interface {
	CreateEvent(ev *Event) error
	GetEventByID(id string) (*Event, error)
	ListEvents(from, to *time.Time) ([]Event, error)
	UpdateEvent(ev *Event) error
	DeleteEvent(id string) (int64, error)
	UpsertExternal(events []Event) (int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new instance of EventRepository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) CreateEvent(ev *Event) error {
	return r.db.Create(ev).Error
}

func (r *eventRepository) GetEventByID(id string) (*Event, error) {
	var ev Event
	if err := r.db.Where("id = ?", id).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ev, nil
}

// ListEvents returns events overlapping [from, to], ordered by start. Either bound may be nil.
func (r *eventRepository) ListEvents(from, to *time.Time) ([]Event, error) {
	var events []Event
	query := r.db.Model(&Event{})
	if from != nil {
		query = query.Where("ends_at >= ?", from.UTC())
	}
	if to != nil {
		query = query.Where("starts_at <= ?", to.UTC())
	}
	err := query.Order("starts_at ASC").Find(&events).Error
	return events, err
}

func (r *eventRepository) UpdateEvent(ev *Event) error {
	return r.db.Save(ev).Error
}

func (r *eventRepository) DeleteEvent(id string) (int64, error) {
	res := r.db.Where("id = ?", id).Delete(&Event{})
	return res.RowsAffected, res.Error
}

// UpsertExternal inserts events by external id, refreshing the ones already stored.
func (r *eventRepository) UpsertExternal(events []Event) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}
	res := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "location", "starts_at", "ends_at", "all_day", "html_link", "updated_at",
		}),
	}).CreateInBatches(&events, 100)
	return res.RowsAffected, res.Error
}

type TokenRepository interface {
	SaveToken(tok *OAuthToken) error
	FindToken(memberID string) (*OAuthToken, error)
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// SaveToken keeps one credential per admin. A missing refresh token leaves the stored one in place.
func (r *tokenRepository) SaveToken(tok *OAuthToken) error {
	columns := []string{"access_token", "token_type", "expiry", "updated_at"}
	if tok.RefreshToken != "" {
		columns = append(columns, "refresh_token")
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(tok).Error
}

func (r *tokenRepository) FindToken(memberID string) (*OAuthToken, error) {
	var tok OAuthToken
	if err := r.db.Where("member_id = ?", memberID).First(&tok).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tok, nil
}
