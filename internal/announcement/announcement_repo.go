package announcement

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Audience selects which announcements a reader may see. Everyone skips the cohort filter.
type Audience struct {
	Cohort   string
	Everyone bool
}

type AnnouncementRepository interface {
	Create(a *Announcement) error
	GetByID(id string) (*Announcement, error)
	ListVisible(audience Audience, now time.Time, limit int) ([]Announcement, error)
	Update(a *Announcement) error
	Delete(id string) (int64, error)
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(a *Announcement) error {
	return r.db.Create(a).Error
}

func (r *announcementRepository) GetByID(id string) (*Announcement, error) {
	var a Announcement
	if err := r.db.Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// ListVisible returns published announcements for audience, pinned first and newest
// first within each group. A limit of zero or less means no limit.
func (r *announcementRepository) ListVisible(audience Audience, now time.Time, limit int) ([]Announcement, error) {
	var rows []Announcement
	query := r.db.Where("published_at <= ?", now.UTC())
	if !audience.Everyone {
		query = query.Where("cohort = '' OR cohort = ?", audience.Cohort)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Order("pinned DESC").Order("published_at DESC").Find(&rows).Error
	return rows, err
}

func (r *announcementRepository) Update(a *Announcement) error {
	return r.db.Save(a).Error
}

func (r *announcementRepository) Delete(id string) (int64, error) {
	res := r.db.Where("id = ?", id).Delete(&Announcement{})
	return res.RowsAffected, res.Error
}
