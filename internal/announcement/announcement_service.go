package announcement

import (
	"strings"
	"time"

	"github.com/labcollective/memberhub/internal/member"
	"github.com/labcollective/memberhub/pkg/apperror"
)

const msgAnnouncementNotFound = "Announcement not found"

type AnnouncementService struct {
	repo    AnnouncementRepository
	members member.MemberRepository
	now     func() time.Time
}

func NewAnnouncementService(repo AnnouncementRepository, members member.MemberRepository) *AnnouncementService {
	return &AnnouncementService{repo: repo, members: members, now: time.Now}
}

// AudienceFor resolves what memberID may read. Admins see every cohort.
func (s *AnnouncementService) AudienceFor(memberID string) (Audience, error) {
	m, err := s.members.FindByID(memberID)
	if err != nil {
		return Audience{}, apperror.Storage("Failed to load member", err)
	}
	if m == nil {
		return Audience{}, apperror.NotFound("Member not found")
	}
	return Audience{Cohort: m.Cohort, Everyone: m.IsAdmin()}, nil
}

func (s *AnnouncementService) ListFor(memberID string, limit int) ([]Announcement, error) {
	audience, err := s.AudienceFor(memberID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListVisible(audience, s.now(), limit)
	if err != nil {
		return nil, apperror.Storage("Failed to retrieve announcements", err)
	}
	return rows, nil
}

func (s *AnnouncementService) Create(req AnnouncementRequest, createdBy string) (*Announcement, error) {
	a := &Announcement{CreatedBy: createdBy}
	if err := s.apply(a, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(a); err != nil {
		return nil, apperror.Storage("Failed to create announcement", err)
	}
	return a, nil
}

func (s *AnnouncementService) Update(id string, req AnnouncementRequest) (*Announcement, error) {
	a, err := s.repo.GetByID(id)
	if err != nil {
		return nil, apperror.Storage("Failed to load announcement", err)
	}
	if a == nil {
		return nil, apperror.NotFound(msgAnnouncementNotFound)
	}
	if err := s.apply(a, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(a); err != nil {
		return nil, apperror.Storage("Failed to update announcement", err)
	}
	return a, nil
}

func (s *AnnouncementService) Delete(id string) error {
	affected, err := s.repo.Delete(id)
	if err != nil {
		return apperror.Storage("Failed to delete announcement", err)
	}
	if affected == 0 {
		return apperror.NotFound(msgAnnouncementNotFound)
	}
	return nil
}

func (s *AnnouncementService) apply(a *Announcement, req AnnouncementRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return apperror.Validation("Title is required")
	}
	a.Title = title
	a.Body = strings.TrimSpace(req.Body)
	a.Pinned = req.Pinned
	a.Cohort = strings.TrimSpace(req.Cohort)
	switch {
	case req.PublishedAt != nil:
		a.PublishedAt = req.PublishedAt.UTC()
	case a.PublishedAt.IsZero():
		a.PublishedAt = s.now().UTC()
	}
	return nil
}
