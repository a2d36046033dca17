package resource

import (
	"strings"
	"time"

	"github.com/labcollective/memberhub/internal/member"
	"github.com/labcollective/memberhub/internal/models"
	"github.com/labcollective/memberhub/pkg/apperror"
)

type ResourceService struct {
	repo    ResourceRepository
	members member.MemberRepository
	now     func() time.Time
}

func NewResourceService(repo ResourceRepository, members member.MemberRepository) *ResourceService {
	return &ResourceService{repo: repo, members: members, now: time.Now}
}

// Assign hands the resource to every listed member that does not hold its URL yet.
func (s *ResourceService) Assign(req AssignRequest, assignedBy string) (int64, error) {
	memberIDs := models.UniqueStrings(req.MemberIDs)
	title := strings.TrimSpace(req.Title)
	url := strings.TrimSpace(req.URL)
	if len(memberIDs) == 0 {
		return 0, apperror.Validation("At least one member is required")
	}
	if title == "" || url == "" {
		return 0, apperror.Validation("Title and URL are required")
	}

	count, err := s.members.CountByIDs(memberIDs)
	if err != nil {
		return 0, apperror.Storage("Failed to verify members", err)
	}
	if count != int64(len(memberIDs)) {
		return 0, apperror.NotFound("One or more members were not found")
	}

	now := s.now()
	rows := make([]ResourceAssignment, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		rows = append(rows, ResourceAssignment{
			MemberID:    memberID,
			Title:       title,
			Description: strings.TrimSpace(req.Description),
			URL:         url,
			Category:    strings.TrimSpace(req.Category),
			AssignedBy:  assignedBy,
			AssignedAt:  now,
		})
	}
	created, err := s.repo.CreateMissing(rows)
	if err != nil {
		return 0, apperror.Storage("Failed to assign resource", err)
	}
	return created, nil
}

func (s *ResourceService) MarkViewed(id, memberID string) error {
	affected, err := s.repo.MarkViewed(id, memberID, s.now())
	if err != nil {
		return apperror.Storage("Failed to update resource", err)
	}
	if affected == 0 {
		return apperror.NotFound("Resource not found")
	}
	return nil
}
