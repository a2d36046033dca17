package resource

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResourceRepository interface {
	CreateMissing(rows []ResourceAssignment) (int64, error)
	List(memberID string) ([]ResourceAssignment, error)
	MarkViewed(id, memberID string, at time.Time) (int64, error)
}

type resourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

// CreateMissing inserts assignments whose (member, url) pair is new and reports how many were added.
func (r *resourceRepository) CreateMissing(rows []ResourceAssignment) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}, {Name: "url"}},
		DoNothing: true,
	}).CreateInBatches(&rows, 200)
	return res.RowsAffected, res.Error
}

// List returns assignments newest first. An empty memberID lists every member's.
func (r *resourceRepository) List(memberID string) ([]ResourceAssignment, error) {
	var rows []ResourceAssignment
	query := r.db.Model(&ResourceAssignment{})
	if memberID != "" {
		query = query.Where("member_id = ?", memberID)
	}
	err := query.Order("assigned_at DESC").Order("title ASC").Find(&rows).Error
	return rows, err
}

// MarkViewed stamps the first view. Rows already viewed keep the first timestamp but still count.
func (r *resourceRepository) MarkViewed(id, memberID string, at time.Time) (int64, error) {
	res := r.db.Model(&ResourceAssignment{}).
		Where("id = ? AND member_id = ?", id, memberID).
		Update("viewed_at", gorm.Expr("COALESCE(viewed_at, ?)", at))
	return res.RowsAffected, res.Error
}
