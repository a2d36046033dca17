package memberskill

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	MemberID string
	SkillID  string
	Status   State
}

type MemberSkillRepository interface {
	FindByPair(memberID, skillID string) (*MemberSkill, error)
	List(filter ListFilter) ([]MemberSkill, error)
	ListForMember(memberID string) ([]MemberSkill, error)
	CreateMissing(rows []MemberSkill) (int64, error)
	UpdateIfStatus(memberID, skillID string, expected State, updates map[string]interface{}) (int64, error)
	UpdateFields(memberID, skillID string, updates map[string]interface{}) (int64, error)
}

type memberSkillRepository struct {
	db *gorm.DB
}

// NewMemberSkillRepository creates a new instance of MemberSkillRepository.
func NewMemberSkillRepository(db *gorm.DB) MemberSkillRepository {
	return &memberSkillRepository{db: db}
}

func (r *memberSkillRepository) FindByPair(memberID, skillID string) (*MemberSkill, error) {
	var ms MemberSkill
	err := r.db.Where("member_id = ? AND skill_id = ?", memberID, skillID).First(&ms).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ms, nil
}

func (r *memberSkillRepository) List(filter ListFilter) ([]MemberSkill, error) {
	var rows []MemberSkill
	query := r.db.Preload("Skill")
	if filter.MemberID != "" {
		query = query.Where("member_id = ?", filter.MemberID)
	}
	if filter.SkillID != "" {
		query = query.Where("skill_id = ?", filter.SkillID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	err := query.Order("assigned_date DESC").Find(&rows).Error
	return rows, err
}

func (r *memberSkillRepository) ListForMember(memberID string) ([]MemberSkill, error) {
	return r.List(ListFilter{MemberID: memberID})
}

// CreateMissing inserts rows whose (member, skill) pair is not stored yet and
// returns how many were inserted. Existing pairs are left untouched.
func (r *memberSkillRepository) CreateMissing(rows []MemberSkill) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}, {Name: "skill_id"}},
		DoNothing: true,
	}).CreateInBatches(&rows, 200)
	return res.RowsAffected, res.Error
}

// UpdateIfStatus applies updates only while the row is still in the expected state.
func (r *memberSkillRepository) UpdateIfStatus(memberID, skillID string, expected State, updates map[string]interface{}) (int64, error) {
	res := r.db.Model(&MemberSkill{}).
		Where("member_id = ? AND skill_id = ? AND status = ?", memberID, skillID, expected).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *memberSkillRepository) UpdateFields(memberID, skillID string, updates map[string]interface{}) (int64, error) {
	res := r.db.Model(&MemberSkill{}).
		Where("member_id = ? AND skill_id = ?", memberID, skillID).
		Updates(updates)
	return res.RowsAffected, res.Error
}
