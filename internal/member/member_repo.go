package member

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Tables holding rows owned by a member; ClearMembers removes them first.
var dependentTables = []string{"member_skills", "resource_assignments", "google_oauth_tokens"}

type ListFilter struct {
	Role   string
	Cohort string
	Search string
}

type MemberRepository interface {
	Create(m *Member) error
	Upsert(m *Member, updatePassword bool) (*Member, error)
	FindByID(id string) (*Member, error)
	FindByEmail(email string) (*Member, error)
	FindByEmailAndRole(email, role string) (*Member, error)
	List(page, pageSize int, filter ListFilter) ([]Member, int64, error)
	CountByIDs(ids []string) (int64, error)
	ClearMembers() (int64, error)
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new instance of MemberRepository.
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(m *Member) error {
	return r.db.Create(m).Error
}

// Upsert inserts m or updates the account that already owns its email.
func (r *memberRepository) Upsert(m *Member, updatePassword bool) (*Member, error) {
	columns := []string{"name", "role", "cohort", "is_lab_member", "is_alumni", "updated_at"}
	if updatePassword {
		columns = append(columns, "password_hash")
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(m).Error
	if err != nil {
		return nil, err
	}
	// the id generated for a conflicting insert is not the stored one
	return r.FindByEmail(m.Email)
}

func (r *memberRepository) FindByID(id string) (*Member, error) {
	return r.first(r.db.Where("id = ?", id))
}

func (r *memberRepository) FindByEmail(email string) (*Member, error) {
	return r.first(r.db.Where("email = ?", NormalizeEmail(email)))
}

func (r *memberRepository) FindByEmailAndRole(email, role string) (*Member, error) {
	return r.first(r.db.Where("email = ? AND role = ?", NormalizeEmail(email), role))
}

func (r *memberRepository) first(query *gorm.DB) (*Member, error) {
	var m Member
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *memberRepository) List(page, pageSize int, filter ListFilter) ([]Member, int64, error) {
	var members []Member
	var total int64

	query := r.db.Model(&Member{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Cohort != "" {
		query = query.Where("cohort = ?", filter.Cohort)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR email LIKE LOWER(?)", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("name ASC").Offset(offset).Limit(pageSize).Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *memberRepository) CountByIDs(ids []string) (int64, error) {
	var count int64
	err := r.db.Model(&Member{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

// ClearMembers deletes every member-role account and the rows that reference it.
// Admin accounts are kept so the hub stays manageable.
func (r *memberRepository) ClearMembers() (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, table := range dependentTables {
			if !tx.Migrator().HasTable(table) {
				continue
			}
			owned := tx.Model(&Member{}).Select("id").Where("role = ?", RoleMember)
			if err := tx.Exec("DELETE FROM "+table+" WHERE member_id IN (?)", owned).Error; err != nil {
				return err
			}
		}
		res := tx.Where("role = ?", RoleMember).Delete(&Member{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}
