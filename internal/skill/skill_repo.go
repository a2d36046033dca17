package skill

import (
	"errors"

	"gorm.io/gorm"
)

type ListFilter struct {
	Level    string
	Category string
	IsActive *bool
}

type SkillRepository interface {
	CreateSkill(skill *Skill) error
	GetSkillByID(id string) (*Skill, error)
	ListSkills(page, pageSize int, filter ListFilter) ([]Skill, int64, error)
	ListActiveByLevel(level string) ([]Skill, error)
	UpdateSkill(skill *Skill) error
	SetActive(id string, active bool) (int64, error)
	CountByIDs(ids []string) (int64, error)
}

type skillRepository struct {
	db *gorm.DB
}

// NewSkillRepository creates a new instance of SkillRepository.
func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) CreateSkill(skill *Skill) error {
	return r.db.Create(skill).Error
}

func (r *skillRepository) GetSkillByID(id string) (*Skill, error) {
	var skill Skill
	err := r.db.Where("id = ?", id).First(&skill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &skill, nil
}

func (r *skillRepository) ListSkills(page, pageSize int, filter ListFilter) ([]Skill, int64, error) {
	var skills []Skill
	var total int64

	query := r.db.Model(&Skill{})
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("name ASC").Offset(offset).Limit(pageSize).Find(&skills).Error; err != nil {
		return nil, 0, err
	}
	return skills, total, nil
}

func (r *skillRepository) ListActiveByLevel(level string) ([]Skill, error) {
	var skills []Skill
	err := r.db.Where("level = ? AND is_active = ?", level, true).Order("name ASC").Find(&skills).Error
	return skills, err
}

func (r *skillRepository) UpdateSkill(skill *Skill) error {
	return r.db.Save(skill).Error
}

// SetActive toggles the approval flag and reports how many rows matched.
func (r *skillRepository) SetActive(id string, active bool) (int64, error) {
	res := r.db.Model(&Skill{}).Where("id = ?", id).Update("is_active", active)
	return res.RowsAffected, res.Error
}

func (r *skillRepository) CountByIDs(ids []string) (int64, error) {
	var count int64
	err := r.db.Model(&Skill{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}
