package skill

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/internal/middleware"
	"github.com/labcollective/memberhub/pkg/apperror"
	"github.com/labcollective/memberhub/pkg/responses"
)

const msgNameRequired = "Skill name must not be blank"

// SkillController handles API requests related to skills.
type SkillController struct {
	repo SkillRepository
}

func NewSkillController(repo SkillRepository) *SkillController {
	return &SkillController{repo: repo}
}

type CreateSkillRequest struct {
	Name         string        `json:"name" binding:"required,max=255"`
	Description  string        `json:"description" binding:"omitempty,max=5000"`
	Category     string        `json:"category" binding:"omitempty,max=100"`
	Icon         string        `json:"icon" binding:"omitempty,max=100"`
	Color        string        `json:"color" binding:"omitempty,max=32"`
	Level        string        `json:"level" binding:"required,oneof=primary secondary tertiary"`
	ParentID     *string       `json:"parent_id"`
	ContentItems []ContentItem `json:"content_items"`
	Milestones   []Milestone   `json:"milestones"`
	IsActive     *bool         `json:"is_active"`
}

type UpdateSkillRequest struct {
	Name         *string        `json:"name" binding:"omitempty,min=1,max=255"`
	Description  *string        `json:"description" binding:"omitempty,max=5000"`
	Category     *string        `json:"category" binding:"omitempty,max=100"`
	Icon         *string        `json:"icon" binding:"omitempty,max=100"`
	Color        *string        `json:"color" binding:"omitempty,max=32"`
	Level        *string        `json:"level" binding:"omitempty,oneof=primary secondary tertiary"`
	ParentID     *string        `json:"parent_id"`
	ContentItems *[]ContentItem `json:"content_items"`
	Milestones   *[]Milestone   `json:"milestones"`
}

// CreateSkill godoc
// @Summary Create a skill
// @Tags Skills
// @Accept json
// @Produce json
// @Param skill body CreateSkillRequest true "Skill"
// @Success 201 {object} map[string]Skill
// @Failure 400 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /admin/skills [post]
// @Security BearerAuth
func (sc *SkillController) CreateSkill(c *gin.Context) {
	var req CreateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		responses.SendError(c, http.StatusBadRequest, msgNameRequired)
		return
	}
	if err := validateMilestones(req.Milestones); err != nil {
		responses.SendAppError(c, err)
		return
	}

	createdBy, _ := middleware.GetMemberIDFromContext(c)
	skill := Skill{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Category:     req.Category,
		Icon:         req.Icon,
		Color:        req.Color,
		Level:        req.Level,
		ParentID:     emptyToNil(req.ParentID),
		ContentItems: orEmpty(req.ContentItems),
		Milestones:   orEmpty(req.Milestones),
		IsActive:     true,
		CreatedBy:    createdBy,
	}
	if req.IsActive != nil {
		skill.IsActive = *req.IsActive
	}

	if err := sc.repo.CreateSkill(&skill); err != nil {
		responses.SendAppError(c, apperror.Storage("Failed to create skill", err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"skill": skill})
}

// ListActiveSkills godoc
// @Summary List active skills
// @Tags Skills
// @Produce json
// @Param level query string false "primary, secondary or tertiary"
// @Param category query string false "Category"
// @Success 200 {object} map[string]interface{}
// @Router /skills [get]
// @Security BearerAuth
func (sc *SkillController) ListActiveSkills(c *gin.Context) {
	active := true
	sc.list(c, &active)
}

// ListAllSkills godoc
// @Summary List every skill, including inactive ones
// @Tags Skills
// @Produce json
// @Param is_active query boolean false "Filter by active flag"
// @Success 200 {object} map[string]interface{}
// @Router /admin/skills [get]
// @Security BearerAuth
func (sc *SkillController) ListAllSkills(c *gin.Context) {
	var active *bool
	if raw := c.Query("is_active"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			active = &v
		}
	}
	sc.list(c, active)
}

func (sc *SkillController) list(c *gin.Context, active *bool) {
	page, pageSize := responses.PageParams(c)
	filter := ListFilter{
		Level:    c.Query("level"),
		Category: c.Query("category"),
		IsActive: active,
	}
	skills, total, err := sc.repo.ListSkills(page, pageSize, filter)
	if err != nil {
		responses.SendAppError(c, apperror.Storage("Failed to retrieve skills", err))
		return
	}
	responses.SendPaginated(c, "skills", skills, total, page, pageSize)
}

// GetSkill godoc
// @Summary Get a skill
// @Tags Skills
// @Produce json
// @Param skillId path string true "Skill ID"
// @Success 200 {object} map[string]Skill
// @Failure 404 {object} responses.ErrorResponse
// @Router /skills/{skillId} [get]
// @Security BearerAuth
func (sc *SkillController) GetSkill(c *gin.Context) {
	skill, err := sc.repo.GetSkillByID(c.Param("skillId"))
	if err != nil {
		responses.SendAppError(c, apperror.Storage("Failed to retrieve skill", err))
		return
	}
	if skill == nil {
		responses.SendError(c, http.StatusNotFound, "Skill not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"skill": skill})
}

// UpdateSkill godoc
// @Summary Update a skill
// @Tags Skills
// @Accept json
// @Produce json
// @Param skillId path string true "Skill ID"
// @Param skill body UpdateSkillRequest true "Fields to change"
// @Success 200 {object} map[string]Skill
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/skills/{skillId} [put]
// @Security BearerAuth
func (sc *SkillController) UpdateSkill(c *gin.Context) {
	var req UpdateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	skill, err := sc.repo.GetSkillByID(c.Param("skillId"))
	if err != nil {
		responses.SendAppError(c, apperror.Storage("Failed to retrieve skill", err))
		return
	}
	if skill == nil {
		responses.SendError(c, http.StatusNotFound, "Skill not found")
		return
	}

	if req.Name != nil {
		skill.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		skill.Description = *req.Description
	}
	if req.Category != nil {
		skill.Category = *req.Category
	}
	if req.Icon != nil {
		skill.Icon = *req.Icon
	}
	if req.Color != nil {
		skill.Color = *req.Color
	}
	if req.Level != nil {
		skill.Level = *req.Level
	}
	if req.ParentID != nil {
		skill.ParentID = emptyToNil(req.ParentID)
	}
	if req.ContentItems != nil {
		skill.ContentItems = orEmpty(*req.ContentItems)
	}
	if req.Milestones != nil {
		if err := validateMilestones(*req.Milestones); err != nil {
			responses.SendAppError(c, err)
			return
		}
		skill.Milestones = orEmpty(*req.Milestones)
	}

	if err := sc.repo.UpdateSkill(skill); err != nil {
		responses.SendAppError(c, apperror.Storage("Failed to update skill", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"skill": skill})
}

// ApproveSkill godoc
// @Summary Approve a skill
// @Description Marks the skill active so it can be assigned.
// @Tags Skills
// @Produce json
// @Param skillId path string true "Skill ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/skills/{skillId}/approve [post]
// @Security BearerAuth
func (sc *SkillController) ApproveSkill(c *gin.Context) {
	sc.setActive(c, true)
}

// RejectSkill godoc
// @Summary Reject a skill
// @Tags Skills
// @Produce json
// @Param skillId path string true "Skill ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/skills/{skillId}/reject [post]
// @Security BearerAuth
func (sc *SkillController) RejectSkill(c *gin.Context) {
	sc.setActive(c, false)
}

func (sc *SkillController) setActive(c *gin.Context, active bool) {
	affected, err := sc.repo.SetActive(c.Param("skillId"), active)
	if err != nil {
		responses.SendAppError(c, apperror.Storage("Failed to update skill status", err))
		return
	}
	if affected == 0 {
		responses.SendError(c, http.StatusNotFound, "Skill not found")
		return
	}
	responses.SendOK(c)
}

func validateMilestones(milestones []Milestone) error {
	seen := make(map[string]struct{}, len(milestones))
	for _, m := range milestones {
		if strings.TrimSpace(m.ID) == "" || strings.TrimSpace(m.Title) == "" {
			return apperror.Validation("Every milestone needs an id and a title")
		}
		if _, dup := seen[m.ID]; dup {
			return apperror.Validation("Milestone ids must be unique: " + m.ID)
		}
		seen[m.ID] = struct{}{}
	}
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
