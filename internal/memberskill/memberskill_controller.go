package memberskill

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/internal/middleware"
	"github.com/labcollective/memberhub/pkg/apperror"
	"github.com/labcollective/memberhub/pkg/responses"
)

// MemberSkillController exposes the assignment workflow.
type MemberSkillController struct {
	repo    MemberSkillRepository
	service *MemberSkillService
}

func NewMemberSkillController(repo MemberSkillRepository, service *MemberSkillService) *MemberSkillController {
	return &MemberSkillController{
		repo:    repo,
		service: service,
	}
}

type BulkAssignRequest struct {
	MemberIDs []string `json:"member_ids" binding:"required,min=1"`
	SkillIDs  []string `json:"skill_ids" binding:"required,min=1"`
}

type AssignByLevelRequest struct {
	MemberIDs []string `json:"member_ids" binding:"required,min=1"`
	Level     string   `json:"level" binding:"required,oneof=primary secondary tertiary"`
}

type CommentRequest struct {
	Comment string `json:"comment"`
}

// Approve godoc
// @Summary Approve an assignment
// @Description Moves the assignment to learning; progress is unchanged.
// @Tags MemberSkills
// @Produce json
// @Param memberId path string true "Member ID"
// @Param skillId path string true "Skill ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse "Skill assignment not found"
// @Failure 409 {object} responses.ErrorResponse "Transition not allowed"
// @Router /admin/member-skills/{memberId}/{skillId}/approve [post]
// @Security BearerAuth
func (mc *MemberSkillController) Approve(c *gin.Context) {
	mc.apply(c, EventApprove)
}

// Reject godoc
// @Summary Reject an assignment
// @Tags MemberSkills
// @Produce json
// @Param memberId path string true "Member ID"
// @Param skillId path string true "Skill ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /admin/member-skills/{memberId}/{skillId}/reject [post]
// @Security BearerAuth
func (mc *MemberSkillController) Reject(c *gin.Context) {
	mc.apply(c, EventReject)
}

// Complete godoc
// @Summary Complete an assignment
// @Description Forces status completed and progress 100 from any state except mastered.
// @Tags MemberSkills
// @Produce json
// @Param memberId path string true "Member ID"
// @Param skillId path string true "Skill ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /admin/member-skills/{memberId}/{skillId}/complete [post]
// @Security BearerAuth
func (mc *MemberSkillController) Complete(c *gin.Context) {
	mc.apply(c, EventComplete)
}

// Hold godoc
// @Summary Put an assignment on hold
// @Tags MemberSkills
// @Produce json
// @Param memberId path string true "Member ID"
// @Param skillId path string true "Skill ID"
// @Success 200 {object} responses.SuccessResponse
// @Router /admin/member-skills/{memberId}/{skillId}/hold [post]
// @Security BearerAuth
func (mc *MemberSkillController) Hold(c *gin.Context) {
	mc.apply(c, EventHold)
}

// Master godoc
// @Summary Mark a completed assignment as mastered
// @Tags MemberSkills
// @Produce json
// @Param memberId path string true "Member ID"
// @Param skillId path string true "Skill ID"
// @Success 200 {object} responses.SuccessResponse
// @Router /admin/member-skills/{memberId}/{skillId}/master [post]
// @Security BearerAuth
func (mc *MemberSkillController) Master(c *gin.Context) {
	mc.apply(c, EventMaster)
}

func (mc *MemberSkillController) apply(c *gin.Context, ev Event) {
	if _, err := mc.service.Apply(c.Param("memberId"), c.Param("skillId"), ev); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendOK(c)
}

// Comment godoc
// @Summary Set the admin note on an assignment
// @Tags MemberSkills
// @Accept json
// @Produce json
// @Param memberId path string true "Member ID"
// @Param skillId path string true "Skill ID"
// @Param comment body CommentRequest true "Note text"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse "Comment is required"
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/member-skills/{memberId}/{skillId}/comment [post]
// @Security BearerAuth
func (mc *MemberSkillController) Comment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if err := mc.service.Comment(c.Param("memberId"), c.Param("skillId"), req.Comment); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendOK(c)
}

// BulkAssign godoc
// @Summary Assign skills to members
// @Description Creates every missing member/skill pair; existing pairs are left as they are.
// @Tags MemberSkills
// @Accept json
// @Produce json
// @Param request body BulkAssignRequest true "Members and skills"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/member-skills/assign [post]
// @Security BearerAuth
func (mc *MemberSkillController) BulkAssign(c *gin.Context) {
	var req BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}
	created, err := mc.service.BulkAssign(req.MemberIDs, req.SkillIDs)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "created": created})
}

// AssignByLevel godoc
// @Summary Assign every active skill of a level
// @Tags MemberSkills
// @Accept json
// @Produce json
// @Param request body AssignByLevelRequest true "Members and level"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/member-skills/assign-by-level [post]
// @Security BearerAuth
func (mc *MemberSkillController) AssignByLevel(c *gin.Context) {
	var req AssignByLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}
	created, skills, err := mc.service.AssignByLevel(req.MemberIDs, req.Level)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "created": created, "skills": skills})
}

// List godoc
// @Summary List assignments
// @Tags MemberSkills
// @Produce json
// @Param member_id query string false "Member ID"
// @Param skill_id query string false "Skill ID"
// @Param status query string false "State, legacy names accepted"
// @Success 200 {object} map[string]interface{}
// @Router /admin/member-skills [get]
// @Security BearerAuth
func (mc *MemberSkillController) List(c *gin.Context) {
	filter := ListFilter{
		MemberID: c.Query("member_id"),
		SkillID:  c.Query("skill_id"),
	}
	if raw := c.Query("status"); raw != "" {
		state, ok := ParseState(raw)
		if !ok {
			responses.SendError(c, http.StatusBadRequest, "Unknown status: "+raw)
			return
		}
		filter.Status = state
	}
	rows, err := mc.repo.List(filter)
	if err != nil {
		responses.SendAppError(c, apperror.Storage("Failed to retrieve assignments", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"member_skills": rows})
}

// MemberWallet godoc
// @Summary Skill wallet of a member
// @Tags MemberSkills
// @Produce json
// @Param memberId path string true "Member ID"
// @Success 200 {object} Wallet
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/members/{memberId}/skills [get]
// @Security BearerAuth
func (mc *MemberSkillController) MemberWallet(c *gin.Context) {
	mc.wallet(c, c.Param("memberId"))
}

// MyWallet godoc
// @Summary Skill wallet of the current member
// @Tags MemberSkills
// @Produce json
// @Success 200 {object} Wallet
// @Router /members/me/skills [get]
// @Security BearerAuth
func (mc *MemberSkillController) MyWallet(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, err.Error())
		return
	}
	mc.wallet(c, memberID)
}

func (mc *MemberSkillController) wallet(c *gin.Context, memberID string) {
	wallet, err := mc.service.WalletFor(memberID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, wallet)
}

// Submit godoc
// @Summary Ask an admin to approve an assignment
// @Tags MemberSkills
// @Produce json
// @Param skillId path string true "Skill ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /members/me/skills/{skillId}/submit [post]
// @Security BearerAuth
func (mc *MemberSkillController) Submit(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, err.Error())
		return
	}
	if _, err := mc.service.Apply(memberID, c.Param("skillId"), EventSubmit); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendOK(c)
}

// UpdateProgress godoc
// @Summary Report progress on an assignment
// @Tags MemberSkills
// @Accept json
// @Produce json
// @Param skillId path string true "Skill ID"
// @Param request body ProgressUpdate true "Progress"
// @Success 200 {object} map[string]MemberSkill
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /members/me/skills/{skillId}/progress [put]
// @Security BearerAuth
func (mc *MemberSkillController) UpdateProgress(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, err.Error())
		return
	}
	var req ProgressUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	ms, err := mc.service.UpdateProgress(memberID, c.Param("skillId"), req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member_skill": ms})
}
