package member

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/internal/middleware"
	"github.com/labcollective/memberhub/pkg/apperror"
	"github.com/labcollective/memberhub/pkg/responses"
)

// MemberController handles member management requests.
type MemberController struct {
	repo    MemberRepository
	service *MemberService
}

func NewMemberController(repo MemberRepository, service *MemberService) *MemberController {
	return &MemberController{
		repo:    repo,
		service: service,
	}
}

// Upsert godoc
// @Summary Create or update a member
// @Description Admin upsert keyed by email
// @Tags Members
// @Accept json
// @Produce json
// @Param member body UpsertMemberRequest true "Member"
// @Success 200 {object} map[string]Member
// @Failure 400 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /admin/members [post]
// @Security BearerAuth
func (mc *MemberController) Upsert(c *gin.Context) {
	var req UpsertMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}
	m, err := mc.service.Upsert(req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": m})
}

// List godoc
// @Summary List members
// @Tags Members
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param role query string false "admin or member"
// @Param cohort query string false "Cohort label"
// @Param search query string false "Name or email fragment"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} responses.ErrorResponse
// @Router /admin/members [get]
// @Security BearerAuth
func (mc *MemberController) List(c *gin.Context) {
	page, pageSize := responses.PageParams(c)
	filter := ListFilter{
		Role:   c.Query("role"),
		Cohort: c.Query("cohort"),
		Search: strings.TrimSpace(c.Query("search")),
	}
	members, total, err := mc.repo.List(page, pageSize, filter)
	if err != nil {
		responses.SendAppError(c, apperror.Storage("Failed to retrieve members", err))
		return
	}
	responses.SendPaginated(c, "members", members, total, page, pageSize)
}

// Get godoc
// @Summary Get a member
// @Tags Members
// @Produce json
// @Param memberId path string true "Member ID"
// @Success 200 {object} map[string]Member
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/members/{memberId} [get]
// @Security BearerAuth
func (mc *MemberController) Get(c *gin.Context) {
	mc.respondWithMember(c, c.Param("memberId"))
}

// Me godoc
// @Summary Current member
// @Tags Members
// @Produce json
// @Success 200 {object} map[string]Member
// @Failure 401 {object} responses.ErrorResponse
// @Router /members/me [get]
// @Security BearerAuth
func (mc *MemberController) Me(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, err.Error())
		return
	}
	mc.respondWithMember(c, memberID)
}

func (mc *MemberController) respondWithMember(c *gin.Context, id string) {
	m, err := mc.repo.FindByID(id)
	if err != nil {
		responses.SendAppError(c, apperror.Storage("Failed to retrieve member", err))
		return
	}
	if m == nil {
		responses.SendError(c, http.StatusNotFound, "Member not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": m})
}

// ClearAll godoc
// @Summary Delete every member account
// @Description Removes all member-role accounts with their assignments, resources and tokens. Admins are kept.
// @Tags Members
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} responses.ErrorResponse
// @Router /admin/members [delete]
// @Security BearerAuth
func (mc *MemberController) ClearAll(c *gin.Context) {
	deleted, err := mc.repo.ClearMembers()
	if err != nil {
		responses.SendAppError(c, apperror.Storage("Failed to clear members", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted})
}
