package resource

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/internal/middleware"
	"github.com/labcollective/memberhub/pkg/apperror"
	"github.com/labcollective/memberhub/pkg/responses"
)

type ResourceController struct {
	repo    ResourceRepository
	service *ResourceService
}

func NewResourceController(repo ResourceRepository, service *ResourceService) *ResourceController {
	return &ResourceController{repo: repo, service: service}
}

// Assign godoc
// @Summary Assign a learning resource
// @Description Idempotent per member and URL.
// @Tags Resources
// @Accept json
// @Produce json
// @Param request body AssignRequest true "Resource"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/resources/assign [post]
// @Security BearerAuth
func (rc *ResourceController) Assign(c *gin.Context) {
	adminID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, err.Error())
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}
	created, err := rc.service.Assign(req, adminID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "created": created})
}

// List godoc
// @Summary List resource assignments
// @Tags Resources
// @Produce json
// @Param member_id query string false "Member ID"
// @Success 200 {object} map[string][]ResourceAssignment
// @Router /admin/resources [get]
// @Security BearerAuth
func (rc *ResourceController) List(c *gin.Context) {
	rc.list(c, c.Query("member_id"))
}

// Mine godoc
// @Summary Resources of the current member
// @Tags Resources
// @Produce json
// @Success 200 {object} map[string][]ResourceAssignment
// @Router /members/me/resources [get]
// @Security BearerAuth
func (rc *ResourceController) Mine(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, err.Error())
		return
	}
	rc.list(c, memberID)
}

func (rc *ResourceController) list(c *gin.Context, memberID string) {
	rows, err := rc.repo.List(memberID)
	if err != nil {
		responses.SendAppError(c, apperror.Storage("Failed to retrieve resources", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": rows})
}

// MarkViewed godoc
// @Summary Mark a resource as viewed
// @Tags Resources
// @Produce json
// @Param resourceId path string true "Resource assignment ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /members/me/resources/{resourceId}/viewed [post]
// @Security BearerAuth
func (rc *ResourceController) MarkViewed(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, err.Error())
		return
	}
	if err := rc.service.MarkViewed(c.Param("resourceId"), memberID); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendOK(c)
}
