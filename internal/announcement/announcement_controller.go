package announcement

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/internal/middleware"
	"github.com/labcollective/memberhub/pkg/responses"
)

type AnnouncementController struct {
	service *AnnouncementService
}

func NewAnnouncementController(service *AnnouncementService) *AnnouncementController {
	return &AnnouncementController{service: service}
}

// List godoc
// @Summary Announcements visible to the current member
// @Description Published posts for everyone plus the caller's cohort; pinned first.
// @Tags Announcements
// @Produce json
// @Success 200 {object} map[string][]Announcement
// @Router /announcements [get]
// @Security BearerAuth
func (ac *AnnouncementController) List(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, err.Error())
		return
	}
	rows, err := ac.service.ListFor(memberID, 0)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"announcements": rows})
}

// Create godoc
// @Summary Publish an announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param announcement body AnnouncementRequest true "Announcement"
// @Success 201 {object} map[string]Announcement
// @Failure 400 {object} responses.ErrorResponse
// @Router /admin/announcements [post]
// @Security BearerAuth
func (ac *AnnouncementController) Create(c *gin.Context) {
	adminID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, err.Error())
		return
	}
	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}
	a, err := ac.service.Create(req, adminID)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"announcement": a})
}

// Update godoc
// @Summary Edit an announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param announcementId path string true "Announcement ID"
// @Param announcement body AnnouncementRequest true "Announcement"
// @Success 200 {object} map[string]Announcement
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/announcements/{announcementId} [put]
// @Security BearerAuth
func (ac *AnnouncementController) Update(c *gin.Context) {
	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}
	a, err := ac.service.Update(c.Param("announcementId"), req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"announcement": a})
}

// Delete godoc
// @Summary Remove an announcement
// @Tags Announcements
// @Produce json
// @Param announcementId path string true "Announcement ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /admin/announcements/{announcementId} [delete]
// @Security BearerAuth
func (ac *AnnouncementController) Delete(c *gin.Context) {
	if err := ac.service.Delete(c.Param("announcementId")); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendOK(c)
}
