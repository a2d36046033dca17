package feed

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/internal/announcement"
	"github.com/labcollective/memberhub/internal/event"
	"github.com/labcollective/memberhub/internal/member"
	"github.com/labcollective/memberhub/internal/middleware"
	"github.com/labcollective/memberhub/pkg/responses"
	"gorm.io/gorm"
)

type FeedController struct {
	service *FeedService
}

// GetFeed godoc
// @Summary Home feed of the current member
// @Description Announcements and recent events, pinned first then newest first.
// @Tags Feed
// @Produce json
// @Param limit query int false "Maximum items" default(20)
// @Success 200 {object} map[string][]Item
// @Failure 400 {object} responses.ErrorResponse
// @Router /feed [get]
// @Security BearerAuth
func (fc *FeedController) GetFeed(c *gin.Context) {
	memberID, err := middleware.GetMemberIDFromContext(c)
	if err != nil {
		responses.SendError(c, http.StatusUnauthorized, err.Error())
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			responses.SendError(c, http.StatusBadRequest, "limit must be a number")
			return
		}
	}
	items, err := fc.service.For(memberID, limit)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func RegisterFeedRoutes(authed *gin.RouterGroup, db *gorm.DB) {
	announcements := announcement.NewAnnouncementService(announcement.NewAnnouncementRepository(db), member.NewMemberRepository(db))
	controller := &FeedController{service: NewFeedService(announcements, event.NewEventRepository(db))}

	authed.GET("/feed", controller.GetFeed)
}
