package announcement

import (
	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/internal/member"
	"gorm.io/gorm"
)

func RegisterAnnouncementRoutes(authed, admin *gin.RouterGroup, db *gorm.DB) {
	service := NewAnnouncementService(NewAnnouncementRepository(db), member.NewMemberRepository(db))
	controller := NewAnnouncementController(service)

	authed.GET("/announcements", controller.List)

	adminAnnouncements := admin.Group("/announcements")
	{
		adminAnnouncements.POST("", controller.Create)
		adminAnnouncements.PUT("/:announcementId", controller.Update)
		adminAnnouncements.DELETE("/:announcementId", controller.Delete)
	}
}
