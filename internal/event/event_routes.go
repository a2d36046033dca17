package event

import (
	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/config"
	"github.com/labcollective/memberhub/internal/member"
	"gorm.io/gorm"
)

// RegisterEventRoutes mounts events and the calendar link. The OAuth callback sits on the
// public group because Google's redirect carries no session; the signed state names the admin.
// source may be nil, in which case the calendar endpoints answer 400.
func RegisterEventRoutes(public, authed, admin *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, source CalendarSource) {
	repo := NewEventRepository(db)
	service := NewEventService(repo, NewTokenRepository(db), member.NewMemberRepository(db), source, appConfig.JWT.Secret)
	controller := NewEventController(repo, service, appConfig)

	public.GET("/calendar/callback", controller.CalendarCallback)

	events := authed.Group("/events")
	{
		events.GET("", controller.ListEvents)
		events.GET("/:eventId", controller.GetEvent)
		events.GET("/:eventId/ics", controller.DownloadICS)
	}

	adminEvents := admin.Group("/events")
	{
		adminEvents.POST("", controller.CreateEvent)
		adminEvents.PUT("/:eventId", controller.UpdateEvent)
		adminEvents.DELETE("/:eventId", controller.DeleteEvent)
	}

	admin.GET("/calendar/connect", controller.ConnectCalendar)
	admin.POST("/calendar/sync", controller.SyncCalendar)
}
