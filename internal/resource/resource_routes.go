package resource

import (
	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/internal/member"
	"gorm.io/gorm"
)

func RegisterResourceRoutes(authed, admin *gin.RouterGroup, db *gorm.DB) {
	repo := NewResourceRepository(db)
	controller := NewResourceController(repo, NewResourceService(repo, member.NewMemberRepository(db)))

	mine := authed.Group("/members/me/resources")
	{
		mine.GET("", controller.Mine)
		mine.POST("/:resourceId/viewed", controller.MarkViewed)
	}

	adminResources := admin.Group("/resources")
	{
		adminResources.GET("", controller.List)
		adminResources.POST("/assign", controller.Assign)
	}
}
