package member

import (
	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/utils"
	"gorm.io/gorm"
)

// RegisterMemberRoutes mounts member management. authed and admin are groups that already
// carry the session and admin middleware.
func RegisterMemberRoutes(authed, admin *gin.RouterGroup, db *gorm.DB, hasher utils.Hasher) {
	memberRepo := NewMemberRepository(db)
	memberController := NewMemberController(memberRepo, NewMemberService(memberRepo, hasher))

	authed.GET("/members/me", memberController.Me)

	adminMembers := admin.Group("/members")
	{
		adminMembers.GET("", memberController.List)
		adminMembers.POST("", memberController.Upsert)
		adminMembers.DELETE("", memberController.ClearAll)
		adminMembers.GET("/:memberId", memberController.Get)
	}
}
