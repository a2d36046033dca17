package memberskill

import (
	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/internal/member"
	"github.com/labcollective/memberhub/internal/skill"
	"gorm.io/gorm"
)

// RegisterMemberSkillRoutes mounts the assignment workflow. authed and admin already carry
// the session and admin middleware.
func RegisterMemberSkillRoutes(authed, admin *gin.RouterGroup, db *gorm.DB) {
	repo := NewMemberSkillRepository(db)
	service := NewMemberSkillService(repo, member.NewMemberRepository(db), skill.NewSkillRepository(db))
	controller := NewMemberSkillController(repo, service)

	mine := authed.Group("/members/me/skills")
	{
		mine.GET("", controller.MyWallet)
		mine.POST("/:skillId/submit", controller.Submit)
		mine.PUT("/:skillId/progress", controller.UpdateProgress)
	}

	admin.GET("/members/:memberId/skills", controller.MemberWallet)

	adminAssignments := admin.Group("/member-skills")
	{
		adminAssignments.GET("", controller.List)
		adminAssignments.POST("/assign", controller.BulkAssign)
		adminAssignments.POST("/assign-by-level", controller.AssignByLevel)

		pair := adminAssignments.Group("/:memberId/:skillId")
		pair.POST("/approve", controller.Approve)
		pair.POST("/reject", controller.Reject)
		pair.POST("/complete", controller.Complete)
		pair.POST("/comment", controller.Comment)
		pair.POST("/hold", controller.Hold)
		pair.POST("/master", controller.Master)
	}
}
