package skill

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterSkillRoutes mounts the skill catalogue. authed and admin already carry their middleware.
func RegisterSkillRoutes(authed, admin *gin.RouterGroup, db *gorm.DB) {
	skillController := NewSkillController(NewSkillRepository(db))

	memberSkills := authed.Group("/skills")
	{
		memberSkills.GET("", skillController.ListActiveSkills)
		memberSkills.GET("/:skillId", skillController.GetSkill)
	}

	adminSkills := admin.Group("/skills")
	{
		adminSkills.GET("", skillController.ListAllSkills)
		adminSkills.POST("", skillController.CreateSkill)
		adminSkills.PUT("/:skillId", skillController.UpdateSkill)
		adminSkills.POST("/:skillId/approve", skillController.ApproveSkill)
		adminSkills.POST("/:skillId/reject", skillController.RejectSkill)
	}
}
