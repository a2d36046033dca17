package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/config"
	"github.com/labcollective/memberhub/internal/member"
	"github.com/labcollective/memberhub/utils"
	"gorm.io/gorm"
)

// RegisterAuthRoutes mounts the public login and registration endpoints.
func RegisterAuthRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, hasher utils.Hasher) {
	authService := NewAuthService(member.NewMemberRepository(db), hasher)
	authController := NewAuthController(authService, appConfig)

	router.POST("/members/register", authController.Register)
	router.POST("/members/login", authController.Login)
	router.POST("/admin/login", authController.AdminLogin)
}
