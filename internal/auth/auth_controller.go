package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/config"
	"github.com/labcollective/memberhub/internal/member"
	"github.com/labcollective/memberhub/pkg/apperror"
	"github.com/labcollective/memberhub/pkg/responses"
	"github.com/labcollective/memberhub/pkg/token"
)

type AuthController struct {
	service *AuthService
	config  *config.Config
}

func NewAuthController(service *AuthService, cfg *config.Config) *AuthController {
	return &AuthController{service: service, config: cfg}
}

// @Summary      Register a member
// @Description  Creates a member account and returns a session token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration"
// @Success      200 {object} MemberAuthResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      409 {object} responses.ErrorResponse "A member with this email already exists"
// @Failure      500 {object} responses.ErrorResponse
// @Router       /members/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	m, err := ac.service.Register(req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	tok, err := ac.issue(m)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, MemberAuthResponse{Member: m, Token: tok})
}

// @Summary      Member login
// @Description  Email, password and the member's display name must all match.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} MemberAuthResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      401 {object} responses.ErrorResponse
// @Failure      404 {object} responses.ErrorResponse
// @Router       /members/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	m, err := ac.service.Login(req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	tok, err := ac.issue(m)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, MemberAuthResponse{Member: m, Token: tok})
}

// @Summary      Admin login
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body AdminLoginRequest true "Credentials"
// @Success      200 {object} AdminAuthResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      401 {object} responses.ErrorResponse "Invalid admin credentials"
// @Router       /admin/login [post]
func (ac *AuthController) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	admin, err := ac.service.AdminLogin(req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	tok, err := ac.issue(admin)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, AdminAuthResponse{Admin: admin, Token: tok})
}

func (ac *AuthController) issue(m *member.Member) (string, error) {
	ttl := time.Duration(ac.config.JWT.ExpiryMinutes) * time.Minute
	tok, err := token.GenerateJWT(m.ID, m.Role, ac.config.JWT.Secret, ttl)
	if err != nil {
		return "", apperror.Storage("Failed to issue session token", err)
	}
	return tok, nil
}
