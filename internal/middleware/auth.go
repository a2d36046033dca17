package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/pkg/token"
	"gorm.io/gorm"
)

const (
	AuthMemberIDKey = "auth_member_id"
	AuthRoleKey     = "auth_role"
)

type principal struct {
	ID   string
	Role string
}

// AuthMiddleware resolves the bearer session token to a member that still exists.
// The role placed in the context is read from the members table, not from the token.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		bearerToken := strings.Fields(authHeader)
		if len(bearerToken) != 2 || !strings.EqualFold(bearerToken[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format. Expected: Bearer <token>"})
			return
		}

		claims, err := token.ValidateJWT(bearerToken[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
			return
		}

		var p principal
		err = db.Table("members").Select("id, role").Where("id = ?", claims.MemberID).Take(&p).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Member not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify session"})
			return
		}

		c.Set(AuthMemberIDKey, p.ID)
		c.Set(AuthRoleKey, p.Role)
		c.Next()
	}
}

// GetMemberIDFromContext extracts the authenticated member id.
func GetMemberIDFromContext(c *gin.Context) (string, error) {
	memberID := c.GetString(AuthMemberIDKey)
	if memberID == "" {
		return "", errors.New("member ID not found in context")
	}
	return memberID, nil
}

// GetRoleFromContext extracts the authenticated member's role.
func GetRoleFromContext(c *gin.Context) (string, error) {
	role := c.GetString(AuthRoleKey)
	if role == "" {
		return "", errors.New("role not found in context")
	}
	return role, nil
}
