package middleware

import (
	"errors"
	"log"
	"strings"

	"radhe_backend/pkg/models"
	"radhe_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	// TokenCookie is the session cookie name
	TokenCookie = "token"

	userKey   = "user"
	claimsKey = "claims"
)

// AuthenticateToken verifies the session token and loads the caller into the context
func AuthenticateToken(tm *utils.TokenManager, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""

		// Check cookie first
		if cookieToken, err := c.Cookie(TokenCookie); err == nil && cookieToken != "" {
			token = cookieToken
		}

		// If not in cookie, check Authorization header
		if token == "" {
			parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}

		if token == "" {
			utils.UnauthorizedResponse(c, "Access denied. No token provided.")
			return
		}

		claims, err := tm.Verify(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				utils.UnauthorizedResponse(c, "Token expired.")
			} else {
				utils.UnauthorizedResponse(c, "Invalid token.")
			}
			return
		}

		var user models.User
		if err := db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("[%s] Error fetching user %d: %v", RequestIDFrom(c), claims.UserID, err)
			}
			utils.UnauthorizedResponse(c, "Invalid token. User not found.")
			return
		}

		c.Set(userKey, &user)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// AuthorizeRoles checks that the authenticated user has one of roles
func AuthorizeRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			utils.UnauthorizedResponse(c, "Authentication required.")
			return
		}

		for _, role := range roles {
			if user.UserType == role {
				c.Next()
				return
			}
		}

		utils.ForbiddenResponse(c, "Access denied. Insufficient permissions.")
	}
}

// RestrictToOwner chains authentication with the Owner role check
func RestrictToOwner(tm *utils.TokenManager, db *gorm.DB) []gin.HandlerFunc {
	return []gin.HandlerFunc{AuthenticateToken(tm, db), AuthorizeRoles(models.RoleOwner)}
}

// CurrentUser returns the user loaded by AuthenticateToken, or nil
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// CurrentClaims returns the verified token claims, or nil
func CurrentClaims(c *gin.Context) *utils.TokenClaims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.TokenClaims)
	return claims
}
