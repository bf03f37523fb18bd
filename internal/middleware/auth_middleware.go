package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SmelhausJosef/Kokot-AI/config"
	"github.com/SmelhausJosef/Kokot-AI/models"
)

// CachedMembership is the per-request identity: the user plus the single
// organization membership that scopes everything they may touch.
type CachedMembership struct {
	UserID         uint   `json:"user_id"`
	Login          string `json:"login"`
	OrganizationID uint   `json:"organization_id"`
	Role           string `json:"role"`
}

const membershipCacheTTL = 10 * time.Minute

func membershipCacheKey(userID uint) string {
	return fmt.Sprintf("membership:%d", userID)
}

// AuthMiddleware authenticates the request from the auth_token cookie or a
// bearer header and resolves the caller's organization membership, caching
// it in redis when available.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("auth_token")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				abortUnauthorized(c, "Authorization token not provided")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				abortUnauthorized(c, "Invalid Authorization header format")
				return
			}
			tokenStr = parts[1]
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return config.JwtKey, nil
		})
		if err != nil || !token.Valid {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "Invalid token claims")
			return
		}
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			abortUnauthorized(c, "Invalid user ID format in token")
			return
		}
		userID := uint(userIDFloat)

		if config.RDB != nil {
			cached, err := config.RDB.Get(config.Ctx, membershipCacheKey(userID)).Result()
			if err == nil {
				var membership CachedMembership
				if json.Unmarshal([]byte(cached), &membership) == nil {
					setContextAndProceed(c, &membership)
					return
				}
			} else if !errors.Is(err, redis.Nil) {
				slog.Error("redis GET failed", "error", err, "user_id", userID)
			}
		}

		var dbMembership models.OrganizationMembership
		err = config.DB.Preload("User").
			Where("user_id = ?", userID).
			Order("id asc").
			First(&dbMembership).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortForbidden(c, "User has no organization membership")
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve membership"})
			return
		}

		membership := CachedMembership{
			UserID:         dbMembership.UserID,
			Login:          dbMembership.User.Login,
			OrganizationID: dbMembership.OrganizationID,
			Role:           dbMembership.Role,
		}

		if config.RDB != nil {
			if payload, err := json.Marshal(membership); err == nil {
				if err := config.RDB.Set(config.Ctx, membershipCacheKey(userID), payload, membershipCacheTTL).Err(); err != nil {
					slog.Error("failed to cache membership", "error", err, "user_id", userID)
				}
			}
		}

		setContextAndProceed(c, &membership)
	}
}

// InvalidateMembershipCache drops the cached membership after a role change.
func InvalidateMembershipCache(userID uint) {
	if config.RDB == nil {
		return
	}
	if err := config.RDB.Del(config.Ctx, membershipCacheKey(userID)).Err(); err != nil {
		slog.Error("failed to invalidate membership cache", "error", err, "user_id", userID)
	}
}

func setContextAndProceed(c *gin.Context, membership *CachedMembership) {
	c.Set("user_id", membership.UserID)
	c.Set("login", membership.Login)
	c.Set("organization_id", membership.OrganizationID)
	c.Set("role", membership.Role)
	c.Next()
}

// RequireRoles allows the request through only when the caller's normalized
// role is on the list. CEOs pass everywhere.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get("role")
		if !exists {
			abortForbidden(c, "Role not found in context")
			return
		}
		role := models.NormalizeRole(roleValue.(string))
		if role == models.RoleCEO {
			c.Next()
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		abortForbidden(c, "Role is not allowed for this action")
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}

func abortForbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": message})
}
