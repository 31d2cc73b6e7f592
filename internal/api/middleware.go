package api

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"interviewbuddy/domain/core"
	"interviewbuddy/internal/errors"
)

const (
	sessionName = "buddy_session"
	userIDKey   = "userID"
)

// AuthRequired resolves the caller from the cookie session or a bearer token
// and stores the id under userIDKey. Anonymous requests get 401.
func AuthRequired(tokens *TokenIssuer, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := sessions.Default(c).Get(userIDKey).(string); ok && id != "" {
			c.Set(userIDKey, id)
			c.Next()
			return
		}

		if raw, ok := bearerToken(c.GetHeader("Authorization")); ok {
			claims, err := tokens.ValidateToken(raw)
			if err == nil {
				c.Set(userIDKey, claims.UserID)
				c.Next()
				return
			}
			log.Debug("rejected bearer token", zap.Error(err))
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":    "Please log in to continue",
			"code":     errors.CodeUnauthorized,
			"redirect": "/login",
		})
	}
}

// currentUser returns the id set by AuthRequired.
func currentUser(c *gin.Context) core.UserID {
	return core.UserID(c.GetString(userIDKey))
}
