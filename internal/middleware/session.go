package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/edutrain/training-backend/internal/response"
	"github.com/edutrain/training-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// SessionValidator checks a token ID against the live session.
type SessionValidator interface {
	ValidateSession(ctx context.Context, userID uint64, jti string) error
}

// CheckSingleSession validates the JWT's JTI against the active session.
// A later login or a logout makes older tokens fail here.
func CheckSingleSession(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if err := sessions.ValidateSession(c.Request.Context(), claims.UserID, claims.ID); err != nil {
			if errors.Is(err, service.ErrSessionInvalidated) {
				response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
				return
			}
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}

		c.Next()
	}
}
