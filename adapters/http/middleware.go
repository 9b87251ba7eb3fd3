package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/devang9890/resume/pkg/apperror"
	"github.com/devang9890/resume/pkg/auth"
	"github.com/devang9890/resume/pkg/logger"
)

const (
	GinContextKeyOwnerID = "ownerID"
)

func AuthMiddleware(jwtSvc *auth.JWTService, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, apperror.NewUnauthorized("Authorization header is required", nil))
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			abortWith(c, apperror.NewUnauthorized("Invalid token format", nil))
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			log.Debug("Rejected token", zap.Error(err))
			abortWith(c, apperror.NewUnauthorized("Invalid or expired token", err))
			return
		}

		c.Set(GinContextKeyOwnerID, claims.OwnerID)

		c.Next()
	}
}

func GetOwnerIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	ownerID, ok := c.Get(GinContextKeyOwnerID)
	if !ok {
		return uuid.Nil, false
	}
	ownerIDUUID, ok := ownerID.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return ownerIDUUID, true
}

// ErrorMiddleware renders the last error a handler attached with c.Error.
// It must run before any middleware that can abort.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.NewInternal("unexpected error", err)
		}
		status := apperror.ToHTTPStatus(appErr)
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err,
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.String("kind", string(appErr.Kind)))
		} else {
			log.Debug("Request rejected", zap.String("path", c.FullPath()), zap.String("kind", string(appErr.Kind)), zap.String("details", appErr.Details))
		}
		c.JSON(status, appErr.ToJSON())
	}
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimitMiddleware limits an authenticated route per owner. A limiter
// outage lets the request through.
func RateLimitMiddleware(limiter RateLimiter, scope string, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		ownerID, ok := GetOwnerIDFromGinContext(c)
		if !ok {
			c.Next()
			return
		}

		allowed, err := limiter.Allow(c.Request.Context(), scope+":"+ownerID.String())
		if err != nil {
			log.Warn("Rate limiter unavailable, allowing request", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			abortWith(c, apperror.NewTooManyRequests(scope+" limit reached"))
			return
		}
		c.Next()
	}
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
