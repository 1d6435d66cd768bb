package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/etnair/internal/domain"
	authservice "github.com/Domenick1991/etnair/internal/service/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxActorID   = "actor_id"
	ctxActorRole = "actor_role"
	ctxToken     = "token"
)

// AuthRequired extracts and verifies the bearer token and stores the actor in
// the gin context. Handlers read it back with actor().
func AuthRequired(auth authservice.AuthUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := auth.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or revoked token"})
			return
		}

		c.Set(ctxActorID, claims.UserID)
		c.Set(ctxActorRole, claims.Role)
		c.Set(ctxToken, token)
		c.Next()
	}
}

// RequestLogger logs one line per request with a request id.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
		logger.Info("http",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", id,
		)
	}
}

func actor(c *gin.Context) (int64, domain.Role) {
	id, _ := c.Get(ctxActorID)
	role, _ := c.Get(ctxActorRole)
	actorID, _ := id.(int64)
	actorRole, _ := role.(domain.Role)
	return actorID, actorRole
}

// writeError maps domain outcomes to HTTP statuses. Anything unmapped is an
// internal failure and must not leak details to the client.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrInactiveListing):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrPrerequisiteNotMet):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAvailabilityConflict),
		errors.Is(err, domain.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrFailedTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
