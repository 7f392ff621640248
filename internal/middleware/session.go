package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sci-crm-api/internal/models"
	"github.com/noah-isme/sci-crm-api/internal/service"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
	"github.com/noah-isme/sci-crm-api/pkg/logger"
	"github.com/noah-isme/sci-crm-api/pkg/response"
)

// Gin context keys set by Session.
const (
	ContextSessionKey = "currentSession"
	ContextClaimsKey  = "currentClaims"
	ContextTokenKey   = "currentToken"
)

type sessionResolver interface {
	ResolveSession(token string) (*service.Session, *models.SessionClaims, error)
}

// Session requires a bearer token naming a live session. Requests whose
// session was torn down are rejected even if the token has not expired.
func Session(resolver sessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			return
		}
		token := strings.TrimSpace(parts[1])

		session, claims, err := resolver.ResolveSession(token)
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Set(ContextSessionKey, session)
		c.Set(ContextClaimsKey, claims)
		c.Set(ContextTokenKey, token)
		c.Set(logger.SessionKey, session.ID)
		c.Next()
	}
}
