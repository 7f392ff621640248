package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sci-crm-api/internal/middleware"
	"github.com/noah-isme/sci-crm-api/internal/models"
	"github.com/noah-isme/sci-crm-api/internal/service"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
	"github.com/noah-isme/sci-crm-api/pkg/response"
)

func sessionFromContext(c *gin.Context) *service.Session {
	value, exists := c.Get(middleware.ContextSessionKey)
	if !exists {
		return nil
	}
	session, ok := value.(*service.Session)
	if !ok {
		return nil
	}
	return session
}

// viewFromContext returns the session and its current snapshot, answering
// the request itself when either is missing.
func viewFromContext(c *gin.Context) (*service.Session, *models.Snapshot, bool) {
	session := sessionFromContext(c)
	if session == nil || session.Closed() {
		response.Error(c, appErrors.ErrSessionExpired)
		return nil, nil, false
	}
	view := session.View()
	if view == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "records are still loading"))
		return nil, nil, false
	}
	return session, view, true
}
