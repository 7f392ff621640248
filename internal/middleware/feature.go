package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
	"github.com/noah-isme/sci-crm-api/pkg/response"
)

// Feature answers FEATURE_DISABLED for every route it guards while enabled
// is false.
func Feature(name string, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			response.Error(c, appErrors.Clone(appErrors.ErrFeatureOff, name+" is disabled"))
			return
		}
		c.Next()
	}
}
