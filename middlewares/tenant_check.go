package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/resto-panel/utils"
)

// SameTenant only lets an entreprise read or change its own record (/entreprises/:id).
func SameTenant(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, exists := c.Get(ContextEntrepriseID)
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Non autorisé"))
			c.Abort()
			return
		}

		if c.Param(param) != tenantID {
			utils.RespondError(c, http.StatusForbidden, errors.New("Accès refusé à cette entreprise"))
			c.Abort()
			return
		}
		c.Next()
	}
}
