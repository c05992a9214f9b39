package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/resto-panel/utils"
)

// Context keys set by the auth middlewares.
const (
	ContextEntrepriseID = "entreprise_id"
	ContextEmail        = "email"
	ContextToken        = "token"
	ContextClaims       = "claims"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Non autorisé, token manquant"))
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Format du token invalide"))
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if !authenticate(c, tokenString) {
			return
		}
		c.Next()
	}
}

// authenticate validates the token and stores the tenant in the context, aborting on failure.
func authenticate(c *gin.Context, tokenString string) bool {
	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		c.Abort()
		return false
	}

	c.Set(ContextEntrepriseID, claims.EntrepriseID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextToken, tokenString)
	c.Set(ContextClaims, claims)
	return true
}

// EntrepriseID -> tenant of the authenticated request
func EntrepriseID(c *gin.Context) string {
	return c.GetString(ContextEntrepriseID)
}
