package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/resto-panel/repository"
	"github.com/yeremiapane/resto-panel/services"
	"github.com/yeremiapane/resto-panel/utils"
)

var (
	ErrInvalidCredentials = errors.New("Email ou mot de passe incorrect")
	ErrEntrepriseInactive = errors.New("Ce compte entreprise est désactivé")
)

// respondStoreError maps repository and service errors to HTTP codes.
func respondStoreError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.RespondMessage(c, http.StatusNotFound, notFound)
	case errors.Is(err, repository.ErrDuplicate):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrValidation):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrClientNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrAmbiguousClient):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.ErrorLogger.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		utils.RespondMessage(c, http.StatusInternalServerError, "Erreur serveur")
	}
}
