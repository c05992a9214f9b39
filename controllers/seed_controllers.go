package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/resto-panel/repository"
	"github.com/yeremiapane/resto-panel/services"
	"github.com/yeremiapane/resto-panel/utils"
)

// SeedController bootstraps demo or onboarding data: an entreprise with its menu and clients.
type SeedController struct {
	Service *services.SeedService
}

func NewSeedController(service *services.SeedService) *SeedController {
	return &SeedController{Service: service}
}

type seedSummary struct {
	Entreprise interface{} `json:"entreprise"`
	Menus      int         `json:"menus"`
	Clients    int         `json:"clients"`
}

func (sc *SeedController) CreateEntrepriseWithData(c *gin.Context) {
	var input services.SeedEntreprise
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res, err := sc.Service.Seed(c.Request.Context(), input)
	if err != nil {
		respondSeedError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Entreprise créée avec menus et clients", res)
}

func (sc *SeedController) SeedMultipleEntreprises(c *gin.Context) {
	var input struct {
		Entreprises []services.SeedEntreprise `json:"entreprises"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(input.Entreprises) == 0 {
		utils.RespondMessage(c, http.StatusBadRequest, "Veuillez fournir un tableau d'entreprises")
		return
	}

	results, err := sc.Service.SeedMany(c.Request.Context(), input.Entreprises)
	if err != nil {
		respondSeedError(c, err)
		return
	}

	summary := make([]seedSummary, 0, len(results))
	for _, r := range results {
		summary = append(summary, seedSummary{Entreprise: r.Entreprise, Menus: len(r.Menus), Clients: len(r.Clients)})
	}
	utils.RespondJSON(c, http.StatusCreated, fmt.Sprintf("%d entreprises créées avec succès", len(results)), summary)
}

func respondSeedError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrDuplicate) {
		utils.RespondMessage(c, http.StatusConflict, "Cet email est déjà utilisé")
		return
	}
	respondStoreError(c, err, "")
}
