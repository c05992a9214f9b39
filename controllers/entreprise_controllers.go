package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/yeremiapane/resto-panel/middlewares"
	"github.com/yeremiapane/resto-panel/models"
	"github.com/yeremiapane/resto-panel/repository"
	"github.com/yeremiapane/resto-panel/services"
	"github.com/yeremiapane/resto-panel/utils"
)

type EntrepriseController struct {
	Repos *repository.Repositories
}

func NewEntrepriseController(repos *repository.Repositories) *EntrepriseController {
	return &EntrepriseController{Repos: repos}
}

// entrepriseInput -> password is write-only, so the model cannot be bound directly
type entrepriseInput struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	PostalCode  string  `json:"postalCode"`
	Country     string  `json:"country"`
	Currency    string  `json:"currency"`
	Timezone    string  `json:"timezone"`
	Logo        *string `json:"logo"`
	Description string  `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// apply copies the non-empty fields of the input over e.
func (in entrepriseInput) apply(e *models.Entreprise) error {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&e.Name, in.Name)
	set(&e.Email, strings.ToLower(in.Email))
	set(&e.Phone, in.Phone)
	set(&e.Address, in.Address)
	set(&e.City, in.City)
	set(&e.PostalCode, in.PostalCode)
	set(&e.Country, in.Country)
	set(&e.Currency, in.Currency)
	set(&e.Timezone, in.Timezone)
	set(&e.Description, in.Description)
	if in.Logo != nil {
		e.Logo = in.Logo
	}
	if in.IsActive != nil {
		e.IsActive = *in.IsActive
	}
	if in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		e.Password = string(hashed)
	}
	return nil
}

// CreateEntreprise -> public sign-up of a new entreprise
func (ec *EntrepriseController) CreateEntreprise(c *gin.Context) {
	var input entrepriseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(input.Password) < 6 {
		utils.RespondMessage(c, http.StatusBadRequest, "Le mot de passe doit contenir au moins 6 caractères")
		return
	}

	entreprise := models.Entreprise{IsActive: true}
	if err := input.apply(&entreprise); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	entreprise.ApplyDefaults()
	if err := services.ValidateStruct(&entreprise); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := ec.Repos.Entreprises.Create(c.Request.Context(), &entreprise); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			utils.RespondMessage(c, http.StatusConflict, "Cet email est déjà utilisé")
			return
		}
		respondStoreError(c, err, "")
		return
	}

	utils.InfoLogger.Printf("New entreprise created (ID=%s)", entreprise.ID)
	utils.RespondJSON(c, http.StatusCreated, "Entreprise créée", entreprise)
}

// GetEntreprises -> only the authenticated entreprise is visible
func (ec *EntrepriseController) GetEntreprises(c *gin.Context) {
	entreprise, err := ec.Repos.Entreprises.FindByID(c.Request.Context(), middlewares.EntrepriseID(c))
	if err != nil {
		respondStoreError(c, err, "Entreprise non trouvée")
		return
	}
	utils.RespondList(c, []models.Entreprise{*entreprise}, 1)
}

func (ec *EntrepriseController) GetEntrepriseByID(c *gin.Context) {
	entreprise, err := ec.Repos.Entreprises.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Entreprise non trouvée")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", entreprise)
}

func (ec *EntrepriseController) UpdateEntreprise(c *gin.Context) {
	var input entrepriseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	entreprise, err := ec.Repos.Entreprises.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Entreprise non trouvée")
		return
	}
	if err := input.apply(entreprise); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := services.ValidateStruct(entreprise); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := ec.Repos.Entreprises.Update(c.Request.Context(), entreprise); err != nil {
		respondStoreError(c, err, "Entreprise non trouvée")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Entreprise mise à jour", entreprise)
}

func (ec *EntrepriseController) DeleteEntreprise(c *gin.Context) {
	if err := ec.Repos.Entreprises.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, err, "Entreprise non trouvée")
		return
	}
	utils.InfoLogger.Printf("Entreprise %s deleted", c.Param("id"))
	utils.RespondMessage(c, http.StatusOK, "Entreprise supprimée")
}
