package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/yeremiapane/resto-panel/middlewares"
	"github.com/yeremiapane/resto-panel/repository"
	"github.com/yeremiapane/resto-panel/utils"
)

type AuthController struct {
	Repos *repository.Repositories
}

func NewAuthController(repos *repository.Repositories) *AuthController {
	return &AuthController{Repos: repos}
}

// Login -> authenticates an entreprise and returns a JWT
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	entreprise, err := ac.Repos.Entreprises.FindByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		// same message for an unknown email and a wrong password
		utils.RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(entreprise.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if !entreprise.IsActive {
		utils.RespondError(c, http.StatusForbidden, ErrEntrepriseInactive)
		return
	}

	token, err := utils.GenerateToken(entreprise.ID, entreprise.Email)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Entreprise %s logged in", entreprise.ID)
	utils.RespondJSON(c, http.StatusOK, "Connexion réussie", gin.H{
		"token":      token,
		"entreprise": entreprise,
	})
}

// Me -> profile of the authenticated entreprise
func (ac *AuthController) Me(c *gin.Context) {
	entreprise, err := ac.Repos.Entreprises.FindByID(c.Request.Context(), middlewares.EntrepriseID(c))
	if err != nil {
		respondStoreError(c, err, "Entreprise non trouvée")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", entreprise)
}

// Logout -> the token is refused until it expires
func (ac *AuthController) Logout(c *gin.Context) {
	expiresAt := time.Now().Add(24 * time.Hour)
	if claims, ok := c.Get(middlewares.ContextClaims); ok {
		if cc, ok := claims.(*utils.CustomClaims); ok && cc.ExpiresAt != nil {
			expiresAt = cc.ExpiresAt.Time
		}
	}
	utils.BlacklistToken(c.GetString(middlewares.ContextToken), expiresAt)
	utils.RespondMessage(c, http.StatusOK, "Déconnexion réussie")
}
