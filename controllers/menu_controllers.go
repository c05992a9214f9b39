package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/resto-panel/middlewares"
	"github.com/yeremiapane/resto-panel/models"
	"github.com/yeremiapane/resto-panel/repository"
	"github.com/yeremiapane/resto-panel/services"
	"github.com/yeremiapane/resto-panel/utils"
)

type MenuController struct {
	Repos *repository.Repositories
}

func NewMenuController(repos *repository.Repositories) *MenuController {
	return &MenuController{Repos: repos}
}

func validCategory(category string) bool {
	for _, cat := range models.MenuCategories {
		if cat == category {
			return true
		}
	}
	return false
}

// GetAllMenus -> the tenant's menu, filtered by ?category=
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	items, err := mc.Repos.Menu.List(c.Request.Context(), middlewares.EntrepriseID(c), c.Query("category"))
	if err != nil {
		respondStoreError(c, err, "")
		return
	}
	utils.RespondList(c, items, len(items))
}

func (mc *MenuController) GetMenuByCategory(c *gin.Context) {
	category := c.Param("category")
	if !validCategory(category) {
		utils.RespondMessage(c, http.StatusBadRequest, "Catégorie invalide")
		return
	}
	items, err := mc.Repos.Menu.List(c.Request.Context(), middlewares.EntrepriseID(c), category)
	if err != nil {
		respondStoreError(c, err, "")
		return
	}
	utils.RespondList(c, items, len(items))
}

func (mc *MenuController) GetMenuByID(c *gin.Context) {
	item, err := mc.Repos.Menu.FindByID(c.Request.Context(), middlewares.EntrepriseID(c), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Article non trouvé")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", item)
}

func (mc *MenuController) CreateMenu(c *gin.Context) {
	var item models.MenuItem
	item.Available = true
	item.PreparationTime = models.DefaultPreparationTime
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item.ID = ""
	item.EntrepriseID = middlewares.EntrepriseID(c)
	if err := services.ValidateStruct(&item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := mc.Repos.Menu.Create(c.Request.Context(), &item); err != nil {
		respondStoreError(c, err, "")
		return
	}
	utils.InfoLogger.Printf("Menu item %s created (tenant %s)", item.ID, item.EntrepriseID)
	utils.RespondJSON(c, http.StatusCreated, "Article créé", item)
}

func (mc *MenuController) UpdateMenu(c *gin.Context) {
	tenantID := middlewares.EntrepriseID(c)
	item, err := mc.Repos.Menu.FindByID(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Article non trouvé")
		return
	}

	if err := c.ShouldBindJSON(item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	// id and entreprise cannot be changed through the body
	item.ID = c.Param("id")
	item.EntrepriseID = tenantID
	if err := services.ValidateStruct(item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := mc.Repos.Menu.Update(c.Request.Context(), item); err != nil {
		respondStoreError(c, err, "Article non trouvé")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Article mis à jour", item)
}

func (mc *MenuController) DeleteMenu(c *gin.Context) {
	if err := mc.Repos.Menu.Delete(c.Request.Context(), middlewares.EntrepriseID(c), c.Param("id")); err != nil {
		respondStoreError(c, err, "Article non trouvé")
		return
	}
	utils.RespondMessage(c, http.StatusOK, "Article supprimé")
}
