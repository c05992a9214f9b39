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

type ClientController struct {
	Repos  *repository.Repositories
	Events EventPublisher
}

func NewClientController(repos *repository.Repositories, events EventPublisher) *ClientController {
	return &ClientController{Repos: repos, Events: orNoop(events)}
}

// GetAllClients -> every client of the tenant
func (cc *ClientController) GetAllClients(c *gin.Context) {
	clients, err := cc.Repos.Clients.List(c.Request.Context(), middlewares.EntrepriseID(c))
	if err != nil {
		respondStoreError(c, err, "")
		return
	}
	utils.RespondList(c, clients, len(clients))
}

// GetClientByPhone -> lookup through every stored form of the number
func (cc *ClientController) GetClientByPhone(c *gin.Context) {
	client, err := cc.Repos.Clients.FindByPhone(c.Request.Context(), middlewares.EntrepriseID(c), c.Param("phone"))
	if err != nil {
		respondStoreError(c, err, "Client non trouvé avec ce numéro de téléphone")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", client)
}

func (cc *ClientController) GetClientByID(c *gin.Context) {
	client, err := cc.Repos.Clients.FindByID(c.Request.Context(), middlewares.EntrepriseID(c), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Client non trouvé")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", client)
}

// GetClientCoordinates -> phone and delivery address of the client
func (cc *ClientController) GetClientCoordinates(c *gin.Context) {
	client, err := cc.Repos.Clients.FindByID(c.Request.Context(), middlewares.EntrepriseID(c), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Client non trouvé")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", gin.H{
		"name":        client.Name,
		"phone":       client.PhoneNumber,
		"address":     client.Address,
		"city":        client.City,
		"postalCode":  client.PostalCode,
		"fullAddress": client.FullAddress(),
	})
}

func (cc *ClientController) CreateClient(c *gin.Context) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	client.ID = ""
	client.EntrepriseID = middlewares.EntrepriseID(c)
	client.OrderCount = 0
	client.TotalSpent = 0
	client.LastOrderDate = nil
	if err := services.ValidateStruct(&client); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := cc.Repos.Clients.Create(c.Request.Context(), &client); err != nil {
		respondStoreError(c, err, "")
		return
	}

	utils.InfoLogger.Printf("New client created (ID=%s, tenant %s)", client.ID, client.EntrepriseID)
	cc.Events.PublishClientEvent(client.EntrepriseID, EventClientCreated, &client)
	utils.RespondJSON(c, http.StatusCreated, "Client créé avec succès", client)
}

func (cc *ClientController) UpdateClient(c *gin.Context) {
	tenantID := middlewares.EntrepriseID(c)
	client, err := cc.Repos.Clients.FindByID(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Client non trouvé")
		return
	}

	// order counters are owned by the order service
	orderCount, totalSpent, lastOrder := client.OrderCount, client.TotalSpent, client.LastOrderDate
	if err := c.ShouldBindJSON(client); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	client.ID = c.Param("id")
	client.EntrepriseID = tenantID
	client.OrderCount, client.TotalSpent, client.LastOrderDate = orderCount, totalSpent, lastOrder

	if err := services.ValidateStruct(client); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := cc.Repos.Clients.Update(c.Request.Context(), client); err != nil {
		respondStoreError(c, err, "Client non trouvé")
		return
	}

	cc.Events.PublishClientEvent(tenantID, EventClientUpdated, client)
	utils.RespondJSON(c, http.StatusOK, "Client mis à jour", client)
}

func (cc *ClientController) DeleteClient(c *gin.Context) {
	tenantID := middlewares.EntrepriseID(c)
	client, err := cc.Repos.Clients.FindByID(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Client non trouvé")
		return
	}
	if err := cc.Repos.Clients.Delete(c.Request.Context(), tenantID, client.ID); err != nil {
		respondStoreError(c, err, "Client non trouvé")
		return
	}

	cc.Events.PublishClientEvent(tenantID, EventClientDeleted, client)
	utils.RespondJSON(c, http.StatusOK, "Client supprimé", client)
}
