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

type OrderController struct {
	Repos   *repository.Repositories
	Service *services.OrderService
	Events  EventPublisher
}

func NewOrderController(repos *repository.Repositories, service *services.OrderService, events EventPublisher) *OrderController {
	return &OrderController{Repos: repos, Service: service, Events: orNoop(events)}
}

// GetAllOrders -> the tenant's orders, newest first
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Repos.Orders.List(c.Request.Context(), middlewares.EntrepriseID(c), models.OrderStatus(c.Query("status")))
	if err != nil {
		respondStoreError(c, err, "")
		return
	}
	utils.RespondList(c, orders, len(orders))
}

func (oc *OrderController) GetOrdersByStatus(c *gin.Context) {
	status := models.OrderStatus(c.Param("status"))
	if !status.Valid() {
		utils.RespondMessage(c, http.StatusBadRequest, "Statut invalide")
		return
	}
	orders, err := oc.Repos.Orders.List(c.Request.Context(), middlewares.EntrepriseID(c), status)
	if err != nil {
		respondStoreError(c, err, "")
		return
	}
	utils.RespondList(c, orders, len(orders))
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	order, err := oc.Repos.Orders.FindByID(c.Request.Context(), middlewares.EntrepriseID(c), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Commande non trouvée")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", order)
}

// CreateOrder -> the client is resolved from the phone number, the confirmation SMS goes out afterwards
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Service.Create(c.Request.Context(), middlewares.EntrepriseID(c), input)
	if err != nil {
		respondStoreError(c, err, "Commande non trouvée")
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Commande créée avec succès", order)
}

// ConfirmOrder -> resends the confirmation SMS
func (oc *OrderController) ConfirmOrder(c *gin.Context) {
	order, err := oc.Repos.Orders.FindByID(c.Request.Context(), middlewares.EntrepriseID(c), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Commande non trouvée")
		return
	}

	sid, err := oc.Service.SendConfirmation(c.Request.Context(), order)
	if err != nil {
		utils.ErrorLogger.Printf("Confirmation SMS for order %s failed: %v", order.ID, err)
		utils.RespondMessage(c, http.StatusInternalServerError, "Erreur lors de l'envoi du SMS de confirmation")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "SMS de confirmation envoyé", gin.H{
		"orderId":    order.ID,
		"messageSid": sid,
	})
}

func (oc *OrderController) UpdateOrder(c *gin.Context) {
	var input services.UpdateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Service.Update(c.Request.Context(), middlewares.EntrepriseID(c), c.Param("id"), input)
	if err != nil {
		respondStoreError(c, err, "Commande non trouvée")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Commande mise à jour", order)
}

func (oc *OrderController) DeleteOrder(c *gin.Context) {
	tenantID := middlewares.EntrepriseID(c)
	order, err := oc.Repos.Orders.FindByID(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "Commande non trouvée")
		return
	}
	if err := oc.Repos.Orders.Delete(c.Request.Context(), tenantID, order.ID); err != nil {
		respondStoreError(c, err, "Commande non trouvée")
		return
	}

	oc.Events.PublishOrderEvent(tenantID, services.EventOrderDeleted, order)
	utils.RespondMessage(c, http.StatusOK, "Commande supprimée")
}
