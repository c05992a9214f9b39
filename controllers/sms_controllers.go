package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/resto-panel/middlewares"
	"github.com/yeremiapane/resto-panel/models"
	"github.com/yeremiapane/resto-panel/phone"
	"github.com/yeremiapane/resto-panel/repository"
	"github.com/yeremiapane/resto-panel/services"
	"github.com/yeremiapane/resto-panel/utils"
)

// SMSProvider is implemented by services.TwilioService.
type SMSProvider interface {
	SendMessage(ctx context.Context, to, body string) (*services.ProviderMessage, error)
	FetchMessage(ctx context.Context, messageSID string) (*services.ProviderMessage, error)
	ListMessages(ctx context.Context, phoneNumber string, limit int) ([]services.ProviderMessage, error)
}

// fallbackTwiML is served if the reply document itself cannot be rendered.
const fallbackTwiML = `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
	`<Response><Message>Une erreur est survenue. Veuillez réessayer ou nous appeler.</Message></Response>`

type SMSController struct {
	Repos    *repository.Repositories
	Inbound  *services.InboundSMSService
	Provider SMSProvider
	Phones   phone.Normalizer
}

func NewSMSController(repos *repository.Repositories, inbound *services.InboundSMSService, provider SMSProvider, phones phone.Normalizer) *SMSController {
	return &SMSController{Repos: repos, Inbound: inbound, Provider: provider, Phones: phones}
}

// webhookForm -> fields posted by Twilio
type webhookForm struct {
	From       string `form:"From"`
	To         string `form:"To"`
	Body       string `form:"Body"`
	MessageSid string `form:"MessageSid"`
	NumMedia   string `form:"NumMedia"`
}

// Webhook -> inbound SMS, always answered with TwiML and a 200
func (sc *SMSController) Webhook(c *gin.Context) {
	var form webhookForm
	if err := c.ShouldBind(&form); err != nil {
		utils.ErrorLogger.Printf("SMS webhook: unreadable form: %v", err)
	}
	numMedia, _ := strconv.Atoi(form.NumMedia)

	result := sc.Inbound.Handle(c.Request.Context(), services.InboundMessage{
		From:       form.From,
		To:         form.To,
		Body:       form.Body,
		MessageSID: form.MessageSid,
		NumMedia:   numMedia,
	})

	doc, err := services.MessagingResponse(result.Reply)
	if err != nil {
		utils.ErrorLogger.Printf("SMS webhook: TwiML rendering failed: %v", err)
		doc = []byte(fallbackTwiML)
	}
	c.Data(http.StatusOK, "text/xml; charset=utf-8", doc)
}

// GetHistory -> messages exchanged with a number, as the provider lists them
func (sc *SMSController) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	messages, err := sc.Provider.ListMessages(c.Request.Context(), sc.Phones.E164(c.Param("phoneNumber")), limit)
	if err != nil {
		sc.respondProviderError(c, err, "Erreur lors de la récupération de l'historique")
		return
	}
	utils.RespondList(c, messages, len(messages))
}

// SendSMS -> manual send from the panel
func (sc *SMSController) SendSMS(c *gin.Context) {
	var input struct {
		To       string `json:"to" binding:"required"`
		Message  string `json:"message" binding:"required"`
		ClientID string `json:"clientId"`
		OrderID  string `json:"orderId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(input.Message) == "" {
		utils.RespondMessage(c, http.StatusBadRequest, "Le message est vide")
		return
	}

	tenantID := middlewares.EntrepriseID(c)
	to := sc.Phones.E164(input.To)
	msg, err := sc.Provider.SendMessage(c.Request.Context(), to, input.Message)
	if err != nil {
		sc.respondProviderError(c, err, "Erreur lors de l'envoi du SMS")
		return
	}

	clientID := input.ClientID
	if clientID == "" {
		if client, err := sc.Repos.Clients.FindByPhone(c.Request.Context(), tenantID, input.To); err == nil {
			clientID = client.ID
		}
	}
	entry := &models.SMSMessage{
		EntrepriseID: tenantID,
		ClientID:     clientID,
		OrderID:      input.OrderID,
		Direction:    models.DirectionOutbound,
		From:         msg.From,
		To:           to,
		Body:         input.Message,
		ProviderSID:  msg.SID,
		Status:       msg.Status,
	}
	if err := sc.Repos.Messages.Create(c.Request.Context(), entry); err != nil {
		utils.ErrorLogger.Printf("Failed to store SMS message %s: %v", msg.SID, err)
	}

	utils.RespondJSON(c, http.StatusOK, "SMS envoyé", msg)
}

func (sc *SMSController) GetStatus(c *gin.Context) {
	msg, err := sc.Provider.FetchMessage(c.Request.Context(), c.Param("messageSid"))
	if err != nil {
		sc.respondProviderError(c, err, "Erreur lors de la récupération du statut")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "", gin.H{
		"sid":          msg.SID,
		"status":       msg.Status,
		"errorCode":    msg.ErrorCode,
		"errorMessage": msg.ErrorMessage,
		"dateSent":     msg.DateSent,
	})
}

// GetMessages -> local log of a client's conversation
func (sc *SMSController) GetMessages(c *gin.Context) {
	clientID := c.Query("clientId")
	if clientID == "" {
		utils.RespondMessage(c, http.StatusBadRequest, "clientId est requis")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	messages, err := sc.Repos.Messages.ListByClient(c.Request.Context(), middlewares.EntrepriseID(c), clientID, limit)
	if err != nil {
		respondStoreError(c, err, "")
		return
	}
	utils.RespondList(c, messages, len(messages))
}

func (sc *SMSController) respondProviderError(c *gin.Context, err error, message string) {
	if errors.Is(err, services.ErrProviderNotConfigured) {
		utils.RespondError(c, http.StatusServiceUnavailable, err)
		return
	}
	utils.ErrorLogger.Printf("%s: %v", message, err)
	utils.RespondMessage(c, http.StatusInternalServerError, message)
}
