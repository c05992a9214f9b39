package controllers

import (
	"github.com/yeremiapane/resto-panel/models"
	"github.com/yeremiapane/resto-panel/services"
)

// EventPublisher is implemented by live.Hub.
type EventPublisher interface {
	services.OrderEventPublisher
	PublishClientEvent(tenantID, event string, client *models.Client)
}

const (
	EventClientCreated = "client_created"
	EventClientUpdated = "client_updated"
	EventClientDeleted = "client_deleted"
)

type noopEvents struct{}

func (noopEvents) PublishOrderEvent(string, string, *models.Order)   {}
func (noopEvents) PublishClientEvent(string, string, *models.Client) {}

func orNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopEvents{}
	}
	return p
}
