package models

// OrderStatus values are stored as-is, the panel displays them directly.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "En attente"
	OrderStatusInProgress OrderStatus = "En cours"
	OrderStatusReady      OrderStatus = "Prêt"
	OrderStatusDelivered  OrderStatus = "Livré"
	OrderStatusCancelled  OrderStatus = "Annulé"
)

// IsTerminal -> Ready, Delivered and Cancelled orders are never touched by the SMS flow
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusReady || s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type OrderType string

const (
	OrderTypeDelivery OrderType = "Livraison"
	OrderTypePickup   OrderType = "À emporter"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "Impayé"
	PaymentStatusPaid     PaymentStatus = "Payé"
	PaymentStatusRefunded PaymentStatus = "Remboursé"
)

type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "Carte"
	PaymentMethodCash   PaymentMethod = "Espèces"
	PaymentMethodCheque PaymentMethod = "Chèque"
)

type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "Actif"
	ClientStatusInactive ClientStatus = "Inactif"
	ClientStatusBlocked  ClientStatus = "Bloqué"
)

// MessageDirection tells whether an SMS came from a client or was sent by the restaurant.
type MessageDirection string

const (
	DirectionInbound  MessageDirection = "inbound"
	DirectionOutbound MessageDirection = "outbound"
)
