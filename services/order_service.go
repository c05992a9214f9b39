package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/resto-panel/address"
	"github.com/yeremiapane/resto-panel/models"
	"github.com/yeremiapane/resto-panel/phone"
	"github.com/yeremiapane/resto-panel/repository"
	"github.com/yeremiapane/resto-panel/utils"
)

var (
	ErrValidation      = errors.New("données invalides")
	ErrClientNotFound  = errors.New("aucun client trouvé pour ce numéro de téléphone")
	ErrAmbiguousClient = errors.New("plusieurs clients correspondent à ce numéro de téléphone")
)

var validate = validator.New()

// ValidateStruct runs the validate tags of a model.
func ValidateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

type OrderItemInput struct {
	MenuItemID string   `json:"menuItemId"`
	Name       string   `json:"name"`
	Quantity   int      `json:"quantity"`
	Price      *float64 `json:"price"`
}

// CreateOrderInput -> body of POST /api/orders. The phone can be given at the top
// level or inside customer, like the panel does.
type CreateOrderInput struct {
	PhoneNumber string `json:"phoneNumber"`
	Customer    struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"customer"`
	Type          models.OrderType     `json:"type"`
	Items         []OrderItemInput     `json:"items"`
	Address       models.Address       `json:"address"`
	Total         *float64             `json:"total"`
	Status        models.OrderStatus   `json:"status"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	Notes         string               `json:"notes"`
	DeliveryTime  *time.Time           `json:"deliveryTime"`
}

func (in CreateOrderInput) phone() string {
	if p := strings.TrimSpace(in.PhoneNumber); p != "" {
		return p
	}
	return strings.TrimSpace(in.Customer.Phone)
}

// OrderService creates orders for a known client and notifies the client by SMS.
type OrderService struct {
	repos     *repository.Repositories
	messenger Messenger
	publisher OrderEventPublisher
	phones    phone.Normalizer
	opts      SMSOptions
}

func NewOrderService(repos *repository.Repositories, messenger Messenger, publisher OrderEventPublisher, phones phone.Normalizer, opts SMSOptions) *OrderService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &OrderService{repos: repos, messenger: messenger, publisher: publisher, phones: phones, opts: opts.withDefaults()}
}

// ResolveClient finds the single client of the tenant behind phoneNumber.
func (s *OrderService) ResolveClient(ctx context.Context, tenantID, phoneNumber string) (*models.Client, error) {
	clients, err := s.repos.Clients.FindAllByPhone(ctx, tenantID, phoneNumber)
	if err != nil {
		return nil, err
	}
	switch len(clients) {
	case 0:
		return nil, ErrClientNotFound
	case 1:
		return &clients[0], nil
	}
	return nil, ErrAmbiguousClient
}

// Create persists the order with customer and address snapshots taken from the client.
// Everything after the insert (client counters, live event, SMS) is best effort.
func (s *OrderService) Create(ctx context.Context, tenantID string, in CreateOrderInput) (*models.Order, error) {
	phoneNumber := in.phone()
	if phoneNumber == "" {
		return nil, fmt.Errorf("%w: le numéro de téléphone est requis", ErrValidation)
	}

	client, err := s.ResolveClient(ctx, tenantID, phoneNumber)
	if err != nil {
		return nil, err
	}

	items, total, err := s.buildItems(ctx, tenantID, in.Items)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 && in.Total != nil {
		total = decimal.NewFromFloat(*in.Total).Round(2)
	}

	orderType := in.Type
	if orderType == "" {
		orderType = models.OrderTypeDelivery
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: statut %q inconnu", ErrValidation, in.Status)
	}

	order := &models.Order{
		EntrepriseID:  tenantID,
		ClientID:      client.ID,
		Type:          orderType,
		Customer:      models.CustomerSnapshot{Name: client.Name, Phone: client.PhoneNumber},
		Address:       address.Merge(client.DeliveryAddress(s.opts.DefaultCountry), address.FromAddress(in.Address)),
		Items:         items,
		Total:         total.InexactFloat64(),
		Status:        in.Status,
		PaymentStatus: in.PaymentStatus,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
		DeliveryTime:  in.DeliveryTime,
	}
	order.ApplyDefaults(s.opts.DefaultCountry)

	if err := ValidateStruct(order); err != nil {
		return nil, err
	}
	if err := s.repos.Orders.Create(ctx, order); err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Order %s created for client %s (tenant %s)", order.ID, client.ID, tenantID)

	if err := s.repos.Clients.RecordOrder(ctx, client.ID, order.Total, order.CreatedAt); err != nil {
		utils.ErrorLogger.Printf("Failed to update counters of client %s: %v", client.ID, err)
	}
	s.publisher.PublishOrderEvent(tenantID, EventOrderCreated, order)

	if _, err := s.SendConfirmation(ctx, order); err != nil {
		utils.ErrorLogger.Printf("Confirmation SMS for order %s not sent: %v", order.ID, err)
	}
	return order, nil
}

// SendConfirmation sends the order confirmation SMS and logs it. It returns the provider id.
func (s *OrderService) SendConfirmation(ctx context.Context, order *models.Order) (string, error) {
	if s.messenger == nil {
		return "", ErrProviderNotConfigured
	}

	to := s.phones.E164(order.Customer.Phone)
	body := ComposeOrderConfirmation(order, s.opts.DeliveryEstimate)

	sid, err := s.messenger.Send(ctx, to, body)
	if err != nil {
		return "", err
	}

	if s.repos.Messages != nil {
		entry := &models.SMSMessage{
			EntrepriseID: order.EntrepriseID,
			ClientID:     order.ClientID,
			OrderID:      order.ID,
			Direction:    models.DirectionOutbound,
			To:           to,
			Body:         body,
			ProviderSID:  sid,
			Status:       "sent",
		}
		if err := s.repos.Messages.Create(ctx, entry); err != nil {
			utils.ErrorLogger.Printf("Failed to store SMS message: %v", err)
		}
	}
	return sid, nil
}

// buildItems snapshots name and price from the menu when the request omits them.
func (s *OrderService) buildItems(ctx context.Context, tenantID string, inputs []OrderItemInput) ([]models.OrderItem, decimal.Decimal, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	quantities := make([]int, 0, len(inputs))
	prices := make([]float64, 0, len(inputs))

	for i, in := range inputs {
		item := models.OrderItem{MenuItemID: in.MenuItemID, Name: in.Name, Quantity: in.Quantity}
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		if item.Quantity < 0 {
			return nil, decimal.Zero, fmt.Errorf("%w: quantité invalide pour l'article %d", ErrValidation, i+1)
		}
		if in.Price != nil {
			item.Price = *in.Price
		}

		if in.MenuItemID != "" && (in.Name == "" || in.Price == nil) {
			menuItem, err := s.repos.Menu.FindByID(ctx, tenantID, in.MenuItemID)
			if errors.Is(err, repository.ErrNotFound) {
				return nil, decimal.Zero, fmt.Errorf("%w: article %s introuvable", ErrValidation, in.MenuItemID)
			}
			if err != nil {
				return nil, decimal.Zero, err
			}
			if item.Name == "" {
				item.Name = menuItem.Name
			}
			if in.Price == nil {
				item.Price = menuItem.Price
			}
		}
		if item.Name == "" {
			return nil, decimal.Zero, fmt.Errorf("%w: nom manquant pour l'article %d", ErrValidation, i+1)
		}

		items = append(items, item)
		quantities = append(quantities, item.Quantity)
		prices = append(prices, item.Price)
	}

	subtotals, total := utils.SumLines(quantities, prices)
	for i := range items {
		items[i].Subtotal = subtotals[i].InexactFloat64()
	}
	return items, total, nil
}

// UpdateOrderInput -> body of PUT /api/orders/:id, nil fields are left untouched
type UpdateOrderInput struct {
	Type          *models.OrderType     `json:"type"`
	Items         []OrderItemInput      `json:"items"`
	Address       *models.Address       `json:"address"`
	Total         *float64              `json:"total"`
	Status        *models.OrderStatus   `json:"status"`
	PaymentStatus *models.PaymentStatus `json:"paymentStatus"`
	PaymentMethod *models.PaymentMethod `json:"paymentMethod"`
	Notes         *string               `json:"notes"`
	DeliveryTime  *time.Time            `json:"deliveryTime"`
}

// Update applies a panel edit. Client and customer snapshot never change after creation.
func (s *OrderService) Update(ctx context.Context, tenantID, id string, in UpdateOrderInput) (*models.Order, error) {
	order, err := s.repos.Orders.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("%w: statut %q inconnu", ErrValidation, *in.Status)
		}
		order.Status = *in.Status
	}
	if in.Type != nil {
		order.Type = *in.Type
	}
	if in.PaymentStatus != nil {
		order.PaymentStatus = *in.PaymentStatus
	}
	if in.PaymentMethod != nil {
		order.PaymentMethod = *in.PaymentMethod
	}
	if in.Notes != nil {
		order.Notes = *in.Notes
	}
	if in.DeliveryTime != nil {
		order.DeliveryTime = in.DeliveryTime
	}
	if in.Address != nil {
		order.Address = *in.Address
		if order.Address.Country == "" {
			order.Address.Country = s.opts.DefaultCountry
		}
	}
	if in.Items != nil {
		items, total, err := s.buildItems(ctx, tenantID, in.Items)
		if err != nil {
			return nil, err
		}
		order.Items = items
		order.Total = total.InexactFloat64()
	} else if in.Total != nil {
		order.Total = decimal.NewFromFloat(*in.Total).Round(2).InexactFloat64()
	}

	if err := ValidateStruct(order); err != nil {
		return nil, err
	}
	if err := s.repos.Orders.Update(ctx, order); err != nil {
		return nil, err
	}
	s.publisher.PublishOrderEvent(tenantID, EventOrderUpdated, order)
	return order, nil
}
