package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yeremiapane/resto-panel/address"
	"github.com/yeremiapane/resto-panel/models"
	"github.com/yeremiapane/resto-panel/repository"
	"github.com/yeremiapane/resto-panel/utils"
)

// OrderEventPublisher pushes order changes to the connected panels of a tenant.
type OrderEventPublisher interface {
	PublishOrderEvent(tenantID, event string, order *models.Order)
}

type noopPublisher struct{}

func (noopPublisher) PublishOrderEvent(string, string, *models.Order) {}

// Live panel event names.
const (
	EventOrderCreated        = "order_created"
	EventOrderUpdated        = "order_updated"
	EventOrderDeleted        = "order_deleted"
	EventOrderAddressUpdated = "order_address_updated"
)

// SMSOptions are the tenant-independent settings of the SMS flows.
type SMSOptions struct {
	DefaultCountry   string
	DeliveryEstimate string
}

func (o SMSOptions) withDefaults() SMSOptions {
	if o.DefaultCountry == "" {
		o.DefaultCountry = address.DefaultCountry
	}
	if o.DeliveryEstimate == "" {
		o.DeliveryEstimate = DefaultDeliveryEstimate
	}
	return o
}

// InboundMessage -> webhook form fields sent by the messaging provider
type InboundMessage struct {
	From       string
	To         string
	Body       string
	MessageSID string
	NumMedia   int
}

type InboundResult struct {
	Outcome Outcome
	Reply   string
	Client  *models.Client
	Order   *models.Order
}

// InboundSMSService answers client SMS and completes the delivery address of pending orders.
type InboundSMSService struct {
	repos     *repository.Repositories
	publisher OrderEventPublisher
	opts      SMSOptions
}

func NewInboundSMSService(repos *repository.Repositories, publisher OrderEventPublisher, opts SMSOptions) *InboundSMSService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &InboundSMSService{repos: repos, publisher: publisher, opts: opts.withDefaults()}
}

// Handle always returns a reply. Store failures and panics give the fallback reply.
func (s *InboundSMSService) Handle(ctx context.Context, msg InboundMessage) (result InboundResult) {
	defer func() {
		if r := recover(); r != nil {
			utils.ErrorLogger.Printf("Inbound SMS from %s: panic: %v", msg.From, r)
			result = fallbackResult()
		}
	}()

	result, err := s.handle(ctx, msg)
	if err != nil {
		utils.ErrorLogger.Printf("Inbound SMS from %s (sid=%s): %v", msg.From, msg.MessageSID, err)
		result = fallbackResult()
	}

	utils.InfoLogger.Printf("Inbound SMS from %s (sid=%s): %s", msg.From, msg.MessageSID, result.Outcome)
	s.logConversation(ctx, msg, result)
	return result
}

func fallbackResult() InboundResult {
	return InboundResult{Outcome: OutcomeFallback, Reply: ComposeReply(ReplyContext{Outcome: OutcomeFallback})}
}

func (s *InboundSMSService) handle(ctx context.Context, msg InboundMessage) (InboundResult, error) {
	client, err := s.repos.Clients.FindByPhone(ctx, "", msg.From)
	if errors.Is(err, repository.ErrNotFound) {
		return s.result(ReplyContext{Outcome: OutcomeAccountNotFound}, nil, nil), nil
	}
	if err != nil {
		return InboundResult{}, err
	}

	order, err := s.repos.Orders.FindLatestByClient(ctx, client.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.result(ReplyContext{Outcome: OutcomeNoOrder, ClientName: client.Name}, client, nil), nil
	}
	if err != nil {
		return InboundResult{}, err
	}

	body := strings.TrimSpace(msg.Body)
	class := Classify(body)
	frag := address.Parse(body, s.opts.DefaultCountry)

	outcome := ResolveOutcome(order.Status, class, address.Merge(order.Address, frag))
	if outcome != OutcomeAddressPartial && outcome != OutcomeAddressConfirmed {
		return s.result(s.replyContext(outcome, client, order), client, order), nil
	}

	return s.confirmAddress(ctx, client, order, frag)
}

// confirmAddress moves a pending order to InProgress with the parsed address.
// The write only happens if the order is still pending; when it is not, the order
// is reloaded once and either its new status is echoed or the write retried once.
func (s *InboundSMSService) confirmAddress(ctx context.Context, client *models.Client, order *models.Order, frag address.Fragment) (InboundResult, error) {
	for attempt := 0; attempt < 2; attempt++ {
		merged := address.Merge(order.Address, frag)
		patch := models.Address{Street: frag.Street, ZipCode: frag.ZipCode, City: frag.City}
		if order.Address.Country == "" {
			patch.Country = frag.Country
		}

		ok, err := s.repos.Orders.ConfirmAddress(ctx, order.ID, models.OrderStatusPending, patch, models.OrderStatusInProgress)
		if err != nil {
			return InboundResult{}, err
		}
		if ok {
			order.Address = merged
			order.Status = models.OrderStatusInProgress

			if err := s.repos.Clients.UpdateAddress(ctx, client.ID, merged); err != nil {
				utils.ErrorLogger.Printf("Failed to sync address of client %s: %v", client.ID, err)
			}
			s.publisher.PublishOrderEvent(order.EntrepriseID, EventOrderAddressUpdated, order)

			outcome := ResolveOutcome(models.OrderStatusPending, ClassAddress, merged)
			return s.result(s.replyContext(outcome, client, order), client, order), nil
		}

		fresh, err := s.repos.Orders.FindByID(ctx, "", order.ID)
		if err != nil {
			return InboundResult{}, err
		}
		if fresh.Status != models.OrderStatusPending {
			return s.result(s.replyContext(OutcomeStatusEcho, client, fresh), client, fresh), nil
		}
		order = fresh
	}

	utils.ErrorLogger.Printf("Order %s kept changing while confirming its address", order.ID)
	return s.result(s.replyContext(OutcomeStaleOrder, client, order), client, order), nil
}

func (s *InboundSMSService) replyContext(outcome Outcome, client *models.Client, order *models.Order) ReplyContext {
	return ReplyContext{
		Outcome:    outcome,
		ClientName: client.Name,
		OrderRef:   order.Reference(),
		Status:     order.Status,
		Address:    order.Address,
		Total:      decimal.NewFromFloat(order.Total),
		Estimate:   s.opts.DeliveryEstimate,
	}
}

func (s *InboundSMSService) result(rc ReplyContext, client *models.Client, order *models.Order) InboundResult {
	return InboundResult{Outcome: rc.Outcome, Reply: ComposeReply(rc), Client: client, Order: order}
}

// logConversation keeps the inbound message and our reply. Failures are logged only.
func (s *InboundSMSService) logConversation(ctx context.Context, msg InboundMessage, result InboundResult) {
	if s.repos.Messages == nil {
		return
	}

	entry := models.SMSMessage{Direction: models.DirectionInbound, From: msg.From, To: msg.To, Body: msg.Body, ProviderSID: msg.MessageSID, NumMedia: msg.NumMedia, Status: "received"}
	reply := models.SMSMessage{Direction: models.DirectionOutbound, From: msg.To, To: msg.From, Body: result.Reply, Status: "replied"}
	if result.Client != nil {
		entry.EntrepriseID, entry.ClientID = result.Client.EntrepriseID, result.Client.ID
		reply.EntrepriseID, reply.ClientID = result.Client.EntrepriseID, result.Client.ID
	}
	if result.Order != nil {
		entry.OrderID, reply.OrderID = result.Order.ID, result.Order.ID
	}

	for _, m := range []*models.SMSMessage{&entry, &reply} {
		if err := s.repos.Messages.Create(ctx, m); err != nil {
			utils.ErrorLogger.Printf("Failed to store SMS message: %v", err)
			return
		}
	}
}
