package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yeremiapane/resto-panel/address"
	"github.com/yeremiapane/resto-panel/models"
	"github.com/yeremiapane/resto-panel/utils"
)

// Outcome is what the inbound SMS flow decided for one message.
type Outcome int

const (
	OutcomeFallback Outcome = iota
	OutcomeAccountNotFound
	OutcomeNoOrder
	OutcomeStatusEcho
	OutcomeAddressPrompt
	OutcomeAddressPartial
	OutcomeAddressConfirmed
	OutcomeStaleOrder
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccountNotFound:
		return "account_not_found"
	case OutcomeNoOrder:
		return "no_order"
	case OutcomeStatusEcho:
		return "status_echo"
	case OutcomeAddressPrompt:
		return "address_prompt"
	case OutcomeAddressPartial:
		return "address_partial"
	case OutcomeAddressConfirmed:
		return "address_confirmed"
	case OutcomeStaleOrder:
		return "stale_order"
	}
	return "fallback"
}

// Classification of an SMS body received while the order waits for its address.
type Classification int

const (
	ClassOther Classification = iota
	ClassAddress
)

func Classify(body string) Classification {
	if address.LooksLikeAddress(body) {
		return ClassAddress
	}
	return ClassOther
}

const (
	DefaultDeliveryEstimate = "30 à 45 minutes"
	addressExample          = "12 rue de la Paix 75001 Paris"
)

// ResolveOutcome -> decision for a client whose latest order is in status
func ResolveOutcome(status models.OrderStatus, class Classification, merged models.Address) Outcome {
	switch {
	case status != models.OrderStatusPending:
		return OutcomeStatusEcho
	case class != ClassAddress:
		return OutcomeAddressPrompt
	case merged.ZipCode == "" && merged.City == "":
		return OutcomeAddressPartial
	default:
		return OutcomeAddressConfirmed
	}
}

// ReplyContext carries everything a reply may mention.
type ReplyContext struct {
	Outcome    Outcome
	ClientName string
	OrderRef   string
	Status     models.OrderStatus
	Address    models.Address
	Total      decimal.Decimal
	Estimate   string
}

// ComposeReply renders the SMS text for one outcome.
func ComposeReply(rc ReplyContext) string {
	greeting := "Bonjour"
	if name := strings.TrimSpace(rc.ClientName); name != "" {
		greeting = "Bonjour " + name
	}
	estimate := rc.Estimate
	if estimate == "" {
		estimate = DefaultDeliveryEstimate
	}

	switch rc.Outcome {
	case OutcomeAccountNotFound:
		return "Désolé, nous n'avons pas trouvé votre compte. Veuillez contacter le restaurant."

	case OutcomeNoOrder:
		return fmt.Sprintf("%s, nous n'avons trouvé aucune commande en cours à votre nom. Veuillez contacter le restaurant.", greeting)

	case OutcomeStatusEcho:
		return fmt.Sprintf("%s, votre commande #%s est actuellement : %s. Merci de votre confiance !", greeting, rc.OrderRef, rc.Status)

	case OutcomeAddressPrompt:
		return fmt.Sprintf("%s, merci de nous envoyer votre adresse de livraison complète pour la commande #%s (exemple : %s).", greeting, rc.OrderRef, addressExample)

	case OutcomeAddressPartial:
		return fmt.Sprintf("%s, nous avons noté « %s » pour la commande #%s. Pouvez-vous nous préciser le code postal et la ville ?", greeting, rc.Address.Street, rc.OrderRef)

	case OutcomeAddressConfirmed:
		return fmt.Sprintf("%s, votre adresse de livraison est confirmée pour la commande #%s : %s. Montant total : %s. Votre commande est en préparation, livraison estimée dans %s.",
			greeting, rc.OrderRef, formatAddress(rc.Address), utils.FormatCurrencyEUR(rc.Total), estimate)

	case OutcomeStaleOrder:
		return fmt.Sprintf("%s, votre commande #%s vient d'être modifiée par le restaurant. Merci de renvoyer votre adresse dans quelques instants.", greeting, rc.OrderRef)
	}

	return "Une erreur s'est produite. Veuillez réessayer."
}

// ComposeOrderConfirmation is the SMS sent right after an order is created.
func ComposeOrderConfirmation(order *models.Order, estimate string) string {
	if estimate == "" {
		estimate = DefaultDeliveryEstimate
	}
	greeting := "Bonjour"
	if name := strings.TrimSpace(order.Customer.Name); name != "" {
		greeting = "Bonjour " + name
	}
	total := utils.FormatCurrencyEUR(decimal.NewFromFloat(order.Total))

	if order.Type == models.OrderTypePickup {
		return fmt.Sprintf("%s, votre commande #%s (%s) est enregistrée. Elle sera prête à emporter dans %s.", greeting, order.Reference(), total, estimate)
	}
	if order.Status == models.OrderStatusPending {
		return fmt.Sprintf("%s, votre commande #%s (%s) est enregistrée. Répondez à ce SMS avec votre adresse de livraison complète (exemple : %s).",
			greeting, order.Reference(), total, addressExample)
	}
	return fmt.Sprintf("%s, votre commande #%s (%s) est enregistrée. Livraison au %s estimée dans %s.", greeting, order.Reference(), total, formatAddress(order.Address), estimate)
}

// "12 rue de la Paix, 75001 Paris"
func formatAddress(a models.Address) string {
	locality := strings.TrimSpace(a.ZipCode + " " + a.City)
	switch {
	case a.Street == "":
		return locality
	case locality == "":
		return a.Street
	}
	return a.Street + ", " + locality
}
