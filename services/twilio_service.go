package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/yeremiapane/resto-panel/utils"
)

var ErrProviderNotConfigured = errors.New("identifiants Twilio non configurés")

// Messenger sends one SMS and returns the provider message id.
type Messenger interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// TwilioConfig holds the messaging account credentials.
// BaseURL replaces https://api.twilio.com (tests, regional proxies).
type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
	BaseURL     string
}

// TwilioService wraps the Twilio REST client.
type TwilioService struct {
	config    *TwilioConfig
	rest      *twilio.RestClient
	validator client.RequestValidator
}

// ProviderMessage -> message resource as returned by Twilio
type ProviderMessage struct {
	SID          string `json:"sid"`
	From         string `json:"from"`
	To           string `json:"to"`
	Body         string `json:"body"`
	Status       string `json:"status"`
	Direction    string `json:"direction"`
	DateCreated  string `json:"date_created"`
	DateSent     string `json:"date_sent"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// CreatedAt parses DateCreated, zero time when missing.
func (m ProviderMessage) CreatedAt() time.Time {
	t, err := time.Parse(time.RFC1123Z, m.DateCreated)
	if err != nil {
		return time.Time{}
	}
	return t
}

func NewTwilioService(config *TwilioConfig) *TwilioService {
	httpClient := &http.Client{Timeout: 15 * time.Second}
	if config.BaseURL != "" {
		if base, err := url.Parse(config.BaseURL); err == nil && base.Host != "" {
			httpClient.Transport = &baseURLTransport{base: base, next: http.DefaultTransport}
		}
	}

	cl := &client.Client{
		Credentials: client.NewCredentials(config.AccountSID, config.AuthToken),
		HTTPClient:  httpClient,
	}
	cl.SetAccountSid(config.AccountSID)

	return &TwilioService{
		config:    config,
		rest:      twilio.NewRestClientWithParams(twilio.ClientParams{Client: cl}),
		validator: client.NewRequestValidator(config.AuthToken),
	}
}

func (ts *TwilioService) ValidateConfig() error {
	if ts.config.AccountSID == "" {
		return fmt.Errorf("TWILIO_ACCOUNT_SID is not set")
	}
	if ts.config.AuthToken == "" {
		return fmt.Errorf("TWILIO_AUTH_TOKEN is not set")
	}
	if ts.config.PhoneNumber == "" {
		return fmt.Errorf("TWILIO_PHONE_NUMBER is not set")
	}
	return nil
}

// Send implements Messenger.
func (ts *TwilioService) Send(ctx context.Context, to, body string) (string, error) {
	msg, err := ts.SendMessage(ctx, to, body)
	if err != nil {
		return "", err
	}
	return msg.SID, nil
}

func (ts *TwilioService) SendMessage(ctx context.Context, to, body string) (*ProviderMessage, error) {
	if err := ts.ValidateConfig(); err != nil {
		return nil, ErrProviderNotConfigured
	}
	// SDK calls take no context
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(ts.config.PhoneNumber)
	params.SetBody(body)

	resp, err := ts.rest.Api.CreateMessage(params)
	if err != nil {
		return nil, twilioError(err)
	}

	msg := toProviderMessage(resp)
	utils.InfoLogger.Printf("SMS sent to %s (sid=%s, status=%s)", to, msg.SID, msg.Status)
	return &msg, nil
}

func (ts *TwilioService) FetchMessage(ctx context.Context, messageSID string) (*ProviderMessage, error) {
	if ts.config.AccountSID == "" || ts.config.AuthToken == "" {
		return nil, ErrProviderNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ts.rest.Api.FetchMessage(messageSID, &openapi.FetchMessageParams{})
	if err != nil {
		return nil, twilioError(err)
	}
	msg := toProviderMessage(resp)
	return &msg, nil
}

// ListMessages lists what was sent to and received from phoneNumber, newest first.
func (ts *TwilioService) ListMessages(ctx context.Context, phoneNumber string, limit int) ([]ProviderMessage, error) {
	if ts.config.AccountSID == "" || ts.config.AuthToken == "" {
		return nil, ErrProviderNotConfigured
	}
	if limit <= 0 {
		limit = 50
	}

	var all []ProviderMessage
	for _, direction := range []string{"To", "From"} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		params := &openapi.ListMessageParams{}
		if direction == "To" {
			params.SetTo(phoneNumber)
		} else {
			params.SetFrom(phoneNumber)
		}
		params.SetPageSize(limit)
		params.SetLimit(limit)

		page, err := ts.rest.Api.ListMessage(params)
		if err != nil {
			return nil, twilioError(err)
		}
		for i := range page {
			all = append(all, toProviderMessage(&page[i]))
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt().After(all[j].CreatedAt())
	})
	return all, nil
}

// ValidateSignature checks the X-Twilio-Signature of a webhook call against the
// full public URL and the POST form.
func (ts *TwilioService) ValidateSignature(fullURL string, params url.Values, signature string) bool {
	if ts.config.AuthToken == "" || signature == "" {
		return false
	}
	form := make(map[string]string, len(params))
	for k := range params {
		form[k] = params.Get(k)
	}
	return ts.validator.Validate(fullURL, form, signature)
}

func toProviderMessage(m *openapi.ApiV2010Message) ProviderMessage {
	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	return ProviderMessage{
		SID:          str(m.Sid),
		From:         str(m.From),
		To:           str(m.To),
		Body:         str(m.Body),
		Status:       str(m.Status),
		Direction:    str(m.Direction),
		DateCreated:  str(m.DateCreated),
		DateSent:     str(m.DateSent),
		ErrorCode:    m.ErrorCode,
		ErrorMessage: str(m.ErrorMessage),
	}
}

func twilioError(err error) error {
	var apiErr *client.TwilioRestError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("Twilio API error %d: %s", apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("Twilio request failed: %w", err)
}

// baseURLTransport sends the SDK requests to another host, keeping the API path.
type baseURLTransport struct {
	base *url.URL
	next http.RoundTripper
}

func (t *baseURLTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.URL.Scheme = t.base.Scheme
	r.URL.Host = t.base.Host
	r.Host = t.base.Host
	return t.next.RoundTrip(r)
}
