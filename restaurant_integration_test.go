package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/resto-panel/database"
	"github.com/yeremiapane/resto-panel/live"
	"github.com/yeremiapane/resto-panel/models"
	"github.com/yeremiapane/resto-panel/phone"
	"github.com/yeremiapane/resto-panel/repository"
	"github.com/yeremiapane/resto-panel/router"
	"github.com/yeremiapane/resto-panel/services"
	"github.com/yeremiapane/resto-panel/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	utils.ConfigureJWT("integration-secret", time.Hour)
	os.Exit(m.Run())
}

// smsOutbox records the messages posted to the fake Twilio API.
type smsOutbox struct {
	mu   sync.Mutex
	sent []url.Values
}

func (o *smsOutbox) server(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		o.mu.Lock()
		o.sent = append(o.sent, r.PostForm)
		o.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM0001","status":"queued","from":"+33700000000","to":"` + r.PostForm.Get("To") + `"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (o *smsOutbox) bodies() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []string
	for _, v := range o.sent {
		out = append(out, v.Get("Body"))
	}
	return out
}

// setupTestApp -> SQLite in-memory, seeded entreprise, router with fake Twilio
func setupTestApp(t *testing.T) (*gin.Engine, *repository.Repositories, *smsOutbox) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	phones := phone.NewNormalizer("33", "0")
	repos := repository.NewGormRepositories(db, phones)

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	entreprise := &models.Entreprise{
		Name: "Pizzeria Bella", Email: "bella@example.fr", Password: string(hashed),
		Phone: "0102030405", Address: "1 place du Marché", City: "Lyon", PostalCode: "69002", IsActive: true,
	}
	entreprise.ApplyDefaults()
	require.NoError(t, repos.Entreprises.Create(context.Background(), entreprise))

	outbox := &smsOutbox{}
	twilio := services.NewTwilioService(&services.TwilioConfig{
		AccountSID:  "AC0001",
		AuthToken:   "token",
		PhoneNumber: "+33700000000",
		BaseURL:     outbox.server(t).URL,
	})
	hub := live.NewHub()
	opts := services.SMSOptions{}

	r := router.SetupRouter(router.Deps{
		Repos:   repos,
		Hub:     hub,
		Orders:  services.NewOrderService(repos, twilio, hub, phones, opts),
		Inbound: services.NewInboundSMSService(repos, hub, opts),
		Twilio:  twilio,
		Phones:  phones,
		Seed:    services.NewSeedService(repos),
	})
	return r, repos, outbox
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func loginTest(t *testing.T, r http.Handler) string {
	w, resp := doJSON(t, r, "POST", "/api/auth/login", "", map[string]string{
		"email":    "bella@example.fr",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := resp["data"].(map[string]interface{})
	return data["token"].(string)
}

func postWebhook(t *testing.T, r http.Handler, from, body string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("From", from)
	form.Set("To", "+33700000000")
	form.Set("Body", body)
	form.Set("MessageSid", "SMin"+uuid.NewString()[:8])
	form.Set("NumMedia", "0")

	req, err := http.NewRequest("POST", "/api/sms/webhook", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestEndToEndIntegration covers the main flow:
// login -> create client -> create order -> client replies with an address -> order "En cours"
func TestEndToEndIntegration(t *testing.T) {
	r, repos, outbox := setupTestApp(t)
	token := loginTest(t, r)

	// 1. New client
	w, resp := doJSON(t, r, "POST", "/api/clients", token, map[string]interface{}{
		"name":        "Marie Dupont",
		"phoneNumber": "06 12 34 56 78",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	clientID := resp["data"].(map[string]interface{})["id"].(string)

	// 2. Menu
	w, resp = doJSON(t, r, "POST", "/api/menu", token, map[string]interface{}{
		"name": "Margherita", "category": "Pizzas", "price": 10.5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	menuID := resp["data"].(map[string]interface{})["id"].(string)

	// 3. Order placed with the international form of the number
	w, resp = doJSON(t, r, "POST", "/api/orders", token, map[string]interface{}{
		"phoneNumber": "+33612345678",
		"items":       []map[string]interface{}{{"menuItemId": menuID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := resp["data"].(map[string]interface{})
	orderID := order["id"].(string)
	assert.Equal(t, string(models.OrderStatusPending), order["status"])
	assert.Equal(t, clientID, order["clientId"])
	assert.InDelta(t, 21.0, order["total"].(float64), 0.001)

	bodies := outbox.bodies()
	require.Len(t, bodies, 1)
	assert.Contains(t, bodies[0], "adresse de livraison")

	// 4. Client replies with a full address
	w = postWebhook(t, r, "+33612345678", "12 rue de la Paix 75002 Paris")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/xml")
	assert.Contains(t, w.Body.String(), "<Response><Message>")
	assert.Contains(t, w.Body.String(), "confirmée")

	// 5. Order is now "En cours" with the new address
	w, resp = doJSON(t, r, "GET", "/api/orders/"+orderID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	order = resp["data"].(map[string]interface{})
	assert.Equal(t, string(models.OrderStatusInProgress), order["status"])
	addr := order["address"].(map[string]interface{})
	assert.Equal(t, "12 rue de la Paix", addr["street"])
	assert.Equal(t, "75002", addr["zipCode"])
	assert.Equal(t, "Paris", addr["city"])

	// client address follows
	client, err := repos.Clients.FindByID(context.Background(), "", clientID)
	require.NoError(t, err)
	assert.Equal(t, "12 rue de la Paix", client.Address)
	assert.Equal(t, "06 12 34 56 78", client.PhoneNumber)
	assert.Equal(t, 1, client.OrderCount)

	// 6. Later SMS only echo the status
	w = postWebhook(t, r, "0612345678", "Bonjour, où en est ma commande ?")
	assert.Contains(t, w.Body.String(), string(models.OrderStatusInProgress))

	// 7. Local log holds inbound and outbound messages
	w, resp = doJSON(t, r, "GET", "/api/sms/messages?clientId="+clientID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.GreaterOrEqual(t, int(resp["count"].(float64)), 3)
}

func TestWebhook_UnknownNumber(t *testing.T) {
	r, _, _ := setupTestApp(t)

	w := postWebhook(t, r, "+33799999999", "12 rue de la Paix 75002 Paris")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pas trouvé votre compte")
}

func TestProtectedRoutes(t *testing.T) {
	r, _, _ := setupTestApp(t)

	w, _ := doJSON(t, r, "GET", "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := loginTest(t, r)
	w, _ = doJSON(t, r, "GET", "/api/orders", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// token is blacklisted after logout
	w, _ = doJSON(t, r, "POST", "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, "GET", "/api/orders", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	r, _, _ := setupTestApp(t)

	w, resp := doJSON(t, r, "POST", "/api/auth/login", "", map[string]string{
		"email": "bella@example.fr", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, resp["success"])
}

func TestHealthAndNoRoute(t *testing.T) {
	r, _, _ := setupTestApp(t)

	w, resp := doJSON(t, r, "GET", "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])

	w, resp = doJSON(t, r, "GET", "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route non trouvée", resp["message"])
	assert.Equal(t, "/api/nope", resp["path"])
}

func TestSeedThenLogin(t *testing.T) {
	r, _, _ := setupTestApp(t)

	w, resp := doJSON(t, r, "POST", "/api/seed/entreprise", "", map[string]interface{}{
		"name": "Pizza Palace", "email": "palace@resto.fr", "password": "password123",
		"phone": "01 23 45 67 89", "address": "123 Rue de Paris", "city": "Paris", "postalCode": "75001",
		"menus":   []map[string]interface{}{{"name": "Pizza Margherita", "category": "Pizza", "price": 12.5}},
		"clients": []map[string]interface{}{{"name": "Jean Dupont", "phoneNumber": "06 12 34 56 78"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Entreprise créée avec menus et clients", resp["message"])

	w, resp = doJSON(t, r, "POST", "/api/auth/login", "", map[string]string{
		"email": "palace@resto.fr", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := resp["data"].(map[string]interface{})["token"].(string)

	w, resp = doJSON(t, r, "GET", "/api/menu", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp["count"])

	w, resp = doJSON(t, r, "GET", "/api/clients/phone/0612345678", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Jean Dupont", resp["data"].(map[string]interface{})["name"])
}
