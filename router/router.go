package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/resto-panel/controllers"
	"github.com/yeremiapane/resto-panel/live"
	"github.com/yeremiapane/resto-panel/middlewares"
	"github.com/yeremiapane/resto-panel/phone"
	"github.com/yeremiapane/resto-panel/repository"
	"github.com/yeremiapane/resto-panel/services"
	"github.com/yeremiapane/resto-panel/utils"
)

// Deps -> everything the HTTP layer needs, built once in main
type Deps struct {
	Repos   *repository.Repositories
	Hub     *live.Hub
	Orders  *services.OrderService
	Inbound *services.InboundSMSService
	Twilio  *services.TwilioService
	Phones  phone.Normalizer
	// Seed enables /api/seed/*; nil leaves the routes unregistered.
	Seed *services.SeedService

	AllowedOrigins []string
	// ValidateWebhook enables the X-Twilio-Signature check on /api/sms/webhook.
	ValidateWebhook bool
	WebhookURL      string
	RateLimit       float64
	RateBurst       int
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(deps.AllowedOrigins))

	authCtrl := controllers.NewAuthController(deps.Repos)
	entrepriseCtrl := controllers.NewEntrepriseController(deps.Repos)
	menuCtrl := controllers.NewMenuController(deps.Repos)
	clientCtrl := controllers.NewClientController(deps.Repos, deps.Hub)
	orderCtrl := controllers.NewOrderController(deps.Repos, deps.Orders, deps.Hub)
	smsCtrl := controllers.NewSMSController(deps.Repos, deps.Inbound, deps.Twilio, deps.Phones)

	// every inbound SMS comes from Twilio's egress IPs: keep it out of the per-IP limiter
	webhook := []gin.HandlerFunc{middlewares.SMSWebhookLogger()}
	if deps.ValidateWebhook {
		webhook = append(webhook, middlewares.TwilioSignatureMiddleware(deps.Twilio, deps.WebhookURL))
	}
	webhook = append(webhook, smsCtrl.Webhook)
	r.POST("/api/sms/webhook", webhook...)

	limited := r.Group("")
	if deps.RateLimit > 0 {
		limiter := middlewares.NewRateLimiter(deps.RateLimit, deps.RateBurst)
		limited.Use(limiter.RateLimit())
	}

	limited.GET("/api/health", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, "Le serveur fonctionne", gin.H{
			"status": "OK",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// live panel feed
	limited.GET("/ws", middlewares.WebSocketAuthMiddleware(), controllers.LiveHandler(deps.Hub))

	api := limited.Group("/api")
	{
		// Public routes
		loginLimiter := middlewares.NewStrictRateLimiter()
		api.POST("/auth/login", loginLimiter.RateLimit(), authCtrl.Login)
		api.POST("/entreprises", entrepriseCtrl.CreateEntreprise)

		if deps.Seed != nil {
			seedCtrl := controllers.NewSeedController(deps.Seed)
			seed := api.Group("/seed")
			seed.POST("/entreprise", seedCtrl.CreateEntrepriseWithData)
			seed.POST("/multiple", seedCtrl.SeedMultipleEntreprises)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middlewares.AuthMiddleware())
		{
			protected.GET("/auth/me", authCtrl.Me)
			protected.POST("/auth/logout", authCtrl.Logout)

			entreprises := protected.Group("/entreprises")
			{
				entreprises.GET("", entrepriseCtrl.GetEntreprises)
				entreprises.GET("/:id", middlewares.SameTenant("id"), entrepriseCtrl.GetEntrepriseByID)
				entreprises.PUT("/:id", middlewares.SameTenant("id"), entrepriseCtrl.UpdateEntreprise)
				entreprises.DELETE("/:id", middlewares.SameTenant("id"), entrepriseCtrl.DeleteEntreprise)
			}

			menu := protected.Group("/menu")
			{
				menu.GET("", menuCtrl.GetAllMenus)
				menu.GET("/category/:category", menuCtrl.GetMenuByCategory)
				menu.GET("/:id", menuCtrl.GetMenuByID)
				menu.POST("", menuCtrl.CreateMenu)
				menu.PUT("/:id", menuCtrl.UpdateMenu)
				menu.DELETE("/:id", menuCtrl.DeleteMenu)
			}

			clients := protected.Group("/clients")
			{
				clients.GET("", clientCtrl.GetAllClients)
				clients.GET("/phone/:phone", clientCtrl.GetClientByPhone)
				clients.GET("/:id", clientCtrl.GetClientByID)
				clients.GET("/:id/coordinates", clientCtrl.GetClientCoordinates)
				clients.POST("", clientCtrl.CreateClient)
				clients.PUT("/:id", clientCtrl.UpdateClient)
				clients.DELETE("/:id", clientCtrl.DeleteClient)
			}

			orders := protected.Group("/orders")
			{
				orders.GET("", orderCtrl.GetAllOrders)
				orders.GET("/status/:status", orderCtrl.GetOrdersByStatus)
				orders.GET("/:id", orderCtrl.GetOrderByID)
				orders.POST("", orderCtrl.CreateOrder)
				orders.POST("/:id/confirm", orderCtrl.ConfirmOrder)
				orders.PUT("/:id", orderCtrl.UpdateOrder)
				orders.DELETE("/:id", orderCtrl.DeleteOrder)
			}

			sms := protected.Group("/sms")
			{
				sms.GET("/history/:phoneNumber", smsCtrl.GetHistory)
				sms.POST("/send", smsCtrl.SendSMS)
				sms.GET("/status/:messageSid", smsCtrl.GetStatus)
				sms.GET("/messages", smsCtrl.GetMessages)
			}
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Route non trouvée",
			"path":    c.Request.URL.Path,
		})
	})

	return r
}
