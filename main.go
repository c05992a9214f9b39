package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/resto-panel/config"
	"github.com/yeremiapane/resto-panel/database"
	"github.com/yeremiapane/resto-panel/live"
	"github.com/yeremiapane/resto-panel/phone"
	"github.com/yeremiapane/resto-panel/repository"
	"github.com/yeremiapane/resto-panel/router"
	"github.com/yeremiapane/resto-panel/services"
	"github.com/yeremiapane/resto-panel/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load configuration: %v", err)
	}

	utils.InitLoggerWithConfig(utils.LogConfig{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	utils.ConfigureJWT(cfg.JWTSecret, cfg.JWTExpiration)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	phones := phone.NewNormalizer(cfg.PhoneCountryCode, cfg.PhoneTrunkPrefix)

	repos, closeStore, err := openStore(cfg, phones)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeStore()

	twilio := services.NewTwilioService(&services.TwilioConfig{
		AccountSID:  cfg.TwilioAccountSID,
		AuthToken:   cfg.TwilioAuthToken,
		PhoneNumber: cfg.TwilioPhoneNumber,
		BaseURL:     cfg.TwilioBaseURL,
	})
	if err := twilio.ValidateConfig(); err != nil {
		utils.InfoLogger.Printf("Twilio disabled, SMS will not be sent: %v", err)
	}

	hub := live.NewHub()
	opts := services.SMSOptions{DefaultCountry: cfg.DefaultCountry, DeliveryEstimate: cfg.DeliveryEstimate}

	var seed *services.SeedService
	if cfg.SeedEnabled {
		seed = services.NewSeedService(repos)
	}

	r := router.SetupRouter(router.Deps{
		Repos:           repos,
		Hub:             hub,
		Orders:          services.NewOrderService(repos, twilio, hub, phones, opts),
		Inbound:         services.NewInboundSMSService(repos, hub, opts),
		Twilio:          twilio,
		Phones:          phones,
		Seed:            seed,
		AllowedOrigins:  cfg.AllowedOrigins(),
		ValidateWebhook: cfg.TwilioValidateWebhook,
		WebhookURL:      cfg.TwilioWebhookURL,
		RateLimit:       cfg.RateLimitPerSecond,
		RateBurst:       cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s (store: %s)", cfg.Port, cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.InfoLogger.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Server shutdown: %v", err)
	}
}

// openStore connects the configured store and returns its repositories.
func openStore(cfg *config.Config, phones phone.Normalizer) (*repository.Repositories, func(), error) {
	if cfg.DBDriver == "mongo" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		client, err := database.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.MongoDBName)
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			utils.ErrorLogger.Printf("Failed to create MongoDB indexes: %v", err)
		}
		return repository.NewMongoRepositories(db, phones), func() { database.DisconnectMongo(client) }, nil
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return repository.NewGormRepositories(db, phones), closeFn, nil
}
