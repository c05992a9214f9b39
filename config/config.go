package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config is read once at startup from the environment (and .env when present).
type Config struct {
	Port    string `env:"PORT" envDefault:"5000"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	// DB_DRIVER: mongo | mysql | sqlite
	DBDriver     string `env:"DB_DRIVER" envDefault:"mongo"`
	MongoURI     string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	MongoDBName  string `env:"MONGODB_DB" envDefault:"resto_panel"`
	DBHost       string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort       string `env:"DB_PORT" envDefault:"3306"`
	DBUser       string `env:"DB_USER" envDefault:"root"`
	DBPassword   string `env:"DB_PASSWORD"`
	DBName       string `env:"DB_NAME" envDefault:"resto_panel"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"resto_panel.db"`
	DBLogQueries bool   `env:"DB_LOG_QUERIES" envDefault:"false"`

	JWTSecret     string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"168h"`

	// SEED_ENABLED exposes the public /api/seed endpoints used for onboarding and demos.
	SeedEnabled bool `env:"SEED_ENABLED" envDefault:"true"`

	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000,http://localhost:5173"`

	RateLimitPerSecond float64 `env:"RATE_LIMIT_PER_SECOND" envDefault:"20"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	TwilioAccountSID      string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken       string `env:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber     string `env:"TWILIO_PHONE_NUMBER"`
	TwilioBaseURL         string `env:"TWILIO_BASE_URL" envDefault:"https://api.twilio.com"`
	TwilioValidateWebhook bool   `env:"TWILIO_VALIDATE_WEBHOOK" envDefault:"false"`
	TwilioWebhookURL      string `env:"TWILIO_WEBHOOK_URL"`

	PhoneCountryCode string `env:"PHONE_COUNTRY_CODE" envDefault:"33"`
	PhoneTrunkPrefix string `env:"PHONE_TRUNK_PREFIX" envDefault:"0"`
	DefaultCountry   string `env:"DEFAULT_COUNTRY" envDefault:"France"`
	DeliveryEstimate string `env:"DELIVERY_ESTIMATE" envDefault:"30 à 45 minutes"`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`
}

// Load reads .env files (missing files are ignored) then parses the environment.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mongo", "mysql", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER %q is not supported (mongo, mysql, sqlite)", c.DBDriver)
	}
	if c.GinMode == "release" && c.JWTSecret == "dev-secret-change-me" {
		return fmt.Errorf("JWT_SECRET must be set in release mode")
	}
	return nil
}

// AllowedOrigins -> CORS_ORIGINS split on commas
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// TwilioConfigured reports whether outbound SMS can be sent.
func (c *Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != ""
}

// InitDB opens the SQL database for the mysql and sqlite drivers.
func InitDB(c *Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{TranslateError: true}
	if !c.DBLogQueries {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	var dialector gorm.Dialector
	switch c.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(c.SQLitePath)
	default:
		return nil, fmt.Errorf("InitDB: driver %q is not a SQL driver", c.DBDriver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", c.DBDriver, err)
	}
	return db, nil
}
