package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	os.Unsetenv("DB_DRIVER")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "mongo", cfg.DBDriver)
	assert.Equal(t, "33", cfg.PhoneCountryCode)
	assert.Equal(t, "France", cfg.DefaultCountry)
	assert.Equal(t, "30 à 45 minutes", cfg.DeliveryEstimate)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiration)
	assert.False(t, cfg.TwilioConfigured())
}

func TestLoad_FromEnvFile(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_PHONE_NUMBER", "CORS_ORIGINS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	path := filepath.Join(t.TempDir(), "test.env")
	content := "DB_DRIVER=sqlite\n" +
		"TWILIO_ACCOUNT_SID=AC123\n" +
		"TWILIO_AUTH_TOKEN=secret\n" +
		"TWILIO_PHONE_NUMBER=+33700000000\n" +
		"CORS_ORIGINS=https://panel.example.fr, http://localhost:3000 ,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.True(t, cfg.TwilioConfigured())
	assert.Equal(t, []string{"https://panel.example.fr", "http://localhost:3000"}, cfg.AllowedOrigins())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "mongo", cfg: Config{DBDriver: "mongo"}, wantErr: false},
		{name: "sqlite", cfg: Config{DBDriver: "sqlite"}, wantErr: false},
		{name: "unknown driver", cfg: Config{DBDriver: "postgres"}, wantErr: true},
		{name: "release with default secret", cfg: Config{DBDriver: "mysql", GinMode: "release", JWTSecret: "dev-secret-change-me"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInitDB_SQLite(t *testing.T) {
	db, err := InitDB(&Config{DBDriver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	require.NoError(t, db.Exec("SELECT 1").Error)

	_, err = InitDB(&Config{DBDriver: "mongo"})
	assert.Error(t, err)
}
