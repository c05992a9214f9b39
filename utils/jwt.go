package utils

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "resto-panel"

var (
	jwtSecret = []byte("dev-secret-change-me")
	tokenTTL  = 7 * 24 * time.Hour

	blacklistedTokens = make(map[string]time.Time)
	blacklistMutex    sync.RWMutex
)

var (
	ErrTokenBlacklisted = errors.New("token révoqué")
	ErrInvalidToken     = errors.New("token invalide ou expiré")
)

// ConfigureJWT sets the signing secret and token lifetime, called once from main.
func ConfigureJWT(secret string, ttl time.Duration) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
	if ttl > 0 {
		tokenTTL = ttl
	}
}

type CustomClaims struct {
	EntrepriseID string `json:"entreprise_id"`
	Email        string `json:"email"`
	jwt.RegisteredClaims
}

func GenerateToken(entrepriseID, email string) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		EntrepriseID: entrepriseID,
		Email:        email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   entrepriseID,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		ErrorLogger.Printf("Error generating token: %v", err)
		return "", err
	}
	return tokenString, nil
}

func ParseToken(tokenString string) (*CustomClaims, error) {
	if IsTokenBlacklisted(tokenString) {
		return nil, ErrTokenBlacklisted
	}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || claims.EntrepriseID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// BlacklistToken keeps the token revoked until it would have expired anyway.
func BlacklistToken(tokenString string, expiresAt time.Time) {
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(tokenTTL)
	}
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	blacklistedTokens[tokenString] = expiresAt
}

func IsTokenBlacklisted(tokenString string) bool {
	blacklistMutex.RLock()
	expiry, exists := blacklistedTokens[tokenString]
	blacklistMutex.RUnlock()
	if !exists {
		return false
	}
	if time.Now().Before(expiry) {
		return true
	}

	// drop expired tokens from the blacklist
	blacklistMutex.Lock()
	delete(blacklistedTokens, tokenString)
	blacklistMutex.Unlock()
	return false
}
