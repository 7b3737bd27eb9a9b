package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// JwtCustomClaim identifies the acting user. FirmNameMatch scopes which rows
// the user may see and Permissions lists the route gate keys granted.
type JwtCustomClaim struct {
	Username      string   `json:"username"`
	FirmNameMatch string   `json:"firmNameMatch"`
	Permissions   []string `json:"permissions"`
	jwt.StandardClaims
}

func getJwtSecret() []byte {
	secret := os.Getenv("API_SECRET")
	if secret == "" {
		return []byte("IndentTracker-Secret")
	}
	return []byte(secret)
}

func tokenLifespan() (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if raw == "" {
		return 12 * time.Hour, nil
	}
	hours, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if hours <= 0 {
		return 0, errors.New("TOKEN_HOUR_LIFESPAN must be positive")
	}
	return time.Hour * time.Duration(hours), nil
}

// JwtGenerate signs a token for the user. A zero ttl falls back to TOKEN_HOUR_LIFESPAN.
func JwtGenerate(username string, firmNameMatch string, permissions []string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		lifespan, err := tokenLifespan()
		if err != nil {
			return "", err
		}
		ttl = lifespan
	}

	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &JwtCustomClaim{
		Username:      username,
		FirmNameMatch: firmNameMatch,
		Permissions:   permissions,
		StandardClaims: jwt.StandardClaims{
			Subject:   username,
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
	})

	token, err := t.SignedString(getJwtSecret())
	if err != nil {
		return "", err
	}

	return token, nil
}

func JwtValidate(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &JwtCustomClaim{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("there's a problem with the signing method")
		}
		return getJwtSecret(), nil
	})
}
