package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/bullboard/bullboard-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// InsecureSecretPlaceholder is the value deployment templates ship with. A
// secret equal to it is treated the same as no secret at all.
const InsecureSecretPlaceholder = "change-me-in-production"

// ValidateSecret rejects an unset or placeholder signing secret. This is a
// startup-class configuration failure, not a per-request condition.
func ValidateSecret(cfg config.JWTConfig) error {
	if cfg.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if cfg.Secret == InsecureSecretPlaceholder {
		return fmt.Errorf("jwt secret is still the insecure placeholder")
	}
	return nil
}

// MintToken issues a signed bearer token for the provided identity snapshot.
func MintToken(cfg config.JWTConfig, now time.Time, payload TokenPayload) (string, error) {
	if err := ValidateSecret(cfg); err != nil {
		return "", err
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("jwt issuer is required")
	}
	if cfg.ExpirationHours <= 0 {
		return "", fmt.Errorf("jwt expiration hours must be positive")
	}
	if payload.Email == "" {
		return "", fmt.Errorf("token payload requires an email")
	}

	claims := TokenClaims{
		UserID:       payload.UserID,
		Email:        payload.Email,
		Name:         payload.Name,
		IsSuperAdmin: payload.IsSuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TokenTTL())),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseToken validates the JWT string and returns typed claims. Any error,
// whether malformed, badly signed, or expired, means the caller treats the
// request as unauthenticated; the distinction is never surfaced to clients.
func ParseToken(cfg config.JWTConfig, tokenString string) (*TokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}

	return claims, nil
}

// ExtractBearer returns the token from an Authorization header value.
// Only the exact `Bearer <token>` form is accepted; anything else yields "".
func ExtractBearer(header string) string {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return ""
	}
	return strings.TrimSpace(raw[7:])
}
