package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenPayload captures the identity snapshot embedded when minting a token.
// Role flags inside the token are a snapshot only; request handling always
// re-reads the user record before trusting them.
type TokenPayload struct {
	UserID       uuid.UUID
	Email        string
	Name         string
	IsSuperAdmin bool
}

// TokenClaims is the typed JWT issued to clients.
type TokenClaims struct {
	UserID       uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	IsSuperAdmin bool      `json:"isSuperAdmin"`
	jwt.RegisteredClaims
}
