package auth

import (
	"github.com/bullboard/bullboard-backend/internal/users"
)

// RegisterRequest is the email/password signup payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// LoginRequest is the email/password login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Result is a successful authentication outcome: the public user view plus
// a freshly minted bearer token.
type Result struct {
	User  *users.PublicUser `json:"user"`
	Token string            `json:"token"`
}
