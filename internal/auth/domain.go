package auth

import (
	"context"
	"time"
)

// Authenticator exchanges credentials for an upstream bearer token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Credentials is the validated login form.
type Credentials struct {
	Username string `validate:"required,max=100"`
	Password string `validate:"required,max=200"`
}

// Grant is a successful login: the token plus its expiry when the token
// is a JWT carrying one.
type Grant struct {
	Token     string
	ExpiresAt time.Time
}
