package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/laporan-latin/laporan-latin/internal/upstream"
)

// ErrInvalidCredentials is returned for a refused login.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// ValidationError lists field problems of a login form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("auth: %d invalid field(s)", len(e.Fields))
}

// Service validates credentials and delegates the login upstream.
type Service struct {
	authenticator Authenticator
	validate      *validator.Validate
}

// NewService constructs a Service.
func NewService(authenticator Authenticator) *Service {
	return &Service{authenticator: authenticator, validate: validator.New()}
}

// Login validates creds and returns a Grant from the upstream API.
func (s *Service) Login(ctx context.Context, creds Credentials) (Grant, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	if err := s.validate.Struct(creds); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Grant{}, err
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return Grant{}, &ValidationError{Fields: fields}
	}

	token, err := s.authenticator.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, upstream.ErrInvalidCredentials) {
			return Grant{}, ErrInvalidCredentials
		}
		return Grant{}, fmt.Errorf("auth: login: %w", err)
	}
	grant := Grant{Token: token}
	if exp, ok := TokenExpiry(token); ok {
		grant.ExpiresAt = exp
	}
	return grant, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Wajib diisi"
	case "max":
		return fmt.Sprintf("Maksimal %s karakter", fe.Param())
	default:
		return "Tidak valid"
	}
}
