package upstream

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the bearer token was rejected.
	ErrUnauthorized = errors.New("upstream: unauthorized")
	// ErrInvalidCredentials means the login was refused.
	ErrInvalidCredentials = errors.New("upstream: invalid credentials")
	// ErrMalformedPayload means the reply could not be decoded.
	ErrMalformedPayload = errors.New("upstream: malformed payload")
)

// APIError carries a non-success reply from the traffic API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream: status %d", e.Status)
	}
	return fmt.Sprintf("upstream: status %d: %s", e.Status, e.Message)
}
