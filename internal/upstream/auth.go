package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginReply struct {
	Token   string `json:"token"`
	Message string `json:"message"`
	Data    *struct {
		Token string `json:"token"`
	} `json:"data"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	status, body, err := c.do(ctx, request{
		method:   http.MethodPost,
		endpoint: "/auth/login",
		body:     loginRequest{Username: username, Password: password},
	})
	if err != nil {
		return "", err
	}
	switch {
	case status == http.StatusUnauthorized, status == http.StatusBadRequest:
		return "", ErrInvalidCredentials
	case status < 200 || status >= 300:
		return "", statusError(status, body)
	}

	var reply loginReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	token := strings.TrimSpace(reply.Token)
	if token == "" && reply.Data != nil {
		token = strings.TrimSpace(reply.Data.Token)
	}
	if token == "" {
		return "", fmt.Errorf("%w: login reply has no token", ErrMalformedPayload)
	}
	return token, nil
}
