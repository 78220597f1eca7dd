package upstream

import (
	"context"
	"net/http"
)

// Gerbang is a toll gate as listed by the traffic API.
type Gerbang struct {
	ID         int64  `json:"id"`
	BranchID   int64  `json:"IdCabang"`
	GateName   string `json:"NamaGerbang"`
	BranchName string `json:"NamaCabang"`
}

// ListGerbang fetches every gate known upstream.
func (c *Client) ListGerbang(ctx context.Context, token string) ([]Gerbang, error) {
	status, body, err := c.do(ctx, request{method: http.MethodGet, endpoint: "/gerbangs", token: token})
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, statusError(status, body)
	}
	env, err := decodeEnvelope[Gerbang](status, body)
	if err != nil {
		return nil, err
	}
	rows := env.Data.Rows.Rows
	if rows == nil {
		rows = []Gerbang{}
	}
	return rows, nil
}
