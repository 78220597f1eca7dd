package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/laporan-latin/laporan-latin/internal/lalin"
)

var _ lalin.Source = (*Client)(nil)

// ListLalin fetches one page of traffic records for a date.
func (c *Client) ListLalin(ctx context.Context, token string, q lalin.Query) (lalin.Page, error) {
	query := url.Values{}
	query.Set("tanggal", q.Date)
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	status, body, err := c.do(ctx, request{method: http.MethodGet, endpoint: "/lalins", query: query, token: token})
	if err != nil {
		return lalin.Page{}, err
	}
	if status < 200 || status >= 300 {
		return lalin.Page{}, statusError(status, body)
	}
	env, err := decodeEnvelope[lalinRow](status, body)
	if err != nil {
		return lalin.Page{}, err
	}
	return pageFromEnvelope(env)
}
