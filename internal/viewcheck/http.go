package viewcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/laureates/internal/domain/types"
)

// httpClient wraps http.Client with a base URL.
type httpClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// getJSON issues a GET and decodes a 200 body into v. It returns the
// status code for every completed request.
func (c *httpClient) getJSON(ctx context.Context, path string, v any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK || v == nil {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s: %w", path, err)
	}
	return resp.StatusCode, nil
}

// viewsPath renders q as a /api/views request path.
func viewsPath(q types.Query) string {
	values := url.Values{}
	if q.YearMin != nil {
		values.Set("year_min", strconv.Itoa(*q.YearMin))
	}
	if q.YearMax != nil {
		values.Set("year_max", strconv.Itoa(*q.YearMax))
	}
	if q.Category != "" {
		values.Set("category", q.Category)
	}
	if len(values) == 0 {
		return "/api/views"
	}
	return "/api/views?" + values.Encode()
}
