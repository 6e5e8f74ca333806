package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jacentio/lattice/engine"
)

// HTTP fetches pages from a remote page API speaking the serve package's
// wire format: GET <base>?cursor=<cursor> returning a JSON
// {rows, nextCursor} body.
type HTTP struct {
	base   string
	client *http.Client
}

// NewHTTP creates a source against baseURL. A nil client uses
// http.DefaultClient.
func NewHTTP(baseURL string, client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{base: baseURL, client: client}
}

// FetchPage implements engine.DataSource.
func (h *HTTP) FetchPage(ctx context.Context, cursor engine.Cursor) (engine.Page, error) {
	u := h.base
	if cursor != "" {
		u += "?cursor=" + url.QueryEscape(string(cursor))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return engine.Page{}, fmt.Errorf("build page request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return engine.Page{}, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return engine.Page{}, fmt.Errorf("page API returned %d: %s", resp.StatusCode, body)
	}

	var page engine.Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return engine.Page{}, fmt.Errorf("decode page: %w", err)
	}
	return page, nil
}
