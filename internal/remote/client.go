// Package remote is a persistence backend that talks to a hoopstats server's record API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pable/go-hoops-stats/internal/model"
	"github.com/pable/go-hoops-stats/internal/store"
)

// Collection names used in record API paths.
const (
	PlayersPath = "players"
	GamesPath   = "games"
)

// Client is a minimal record API client.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a client for the server at baseURL. A zero timeout uses 30 seconds.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid remote url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/") + "/v1/records/",
		http: &http.Client{Timeout: timeout},
	}, nil
}

// Players returns the remote players collection.
func (c *Client) Players() *Collection[model.Player, model.PlayerPatch] {
	return &Collection[model.Player, model.PlayerPatch]{c: c, name: PlayersPath}
}

// Games returns the remote games collection.
func (c *Client) Games() *Collection[model.Game, model.GamePatch] {
	return &Collection[model.Game, model.GamePatch]{c: c, name: GamesPath}
}

// errorBody is the server's error envelope.
type errorBody struct {
	Error any `json:"error"`
}

// do sends body as JSON and decodes the response into out, when out is non-nil.
// A 404 is reported as store.ErrRecordNotFound.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", method, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, store.ErrRecordNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil && eb.Error != nil {
			return fmt.Errorf("%s %s: HTTP %d: %v", method, path, resp.StatusCode, eb.Error)
		}
		return fmt.Errorf("%s %s: HTTP %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s %s: empty response", method, path)
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
