// Package qrcode fetches QR code images for event links from a rendering API.
package qrcode

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

const (
	DefaultAPIURL = "https://api.qrserver.com/v1/create-qr-code/"
	DefaultSize   = 300
	MinSize       = 100
	MaxSize       = 1000

	maxImageBytes = 2 << 20
)

type Client struct {
	apiURL     string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func NewClient(apiURL string, opts ...Option) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	c := &Client{apiURL: apiURL, httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParseSize reads a requested edge length in pixels. Missing or invalid
// values give DefaultSize; others are clamped to [MinSize, MaxSize].
func ParseSize(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultSize
	}
	return min(max(n, MinSize), MaxSize)
}

// PNG renders data as a size×size PNG.
func (c *Client) PNG(ctx context.Context, data string, size int) ([]byte, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("parse qr api url: %w", err)
	}
	q := u.Query()
	q.Set("size", fmt.Sprintf("%dx%d", size, size))
	q.Set("data", data)
	q.Set("format", "png")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch qr code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("qr api error: status %d", resp.StatusCode)
	}

	img, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read qr code: %w", err)
	}
	return img, nil
}
