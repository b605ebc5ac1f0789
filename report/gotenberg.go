package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	chromiumHTMLRoute = "/forms/chromium/convert/html"
	maxPDFBytes       = 32 << 20
)

// Client renders HTML to PDF through a Gotenberg instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient points a Client at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: &http.Client{Timeout: 45 * time.Second}}
}

// StatusError reports a non-2xx answer from Gotenberg.
type StatusError struct {
	Route  string
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("gotenberg %s: status %d", e.Route, e.Status)
	}
	return fmt.Sprintf("gotenberg %s: status %d: %s", e.Route, e.Status, e.Detail)
}

// Ping calls the health route.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	_, err = c.send(req, "/health")
	return err
}

// RenderHTML uploads html as index.html and returns the PDF bytes. Pages are
// A4 landscape so wide report tables fit.
func (c *Client) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	file, err := form.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(file, html); err != nil {
		return nil, err
	}
	for _, field := range [][2]string{
		{"printBackground", "true"},
		{"landscape", "true"},
		{"paperWidth", "8.27"},
		{"paperHeight", "11.7"},
	} {
		if err := form.WriteField(field[0], field[1]); err != nil {
			return nil, err
		}
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chromiumHTMLRoute, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	return c.send(req, chromiumHTMLRoute)
}

func (c *Client) send(req *http.Request, route string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gotenberg %s: %w", route, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &StatusError{Route: route, Status: resp.StatusCode, Detail: strings.TrimSpace(string(detail))}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes))
}
