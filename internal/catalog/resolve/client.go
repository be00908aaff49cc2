package resolve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"poolconv/internal/catalog"
	"poolconv/internal/logging"
	"poolconv/internal/services"
)

// HTTPDoer describes the HTTP client used by the gateway client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a gateway Client.
type Options struct {
	BaseURL        string
	APIToken       string
	RequestTimeout time.Duration
	Logger         *slog.Logger
	HTTPClient     HTTPDoer
}

// Client implements catalog.Catalog over the scripting gateway.
type Client struct {
	baseURL string
	token   string
	client  HTTPDoer
	logger  *slog.Logger
}

var _ catalog.Catalog = (*Client)(nil)

// NewClient constructs a gateway client.
func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		token:   strings.TrimSpace(opts.APIToken),
		client:  client,
		logger:  logging.NewComponentLogger(opts.Logger, "catalog"),
	}
}

type projectPayload struct {
	Name string `json:"name"`
}

type clipPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	FilePath string `json:"file_path"`
}

type clipsResponse struct {
	Clips []clipPayload `json:"clips"`
}

type deleteRequest struct {
	ClipIDs []string `json:"clip_ids"`
}

type importRequest struct {
	Paths []string `json:"paths"`
}

// Initialize verifies the gateway is reachable and a project is open.
func (c *Client) Initialize(ctx context.Context) error {
	var project projectPayload
	if err := c.get(ctx, "/api/v1/project", &project); err != nil {
		return err
	}
	c.logger.Info("connected to media pool", logging.String("project", project.Name))
	return nil
}

// ListClips enumerates the media pool's root folder.
func (c *Client) ListClips(ctx context.Context) ([]catalog.Clip, error) {
	var payload clipsResponse
	if err := c.get(ctx, "/api/v1/mediapool/clips", &payload); err != nil {
		return nil, err
	}

	clips := make([]catalog.Clip, 0, len(payload.Clips))
	for _, clip := range payload.Clips {
		clips = append(clips, catalog.Clip{
			ID:       clip.ID,
			Name:     clip.Name,
			FilePath: clip.FilePath,
		})
	}
	return clips, nil
}

// Replace deletes clip from the pool and imports newFilePath.
func (c *Client) Replace(ctx context.Context, clip catalog.Clip, newFilePath string) error {
	if err := c.post(ctx, "/api/v1/mediapool/delete", deleteRequest{ClipIDs: []string{clip.ID}}); err != nil {
		return fmt.Errorf("delete clip %s: %w", clip.ID, err)
	}
	if err := c.post(ctx, "/api/v1/mediapool/import", importRequest{Paths: []string{newFilePath}}); err != nil {
		return fmt.Errorf("import %s: %w", newFilePath, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return services.Wrap(services.ErrValidation, "catalog", "build request", path, err)
	}
	return c.do(req, path, out)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return services.Wrap(services.ErrValidation, "catalog", "encode request", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return services.Wrap(services.ErrValidation, "catalog", "build request", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, nil)
}

func (c *Client) do(req *http.Request, path string, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrUnavailable, "catalog", "gateway request", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "catalog", "gateway request", "no active project", nil)
	case resp.StatusCode >= http.StatusInternalServerError:
		return services.Wrap(services.ErrUnavailable, "catalog", "gateway request", fmt.Sprintf("%s returned %d", path, resp.StatusCode), nil)
	case resp.StatusCode >= http.StatusMultipleChoices:
		return services.Wrap(services.ErrTransient, "catalog", "gateway request", fmt.Sprintf("%s returned %d", path, resp.StatusCode), nil)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrTransient, "catalog", "decode response", path, err)
	}
	return nil
}
