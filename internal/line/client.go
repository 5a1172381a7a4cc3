package line

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const contentMaxBytes int64 = 32 << 20 // 32 MiB

// Client fetches binary message content from the LINE content API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a content API client. An empty token is allowed; fetches
// then fail with ErrImageFetchFailed so callers degrade instead of crash.
func NewClient(log *slog.Logger, baseURL, token string) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     log.With(slog.String("client", "line_content")),
	}
}

// FetchMessageContent downloads the binary content for a message id and
// returns the bytes plus the declared content type.
func (c *Client) FetchMessageContent(ctx context.Context, messageID string) ([]byte, string, error) {
	if strings.TrimSpace(c.token) == "" {
		return nil, "", fmt.Errorf("%w: channel access token not configured", ErrImageFetchFailed)
	}
	url := fmt.Sprintf("%s/v2/bot/message/%s/content", c.baseURL, messageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build content request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrImageFetchFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("content fetch rejected",
			slog.String("message_id", messageID),
			slog.Int("status", resp.StatusCode),
		)
		return nil, "", fmt.Errorf("%w: status %s", ErrImageFetchFailed, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, contentMaxBytes))
	if err != nil {
		return nil, "", fmt.Errorf("%w: read body: %v", ErrImageFetchFailed, err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}
