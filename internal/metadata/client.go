// Package metadata looks up song and artist metadata in public music APIs.
//
// iTunes Search, MusicBrainz, CoverArtArchive and Wikidata are queried over
// HTTP. Every lookup is best-effort: transport errors, non-2xx responses and
// malformed JSON are logged and reported as "no result".
package metadata

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultTimeout is the per-request timeout used when no HTTP client is supplied
const DefaultTimeout = 10 * time.Second

// maxErrorBody bounds how much of a failed response is kept for the log
const maxErrorBody = 512

// apiClient issues GET requests and decodes JSON bodies
type apiClient struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func newAPIClient(httpClient *http.Client, userAgent string, limiter *rate.Limiter, logger *zap.Logger) apiClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return apiClient{
		httpClient: httpClient,
		userAgent:  userAgent,
		limiter:    limiter,
		logger:     logger,
	}
}

// getJSON fetches rawURL and decodes the body into dst, reporting whether it succeeded
func (c *apiClient) getJSON(ctx context.Context, rawURL string, dst any) bool {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.logger.Warn("metadata rate limiter wait failed", zap.String("url", rawURL), zap.Error(err))
			return false
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		c.logger.Warn("failed to create metadata request", zap.String("url", rawURL), zap.Error(err))
		return false
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("metadata request failed", zap.String("url", rawURL), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("metadata request returned non-2xx status",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return false
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		c.logger.Warn("failed to decode metadata response", zap.String("url", rawURL), zap.Error(err))
		return false
	}
	return true
}
