package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	// DefaultAPIBaseURL is the Google APIs host serving Drive v3
	DefaultAPIBaseURL = "https://www.googleapis.com"
	// DefaultTimeout bounds every Drive and token request
	DefaultTimeout = 15 * time.Second

	// tokens are refreshed this long before they expire
	tokenEarlyExpiry = 60 * time.Second
)

// Client opens Drive sessions for one service account
type Client struct {
	key        *ServiceAccountKey
	apiBaseURL string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Drive client. The private key is validated up front
// so a misconfigured key fails at startup rather than on the first grant.
func NewClient(key *ServiceAccountKey, apiBaseURL string, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	if _, err := NewTokenSource(context.Background(), key, ScopeDrive, httpClient); err != nil {
		return nil, err
	}
	if apiBaseURL == "" {
		apiBaseURL = DefaultAPIBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		key:        key,
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// ServiceAccountEmail returns the email of the account that owns the grants
func (c *Client) ServiceAccountEmail() string {
	return c.key.ClientEmail
}

// NewSession opens a session whose access token is reused until shortly before it expires.
// ctx scopes the token requests; the session must not outlive it.
func (c *Client) NewSession(ctx context.Context) (*Session, error) {
	src, err := NewTokenSource(ctx, c.key, ScopeDrive, c.httpClient)
	if err != nil {
		return nil, err
	}

	return &Session{
		httpClient: &http.Client{
			Timeout: c.httpClient.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.ReuseTokenSourceWithExpiry(nil, src, tokenEarlyExpiry),
				Base:   c.httpClient.Transport,
			},
		},
		apiBaseURL: c.apiBaseURL,
		logger:     c.logger,
	}, nil
}

// Session issues authorized Drive API calls sharing one cached token
type Session struct {
	httpClient *http.Client
	apiBaseURL string
	logger     *zap.Logger
}

type permissionRequest struct {
	Role         string `json:"role"`
	Type         string `json:"type"`
	EmailAddress string `json:"emailAddress"`
}

type hardenRequest struct {
	CopyRequiresWriterPermission bool `json:"copyRequiresWriterPermission"`
	WritersCanShare              bool `json:"writersCanShare"`
}

type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GrantReader gives email reader access to the file without a notification mail
func (s *Session) GrantReader(ctx context.Context, fileID, email string) error {
	if fileID == "" || email == "" {
		return fmt.Errorf("file id and email are required")
	}

	params := url.Values{}
	params.Set("sendNotificationEmail", "false")
	params.Set("supportsAllDrives", "true")
	endpoint := fmt.Sprintf("%s/drive/v3/files/%s/permissions?%s", s.apiBaseURL, url.PathEscape(fileID), params.Encode())

	body := permissionRequest{Role: "reader", Type: "user", EmailAddress: email}
	if err := s.do(ctx, http.MethodPost, endpoint, body); err != nil {
		return fmt.Errorf("failed to grant reader access on %s: %w", fileID, err)
	}
	return nil
}

// Harden disables copying and re-sharing of the file.
// Not every file type accepts the patch, so failures are logged and ignored.
func (s *Session) Harden(ctx context.Context, fileID string) {
	endpoint := fmt.Sprintf("%s/drive/v3/files/%s?supportsAllDrives=true", s.apiBaseURL, url.PathEscape(fileID))

	body := hardenRequest{CopyRequiresWriterPermission: true, WritersCanShare: false}
	if err := s.do(ctx, http.MethodPatch, endpoint, body); err != nil {
		s.logger.Warn("failed to harden drive file", zap.String("file_id", fileID), zap.Error(err))
	}
}

func (s *Session) do(ctx context.Context, method, endpoint string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr apiErrorResponse
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("drive api status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}
	return fmt.Errorf("drive api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
