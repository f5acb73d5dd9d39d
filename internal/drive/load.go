package drive

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// LoadClient reads a service account key file and creates a Drive client with the given request timeout
func LoadClient(keyFile, apiBaseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	data, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account file: %w", err)
	}

	key, err := ParseServiceAccount(data)
	if err != nil {
		return nil, err
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client, err := NewClient(key, apiBaseURL, &http.Client{Timeout: timeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}
	return client, nil
}
