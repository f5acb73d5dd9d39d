// Package drive grants Google Drive file access to users through a service account.
//
// A service account key signs an RS256 JWT assertion that is exchanged for a
// bearer token at the OAuth2 token endpoint. Tokens are cached per Session,
// which callers open for the duration of a request or batch.
package drive

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultTokenURI is Google's OAuth2 token endpoint
const DefaultTokenURI = "https://oauth2.googleapis.com/token"

// ServiceAccountKey is the subset of a service account JSON key used for the JWT grant
type ServiceAccountKey struct {
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyID string `json:"private_key_id"`
	TokenURI     string `json:"token_uri"`
}

// ParseServiceAccount decodes a service account JSON key.
// client_email and private_key are required, token_uri defaults to DefaultTokenURI.
func ParseServiceAccount(data []byte) (*ServiceAccountKey, error) {
	var key ServiceAccountKey
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}

	key.ClientEmail = strings.TrimSpace(key.ClientEmail)
	if key.ClientEmail == "" {
		return nil, errors.New("service account key has no client_email")
	}
	if strings.TrimSpace(key.PrivateKey) == "" {
		return nil, errors.New("service account key has no private_key")
	}
	if strings.TrimSpace(key.TokenURI) == "" {
		key.TokenURI = DefaultTokenURI
	}

	return &key, nil
}
