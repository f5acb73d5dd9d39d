package drive

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	oauthjwt "golang.org/x/oauth2/jwt"
)

// ScopeDrive grants full access to the service account's Drive files
const ScopeDrive = "https://www.googleapis.com/auth/drive"

const assertionLifetime = time.Hour

// NewTokenSource creates an oauth2.TokenSource exchanging signed service account
// assertions for access tokens. Requests go through httpClient when it is set.
func NewTokenSource(ctx context.Context, key *ServiceAccountKey, scope string, httpClient *http.Client) (oauth2.TokenSource, error) {
	if _, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(key.PrivateKey)); err != nil {
		return nil, fmt.Errorf("failed to parse service account private key: %w", err)
	}
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}

	conf := &oauthjwt.Config{
		Email:        key.ClientEmail,
		PrivateKey:   []byte(key.PrivateKey),
		PrivateKeyID: key.PrivateKeyID,
		Scopes:       []string{scope},
		TokenURL:     key.TokenURI,
		Expires:      assertionLifetime,
	}
	return conf.TokenSource(ctx), nil
}
