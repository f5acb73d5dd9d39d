package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// commonsFilePathBase resolves a Commons file name to the file itself
const commonsFilePathBase = "https://commons.wikimedia.org/wiki/Special:FilePath/"

// WikidataClient reads entity claims from the Wikidata API
type WikidataClient struct {
	api     apiClient
	baseURL string
}

// NewWikidataClient creates a Wikidata client rooted at baseURL (e.g. "https://www.wikidata.org")
func NewWikidataClient(baseURL string, httpClient *http.Client, userAgent string, logger *zap.Logger) *WikidataClient {
	return &WikidataClient{
		api:     newAPIClient(httpClient, userAgent, nil, logger),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type wbEntitiesResponse struct {
	Entities map[string]wbEntity `json:"entities"`
}

type wbEntity struct {
	Claims map[string][]wbClaim `json:"claims"`
}

type wbClaim struct {
	MainSnak struct {
		DataValue struct {
			Type  string `json:"type"`
			Value any    `json:"value"`
		} `json:"datavalue"`
	} `json:"mainsnak"`
}

// ImageFileName returns the Commons file name of the entity's P18 (image) claim, or ""
func (c *WikidataClient) ImageFileName(ctx context.Context, entityID string) string {
	if entityID == "" {
		return ""
	}

	params := url.Values{}
	params.Set("action", "wbgetentities")
	params.Set("ids", entityID)
	params.Set("props", "claims")
	params.Set("format", "json")

	var resp wbEntitiesResponse
	if !c.api.getJSON(ctx, fmt.Sprintf("%s/w/api.php?%s", c.baseURL, params.Encode()), &resp) {
		return ""
	}

	entity, ok := resp.Entities[entityID]
	if !ok {
		return ""
	}
	for _, claim := range entity.Claims["P18"] {
		if name, ok := claim.MainSnak.DataValue.Value.(string); ok && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

// CommonsFileURL builds the Special:FilePath URL of a Commons file name
func CommonsFileURL(fileName string) string {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return ""
	}
	return commonsFilePathBase + url.PathEscape(strings.ReplaceAll(fileName, " ", "_"))
}
