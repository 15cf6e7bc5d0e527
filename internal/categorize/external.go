package categorize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"cardwise/internal/core"
	"cardwise/internal/log"
)

// ErrUnresolved means the external service had no useful answer.
var ErrUnresolved = errors.New("categorization unresolved")

const (
	lookupCacheTTL     = 24 * time.Hour
	lookupCacheCleanup = time.Hour
)

// HTTPClient talks to an external merchant categorization service. Lookups
// are cached by normalized description so repeated merchants within and
// across statements cost one request.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
	cache   *gocache.Cache
	logger  *log.Logger
}

func NewHTTPClient(baseURL, token string, timeout time.Duration, logger *log.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
		cache:   gocache.New(lookupCacheTTL, lookupCacheCleanup),
		logger:  logger,
	}
}

type lookupRequest struct {
	Query string `json:"query"`
}

type lookupResponse struct {
	Category string `json:"category"`
}

// Lookup queries the service for one description. Any transport or
// decode failure is returned as an error; callers degrade to the default
// category rather than failing the statement.
func (c *HTTPClient) Lookup(ctx context.Context, description string) (core.Category, error) {
	key := strings.ToLower(strings.TrimSpace(description))
	if key == "" {
		return core.Other, ErrUnresolved
	}
	if cached, ok := c.cache.Get(key); ok {
		return cached.(core.Category), nil
	}

	body, err := json.Marshal(lookupRequest{Query: description})
	if err != nil {
		return core.Other, fmt.Errorf("encode lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/categorize", bytes.NewReader(body))
	if err != nil {
		return core.Other, fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("external categorization request failed", log.FieldError, err)
		}
		return core.Other, fmt.Errorf("categorization request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.Other, fmt.Errorf("categorization service returned %d", resp.StatusCode)
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return core.Other, fmt.Errorf("decode lookup response: %w", err)
	}

	cat := core.ParseCategory(decoded.Category)
	if cat == core.Other {
		return core.Other, ErrUnresolved
	}
	c.cache.Set(key, cat, gocache.DefaultExpiration)
	return cat, nil
}
