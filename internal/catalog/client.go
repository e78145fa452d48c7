// Package catalog reads product data from the headless CMS and shapes it for
// the storefront pages.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/18Minahil/vanya-storefront/internal/domain"
)

const (
	productsPath       = "/api/products"
	defaultHTTPTimeout = 15 * time.Second
)

var (
	errBaseURLRequired = errors.New("catalog client: base URL is required")
	errSlugRequired    = errors.New("catalog client: slug is required")
)

// ClientDeps bundles constructor inputs for the catalog client.
type ClientDeps struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zap.Logger
	Sanitizer  *bluemonday.Policy
}

// Client issues read requests against the CMS product collection.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	logger    *zap.Logger
	sanitizer *bluemonday.Policy
}

// NewClient constructs the catalog client, validating its dependencies.
func NewClient(deps ClientDeps) (*Client, error) {
	base := strings.TrimSpace(deps.BaseURL)
	if base == "" {
		return nil, errBaseURLRequired
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("catalog client: base URL must be absolute: %q", base)
	}

	httpClient := deps.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sanitizer := deps.Sanitizer
	if sanitizer == nil {
		sanitizer = bluemonday.StrictPolicy()
	}

	return &Client{
		baseURL:   parsed,
		http:      httpClient,
		logger:    logger,
		sanitizer: sanitizer,
	}, nil
}

// collectionEnvelope is the CMS response wrapper for product queries.
type collectionEnvelope struct {
	Data []json.RawMessage `json:"data"`
}

// FetchBySlug loads the single product addressed by slug. A query matching
// zero records, or a record too broken to normalise, yields a not-found
// categorised error.
func (c *Client) FetchBySlug(ctx context.Context, slug string) (domain.Product, error) {
	const op = "catalog: fetch by slug"

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return domain.Product{}, NewFetchError(op, errSlugRequired)
	}

	query := url.Values{}
	query.Set("filters[slug][$eq]", slug)
	query.Set("populate", "*")

	envelope, err := c.get(ctx, op, query)
	if err != nil {
		return domain.Product{}, err
	}

	if len(envelope.Data) == 0 {
		return domain.Product{}, NewNotFoundError(op, fmt.Errorf("no product matches slug %q", slug))
	}

	var record productRecord
	if err := json.Unmarshal(envelope.Data[0], &record); err != nil {
		return domain.Product{}, NewNotFoundError(op, fmt.Errorf("record for slug %q is undecodable: %w", slug, err))
	}

	product, err := normalizeProduct(record, c.sanitizer)
	if err != nil {
		return domain.Product{}, NewNotFoundError(op, err)
	}
	return product, nil
}

// FetchCollection loads the whole product collection. Records that fail to
// decode or normalise are logged and skipped; they never abort the batch.
func (c *Client) FetchCollection(ctx context.Context) ([]domain.Product, error) {
	const op = "catalog: fetch collection"

	query := url.Values{}
	query.Set("populate", "*")

	envelope, err := c.get(ctx, op, query)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(envelope.Data))
	for i, raw := range envelope.Data {
		var record productRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			c.logger.Warn("catalog record undecodable, skipping",
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		product, err := normalizeProduct(record, c.sanitizer)
		if err != nil {
			c.logger.Warn("catalog record malformed, skipping",
				zap.Int("index", i),
				zap.Int64("id", record.ID),
				zap.Error(err),
			)
			continue
		}
		products = append(products, product)
	}
	return products, nil
}

// FetchRecommendations returns the collection minus the excluded slug,
// truncated to limit. Source order is preserved; there is no ranking.
func (c *Client) FetchRecommendations(ctx context.Context, excludeSlug string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		return nil, nil
	}

	products, err := c.FetchCollection(ctx)
	if err != nil {
		return nil, err
	}

	excludeSlug = strings.TrimSpace(excludeSlug)
	recommended := make([]domain.Product, 0, limit)
	for _, product := range products {
		if excludeSlug != "" && product.Slug == excludeSlug {
			continue
		}
		recommended = append(recommended, product)
		if len(recommended) == limit {
			break
		}
	}
	return recommended, nil
}

func (c *Client) get(ctx context.Context, op string, query url.Values) (collectionEnvelope, error) {
	endpoint := *c.baseURL
	endpoint.Path = strings.TrimSuffix(endpoint.Path, "/") + productsPath
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return collectionEnvelope{}, NewFetchError(op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return collectionEnvelope{}, NewFetchError(op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return collectionEnvelope{}, NewFetchError(op, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint.Redacted()))
	}

	var envelope collectionEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return collectionEnvelope{}, NewFetchError(op, fmt.Errorf("decoding response: %w", err))
	}
	return envelope, nil
}
