package books

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("books.client")

const maxSearchResults = 10

// Client looks up books in an external catalog.
type Client interface {
	Search(ctx context.Context, query string) ([]Book, error)
	GetByID(ctx context.Context, id string) (Book, error)
}

type httpClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a catalog client against baseURL. The timeout bounds
// every outbound call; the API key is appended to search requests when set.
func NewClient(baseURL, apiKey string, timeout time.Duration) Client {
	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Search queries the catalog by free text. An empty query short-circuits to
// an empty result without touching the network.
func (c *httpClient) Search(ctx context.Context, query string) ([]Book, error) {
	ctx, span := tracer.Start(ctx, "BookClient.Search")
	defer span.End()
	span.SetAttributes(attribute.String("books.query", query))

	if query == "" {
		return []Book{}, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", fmt.Sprintf("%d", maxSearchResults))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/volumes?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog request failed")
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, "catalog returned non-200")
		return nil, fmt.Errorf("%w: status %d", ErrExternalService, resp.StatusCode)
	}

	var payload struct {
		Items []volume `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	results := make([]Book, 0, len(payload.Items))
	for _, v := range payload.Items {
		results = append(results, v.toBook())
	}
	span.SetAttributes(attribute.Int("books.results", len(results)))
	return results, nil
}

// GetByID fetches a single volume by its catalog id.
func (c *httpClient) GetByID(ctx context.Context, id string) (Book, error) {
	ctx, span := tracer.Start(ctx, "BookClient.GetByID")
	defer span.End()
	span.SetAttributes(attribute.String("books.id", id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/volumes/"+url.PathEscape(id), nil)
	if err != nil {
		return Book{}, fmt.Errorf("failed to build lookup request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog request failed")
		return Book{}, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Book{}, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		span.SetStatus(codes.Error, "catalog returned non-200")
		return Book{}, fmt.Errorf("%w: status %d", ErrExternalService, resp.StatusCode)
	}

	var v volume
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		span.RecordError(err)
		return Book{}, fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	if v.ID == "" && v.VolumeInfo.Title == "" {
		// The API answers 200 with an error body for some unknown ids.
		return Book{}, ErrNotFound
	}
	if v.ID == "" {
		v.ID = id
	}

	return v.toBook(), nil
}
