package elastic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/filmgrid/catalog/internal/core/domain"
	"github.com/filmgrid/catalog/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentIndex = (*DocumentIndex)(nil)

// scrollKeepAlive is how long Elasticsearch keeps a scroll context open
// between pages
const scrollKeepAlive = "5m"

// DocumentIndex implements driven.DocumentIndex against the Elasticsearch
// search and scroll APIs
type DocumentIndex struct {
	client *Client
}

// NewDocumentIndex creates a new Elasticsearch-backed DocumentIndex
func NewDocumentIndex(client *Client) *DocumentIndex {
	return &DocumentIndex{client: client}
}

type searchResponse struct {
	ScrollID string `json:"_scroll_id"`
	Hits     struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// ScanPage reads one page of the index through the scroll API. An empty
// cursor opens a fresh scroll; the returned cursor is the scroll ID for the
// next page. A nil page with an empty cursor means the scan is complete.
func (d *DocumentIndex) ScanPage(ctx context.Context, index, cursor string, size int) ([]domain.RawDocument, string, error) {
	var (
		body []byte
		path string
		err  error
	)
	if cursor == "" {
		body, err = json.Marshal(map[string]any{
			"size":  size,
			"query": map[string]any{"match_all": map[string]any{}},
		})
		path = fmt.Sprintf("/%s/_search?scroll=%s", url.PathEscape(index), scrollKeepAlive)
	} else {
		body, err = json.Marshal(map[string]any{
			"scroll":    scrollKeepAlive,
			"scroll_id": cursor,
		})
		path = "/_search/scroll"
	}
	if err != nil {
		return nil, "", err
	}

	respBody, err := d.client.do(ctx, http.MethodPost, path, "application/json", body)
	if err != nil {
		return nil, "", fmt.Errorf("scan %s: %w", index, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, "", fmt.Errorf("decode scan response: %w", err)
	}

	if len(resp.Hits.Hits) == 0 {
		d.clearScroll(ctx, resp.ScrollID)
		return nil, "", nil
	}

	docs := make([]domain.RawDocument, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		docs = append(docs, domain.RawDocument{ID: hit.ID, Source: hit.Source})
	}
	return docs, resp.ScrollID, nil
}

// clearScroll releases a finished scroll context. Failures are ignored, the
// context expires on its own.
func (d *DocumentIndex) clearScroll(ctx context.Context, scrollID string) {
	if scrollID == "" {
		return
	}
	body, err := json.Marshal(map[string]any{"scroll_id": scrollID})
	if err != nil {
		return
	}
	_, _ = d.client.do(ctx, http.MethodDelete, "/_search/scroll", "application/json", body)
}

// GetByID fetches one document by its ID
func (d *DocumentIndex) GetByID(ctx context.Context, index, id string) (json.RawMessage, error) {
	path := fmt.Sprintf("/%s/_doc/%s", url.PathEscape(index), url.PathEscape(id))

	respBody, err := d.client.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", index, id, err)
	}

	var doc struct {
		Found  bool            `json:"found"`
		Source json.RawMessage `json:"_source"`
	}
	if err := json.Unmarshal(respBody, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	if !doc.Found {
		return nil, domain.ErrNotFound
	}
	return doc.Source, nil
}

// Search runs a paginated query. An empty MatchField matches everything.
func (d *DocumentIndex) Search(ctx context.Context, index string, query domain.SearchQuery) ([]domain.RawDocument, int, error) {
	var match map[string]any
	if query.MatchField == "" {
		match = map[string]any{"match_all": map[string]any{}}
	} else {
		match = map[string]any{
			"match": map[string]any{query.MatchField: query.MatchValue},
		}
	}

	body, err := json.Marshal(map[string]any{
		"from":  query.From,
		"size":  query.Size,
		"query": match,
	})
	if err != nil {
		return nil, 0, err
	}

	path := fmt.Sprintf("/%s/_search", url.PathEscape(index))
	respBody, err := d.client.do(ctx, http.MethodPost, path, "application/json", body)
	if err != nil {
		return nil, 0, fmt.Errorf("search %s: %w", index, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}

	docs := make([]domain.RawDocument, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		docs = append(docs, domain.RawDocument{ID: hit.ID, Source: hit.Source})
	}
	return docs, resp.Hits.Total.Value, nil
}

// Ping verifies the cluster is reachable
func (d *DocumentIndex) Ping(ctx context.Context) error {
	return d.client.Ping(ctx)
}
