package elastic

import (
	"bytes"
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
var _ driven.IndexAdmin = (*IndexAdmin)(nil)

// IndexAdmin implements driven.IndexAdmin against the Elasticsearch index
// and bulk APIs
type IndexAdmin struct {
	client *Client
}

// NewIndexAdmin creates a new Elasticsearch-backed IndexAdmin
func NewIndexAdmin(client *Client) *IndexAdmin {
	return &IndexAdmin{client: client}
}

// Exists reports whether the index exists
func (a *IndexAdmin) Exists(ctx context.Context, index string) (bool, error) {
	_, err := a.client.do(ctx, http.MethodHead, "/"+url.PathEscape(index), "", nil)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("exists %s: %w", index, err)
	}
	return true, nil
}

// Create creates an index with an explicit mapping derived from the schema
func (a *IndexAdmin) Create(ctx context.Context, index string, schema domain.IndexSchema) error {
	properties := make(map[string]any, len(schema.Fields))
	for _, field := range schema.Fields {
		properties[field.Name] = mappingFor(field.Kind)
	}

	body, err := json.Marshal(map[string]any{
		"mappings": map[string]any{"properties": properties},
	})
	if err != nil {
		return err
	}

	_, err = a.client.do(ctx, http.MethodPut, "/"+url.PathEscape(index), "application/json", body)
	if err != nil {
		return fmt.Errorf("create %s: %w", index, err)
	}
	return nil
}

// mappingFor translates a schema field kind into an Elasticsearch property
func mappingFor(kind domain.FieldKind) map[string]any {
	switch kind {
	case domain.FieldText:
		return map[string]any{"type": "text", "analyzer": "standard"}
	case domain.FieldFloat:
		return map[string]any{"type": "float"}
	default:
		return map[string]any{"type": "keyword"}
	}
}

// Delete drops an index. Deleting an absent index is not an error.
func (a *IndexAdmin) Delete(ctx context.Context, index string) error {
	_, err := a.client.do(ctx, http.MethodDelete, "/"+url.PathEscape(index), "", nil)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("delete %s: %w", index, err)
	}
	return nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

// BulkWrite indexes a batch of documents through the NDJSON bulk API.
// Returns the succeeded count and per-document rejections; a non-nil error
// means the whole batch failed.
func (a *IndexAdmin) BulkWrite(ctx context.Context, index string, docs []driven.BulkDoc) (int, []driven.BulkItemError, error) {
	if len(docs) == 0 {
		return 0, nil, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, doc := range docs {
		action := map[string]any{
			"index": map[string]any{"_index": index, "_id": doc.ID},
		}
		if err := enc.Encode(action); err != nil {
			return 0, nil, err
		}
		if err := enc.Encode(doc.Body); err != nil {
			return 0, nil, fmt.Errorf("encode document %s: %w", doc.ID, err)
		}
	}

	respBody, err := a.client.do(ctx, http.MethodPost, "/_bulk", "application/x-ndjson", buf.Bytes())
	if err != nil {
		return 0, nil, fmt.Errorf("bulk write %s: %w", index, err)
	}

	var resp bulkResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return 0, nil, fmt.Errorf("decode bulk response: %w", err)
	}

	succeeded := 0
	var failed []driven.BulkItemError
	for _, item := range resp.Items {
		for _, result := range item {
			if result.Error == nil {
				succeeded++
				continue
			}
			failed = append(failed, driven.BulkItemError{
				DocID:  result.ID,
				Status: result.Status,
				Reason: result.Error.Type + ": " + result.Error.Reason,
			})
		}
	}
	return succeeded, failed, nil
}
