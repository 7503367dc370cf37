package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/turtacn/H2Siting/internal/domain/community"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

var (
	ErrIndexCreationFailed = errors.New(errors.ErrCodeSearchFailed, "index creation failed")
	ErrDocumentIndexFailed = errors.New(errors.ErrCodeSearchFailed, "document index failed")
)

// keywordIgnoreAbove keeps a keyword term under Lucene's 32766-byte limit
// for any UTF-8 input.
const keywordIgnoreAbove = 8191

// bulkChunk is the number of documents sent per bulk request.
const bulkChunk = 500

// textWithKeyword is analyzed text plus an exact keyword copy. Substring
// search runs case-insensitive wildcards against the keyword copy.
func textWithKeyword() map[string]interface{} {
	return map[string]interface{}{
		"type": "text",
		"fields": map[string]interface{}{
			"keyword": map[string]interface{}{"type": "keyword", "ignore_above": keywordIgnoreAbove},
		},
	}
}

func communityProperties() map[string]interface{} {
	return map[string]interface{}{
		"id":          map[string]interface{}{"type": "long"},
		"name":        textWithKeyword(),
		"description": textWithKeyword(),
		"created_at":  map[string]interface{}{"type": "date"},
	}
}

var communityMapping = map[string]interface{}{
	"settings": map[string]interface{}{
		"number_of_shards":   1,
		"number_of_replicas": 0,
	},
	"mappings": map[string]interface{}{
		"properties": communityProperties(),
	},
}

type communityDocument struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// Indexer writes community documents.
type Indexer struct {
	client  *Client
	index   string
	refresh string
	logger  logging.Logger
}

// NewIndexer creates a new Indexer. Writes refresh immediately so a new
// community is searchable on the next request.
func NewIndexer(client *Client, index string, logger logging.Logger) *Indexer {
	return &Indexer{client: client, index: index, refresh: "true", logger: logger}
}

// IndexExists checks whether the community index exists.
func (i *Indexer) IndexExists(ctx context.Context) (bool, error) {
	req := opensearchapi.IndicesExistsRequest{Index: []string{i.index}}

	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeSearchFailed, "failed to check index existence")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}
	return false, handleErrorResponse(resp, errors.New(errors.ErrCodeSearchFailed, "check index existence failed"))
}

// EnsureIndex creates the community index when it is missing. An existing
// index gets the keyword sub-fields added to its mapping.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	exists, err := i.IndexExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return i.putMapping(ctx)
	}

	body, err := json.Marshal(communityMapping)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal index mapping")
	}

	req := opensearchapi.IndicesCreateRequest{Index: i.index, Body: bytes.NewReader(body)}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSearchFailed, "failed to create index request")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return handleErrorResponse(resp, ErrIndexCreationFailed)
	}

	i.logger.Info("Index created", logging.String("index", i.index))
	return nil
}

func (i *Indexer) putMapping(ctx context.Context) error {
	body, err := json.Marshal(map[string]interface{}{"properties": communityProperties()})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal index mapping")
	}

	req := opensearchapi.IndicesPutMappingRequest{Index: []string{i.index}, Body: bytes.NewReader(body)}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSearchFailed, "failed to update mapping request")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return handleErrorResponse(resp, ErrIndexCreationFailed)
	}
	return nil
}

// Backfill upserts every community in bulk. Documents are keyed by id, so
// running it again only rewrites them.
func (i *Indexer) Backfill(ctx context.Context, communities []*community.Community) error {
	for start := 0; start < len(communities); start += bulkChunk {
		end := start + bulkChunk
		if end > len(communities) {
			end = len(communities)
		}
		if err := i.bulkIndex(ctx, communities[start:end]); err != nil {
			return err
		}
	}
	if len(communities) > 0 {
		i.logger.Info("Community index backfilled", logging.String("index", i.index), logging.Int("documents", len(communities)))
	}
	return nil
}

func (i *Indexer) bulkIndex(ctx context.Context, batch []*community.Community) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, c := range batch {
		action := map[string]interface{}{"index": map[string]interface{}{"_id": strconv.FormatInt(c.ID, 10)}}
		if err := enc.Encode(action); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal bulk action")
		}
		if err := enc.Encode(newCommunityDocument(c)); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal document")
		}
	}

	req := opensearchapi.BulkRequest{Index: i.index, Body: &buf, Refresh: i.refresh}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSearchFailed, "failed to bulk index request")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return handleErrorResponse(resp, ErrDocumentIndexFailed)
	}
	var result struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode bulk response")
	}
	if result.Errors {
		return ErrDocumentIndexFailed.WithDetail("bulk request had item failures")
	}
	return nil
}

func newCommunityDocument(c *community.Community) communityDocument {
	doc := communityDocument{ID: c.ID, Name: c.Name, Description: c.Description}
	if !c.CreatedAt.IsZero() {
		doc.CreatedAt = c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")
	}
	return doc
}

// IndexCommunity upserts the community document keyed by its id.
func (i *Indexer) IndexCommunity(ctx context.Context, c *community.Community) error {
	body, err := json.Marshal(newCommunityDocument(c))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal document")
	}

	req := opensearchapi.IndexRequest{
		Index:      i.index,
		DocumentID: strconv.FormatInt(c.ID, 10),
		Body:       bytes.NewReader(body),
		Refresh:    i.refresh,
	}
	resp, err := req.Do(ctx, i.client.GetClient())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSearchFailed, "failed to index document request")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return handleErrorResponse(resp, ErrDocumentIndexFailed)
	}
	return nil
}

func handleErrorResponse(resp *opensearchapi.Response, base *errors.AppError) error {
	bodyBytes, _ := io.ReadAll(resp.Body)
	var errResp struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.Unmarshal(bodyBytes, &errResp); err == nil && errResp.Error.Reason != "" {
		return base.WithDetail(errResp.Error.Type + ": " + errResp.Error.Reason)
	}
	return base.WithDetail("status " + strconv.Itoa(resp.StatusCode))
}

//Personal.AI order the ending
