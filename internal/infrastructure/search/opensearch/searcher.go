package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/turtacn/H2Siting/internal/domain/community"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

// DefaultPageSize is the number of ids fetched per search round trip.
const DefaultPageSize = 500

// Searcher runs community queries. Matching is a case-insensitive substring
// test on name or description, ordered by id, so results agree with the SQL
// ILIKE search.
type Searcher struct {
	client   *Client
	index    string
	pageSize int
	logger   logging.Logger
}

func NewSearcher(client *Client, index string, logger logging.Logger) *Searcher {
	return &Searcher{client: client, index: index, pageSize: DefaultPageSize, logger: logger}
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func containsClause(field, query string) map[string]interface{} {
	return map[string]interface{}{
		"wildcard": map[string]interface{}{
			field: map[string]interface{}{
				"value":            "*" + wildcardEscaper.Replace(query) + "*",
				"case_insensitive": true,
			},
		},
	}
}

// buildQueryDSL returns one page of the query, starting after id afterID
// when it is positive.
func (s *Searcher) buildQueryDSL(query string, afterID int64) map[string]interface{} {
	var q map[string]interface{}
	if query == "" {
		q = map[string]interface{}{"match_all": map[string]interface{}{}}
	} else {
		q = map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					containsClause("name.keyword", query),
					containsClause("description.keyword", query),
				},
				"minimum_should_match": 1,
			},
		}
	}
	dsl := map[string]interface{}{
		"query":   q,
		"size":    s.pageSize,
		"_source": false,
		"sort":    []interface{}{map[string]interface{}{"id": "asc"}},
	}
	if afterID > 0 {
		dsl["search_after"] = []interface{}{afterID}
	}
	return dsl
}

// SearchIDs returns every matching community id in ascending order. A blank
// query matches all communities.
func (s *Searcher) SearchIDs(ctx context.Context, query string) ([]int64, error) {
	query = strings.TrimSpace(query)
	ids := make([]int64, 0)
	var after int64
	for {
		page, hits, err := s.searchPage(ctx, query, after)
		if err != nil {
			return nil, err
		}
		ids = append(ids, page...)
		if hits < s.pageSize || len(page) == 0 || page[len(page)-1] <= after {
			return ids, nil
		}
		after = page[len(page)-1]
	}
}

// searchPage returns the numeric ids of one page and the raw hit count.
func (s *Searcher) searchPage(ctx context.Context, query string, after int64) ([]int64, int, error) {
	body, err := json.Marshal(s.buildQueryDSL(query, after))
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal query")
	}

	req := opensearchapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
	}
	resp, err := req.Do(ctx, s.client.GetClient())
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeSearchFailed, "search request failed")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, 0, handleErrorResponse(resp, errors.New(errors.ErrCodeSearchFailed, "search error"))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode search response")
	}

	ids := make([]int64, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			s.logger.Warn("Skipping non-numeric community document", logging.String("id", h.ID))
			continue
		}
		ids = append(ids, id)
	}
	return ids, len(parsed.Hits.Hits), nil
}

// CommunityIndex implements community.SearchIndex.
type CommunityIndex struct {
	indexer  *Indexer
	searcher *Searcher
}

var _ community.SearchIndex = (*CommunityIndex)(nil)

func NewCommunityIndex(client *Client, index string, logger logging.Logger) *CommunityIndex {
	return &CommunityIndex{
		indexer:  NewIndexer(client, index, logger),
		searcher: NewSearcher(client, index, logger),
	}
}

// CommunitySource lists the communities to backfill. The community
// repository satisfies it; an empty query lists all.
type CommunitySource interface {
	Search(ctx context.Context, query string) ([]*community.Community, error)
}

// EnsureIndex creates or updates the index on startup and backfills it
// from source, so communities created before the index are searchable.
func (c *CommunityIndex) EnsureIndex(ctx context.Context, source CommunitySource) error {
	if err := c.indexer.EnsureIndex(ctx); err != nil {
		return err
	}
	all, err := source.Search(ctx, "")
	if err != nil {
		return err
	}
	return c.indexer.Backfill(ctx, all)
}

func (c *CommunityIndex) Index(ctx context.Context, cm *community.Community) error {
	return c.indexer.IndexCommunity(ctx, cm)
}

func (c *CommunityIndex) Search(ctx context.Context, query string) ([]int64, error) {
	return c.searcher.SearchIDs(ctx, query)
}

//Personal.AI order the ending
