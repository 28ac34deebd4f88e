package github

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/nodedex/nodedex/pkg/httputil"
	"github.com/nodedex/nodedex/pkg/integrations"
	"github.com/nodedex/nodedex/pkg/nodes"
)

const (
	// StatsBatchSize is the number of repositories packed into one stats query.
	StatsBatchSize = 100
	// ReadmeBatchSize is the number of repositories packed into one README
	// query. Smaller than stats batches since each repository expands to
	// three blob lookups.
	ReadmeBatchSize = 50
)

const defaultEndpoint = "https://api.github.com/graphql"

// Client fetches repository stats and README blobs in batched GraphQL queries.
type Client struct {
	client   *integrations.Client
	endpoint string

	// BatchDelay is the courtesy pause between successive batch queries.
	BatchDelay time.Duration
	// FailDelay is the pause after a failed batch before the run continues
	// with the next one.
	FailDelay time.Duration
}

// NewClient creates a GraphQL client authenticated with token. An empty
// endpoint selects the public GitHub API. GraphQL responses are never
// served from the HTTP cache; every run wants fresh stats.
func NewClient(token, endpoint string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	headers := map[string]string{"Authorization": "bearer " + token}
	return &Client{
		client:     integrations.NewClient(nil, headers),
		endpoint:   endpoint,
		BatchDelay: 500 * time.Millisecond,
		FailDelay:  time.Second,
	}
}

// Partition sorts keys by their lowercase join key and splits them into
// contiguous batches of at most size. Sorting first keeps batch membership
// stable across runs for the same input set.
func Partition(keys []nodes.RepoKey, size int) [][]nodes.RepoKey {
	sorted := make([]nodes.RepoKey, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Key() < sorted[j].Key()
	})

	var batches [][]nodes.RepoKey
	for len(sorted) > 0 {
		n := min(size, len(sorted))
		batches = append(batches, sorted[:n])
		sorted = sorted[n:]
	}
	return batches
}

// FetchStats retrieves stars and activity timestamps for all keys,
// batching internally. The result maps lowercase repo keys to stats;
// repositories GitHub returned no data for are absent. A failed batch
// leaves all its repositories unresolved and the run continues, except
// for an auth failure which aborts immediately.
func (c *Client) FetchStats(ctx context.Context, keys []nodes.RepoKey) (map[string]*nodes.RepoStats, error) {
	stats := make(map[string]*nodes.RepoStats, len(keys))

	batches := Partition(keys, StatsBatchSize)
	for i, batch := range batches {
		if err := c.statsBatch(ctx, batch, stats); err != nil {
			if errors.Is(err, integrations.ErrUnauthorized) || ctx.Err() != nil {
				return stats, err
			}
			if err := pause(ctx, c.FailDelay); err != nil {
				return stats, err
			}
			continue
		}
		if i < len(batches)-1 {
			if err := pause(ctx, c.BatchDelay); err != nil {
				return stats, err
			}
		}
	}
	return stats, nil
}

func (c *Client) statsBatch(ctx context.Context, batch []nodes.RepoKey, out map[string]*nodes.RepoStats) error {
	resp, err := c.query(ctx, buildStatsQuery(batch))
	if err != nil {
		return err
	}
	for idx, key := range batch {
		repo, ok := resp.stats(idx)
		if !ok {
			continue // alias null: no data for this repo
		}
		s := &nodes.RepoStats{Stars: repo.Stargazers.TotalCount}
		if repo.PushedAt != nil {
			s.PushedAt = *repo.PushedAt
		}
		if repo.CreatedAt != nil {
			s.CreatedAt = *repo.CreatedAt
		}
		out[key.Key()] = s
	}
	return nil
}

// FetchReadmeBatch retrieves raw README text for one batch of at most
// [ReadmeBatchSize] keys. The result maps lowercase repo keys to the
// first candidate blob that had text; keys without any README are absent.
// Callers own batching (via [Partition]) so they can flush their cache
// on batch boundaries.
func (c *Client) FetchReadmeBatch(ctx context.Context, batch []nodes.RepoKey) (map[string]string, error) {
	resp, err := c.query(ctx, buildReadmeQuery(batch))
	if err != nil {
		return nil, err
	}

	texts := make(map[string]string)
	for idx, key := range batch {
		repo, ok := resp.readmes(idx)
		if !ok {
			continue
		}
		if text, ok := repo.firstText(); ok {
			texts[key.Key()] = text
		}
	}
	return texts, nil
}

// query posts one GraphQL document. An explicit rate-limit response gets
// a single longer-wait retry; anything else fails the batch.
func (c *Client) query(ctx context.Context, doc string) (*graphQLResponse, error) {
	var resp graphQLResponse
	payload := map[string]string{"query": doc}
	err := httputil.Retry(ctx, 1, 0, func() error {
		resp = graphQLResponse{}
		return c.client.Post(ctx, c.endpoint, payload, &resp)
	})
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, errors.New("graphql response had no data: " + resp.firstError())
	}
	return &resp, nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
