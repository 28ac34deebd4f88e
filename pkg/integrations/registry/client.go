package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/nodedex/nodedex/pkg/httputil"
	"github.com/nodedex/nodedex/pkg/integrations"
	"github.com/nodedex/nodedex/pkg/nodes"
)

// PageSize is the maximum page size the registry API allows.
const PageSize = 100

// Client walks the paginated registry node listing.
type Client struct {
	client  *integrations.Client
	baseURL string

	// PageDelay is the courtesy pause between page requests.
	PageDelay time.Duration
}

// NewClient creates a registry client for the given listing endpoint.
// Pages are served from cache within its TTL unless refresh is requested;
// pass nil to always hit the network.
func NewClient(baseURL string, cache *httputil.Cache) *Client {
	return &Client{
		client:    integrations.NewClient(cache, nil),
		baseURL:   baseURL,
		PageDelay: 100 * time.Millisecond,
	}
}

// FetchAll retrieves every page of the registry listing. On a transport
// failure it stops early and returns the pages fetched so far together
// with the error, so callers can proceed with partial data.
func (c *Client) FetchAll(ctx context.Context, refresh bool) ([]nodes.RegistryNode, error) {
	var all []nodes.RegistryNode

	page := 1
	for {
		var resp pageResponse
		err := c.client.Cached(ctx, fmt.Sprintf("registry:page:%d", page), refresh, &resp, func() error {
			url := fmt.Sprintf("%s?limit=%d&page=%d", c.baseURL, PageSize, page)
			return c.client.Get(ctx, url, &resp)
		})
		if err != nil {
			return all, fmt.Errorf("registry page %d: %w", page, err)
		}

		for _, entry := range resp.Nodes {
			all = append(all, entry.toNode())
		}

		if page >= resp.TotalPages {
			return all, nil
		}
		page++

		select {
		case <-ctx.Done():
			return all, ctx.Err()
		case <-time.After(c.PageDelay):
		}
	}
}

type pageResponse struct {
	Nodes      []registryEntry `json:"nodes"`
	TotalPages int             `json:"totalPages"`
}

type registryEntry struct {
	Publisher struct {
		Name string `json:"name"`
	} `json:"publisher"`
	Author      string     `json:"author"`
	Name        string     `json:"name"`
	Repository  string     `json:"repository"`
	Description string     `json:"description"`
	ID          string     `json:"id"`
	Downloads   int        `json:"downloads"`
	GithubStars int        `json:"github_stars"`
	CreatedAt   *time.Time `json:"created_at"`
}

func (e registryEntry) toNode() nodes.RegistryNode {
	publisher := e.Publisher.Name
	if publisher == "" {
		publisher = e.Author
	}
	n := nodes.RegistryNode{
		Publisher:   publisher,
		Name:        e.Name,
		Repository:  e.Repository,
		Description: e.Description,
		ID:          e.ID,
		Downloads:   e.Downloads,
		GithubStars: e.GithubStars,
	}
	if e.CreatedAt != nil {
		n.CreatedAt = *e.CreatedAt
	}
	return n
}
