package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nodedex/nodedex/pkg/integrations"
	"github.com/nodedex/nodedex/pkg/nodes"
)

// Client fetches the upstream plugin list.
type Client struct {
	client       *integrations.Client
	url          string
	fallbackPath string
}

// NewClient creates a list client. fallbackPath is where successful
// fetches are mirrored and where the fallback is read from.
func NewClient(url, fallbackPath string) *Client {
	return &Client{
		client:       integrations.NewClient(nil, nil),
		url:          url,
		fallbackPath: fallbackPath,
	}
}

// listDocument is the upstream wire format.
type listDocument struct {
	CustomNodes []listEntry `json:"custom_nodes"`
}

type listEntry struct {
	Author      string `json:"author"`
	Title       string `json:"title"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
	ID          string `json:"id"`
}

// FetchList retrieves the upstream list, mirroring it to the fallback
// file on success. When the remote fetch fails it falls back to the
// mirrored copy; fromFallback reports which source served the result.
func (c *Client) FetchList(ctx context.Context) (list []nodes.Node, fromFallback bool, err error) {
	var doc listDocument
	if fetchErr := c.client.Get(ctx, c.url, &doc); fetchErr != nil {
		doc, err = c.readFallback()
		if err != nil {
			return nil, false, fmt.Errorf("upstream fetch failed (%v) and no fallback: %w", fetchErr, err)
		}
		return doc.toNodes(), true, nil
	}

	c.writeFallback(doc)
	return doc.toNodes(), false, nil
}

func (c *Client) readFallback() (listDocument, error) {
	var doc listDocument
	data, err := os.ReadFile(c.fallbackPath)
	if err != nil {
		return doc, err
	}
	err = json.Unmarshal(data, &doc)
	return doc, err
}

// writeFallback mirrors the fetched list. Write failures are non-fatal.
func (c *Client) writeFallback(doc listDocument) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(c.fallbackPath), 0o755)
	_ = os.WriteFile(c.fallbackPath, data, 0o644)
}

func (d listDocument) toNodes() []nodes.Node {
	list := make([]nodes.Node, 0, len(d.CustomNodes))
	for _, e := range d.CustomNodes {
		author := e.Author
		if author == "" {
			author = "Unknown"
		}
		title := e.Title
		if title == "" {
			title = "Unknown"
		}
		list = append(list, nodes.Node{
			Author:      author,
			Title:       title,
			Reference:   e.Reference,
			Description: e.Description,
			ID:          e.ID,
		})
	}
	return list
}
