package cli

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nodedex/nodedex/pkg/config"
	"github.com/nodedex/nodedex/pkg/nodes"
)

// loadRecords reads the persisted record set from the previous bundle.
// A missing bundle is a first run and yields an empty set.
func loadRecords(cfg *config.Config) ([]nodes.Node, error) {
	b, err := nodes.LoadBundle(cfg.BundleJSONPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b.Nodes, nil
}

// writeBundle recomputes the indices and writes both bundle artifacts.
func writeBundle(cfg *config.Config, ns []nodes.Node, now time.Time, logger *log.Logger) error {
	b := nodes.NewBundle(ns, now)
	if err := b.WriteJSON(cfg.BundleJSONPath()); err != nil {
		return err
	}
	if err := b.WriteJS(cfg.BundleJSPath()); err != nil {
		return err
	}
	logger.Debugf("Wrote bundle with %d records", len(ns))
	return nil
}

// repoKeys collects the distinct repository keys of the record set,
// skipping records without a recognizable repository URL.
func repoKeys(ns []nodes.Node) []nodes.RepoKey {
	seen := make(map[string]bool, len(ns))
	keys := make([]nodes.RepoKey, 0, len(ns))
	for i := range ns {
		key, ok := ns[i].RepoKey()
		if !ok || seen[key.Key()] {
			continue
		}
		seen[key.Key()] = true
		keys = append(keys, key)
	}
	return keys
}

// sleep pauses for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
