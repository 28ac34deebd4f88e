package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nodedex/nodedex/pkg/integrations/github"
	"github.com/nodedex/nodedex/pkg/integrations/upstream"
	"github.com/nodedex/nodedex/pkg/nodes"
)

// syncOpts holds the command-line flags for the sync command.
type syncOpts struct {
	skipStats bool // merge the upstream list without hitting the GraphQL API
}

// syncCommand creates the sync command: fetch the upstream plugin list,
// merge it into the record set, refresh GitHub stats, and rewrite the
// bundle.
func (c *CLI) syncCommand() *cobra.Command {
	var opts syncOpts

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Merge the upstream plugin list and refresh GitHub stats",
		Long: `Fetch the upstream plugin list, merge new entries into the record set,
refresh stars and timestamps for every known repository via the GitHub
GraphQL API, and rewrite the output bundle.

Requires GITHUB_TOKEN unless --skip-stats is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSync(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.skipStats, "skip-stats", false, "skip the GitHub stats fetch")

	return cmd
}

func (c *CLI) runSync(cmd *cobra.Command, opts syncOpts) error {
	ctx := c.runContext(cmd.Context())
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	var token string
	if !opts.skipStats {
		if token, err = githubToken(); err != nil {
			return err
		}
	}

	existing, err := loadRecords(cfg)
	if err != nil {
		return err
	}

	logger.Infof("Fetching upstream list from %s", cfg.UpstreamURL)
	up := upstream.NewClient(cfg.UpstreamURL, cfg.FallbackListPath())
	list, fromFallback, err := up.FetchList(ctx)
	if err != nil {
		return fmt.Errorf("upstream list: %w", err)
	}
	if fromFallback {
		printWarning("Upstream fetch failed, using local fallback list")
	}

	merged := nodes.MergeUpstream(existing, list)
	added := len(merged) - len(existing)
	now := time.Now()

	if opts.skipStats {
		// Keep previously fetched metrics, just recompute display fields.
		for i := range merged {
			merged[i].Refresh(now)
		}
	} else {
		keys := repoKeys(merged)
		gh := github.NewClient(token, cfg.GraphQLURL)
		gh.BatchDelay = cfg.BatchDelay.Std()

		prog := newProgress(logger)
		sp := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching stats for %d repositories", len(keys)))
		sp.Start()
		stats, err := gh.FetchStats(ctx, keys)
		sp.Stop()
		if err != nil {
			return fmt.Errorf("github stats: %w", err)
		}
		prog.done(fmt.Sprintf("Fetched stats for %d of %d repositories", len(stats), len(keys)))
		merged = nodes.ApplyStats(merged, stats, now)
	}

	if err := writeBundle(cfg, merged, now, logger); err != nil {
		return err
	}

	source := iconFresh
	if fromFallback {
		source = iconFallback
	}
	printSuccess("Synced %d records", len(merged))
	printRecordStats(len(merged), added, source)
	printFile(cfg.BundleJSONPath())
	printFile(cfg.BundleJSPath())
	printNewline()
	printNextStep("Merge registry downloads", "nodedex registry")
	return nil
}
