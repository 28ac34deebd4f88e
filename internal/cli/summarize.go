package cli

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/nodedex/nodedex/pkg/cache"
	"github.com/nodedex/nodedex/pkg/integrations"
	"github.com/nodedex/nodedex/pkg/integrations/models"
)

// summarizeOpts holds the command-line flags for the summarize command.
type summarizeOpts struct {
	limit int // stop after this many classifications (0 = no limit)
}

// summarizeCommand creates the summarize command: classify every cached
// README that has no structured summary yet.
func (c *CLI) summarizeCommand() *cobra.Command {
	var opts summarizeOpts

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Classify cached READMEs into categories and summaries",
		Long: `Run every README cache entry that has usable text but no structured
summary through the classification endpoint, storing categories and a
one-line summary per repository. Entries written by the old raw-string
cache format are reprocessed.

Calls are paced at the configured requests-per-minute budget. The
summary cache is flushed after every item, so an interrupted run loses
nothing. Requires MODELS_TOKEN (or GITHUB_TOKEN).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSummarize(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 0, "maximum classifications this run (0 for no limit)")

	return cmd
}

func (c *CLI) runSummarize(cmd *cobra.Command, opts summarizeOpts) error {
	ctx := c.runContext(cmd.Context())
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	token, err := modelsToken()
	if err != nil {
		return err
	}

	cats, err := models.LoadCategories(cfg.CategoriesPath())
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	systemPrompt := models.BuildSystemPrompt(cats)

	rc, err := cache.LoadReadmeCache(cfg.ReadmeCachePath())
	if err != nil {
		return err
	}
	sc, err := cache.LoadSummaryCache(cfg.SummaryCachePath())
	if err != nil {
		return err
	}

	readmes := rc.Valid()
	var pending []string
	for key := range readmes {
		_, state := sc.Get(key)
		if state == cache.SummaryNotAttempted || state == cache.SummaryLegacy {
			pending = append(pending, key)
		}
	}
	sort.Strings(pending)
	if opts.limit > 0 && len(pending) > opts.limit {
		pending = pending[:opts.limit]
	}
	if len(pending) == 0 {
		printInfo("Summary cache is up to date (%d entries, %d valid)", sc.Len(), sc.ValidCount())
		return nil
	}

	mc := models.NewClient(token, cfg.ModelsEndpoint, cfg.Model)
	interval := time.Minute / time.Duration(cfg.RequestsPerMinute)
	logger.Infof("Classifying %d repositories with %s (%d rpm)", len(pending), cfg.Model, cfg.RequestsPerMinute)

	prog := newProgress(logger)
	classified, failed := 0, 0
	for i, key := range pending {
		if i > 0 {
			if err := sleep(ctx, interval); err != nil {
				break
			}
		}

		res, err := mc.Classify(ctx, systemPrompt, readmes[key])
		switch {
		case err == nil:
			sc.Set(key, cache.Summary{Categories: res.Categories, Summary: res.Summary})
			classified++
		case errors.Is(err, integrations.ErrUnauthorized):
			_ = sc.Flush()
			return fmt.Errorf("classification endpoint rejected the token: %w", err)
		case errors.Is(err, models.ErrBadResponse):
			logger.Warnf("Unparseable answer for %s, marking failed", key)
			sc.SetFailed(key)
			failed++
		case ctx.Err() != nil:
			_ = sc.Flush()
			return ctx.Err()
		default:
			// Transient failure: leave the entry unattempted so the next
			// run retries it.
			logger.Warnf("Classification failed for %s: %v", key, err)
			failed++
			continue
		}

		if err := sc.Flush(); err != nil {
			return fmt.Errorf("flush summary cache: %w", err)
		}
		logger.Debugf("%d/%d %s", i+1, len(pending), key)
	}
	prog.done(fmt.Sprintf("Classified %d repositories", classified))

	printSuccess("Classified %d repositories", classified)
	if failed > 0 {
		printWarning("%d repositories failed", failed)
	}
	printDetail("Cache: %d entries, %d valid", sc.Len(), sc.ValidCount())
	printFile(cfg.SummaryCachePath())
	return nil
}
