package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nodedex/nodedex/pkg/cache"
	"github.com/nodedex/nodedex/pkg/integrations"
	"github.com/nodedex/nodedex/pkg/integrations/github"
	"github.com/nodedex/nodedex/pkg/markdown"
	"github.com/nodedex/nodedex/pkg/nodes"
)

// minReadmeChars is the minimum sanitized length for a README to count
// as usable text; anything shorter is recorded as attempted-but-empty.
const minReadmeChars = 50

// readmesCommand creates the readmes command: batch-fetch README blobs
// for every repository not yet in the README cache, sanitize them, and
// persist the cache incrementally.
func (c *CLI) readmesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readmes",
		Short: "Fetch and sanitize README texts into the README cache",
		Long: `Fetch README blobs for every repository in the record set that has no
README cache entry yet, sanitize them to plain text, and store the
result. Repositories without a usable README get an explicit empty
marker so later runs skip them.

Requires GITHUB_TOKEN.`,
		Args: cobra.NoArgs,
		RunE: c.runReadmes,
	}

	return cmd
}

func (c *CLI) runReadmes(cmd *cobra.Command, args []string) error {
	ctx := c.runContext(cmd.Context())
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	token, err := githubToken()
	if err != nil {
		return err
	}

	records, err := loadRecords(cfg)
	if err != nil {
		return err
	}
	rc, err := cache.LoadReadmeCache(cfg.ReadmeCachePath())
	if err != nil {
		return err
	}

	var pending []nodes.RepoKey
	for _, key := range repoKeys(records) {
		if _, state := rc.Get(key.Key()); state == cache.ReadmeNotAttempted {
			pending = append(pending, key)
		}
	}
	if len(pending) == 0 {
		printInfo("README cache is up to date (%d entries, %d with text)", rc.Len(), rc.ValidCount())
		return nil
	}

	gh := github.NewClient(token, cfg.GraphQLURL)
	gh.BatchDelay = cfg.BatchDelay.Std()
	batches := github.Partition(pending, github.ReadmeBatchSize)
	logger.Infof("Fetching READMEs for %d repositories in %d batches", len(pending), len(batches))

	prog := newProgress(logger)
	fetched, failed := 0, 0
	for i, batch := range batches {
		if i > 0 {
			if err := sleep(ctx, gh.BatchDelay); err != nil {
				break
			}
		}

		texts, err := gh.FetchReadmeBatch(ctx, batch)
		if err != nil {
			if errors.Is(err, integrations.ErrUnauthorized) || ctx.Err() != nil {
				_ = rc.Flush()
				return err
			}
			logger.Warnf("Batch %d/%d failed: %v", i+1, len(batches), err)
			failed += len(batch)
			if err := sleep(ctx, gh.FailDelay); err != nil {
				break
			}
			continue
		}

		for _, key := range batch {
			clean := markdown.Sanitize(texts[key.Key()], cfg.ReadmeMaxChars)
			if len(clean) > minReadmeChars {
				rc.SetText(key.Key(), clean)
			} else {
				rc.SetEmpty(key.Key())
			}
			fetched++
		}
		logger.Debugf("Batch %d/%d done (%d entries cached)", i+1, len(batches), rc.Len())

		if (i+1)%cfg.FlushEvery == 0 {
			if err := rc.Flush(); err != nil {
				return fmt.Errorf("flush README cache: %w", err)
			}
		}
	}
	if err := rc.Flush(); err != nil {
		return fmt.Errorf("flush README cache: %w", err)
	}
	prog.done(fmt.Sprintf("Processed %d repositories", fetched))

	printSuccess("Fetched READMEs for %d repositories", fetched)
	if failed > 0 {
		printWarning("%d repositories skipped after failed batches", failed)
	}
	printDetail("Cache: %d entries, %d with text", rc.Len(), rc.ValidCount())
	printFile(cfg.ReadmeCachePath())
	printNewline()
	printNextStep("Classify READMEs", "nodedex summarize")
	return nil
}
