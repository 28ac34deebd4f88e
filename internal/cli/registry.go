package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nodedex/nodedex/pkg/integrations/registry"
	"github.com/nodedex/nodedex/pkg/nodes"
)

// registryOpts holds the command-line flags for the registry command.
type registryOpts struct {
	refresh bool // bypass the HTTP response cache
	noCache bool // disable the HTTP response cache entirely
}

// registryCommand creates the registry command: fetch every page of the
// package registry, merge download counts into the record set, append
// registry-only entries, and rewrite the bundle.
func (c *CLI) registryCommand() *cobra.Command {
	var opts registryOpts

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Merge package registry downloads into the record set",
		Long: `Fetch the full paginated registry listing, merge download counts into
matching records, append registry-only packages as new records, and
rewrite the output bundle.

A transport failure mid-pagination keeps the pages fetched so far; the
merge then runs on partial data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRegistry(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached registry pages")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the HTTP response cache")

	return cmd
}

func (c *CLI) runRegistry(cmd *cobra.Command, opts registryOpts) error {
	ctx := c.runContext(cmd.Context())
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	respCache, err := newResponseCache(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}

	existing, err := loadRecords(cfg)
	if err != nil {
		return err
	}

	logger.Infof("Fetching registry listing from %s", cfg.RegistryURL)
	reg := registry.NewClient(cfg.RegistryURL, respCache)
	reg.PageDelay = cfg.PageDelay.Std()

	prog := newProgress(logger)
	sp := newSpinnerWithContext(ctx, "Fetching registry pages")
	sp.Start()
	regs, err := reg.FetchAll(ctx, opts.refresh)
	sp.Stop()
	if err != nil {
		if len(regs) == 0 {
			return fmt.Errorf("registry listing: %w", err)
		}
		printWarning("Registry pagination stopped early: %v", err)
	}
	prog.done(fmt.Sprintf("Fetched %d registry entries", len(regs)))

	now := time.Now()
	merged := nodes.ApplyRegistry(existing, regs, now)
	added := len(merged) - len(existing)

	if err := writeBundle(cfg, merged, now, logger); err != nil {
		return err
	}

	printSuccess("Merged %d registry entries", len(regs))
	printRecordStats(len(merged), added, iconFresh)
	printFile(cfg.BundleJSONPath())
	printNewline()
	printNextStep("Fetch README texts", "nodedex readmes")
	return nil
}
