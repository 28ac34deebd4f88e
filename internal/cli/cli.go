// Package cli implements the nodedex command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nodedex/nodedex/pkg/buildinfo"
	"github.com/nodedex/nodedex/pkg/cache"
	"github.com/nodedex/nodedex/pkg/config"
	"github.com/nodedex/nodedex/pkg/errors"
	"github.com/nodedex/nodedex/pkg/httputil"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "nodedex",
		Short:        "Nodedex aggregates plugin metadata into a browsable catalog",
		Long:         `Nodedex builds a plugin catalog by merging the upstream plugin list, GitHub repository stats and READMEs, and the package registry into one record set with precomputed sort indices, published as a JSON bundle for the static frontend.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultFileName+" in the working directory)")

	root.AddCommand(c.syncCommand())
	root.AddCommand(c.registryCommand())
	root.AddCommand(c.readmesCommand())
	root.AddCommand(c.summarizeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration and makes sure the data directory
// exists, since every command persists something under it.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runContext attaches a logger tagged with a fresh run id to ctx so every
// log line of one invocation can be correlated.
func (c *CLI) runContext(ctx context.Context) context.Context {
	return withLogger(ctx, c.Logger.With("run", uuid.NewString()[:8]))
}

// newResponseCache builds the HTTP response cache from the configured
// backend. noCache forces the null backend so every request hits the
// network.
func newResponseCache(ctx context.Context, cfg *config.Config, noCache bool) (*httputil.Cache, error) {
	if noCache {
		return httputil.NewCacheWithStore(cache.NewNullCache(), 0), nil
	}
	switch cfg.CacheBackend {
	case "redis":
		store, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return httputil.NewCacheWithStore(store, cfg.CacheTTL.Std()), nil
	default:
		return httputil.NewCache(cfg.CacheDir, cfg.CacheTTL.Std())
	}
}

// githubToken reads the GitHub API token from the environment. Commands
// check it before any network activity so a missing token fails fast.
func githubToken() (string, error) {
	return tokenFromEnv("GITHUB_TOKEN", os.Getenv("GITHUB_TOKEN"))
}

func tokenFromEnv(name, tok string) (string, error) {
	if err := errors.ValidateToken(name, tok); err != nil {
		return "", err
	}
	return tok, nil
}

// modelsToken reads the classification endpoint token, falling back to
// the GitHub token since the default endpoint accepts it.
func modelsToken() (string, error) {
	if tok := os.Getenv("MODELS_TOKEN"); tok != "" {
		return tokenFromEnv("MODELS_TOKEN", tok)
	}
	return tokenFromEnv("GITHUB_TOKEN", os.Getenv("GITHUB_TOKEN"))
}
