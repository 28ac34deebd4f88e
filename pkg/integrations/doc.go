// Package integrations provides HTTP clients for the upstream APIs the
// pipeline depends on.
//
// # Overview
//
// Each upstream service has its own subpackage:
//
//   - [upstream]: the community plugin list, with a local fallback mirror
//   - [github]: GitHub GraphQL API for batched repository stats and READMEs
//   - [registry]: the package registry REST API (downloads, publishers)
//   - [models]: chat-completion endpoint for README classification
//
// # Client Pattern
//
// All clients follow a consistent pattern:
//
//	client := github.NewClient(token, "")
//	stats, err := client.FetchStats(ctx, keys)
//
// Clients handle:
//   - HTTP requests with retry and rate limiting
//   - Response caching where repeated fetches are cheap to reuse
//   - API-specific parsing and normalization
//
// # Shared Infrastructure
//
// The [Client] type provides shared HTTP functionality used by all
// upstream clients, including JSON GET/POST and response caching.
//
// [upstream]: github.com/nodedex/nodedex/pkg/integrations/upstream
// [github]: github.com/nodedex/nodedex/pkg/integrations/github
// [registry]: github.com/nodedex/nodedex/pkg/integrations/registry
// [models]: github.com/nodedex/nodedex/pkg/integrations/models
package integrations
