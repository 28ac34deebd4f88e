// Package github provides a batched client for the GitHub GraphQL API.
//
// # Overview
//
// The pipeline needs stats and README blobs for thousands of repositories
// per run. Fetching them one REST call at a time would burn the rate
// budget, so this client packs many repositories into a single GraphQL
// query using aliases:
//
//	query {
//	  r0: repository(owner: "foo", name: "bar") { ... }
//	  r1: repository(owner: "baz", name: "qux") { ... }
//	}
//
// Aliases map back to repo keys through an index table. An alias that is
// null in the response means GitHub has no data for that repository
// (deleted, renamed, private); it is not an error.
//
// # Usage
//
//	client := github.NewClient(token)
//	stats, err := client.FetchStats(ctx, keys)
//
// Stats queries pack up to [StatsBatchSize] repositories; README queries
// are heavier (three candidate blobs per repository) and pack up to
// [ReadmeBatchSize].
//
// # Authentication
//
// The GraphQL endpoint requires a token. Callers are expected to verify
// one is present before building a client.
package github
