package nodes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mergeNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) time.Time {
	return mergeNow.Add(-time.Duration(d) * 24 * time.Hour)
}

func TestMergeUpstream(t *testing.T) {
	existing := []Node{
		{Title: "Known", Reference: "https://github.com/a/known", Stars: 40, Downloads: 7},
	}
	incoming := []Node{
		{Author: "Ada", Title: "Known Renamed", Reference: "https://github.com/A/Known"},
		{Author: "Bob", Title: "Fresh", Reference: "https://github.com/b/fresh", ID: "fresh"},
	}

	merged := MergeUpstream(existing, incoming)
	require.Len(t, merged, 2)

	// Known keys keep their existing record untouched, even when the
	// upstream entry differs.
	assert.Equal(t, "Known", merged[0].Title)
	assert.Equal(t, 40, merged[0].Stars)
	assert.Equal(t, 7, merged[0].Downloads)

	// New keys are appended with zeroed metrics and the stale default.
	assert.Equal(t, "Fresh", merged[1].Title)
	assert.Equal(t, "Bob", merged[1].Author)
	assert.Zero(t, merged[1].Stars)
	assert.Equal(t, MaxStaleMonths, merged[1].MonthsSinceUpdate)

	// Inputs are not mutated.
	assert.Len(t, existing, 1)
}

func TestMergeUpstreamKeepsDroppedRecords(t *testing.T) {
	existing := []Node{
		{Title: "Registry Only", Reference: "https://github.com/r/only"},
	}

	merged := MergeUpstream(existing, nil)
	require.Len(t, merged, 1)
	assert.Equal(t, "Registry Only", merged[0].Title)
}

func TestMergeUpstreamSkipsUnkeyedIncoming(t *testing.T) {
	incoming := []Node{
		{Title: "No Repo", Reference: "https://example.com/pkg"},
		{Title: "Blank"},
	}
	merged := MergeUpstream(nil, incoming)
	assert.Empty(t, merged)
}

func TestApplyStats(t *testing.T) {
	ns := []Node{
		{Title: "Active", Reference: "https://github.com/a/active", Downloads: 500, DPM: 12},
		{Title: "Gone", Reference: "https://github.com/g/gone", Stars: 99},
	}
	created := daysAgo(304) // ten average months
	pushed := daysAgo(61)   // two average months
	stats := map[string]*RepoStats{
		"a/active": {Stars: 120, PushedAt: pushed, CreatedAt: created},
		"g/gone":   nil,
	}

	out := ApplyStats(ns, stats, mergeNow)
	require.Len(t, out, 2)

	active := out[0]
	assert.Equal(t, 120, active.Stars)
	assert.Equal(t, pushed.UnixMilli(), active.LastUpdateTs)
	assert.Equal(t, created.UnixMilli(), active.CreatedAtTs)
	assert.Equal(t, 2, active.MonthsSinceUpdate)
	assert.InDelta(t, 12.0, active.SPM, 0.1, "stars per month over ten months")

	// Registry-owned fields survive the stats pass.
	assert.Equal(t, 500, active.Downloads)
	assert.Equal(t, 12.0, active.DPM)

	// A nil stats entry means the repo is gone: metrics reset, maximally
	// stale.
	gone := out[1]
	assert.Zero(t, gone.Stars)
	assert.Zero(t, gone.LastUpdateTs)
	assert.Equal(t, MaxStaleMonths, gone.MonthsSinceUpdate)
}

func TestApplyStatsIdempotent(t *testing.T) {
	ns := []Node{{Title: "A", Reference: "https://github.com/a/a"}}
	stats := map[string]*RepoStats{
		"a/a": {Stars: 10, PushedAt: daysAgo(5), CreatedAt: daysAgo(400)},
	}

	once := ApplyStats(ns, stats, mergeNow)
	twice := ApplyStats(once, stats, mergeNow)
	assert.Equal(t, once, twice)
}

func TestApplyStatsCapsStaleMonths(t *testing.T) {
	ns := []Node{{Title: "Old", Reference: "https://github.com/o/old"}}
	stats := map[string]*RepoStats{
		"o/old": {Stars: 1, PushedAt: daysAgo(3000), CreatedAt: daysAgo(3100)},
	}

	out := ApplyStats(ns, stats, mergeNow)
	assert.Equal(t, MaxStaleMonths, out[0].MonthsSinceUpdate)
}

func TestApplyRegistry(t *testing.T) {
	ns := []Node{
		{Title: "Matched", Reference: "https://github.com/m/matched", Stars: 50,
			LastUpdateTs: 1111, CreatedAtTs: 2222, Downloads: 3, DPM: 1},
		{Title: "Unmatched", Reference: "https://github.com/u/unmatched", Downloads: 9, DPM: 4},
	}
	created := daysAgo(152) // five average months
	regs := []RegistryNode{
		{Publisher: "Pub", Name: "matched-pkg", Repository: "https://github.com/M/Matched",
			Downloads: 1000, CreatedAt: created},
	}

	out := ApplyRegistry(ns, regs, mergeNow)
	require.Len(t, out, 2)

	matched := out[0]
	assert.Equal(t, 1000, matched.Downloads)
	assert.InDelta(t, 200.0, matched.DPM, 0.5)
	// GitHub-owned fields are untouched.
	assert.Equal(t, 50, matched.Stars)
	assert.Equal(t, int64(1111), matched.LastUpdateTs)
	assert.Equal(t, int64(2222), matched.CreatedAtTs)

	// Unmatched records get downloads zeroed so stale values never linger.
	assert.Zero(t, out[1].Downloads)
	assert.Zero(t, out[1].DPM)
}

func TestApplyRegistryAppendsNewNodes(t *testing.T) {
	created := daysAgo(91) // about three average months
	regs := []RegistryNode{
		{Publisher: "Pub", Name: "brand-new", Repository: "https://github.com/n/new",
			Description: "new package", ID: "brand-new", Downloads: 300, GithubStars: 30,
			CreatedAt: created},
		{Name: "no-publisher", Repository: "https://github.com/n/anon", Downloads: 1},
	}

	out := ApplyRegistry(nil, regs, mergeNow)
	require.Len(t, out, 2)

	n := out[0]
	assert.Equal(t, "Pub", n.Author)
	assert.Equal(t, "brand-new", n.Title)
	assert.Equal(t, 30, n.Stars)
	assert.Equal(t, 300, n.Downloads)
	// The registry reports no push time, so freshness reflects listing age.
	assert.Equal(t, n.CreatedAtTs, n.LastUpdateTs)
	assert.Equal(t, 2, n.MonthsSinceUpdate)

	anon := out[1]
	assert.Equal(t, "Unknown", anon.Author)
	assert.Zero(t, anon.CreatedAtTs)
	assert.Equal(t, MaxStaleMonths, anon.MonthsSinceUpdate)
}

func TestUpstreamThenStatsThenRegistry(t *testing.T) {
	upstreamList := []Node{{
		Author:      "Unknown",
		Title:       "Bar",
		Reference:   "https://github.com/Foo/Bar.git",
		Description: "does things",
	}}

	out := MergeUpstream(nil, upstreamList)
	out = ApplyStats(out, map[string]*RepoStats{
		"foo/bar": {Stars: 120, PushedAt: daysAgo(31), CreatedAt: daysAgo(400)},
	}, mergeNow)
	out = ApplyRegistry(out, nil, mergeNow)

	require.Len(t, out, 1)
	n := out[0]
	assert.Equal(t, 120, n.Stars)
	assert.Zero(t, n.Downloads)
	assert.Zero(t, n.DPM)
	assert.Equal(t, 1, n.MonthsSinceUpdate)
	assert.InDelta(t, 9.2, n.SPM, 0.15)
	assert.Equal(t, "bar unknown does things", n.SearchStr)
}

func TestApplyRegistryDuplicateKeyAppendsOnce(t *testing.T) {
	regs := []RegistryNode{
		{Name: "one", Repository: "https://github.com/d/dup", Downloads: 1},
		{Name: "two", Repository: "https://github.com/D/Dup", Downloads: 2},
	}

	out := ApplyRegistry(nil, regs, mergeNow)
	assert.Len(t, out, 1)
}
