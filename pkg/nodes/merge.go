package nodes

import (
	"math"
	"time"
)

// RepoStats is the per-repository enrichment record for one fetch cycle.
// A nil *RepoStats in a stats map means the remote source had no matching
// repository (renamed, deleted, or private); that is data, not an error.
type RepoStats struct {
	Stars     int
	PushedAt  time.Time // zero when the API returned no push timestamp
	CreatedAt time.Time // zero when the API returned no creation timestamp
}

// RegistryNode is one entry from the package registry, reduced to the
// fields the merge consumes.
type RegistryNode struct {
	Publisher   string
	Name        string
	Repository  string
	Description string
	ID          string
	Downloads   int
	GithubStars int
	CreatedAt   time.Time // zero when the registry reported no date
}

// monthsSince converts elapsed time to fractional average months.
func monthsSince(now, t time.Time) float64 {
	return now.Sub(t).Seconds() / (86400 * daysPerMonth)
}

// perMonth normalizes a count by age: count / max(1, months since created).
func perMonth(count int, now, created time.Time) float64 {
	return float64(count) / math.Max(1, monthsSince(now, created))
}

// MergeUpstream folds the freshly fetched upstream list into the existing
// record set. Records already present (matched by normalized repo key) are
// left untouched; records present upstream but absent locally are appended
// with zeroed metrics pending enrichment. Existing records never disappear
// here even when the upstream list dropped them, so registry-added nodes
// survive across runs. Returns a new slice; inputs are not mutated.
func MergeUpstream(existing []Node, incoming []Node) []Node {
	merged := make([]Node, len(existing))
	copy(merged, existing)

	seen := make(map[string]bool, len(existing))
	for i := range existing {
		if key, ok := existing[i].RepoKey(); ok {
			seen[key.Key()] = true
		}
	}

	for _, in := range incoming {
		key, ok := in.RepoKey()
		if !ok || seen[key.Key()] {
			continue
		}
		seen[key.Key()] = true
		merged = append(merged, Node{
			Author:            in.Author,
			Title:             in.Title,
			Reference:         in.Reference,
			Description:       in.Description,
			ID:                in.ID,
			MonthsSinceUpdate: MaxStaleMonths,
		})
	}
	return merged
}

// ApplyStats merges one GitHub stats fetch into the record set. It owns
// stars, spm, lastUpdateTs, createdAtTs, and monthsSinceUpdate; downloads
// and dpm are preserved from the registry pass. Records whose key is
// absent from stats (or maps to nil) fall back to zero metrics with the
// maximally stale freshness default. Applying the same stats twice yields
// identical derived fields. Returns a new slice.
func ApplyStats(ns []Node, stats map[string]*RepoStats, now time.Time) []Node {
	out := make([]Node, len(ns))
	copy(out, ns)

	for i := range out {
		n := &out[i]

		n.Stars = 0
		n.SPM = 0
		n.LastUpdateTs = 0
		n.CreatedAtTs = 0
		n.MonthsSinceUpdate = MaxStaleMonths

		if key, ok := n.RepoKey(); ok {
			if s := stats[key.Key()]; s != nil {
				n.Stars = s.Stars
				if !s.PushedAt.IsZero() {
					n.LastUpdateTs = s.PushedAt.UnixMilli()
					n.MonthsSinceUpdate = min(MaxStaleMonths, int(monthsSince(now, s.PushedAt)))
				}
				if !s.CreatedAt.IsZero() {
					n.CreatedAtTs = s.CreatedAt.UnixMilli()
					n.SPM = perMonth(s.Stars, now, s.CreatedAt)
				}
			}
		}
		n.Refresh(now)
	}
	return out
}

// ApplyRegistry merges one registry fetch into the record set. It owns
// downloads and dpm on matched records, zeroing both when unmatched so
// stale values never linger; it never touches the GitHub-owned timestamp
// and star fields of matched records. Registry entries with no matching
// record are appended as new nodes. Because the registry reports no push
// timestamp, lastUpdateTs for appended nodes equals createdAtTs: their
// freshness reflects listing age, not code activity. Returns a new slice.
func ApplyRegistry(ns []Node, regs []RegistryNode, now time.Time) []Node {
	byKey := make(map[string]*RegistryNode, len(regs))
	for i := range regs {
		if key, ok := ParseRepoKey(regs[i].Repository); ok {
			byKey[key.Key()] = &regs[i]
		}
	}

	out := make([]Node, len(ns))
	copy(out, ns)

	matched := make(map[string]bool, len(out))
	for i := range out {
		n := &out[i]

		n.Downloads = 0
		n.DPM = 0
		if key, ok := n.RepoKey(); ok {
			if r := byKey[key.Key()]; r != nil {
				matched[key.Key()] = true
				n.Downloads = r.Downloads
				if !r.CreatedAt.IsZero() {
					n.DPM = perMonth(r.Downloads, now, r.CreatedAt)
				}
			}
		}
		if n.MonthsSinceUpdate > MaxStaleMonths {
			n.MonthsSinceUpdate = MaxStaleMonths
		}
		n.Refresh(now)
	}

	for i := range regs {
		r := &regs[i]
		key, ok := ParseRepoKey(r.Repository)
		if !ok || matched[key.Key()] {
			continue
		}
		matched[key.Key()] = true
		n := Node{
			Author:            r.Publisher,
			Title:             r.Name,
			Reference:         r.Repository,
			Description:       r.Description,
			ID:                r.ID,
			Stars:             r.GithubStars,
			Downloads:         r.Downloads,
			MonthsSinceUpdate: MaxStaleMonths,
		}
		if n.Author == "" {
			n.Author = "Unknown"
		}
		if !r.CreatedAt.IsZero() {
			n.CreatedAtTs = r.CreatedAt.UnixMilli()
			n.LastUpdateTs = n.CreatedAtTs
			n.MonthsSinceUpdate = min(MaxStaleMonths, int(monthsSince(now, r.CreatedAt)))
			n.SPM = perMonth(r.GithubStars, now, r.CreatedAt)
			n.DPM = perMonth(r.Downloads, now, r.CreatedAt)
		}
		n.Refresh(now)
		out = append(out, n)
	}
	return out
}
