// Package nodes defines the plugin record model and the merge passes that
// reconcile the three data sources (upstream list, GitHub, registry) into
// one consistent record set.
//
// Records are keyed by a normalized repository key ("owner/name", lowercase)
// extracted from the reference URL. Each merge pass is a pure function that
// owns a fixed subset of fields and never touches fields owned by another
// pass; derived display fields (search string, HTML row) are recomputed
// after every pass.
package nodes

import (
	"regexp"
	"strings"
	"time"
)

// MaxStaleMonths caps monthsSinceUpdate. Records with no matching remote
// repository default to this value so the frontend freshness filter does
// not misclassify missing data as fresh.
const MaxStaleMonths = 18

// daysPerMonth is the average Gregorian month length used for all
// month-based metrics (spm, dpm, monthsSinceUpdate).
const daysPerMonth = 30.44

var repoURLPattern = regexp.MustCompile(`github\.com/([^/\s]+)/([^/\s?#]+)`)

// RepoKey identifies a GitHub repository by owner and name.
type RepoKey struct {
	Owner string
	Name  string
}

// ParseRepoKey extracts the first owner/name pair following a "github.com/"
// marker in url, stripping a trailing ".git" suffix from the name. It
// returns ok=false for empty input or URLs without the marker (non-GitHub
// hosts cannot be enriched).
func ParseRepoKey(url string) (RepoKey, bool) {
	if url == "" {
		return RepoKey{}, false
	}
	m := repoURLPattern.FindStringSubmatch(url)
	if m == nil {
		return RepoKey{}, false
	}
	name := strings.TrimSuffix(m[2], ".git")
	if name == "" {
		return RepoKey{}, false
	}
	return RepoKey{Owner: m[1], Name: name}, true
}

// Key returns the lowercase "owner/name" join key. All cross-source
// matching uses this form; callers must not use the raw owner/name pair
// as a map key or case-duplicate entries will appear.
func (k RepoKey) Key() string {
	return strings.ToLower(k.Owner + "/" + k.Name)
}

// String returns the key in its original casing, as sent to the API.
func (k RepoKey) String() string {
	return k.Owner + "/" + k.Name
}

// Node is one cataloged plugin entry: identity fields from the upstream
// list or registry, derived metrics from GitHub and the registry, and
// precomputed display fields consumed by the static frontend.
type Node struct {
	Author      string `json:"author"`
	Title       string `json:"title"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
	ID          string `json:"id"`

	Stars     int     `json:"stars"`
	SPM       float64 `json:"spm"`
	Downloads int     `json:"downloads"`
	DPM       float64 `json:"dpm"`

	// Millisecond timestamps. For registry-only nodes LastUpdateTs equals
	// CreatedAtTs because the registry reports no push time; their
	// freshness reflects listing age, not code activity.
	LastUpdateTs      int64 `json:"lastUpdateTs"`
	CreatedAtTs       int64 `json:"createdAtTs"`
	MonthsSinceUpdate int   `json:"monthsSinceUpdate"`

	SearchStr string `json:"searchStr"`
	HTML      string `json:"html"`
}

// RepoKey resolves the node's reference URL. ok is false when the node has
// no recognizable repository URL; such nodes keep zero-valued metrics.
func (n *Node) RepoKey() (RepoKey, bool) {
	return ParseRepoKey(n.Reference)
}

// Refresh recomputes the derived display fields from the node's current
// field values. now anchors the relative dates in the rendered row. Call
// after any merge pass that changed the node; the derived fields are never
// persisted as source-of-truth.
func (n *Node) Refresh(now time.Time) {
	n.SearchStr = strings.ToLower(n.Title + " " + n.Author + " " + n.Description)
	n.HTML = renderRow(n, now)
}
