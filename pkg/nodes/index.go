package nodes

import (
	"sort"
	"strings"
)

// sortField describes one sortable column: the index key prefix and the
// numeric value extracted per node. Title sorting is handled separately
// because it compares case-folded strings.
type sortField struct {
	name  string
	value func(*Node) float64
}

var sortFields = []sortField{
	{"stars", func(n *Node) float64 { return float64(n.Stars) }},
	{"spm", func(n *Node) float64 { return n.SPM }},
	{"downloads", func(n *Node) float64 { return float64(n.Downloads) }},
	{"dpm", func(n *Node) float64 { return n.DPM }},
	{"updated", func(n *Node) float64 { return float64(n.LastUpdateTs) }},
	{"created", func(n *Node) float64 { return float64(n.CreatedAtTs) }},
}

// BuildIndices computes ascending and descending permutations of record
// positions for every sortable field, keyed "<field>_<asc|desc>". Sorts
// are stable: ties keep insertion order. The full set is recomputed on
// every run; the record count is small enough that a full resort is
// negligible next to the network fetches.
func BuildIndices(ns []Node) map[string][]int {
	indices := make(map[string][]int, 2*len(sortFields)+2)

	for _, f := range sortFields {
		indices[f.name+"_asc"] = sortedBy(ns, func(a, b *Node) bool { return f.value(a) < f.value(b) })
		indices[f.name+"_desc"] = sortedBy(ns, func(a, b *Node) bool { return f.value(a) > f.value(b) })
	}

	title := func(n *Node) string { return strings.ToLower(n.Title) }
	indices["name_asc"] = sortedBy(ns, func(a, b *Node) bool { return title(a) < title(b) })
	indices["name_desc"] = sortedBy(ns, func(a, b *Node) bool { return title(a) > title(b) })

	return indices
}

func sortedBy(ns []Node, less func(a, b *Node) bool) []int {
	idx := make([]int, len(ns))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return less(&ns[idx[i]], &ns[idx[j]])
	})
	return idx
}
