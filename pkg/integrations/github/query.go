package github

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nodedex/nodedex/pkg/nodes"
)

// readmeCandidates are the blob paths tried for each repository, in
// priority order. The first candidate with text wins.
var readmeCandidates = []string{
	"HEAD:README.md",
	"HEAD:readme.md",
	"HEAD:Readme.md",
}

// alias names a repository selection inside a batch query. GraphQL
// aliases cannot start with a digit, so batch index i becomes "r<i>".
func alias(idx int) string {
	return fmt.Sprintf("r%d", idx)
}

func buildStatsQuery(batch []nodes.RepoKey) string {
	var b strings.Builder
	b.WriteString("query {\n")
	for idx, key := range batch {
		fmt.Fprintf(&b, "%s: repository(owner: %q, name: %q) {\n", alias(idx), key.Owner, key.Name)
		b.WriteString("stargazers { totalCount }\npushedAt\ncreatedAt\n}\n")
	}
	b.WriteString("}")
	return b.String()
}

func buildReadmeQuery(batch []nodes.RepoKey) string {
	var b strings.Builder
	b.WriteString("query {\n")
	for idx, key := range batch {
		fmt.Fprintf(&b, "%s: repository(owner: %q, name: %q) {\n", alias(idx), key.Owner, key.Name)
		for c, expr := range readmeCandidates {
			fmt.Fprintf(&b, "readme%d: object(expression: %q) { ... on Blob { text } }\n", c, expr)
		}
		b.WriteString("}\n")
	}
	b.WriteString("}")
	return b.String()
}

type graphQLResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (r *graphQLResponse) firstError() string {
	if len(r.Errors) == 0 {
		return "no error detail"
	}
	return r.Errors[0].Message
}

// decode unmarshals the aliased repository at batch index idx into v.
// ok is false when the alias is absent or null.
func (r *graphQLResponse) decode(idx int, v any) bool {
	raw, exists := r.Data[alias(idx)]
	if !exists || string(raw) == "null" {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

type statsRepo struct {
	Stargazers struct {
		TotalCount int `json:"totalCount"`
	} `json:"stargazers"`
	PushedAt  *time.Time `json:"pushedAt"`
	CreatedAt *time.Time `json:"createdAt"`
}

func (r *graphQLResponse) stats(idx int) (statsRepo, bool) {
	var repo statsRepo
	ok := r.decode(idx, &repo)
	return repo, ok
}

// readmeRepo holds the candidate blobs keyed by their query alias
// (readme0, readme1, ...). Null blobs stay nil.
type readmeRepo map[string]*struct {
	Text string `json:"text"`
}

func (r *graphQLResponse) readmes(idx int) (readmeRepo, bool) {
	var repo readmeRepo
	ok := r.decode(idx, &repo)
	return repo, ok
}

// firstText returns the content of the first candidate blob that exists
// and is non-empty, in candidate priority order.
func (r readmeRepo) firstText() (string, bool) {
	for c := range readmeCandidates {
		if blob := r[fmt.Sprintf("readme%d", c)]; blob != nil && blob.Text != "" {
			return blob.Text, true
		}
	}
	return "", false
}
