// Package markdown reduces README markup to bounded plain text suitable
// for search indexing and classifier prompts.
package markdown

import (
	"regexp"
	"strings"
)

// DefaultMaxChars is the standard character budget for sanitized READMEs.
const DefaultMaxChars = 2000

// truncateMargin is how far back from the budget the truncation will walk
// to find a whitespace boundary instead of cutting mid-word.
const truncateMargin = 100

// stripRule is one ordered step of the markup-stripping pass. Replacement
// may reference capture groups ($1) to keep visible text.
type stripRule struct {
	re   *regexp.Regexp
	repl string
}

// stripRules run strictly in order; the order matters (images before
// links, fenced code before inline code, double emphasis markers before
// single ones).
var stripRules = []stripRule{
	{regexp.MustCompile(`<[^>]+>`), " "},                         // HTML tags
	{regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`), " "},            // image embeds
	{regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`), "$1"},          // links -> visible text
	{regexp.MustCompile(`\[!\[.*?\]\(.*?\)\]\(.*?\)`), " "},      // badge-link composites
	{regexp.MustCompile("```[\\s\\S]*?```"), " "},                // fenced code
	{regexp.MustCompile("`[^`]+`"), " "},                         // inline code
	{regexp.MustCompile(`(?m)^#{1,6}\s*`), ""},                   // heading markers
	{regexp.MustCompile(`\*\*([^*]+)\*\*`), "$1"},                // bold **
	{regexp.MustCompile(`__([^_]+)__`), "$1"},                    // bold __
	{regexp.MustCompile(`\*([^*]+)\*`), "$1"},                    // italic *
	{regexp.MustCompile(`_([^_]+)_`), "$1"},                      // italic _
	{regexp.MustCompile(`(?m)^>\s*`), ""},                        // block quotes
	{regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`), ""},               // horizontal rules
	{regexp.MustCompile(`(?m)^\s*[-*+]\s+`), ""},                 // unordered list markers
	{regexp.MustCompile(`(?m)^\s*\d+\.\s+`), ""},                 // ordered list markers
	{regexp.MustCompile(`https?://\S+`), " "},                    // bare URLs
}

var (
	disallowed = regexp.MustCompile(`[^a-zA-Z0-9.\-,]`)
	spaceRuns  = regexp.MustCompile(` +`)
)

// strip applies the ordered markup rules once.
func strip(s string) string {
	for _, r := range stripRules {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return s
}

// aggressiveClean keeps only alphanumerics, periods, hyphens, and commas,
// collapsing every run of removed characters to a single space.
func aggressiveClean(s string) string {
	s = disallowed.ReplaceAllString(s, " ")
	s = spaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Sanitize reduces markdown/HTML input to plain text of at most maxChars
// characters. The stripping passes repeat until the text is a fixed point,
// which makes Sanitize idempotent: running it on its own output is a
// no-op. Truncation prefers the last whitespace boundary within the final
// truncateMargin characters of the budget over a mid-word cut. Empty or
// whitespace-only input yields "".
func Sanitize(s string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	text := aggressiveClean(strip(s))
	for {
		next := aggressiveClean(strip(text))
		if next == text {
			break
		}
		text = next
	}

	if len(text) > maxChars {
		text = text[:maxChars]
		if cut := strings.LastIndex(text, " "); cut > maxChars-truncateMargin {
			text = text[:cut]
		}
	}
	return text
}
