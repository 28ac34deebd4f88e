package nodes

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// escapeHTML escapes the five characters the frontend contract escapes.
func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// groupThousands formats n with comma thousand separators.
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// formatDate renders a millisecond timestamp as a relative date for the
// table row: Today, N days/weeks/months ago, or an absolute date beyond a
// year. Zero timestamps render as "-".
func formatDate(ts int64, now time.Time) string {
	if ts == 0 {
		return "-"
	}
	date := time.UnixMilli(ts)
	days := int(now.Sub(date).Hours() / 24)
	switch {
	case days <= 1:
		return "Today"
	case days <= 7:
		return fmt.Sprintf("%d days ago", days)
	case days <= 30:
		return plural(days/7, "week")
	case days <= 365:
		return plural(days/30, "month")
	default:
		return date.Format("Jan 02, 2006")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// renderRow produces the precomputed table-row fragment for a node. The
// fragment is regenerated wholesale from final field values after every
// merge pass; nothing in it is authoritative.
func renderRow(n *Node, now time.Time) string {
	stars := "-"
	if n.Stars > 0 {
		stars = groupThousands(n.Stars)
	}
	spm := "-"
	if n.SPM > 0 {
		spm = strconv.Itoa(int(math.Round(n.SPM)))
	}
	dpm := "-"
	if n.DPM > 0 {
		dpm = groupThousands(int(n.DPM))
	}

	essential := ""
	if n.ID == "manager" {
		essential = ` <b style="color:#38bdf8">★</b>`
	}

	return fmt.Sprintf(
		`<tr><td><a href="%s" target="_blank"><b>%s</b></a>%s <small class="author-text">by %s</small><br><small>%s</small></td>`+
			`<td class="stars">%s</td><td class="spm">%s</td><td class="dpm">%s</td><td>%s</td><td>%s</td></tr>`,
		n.Reference,
		escapeHTML(n.Title),
		essential,
		escapeHTML(n.Author),
		escapeHTML(n.Description),
		stars,
		spm,
		dpm,
		formatDate(n.CreatedAtTs, now),
		formatDate(n.LastUpdateTs, now),
	)
}
