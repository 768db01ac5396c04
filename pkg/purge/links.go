package purge

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// PostLink is a post tile on the grid, identified by its normalized href
// and ordered by its on-screen position. Recomputed on every grid visit;
// never cached across navigations.
type PostLink struct {
	Href string
	X    float64
	Y    float64
}

// postHrefPattern matches hrefs that point at a post: known path prefixes
// or an opaque identifier of at least 5 alphanumeric characters
var postHrefPattern = regexp.MustCompile(`^/(gallery/|a/|post/|image/|[A-Za-z0-9]{5,})`)

// blockedPrefixes are site chrome, not posts
var blockedPrefixes = []string{
	"/upload", "/notifications", "/settings", "/account/",
	"/user/", "/t/", "/topics", "/privacy", "/terms", "/arcade",
}

// OrderPostLinks filters raw anchors down to genuine post links,
// deduplicates by normalized href, and orders them row-major, top-left
// first. Rounding the coordinates absorbs sub-pixel jitter so tiles on the
// same visual row sort by horizontal position. Deterministic for a fixed
// anchor snapshot.
func OrderPostLinks(anchors []Anchor) []PostLink {
	items := make([]PostLink, 0, len(anchors))
	for _, a := range anchors {
		if !a.Visible {
			continue
		}
		// zero-size boxes are detached from layout
		if a.Width <= 0 || a.Height <= 0 {
			continue
		}
		href := NormalizeHref(a.Href)
		if !strings.HasPrefix(href, "/") || hasBlockedPrefix(href) {
			continue
		}
		if !postHrefPattern.MatchString(href) {
			continue
		}
		items = append(items, PostLink{Href: href, X: a.X, Y: a.Y})
	}

	sort.SliceStable(items, func(i, j int) bool {
		yi, yj := math.Round(items[i].Y), math.Round(items[j].Y)
		if yi != yj {
			return yi < yj
		}
		return math.Round(items[i].X) < math.Round(items[j].X)
	})

	seen := make(map[string]bool, len(items))
	ordered := items[:0]
	for _, it := range items {
		if seen[it.Href] {
			continue
		}
		seen[it.Href] = true
		ordered = append(ordered, it)
	}
	return ordered
}

// NormalizeHref strips the query string and fragment from an href
func NormalizeHref(href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	if i := strings.IndexByte(href, '?'); i >= 0 {
		href = href[:i]
	}
	return href
}

func hasBlockedPrefix(href string) bool {
	for _, p := range blockedPrefixes {
		if strings.HasPrefix(href, p) {
			return true
		}
	}
	return false
}
