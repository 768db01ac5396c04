package purge

import (
	"context"
	"time"
)

// MatchKind selects how a Selector query is interpreted by the engine
type MatchKind int

const (
	// ByCSS matches a CSS selector
	ByCSS MatchKind = iota
	// ByXPath matches an XPath expression
	ByXPath
)

// Selector locates elements on the current page
type Selector struct {
	Query string
	By    MatchKind
}

// Anchor is a hyperlink observed on the current page, with its on-screen
// geometry. Width/Height of zero means the element is detached from layout.
type Anchor struct {
	Href    string  `json:"href"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Visible bool    `json:"visible"`
}

// Page is the browsing surface the purger drives. All methods honor ctx
// cancellation and the given timeouts; a timed-out locate or click is a
// normal "strategy failed" result for the caller, never fatal.
type Page interface {
	// Navigate loads url and waits for the document to be ready
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	// Anchors returns every hyperlink on the page with its geometry
	Anchors(ctx context.Context) ([]Anchor, error)
	// WaitVisible blocks until sel matches a visible element or timeout
	WaitVisible(ctx context.Context, sel Selector, timeout time.Duration) error
	// Click waits for sel to be visible and clicks it
	Click(ctx context.Context, sel Selector, timeout time.Duration) error
	// ClickByAriaSubstring scans all buttons and clicks the first whose
	// aria-label contains any of the given substrings (case-insensitive)
	ClickByAriaSubstring(ctx context.Context, substrings []string, timeout time.Duration) (bool, error)
	// CountExactText counts elements whose trimmed text equals text
	CountExactText(ctx context.Context, text string) (int, error)
	// ScrollHeight returns the total scrollable height of the document
	ScrollHeight(ctx context.Context) (int, error)
	ScrollToTop(ctx context.Context) error
	ScrollToBottom(ctx context.Context) error
	// URL returns the current page URL
	URL(ctx context.Context) (string, error)
	// Text returns the rendered text content of the page body
	Text(ctx context.Context) (string, error)
}

// Outcome is the result of driving one post's deletion UI.
// ImagesDeleted is 0 for an album ungroup even on success: removing the
// post container never deletes the member images.
type Outcome struct {
	Success       bool
	ImagesDeleted int
}
