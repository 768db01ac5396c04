package purge

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// fakePage is an in-memory Page for driver and loop tests. Selector
// visibility is keyed by the raw query string; clicks and navigations are
// recorded for assertions.
type fakePage struct {
	mu sync.Mutex

	// anchorsByURL maps a page URL to the anchors it exposes
	anchorsByURL map[string][]Anchor
	// anchorsAfterScroll, when set for a URL, replaces its anchors once
	// the page has been scrolled to the bottom at least once, simulating
	// lazily loaded grid content
	anchorsAfterScroll map[string][]Anchor
	scrolls            int
	// visible marks selector queries that resolve to a visible element
	visible map[string]bool
	// heights is the sequence of scroll heights; the last repeats
	heights   []int
	heightIdx int
	// bodyText is the rendered page text
	bodyText string
	// ariaClickResult is returned by ClickByAriaSubstring
	ariaClickResult bool
	// navErr, when set, fails every Navigate call
	navErr error

	currentURL  string
	navigations []string
	clicks      []string
}

func newFakePage() *fakePage {
	return &fakePage{
		anchorsByURL:       make(map[string][]Anchor),
		anchorsAfterScroll: make(map[string][]Anchor),
		visible:            make(map[string]bool),
		heights:            []int{1000},
	}
}

func (f *fakePage) setVisible(strategies []Strategy) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range strategies {
		f.visible[s.Sel.Query] = true
	}
}

func (f *fakePage) clicked(query string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clicks {
		if c == query {
			return true
		}
	}
	return false
}

func (f *fakePage) clickedAny(strategies []Strategy) bool {
	for _, s := range strategies {
		if f.clicked(s.Sel.Query) {
			return true
		}
	}
	return false
}

func (f *fakePage) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.navErr != nil {
		return f.navErr
	}
	f.navigations = append(f.navigations, url)
	f.currentURL = url
	return nil
}

func (f *fakePage) Anchors(ctx context.Context) ([]Anchor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scrolls > 0 {
		if anchors, ok := f.anchorsAfterScroll[f.currentURL]; ok {
			return anchors, nil
		}
	}
	return f.anchorsByURL[f.currentURL], nil
}

func (f *fakePage) WaitVisible(ctx context.Context, sel Selector, timeout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.visible[sel.Query] {
		return nil
	}
	return fmt.Errorf("not visible: %s", sel.Query)
}

func (f *fakePage) Click(ctx context.Context, sel Selector, timeout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.visible[sel.Query] {
		return fmt.Errorf("not visible: %s", sel.Query)
	}
	f.clicks = append(f.clicks, sel.Query)
	return nil
}

func (f *fakePage) ClickByAriaSubstring(ctx context.Context, substrings []string, timeout time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ariaClickResult, nil
}

func (f *fakePage) CountExactText(ctx context.Context, text string) (int, error) {
	return 0, nil
}

func (f *fakePage) ScrollHeight(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := f.heights[f.heightIdx]
	if f.heightIdx < len(f.heights)-1 {
		f.heightIdx++
	}
	return h, nil
}

func (f *fakePage) ScrollToTop(ctx context.Context) error { return nil }

func (f *fakePage) ScrollToBottom(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scrolls++
	return nil
}

func (f *fakePage) URL(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentURL, nil
}

func (f *fakePage) Text(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodyText, nil
}

var _ Page = (*fakePage)(nil)
