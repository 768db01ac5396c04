package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"imgurpurge/pkg/errors"
	"imgurpurge/pkg/logger"
	"imgurpurge/pkg/purge"
	"imgurpurge/pkg/session"
)

// Page drives the session's page over the DevTools protocol. All methods
// take the caller's context for cancellation plus an explicit timeout.
type Page struct {
	ctx context.Context
	log logger.Logger
}

var _ purge.Page = (*Page)(nil)

// Navigate loads url and waits for the page load event
func (p *Page) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	err := p.run(ctx, timeout, chromedp.Navigate(url))
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return errors.Wrap(errors.ErrorTypeNavigation, fmt.Sprintf("failed to navigate to %s", url), err)
	}
	return nil
}

const anchorsJS = `
Array.from(document.querySelectorAll('a[href]')).map(a => {
	const r = a.getBoundingClientRect();
	const s = window.getComputedStyle(a);
	const visible = r.width > 0 && r.height > 0 &&
		s.visibility !== 'hidden' && s.display !== 'none';
	return {
		href: a.getAttribute('href') || '',
		x: r.x, y: r.y,
		width: r.width, height: r.height,
		visible: visible,
	};
})`

// Anchors returns every anchor element currently in the DOM with its
// viewport geometry
func (p *Page) Anchors(ctx context.Context) ([]purge.Anchor, error) {
	var anchors []purge.Anchor
	err := p.run(ctx, 10*time.Second, chromedp.Evaluate(anchorsJS, &anchors))
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrorTypeLocate, "failed to collect anchors", err)
	}
	return anchors, nil
}

// WaitVisible blocks until the selector matches a visible element
func (p *Page) WaitVisible(ctx context.Context, sel purge.Selector, timeout time.Duration) error {
	return p.run(ctx, timeout, chromedp.WaitVisible(sel.Query, queryOpts(sel)...))
}

// Click waits for the selector to be visible and clicks it
func (p *Page) Click(ctx context.Context, sel purge.Selector, timeout time.Duration) error {
	opts := append(queryOpts(sel), chromedp.NodeVisible)
	return p.run(ctx, timeout, chromedp.Click(sel.Query, opts...))
}

// ClickByAriaSubstring scans buttons for an aria-label containing any of
// the given lowercase substrings and clicks the first hit. Returns whether
// a button was clicked.
func (p *Page) ClickByAriaSubstring(ctx context.Context, substrings []string, timeout time.Duration) (bool, error) {
	encoded, err := json.Marshal(substrings)
	if err != nil {
		return false, err
	}
	js := fmt.Sprintf(`
(() => {
	const subs = %s;
	for (const b of document.querySelectorAll('button')) {
		const label = (b.getAttribute('aria-label') || '').toLowerCase();
		if (subs.some(s => label.includes(s))) { b.click(); return true; }
	}
	return false;
})()`, encoded)
	var clicked bool
	if err := p.run(ctx, timeout, chromedp.Evaluate(js, &clicked)); err != nil {
		return false, err
	}
	return clicked, nil
}

// CountExactText counts leaf elements whose trimmed text equals text
func (p *Page) CountExactText(ctx context.Context, text string) (int, error) {
	encoded, err := json.Marshal(text)
	if err != nil {
		return 0, err
	}
	js := fmt.Sprintf(`
Array.from(document.querySelectorAll('*')).filter(e =>
	e.childElementCount === 0 && e.textContent.trim() === %s
).length`, encoded)
	var count int
	if err := p.run(ctx, 5*time.Second, chromedp.Evaluate(js, &count)); err != nil {
		return 0, err
	}
	return count, nil
}

// ScrollHeight reports the document's full scroll height in pixels
func (p *Page) ScrollHeight(ctx context.Context) (int, error) {
	var height int
	err := p.run(ctx, 5*time.Second,
		chromedp.Evaluate(`document.body ? document.body.scrollHeight : 0`, &height))
	if err != nil {
		return 0, err
	}
	return height, nil
}

// ScrollToTop scrolls the window to the document origin
func (p *Page) ScrollToTop(ctx context.Context) error {
	return p.run(ctx, 5*time.Second, chromedp.Evaluate(`window.scrollTo(0, 0)`, nil))
}

// ScrollToBottom scrolls to the current bottom, prompting lazy content to
// load
func (p *Page) ScrollToBottom(ctx context.Context) error {
	return p.run(ctx, 5*time.Second,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil))
}

// URL returns the page's current location
func (p *Page) URL(ctx context.Context) (string, error) {
	var url string
	if err := p.run(ctx, 5*time.Second, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

// Text returns the page body's rendered text
func (p *Page) Text(ctx context.Context) (string, error) {
	var text string
	err := p.run(ctx, 5*time.Second,
		chromedp.Evaluate(`document.body ? document.body.innerText : ''`, &text))
	if err != nil {
		return "", err
	}
	return text, nil
}

// run executes chromedp actions against the page with a timeout, aborting
// early if the caller's ctx is canceled
func (p *Page) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	tctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	if err := chromedp.Run(tctx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

func queryOpts(sel purge.Selector) []chromedp.QueryOption {
	if sel.By == purge.ByXPath {
		return []chromedp.QueryOption{chromedp.BySearch}
	}
	return []chromedp.QueryOption{chromedp.ByQuery}
}

// setLocalStorageJS builds a script that writes the given entries into the
// current origin's localStorage
func setLocalStorageJS(entries []session.StorageEntry) (string, error) {
	encoded, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
(() => {
	const entries = %s;
	for (const e of entries) localStorage.setItem(e.name, e.value);
	return entries.length;
})()`, encoded), nil
}
