// Package purge drives the bulk deletion of a user's posts through a
// browser session: it discovers post tiles in visual order, classifies each
// by URL shape, and runs the matching deletion UI flow, tracking progress
// against a per-run cap. Success is inferred from UI and URL state; the
// site offers no authoritative confirmation, so the whole package is
// best-effort by design.
package purge

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"imgurpurge/pkg/logger"
	"imgurpurge/pkg/retry"
)

// BaseURL is the target site root
const BaseURL = "https://imgur.com"

// settle delays let the single-page app catch up after a mutation or
// navigation; values mirror what the site tolerates in practice
const (
	settleAfterNav     = 800 * time.Millisecond
	settleAfterClick   = 600 * time.Millisecond
	settleAfterAlbum   = 1200 * time.Millisecond
	settleModalOpen    = 1 * time.Second
	settleMenuOpen     = 800 * time.Millisecond
	settleBetweenPosts = 300 * time.Millisecond
	settleScrollLoad   = 1200 * time.Millisecond
	settleScrollMore   = 600 * time.Millisecond
	navTimeoutPost     = 20 * time.Second
)

// Options configures a deletion run
type Options struct {
	// Username owns the post grid being purged
	Username string
	// DryRun walks every UI path but never activates an irreversible
	// confirmation control; outcomes still report as if successful
	DryRun bool
	// MaxItems caps processed items for this run (minimum 1)
	MaxItems int
	// NavTimeout bounds grid navigations
	NavTimeout time.Duration
	// SettleDelay is the pause after a grid navigation
	SettleDelay time.Duration
	// ActionsPerMinute paces post mutations
	ActionsPerMinute int
}

// Purger owns the orchestration loop and the per-kind deletion drivers
type Purger struct {
	page    Page
	opts    Options
	limiter *rate.Limiter
	log     logger.Logger
}

// runState is the loop's only mutable state: the processed count climbs
// monotonically toward the cap, and seenHeights accumulates scroll-height
// fingerprints so a fixed point (no new content) ends the run.
type runState struct {
	processed   int
	cap         int
	seenHeights map[int]struct{}
}

func (st *runState) heightSeen(h int) bool {
	_, ok := st.seenHeights[h]
	return ok
}

func (st *runState) observeHeight(h int) {
	st.seenHeights[h] = struct{}{}
}

// New creates a Purger over an already-authenticated page
func New(page Page, opts Options, log logger.Logger) *Purger {
	if opts.MaxItems < 1 {
		opts.MaxItems = 1
	}
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 30 * time.Second
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = 400 * time.Millisecond
	}
	if opts.ActionsPerMinute <= 0 {
		opts.ActionsPerMinute = 30
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Purger{
		page:    page,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.ActionsPerMinute)), 1),
		log:     log.WithField("username", opts.Username),
	}
}

// GridURL returns the canonical "all posts" grid view for username
func GridURL(username string) string {
	return fmt.Sprintf("%s/user/%s/posts", BaseURL, username)
}

// PostURL resolves a grid href to an absolute post URL
func PostURL(href string) string {
	return BaseURL + href
}

// Run executes the deletion loop until the cap is reached, the grid is
// exhausted, or ctx is cancelled. It always returns the number of items
// processed so far; a ctx error means the operator interrupted the run,
// not that it failed.
func (p *Purger) Run(ctx context.Context) (int, error) {
	st := &runState{cap: p.opts.MaxItems, seenHeights: make(map[int]struct{})}

	if err := p.gotoGrid(ctx); err != nil {
		return 0, err
	}

	for st.processed < st.cap {
		if err := ctx.Err(); err != nil {
			return st.processed, err
		}

		links, err := p.extractLinks(ctx)
		if err != nil {
			return st.processed, err
		}

		if len(links) == 0 {
			// Nothing visible: either more content loads on scroll, or
			// the grid is exhausted (height fixed point).
			h, err := p.scrollHeight(ctx)
			if err != nil {
				return st.processed, err
			}
			if st.heightSeen(h) {
				p.log.Info("no more posts found, finishing")
				break
			}
			st.observeHeight(h)
			if err := p.scrollForMore(ctx, settleScrollLoad); err != nil {
				return st.processed, err
			}
			continue
		}

		for _, link := range links {
			if err := p.limiter.Wait(ctx); err != nil {
				return st.processed, err
			}

			p.log.WithFields(map[string]interface{}{
				"href": link.Href,
				"x":    int(link.X),
				"y":    int(link.Y),
				"kind": Classify(link.Href).String(),
			}).Info("processing post")

			out := p.deleteOne(ctx, link)
			if err := ctx.Err(); err != nil {
				return st.processed, err
			}

			switch {
			case out.Success && out.ImagesDeleted > 0:
				st.processed += out.ImagesDeleted
				p.log.WithField("total", st.processed).Info(p.resultWord() + " image")
			case out.Success:
				// an album ungroup deletes zero images but is still one
				// unit of progress
				st.processed++
				p.log.WithField("total", st.processed).Info(p.resultWord() + " post (ungrouped)")
			default:
				// failed attempts count too, so the cap always terminates
				st.processed++
				p.log.WithField("total", st.processed).Warn("failed to delete post")
			}

			if err := retry.Wait(ctx, settleBetweenPosts); err != nil {
				return st.processed, err
			}

			// Deletion invalidates prior DOM positions: always return to
			// the grid top so the next extraction sees a stable order.
			if err := p.gotoGrid(ctx); err != nil {
				return st.processed, err
			}

			if st.processed >= st.cap {
				break
			}
		}
		if st.processed >= st.cap {
			break
		}

		// Pull more items for the next pass, unless the height fixed
		// point says nothing further will load.
		h, err := p.scrollHeight(ctx)
		if err != nil {
			return st.processed, err
		}
		if st.heightSeen(h) {
			p.log.Info("no further content loaded, finishing")
			break
		}
		st.observeHeight(h)
		if err := p.scrollForMore(ctx, settleScrollMore); err != nil {
			return st.processed, err
		}
	}

	return st.processed, nil
}

// deleteOne navigates into a post and runs the driver for its kind.
// Never fatal: any failure is reported as a failed Outcome.
func (p *Purger) deleteOne(ctx context.Context, link PostLink) Outcome {
	postURL := PostURL(link.Href)
	if err := p.navigate(ctx, postURL, navTimeoutPost); err != nil {
		// proceed with whatever the page renders; the driver will fail
		// cleanly if the post UI never appeared
		p.log.WithError(err).WithField("url", postURL).Warn("post navigation did not complete")
	}
	if err := retry.Wait(ctx, settleAfterNav); err != nil {
		return Outcome{}
	}

	switch Classify(link.Href) {
	case KindImage:
		return p.deleteImagePost(ctx)
	case KindAlbum:
		return p.deleteAlbumPost(ctx)
	default:
		return p.deleteMenuPost(ctx, postURL)
	}
}

// extractLinks re-queries the grid and orders the visible post tiles
func (p *Purger) extractLinks(ctx context.Context) ([]PostLink, error) {
	anchors, err := p.page.Anchors(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		p.log.WithError(err).Warn("failed to query anchors")
		return nil, nil
	}
	return OrderPostLinks(anchors), nil
}

// gotoGrid re-navigates to the canonical all-posts view and resets scroll
// to the top, re-establishing a reproducible tile ordering. Best-effort:
// only ctx cancellation is an error.
func (p *Purger) gotoGrid(ctx context.Context) error {
	if err := p.navigate(ctx, GridURL(p.opts.Username), p.opts.NavTimeout); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		p.log.WithError(err).Warn("grid navigation did not complete")
	}
	p.selectAllTab(ctx)
	if err := retry.Wait(ctx, p.opts.SettleDelay); err != nil {
		return err
	}
	if err := p.page.ScrollToTop(ctx); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return retry.Wait(ctx, 200*time.Millisecond)
}

// selectAllTab switches the grid to the "All" tab so public and hidden
// posts both appear. Missing tab is fine: some layouts have no tabs.
func (p *Purger) selectAllTab(ctx context.Context) {
	if _, ok := p.clickFirst(ctx, allTabStrategies, 1500*time.Millisecond); ok {
		_ = retry.Wait(ctx, 500*time.Millisecond)
	}
}

// navigate loads url with one bounded retry; single-page apps rarely go
// network-idle, so a first timeout gets a second plain attempt
func (p *Purger) navigate(ctx context.Context, url string, timeout time.Duration) error {
	err := retry.Do(ctx, func() error {
		return p.page.Navigate(ctx, url, timeout)
	}, retry.Config{
		MaxAttempts: 2,
		Backoff:     &retry.ConstantBackoff{Delay: 200 * time.Millisecond},
	})
	if err != nil {
		return err
	}
	return retry.Wait(ctx, p.opts.SettleDelay)
}

func (p *Purger) scrollHeight(ctx context.Context) (int, error) {
	h, err := p.page.ScrollHeight(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		p.log.WithError(err).Warn("failed to read scroll height")
		return 0, nil
	}
	return h, nil
}

// scrollForMore triggers the grid's infinite scroll and waits for content
func (p *Purger) scrollForMore(ctx context.Context, wait time.Duration) error {
	if err := p.page.ScrollToBottom(ctx); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return retry.Wait(ctx, wait)
}

func (p *Purger) resultWord() string {
	if p.opts.DryRun {
		return "simulated deleting"
	}
	return "deleted"
}
