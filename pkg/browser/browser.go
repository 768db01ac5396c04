// Package browser wraps chromedp behind the small page-automation surface
// the purge loop needs: one isolated browser session, seeded with persisted
// cookie/localStorage state, exposing navigation, element queries and
// simple page-state probes.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"

	"imgurpurge/pkg/errors"
	"imgurpurge/pkg/logger"
	"imgurpurge/pkg/session"
)

// Config holds browser session settings
type Config struct {
	Headless       bool
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
}

// Session is one isolated browser with a single page. Close releases the
// browser process and must run on every exit path.
type Session struct {
	allocCtx      context.Context
	cancelAlloc   context.CancelFunc
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	log           logger.Logger
}

// NewSession launches a browser with the given configuration. The
// automation-controlled blink feature is disabled so the site renders its
// regular UI.
func NewSession(cfg Config, log logger.Logger) (*Session, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	if cfg.ViewportWidth <= 0 || cfg.ViewportHeight <= 0 {
		// desktop view; some controls are missing on mobile layouts
		cfg.ViewportWidth, cfg.ViewportHeight = 1920, 1080
	}

	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.WindowSize(cfg.ViewportWidth, cfg.ViewportHeight),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if cfg.Headless {
		opts = append(opts, chromedp.Flag("disable-dev-shm-usage", true))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// start the browser process now so failures surface here, not on the
	// first navigation
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, errors.Wrap(errors.ErrorTypeSession, "failed to start browser", err)
	}

	return &Session{
		allocCtx:      allocCtx,
		cancelAlloc:   cancelAlloc,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		log:           log,
	}, nil
}

// Page returns the session's single page
func (s *Session) Page() *Page {
	return &Page{ctx: s.browserCtx, log: s.log}
}

// Close shuts the browser down. Errors (including secondary interrupts)
// are swallowed so cleanup always completes.
func (s *Session) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = chromedp.Cancel(s.browserCtx)
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
	s.cancelBrowser()
	s.cancelAlloc()
	s.log.Debug("browser closed")
}

// ApplyState seeds the browser with persisted cookies and per-origin
// localStorage, establishing the authenticated session
func (s *Session) ApplyState(ctx context.Context, state *session.State) error {
	params := make([]*network.CookieParam, 0, len(state.Cookies))
	for _, c := range state.Cookies {
		param := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		}
		if ss := parseSameSite(c.SameSite); ss != "" {
			param.SameSite = ss
		}
		if c.Expires > 0 {
			expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
			param.Expires = &expires
		}
		params = append(params, param)
	}

	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.SetCookies(params).Do(ctx)
	}))
	if err != nil {
		return errors.Wrap(errors.ErrorTypeSession, "failed to set cookies", err)
	}
	s.log.WithField("cookies", len(params)).Debug("session cookies applied")

	// localStorage is origin-scoped: visit each origin and set its entries
	for _, origin := range state.Origins {
		if len(origin.LocalStorage) == 0 {
			continue
		}
		js, err := setLocalStorageJS(origin.LocalStorage)
		if err != nil {
			return errors.Wrap(errors.ErrorTypeSession, "failed to encode localStorage entries", err)
		}
		err = s.run(ctx,
			chromedp.Navigate(origin.Origin),
			chromedp.Evaluate(js, nil),
		)
		if err != nil {
			return errors.Wrap(errors.ErrorTypeSession,
				fmt.Sprintf("failed to seed localStorage for %s", origin.Origin), err)
		}
		s.log.WithFields(map[string]interface{}{
			"origin":  origin.Origin,
			"entries": len(origin.LocalStorage),
		}).Debug("localStorage seeded")
	}
	return nil
}

// CaptureState reads the browser's cookies and the current origin's
// localStorage into a persistable state document
func (s *Session) CaptureState(ctx context.Context, origin string) (*session.State, error) {
	state := &session.State{}

	var cookies []*network.Cookie
	var entries []session.StorageEntry
	err := s.run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			cookies, err = storage.GetCookies().Do(ctx)
			return err
		}),
		chromedp.Navigate(origin),
		chromedp.Evaluate(`Object.entries(localStorage).map(([name, value]) => ({name, value}))`, &entries),
	)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeSession, "failed to capture session state", err)
	}

	for _, c := range cookies {
		state.Cookies = append(state.Cookies, session.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}
	if len(entries) > 0 {
		state.Origins = append(state.Origins, session.Origin{
			Origin:       origin,
			LocalStorage: entries,
		})
	}
	return state, nil
}

// run executes chromedp actions on the session, honoring the caller's ctx
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	tctx, cancel := context.WithCancel(s.browserCtx)
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

func parseSameSite(v string) network.CookieSameSite {
	switch strings.ToLower(v) {
	case "strict":
		return network.CookieSameSiteStrict
	case "lax":
		return network.CookieSameSiteLax
	case "none":
		return network.CookieSameSiteNone
	default:
		return ""
	}
}
