package purge

import (
	"context"
	"strings"
	"time"

	"imgurpurge/pkg/retry"
)

// removalIndicators in rendered page text suggest the post is gone. The
// site exposes no authoritative deletion API; matching these strings (or a
// URL change) is the best signal available. Known weakness: unrelated
// dialog text or a redirect can read as a confirmed deletion.
var removalIndicators = []string{
	"404",
	"not found",
	"page doesn't exist",
	"deleted",
}

// verifyDeletion heuristically checks whether a delete action that was
// initiated but not unambiguously confirmed actually removed the post:
// (a) removal indicators in the page text, (b) the URL diverged from the
// post URL, (c) as a last resort, re-navigating to the post and looking
// for a not-found page. Any positive signal counts as one deleted image.
func (p *Purger) verifyDeletion(ctx context.Context, postURL string, confirmed bool) Outcome {
	if !confirmed {
		if err := retry.Wait(ctx, 2*time.Second); err != nil {
			return Outcome{}
		}
		if text, err := p.page.Text(ctx); err == nil && containsRemovalIndicator(text) {
			return Outcome{Success: true, ImagesDeleted: 1}
		}
		if current, err := p.page.URL(ctx); err == nil && !strings.Contains(current, postURL) {
			// redirected away from the post; a valid landing page means
			// the post is most likely gone
			if text, err := p.page.Text(ctx); err == nil && !strings.Contains(strings.ToLower(text), "404") {
				return Outcome{Success: true, ImagesDeleted: 1}
			}
		}
	}

	// last resort: revisit the post URL and look for a not-found page
	if err := retry.Wait(ctx, 1500*time.Millisecond); err != nil {
		return Outcome{}
	}
	if err := p.page.Navigate(ctx, postURL, 5*time.Second); err != nil {
		if ctx.Err() != nil {
			return Outcome{}
		}
		// a timeout here usually means the post 404ed or redirected
		return Outcome{Success: true, ImagesDeleted: 1}
	}
	if err := retry.Wait(ctx, 500*time.Millisecond); err != nil {
		return Outcome{}
	}
	if text, err := p.page.Text(ctx); err == nil && containsRemovalIndicator(text) {
		return Outcome{Success: true, ImagesDeleted: 1}
	}
	if current, err := p.page.URL(ctx); err == nil && strings.Contains(current, postURL) {
		p.log.WithField("url", postURL).Warn("deletion may have failed, post still accessible")
		return Outcome{}
	}
	return Outcome{Success: true, ImagesDeleted: 1}
}

func containsRemovalIndicator(text string) bool {
	lower := strings.ToLower(text)
	for _, ind := range removalIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}
