package purge

import (
	"context"
	"time"

	"imgurpurge/pkg/retry"
)

// deleteAlbumPost ungroups an album: it removes the post container and
// nothing else. Member images always survive, which is why a successful
// outcome reports zero images deleted regardless of the album's size.
func (p *Purger) deleteAlbumPost(ctx context.Context) Outcome {
	if err := retry.Wait(ctx, settleAfterAlbum); err != nil {
		return Outcome{}
	}

	// album size approximation, logging only
	if n, err := p.page.CountExactText(ctx, menuIndicatorGlyph); err == nil && n > 0 {
		p.log.WithField("images", n).Info("album detected, deleting post container")
	}

	initiated, ok := p.clickFirstArmed(ctx, deletePostStrategies, 2*time.Second)
	if !ok {
		p.log.Warn("could not locate 'Delete post' control, skipping album")
		return Outcome{}
	}
	p.log.WithField("strategy", initiated).Debug("delete-post control activated")

	if !p.opts.DryRun {
		// wait for the confirmation modal, then take the explicit
		// "post only" choice; best effort, the first click may already
		// have committed on some layouts
		if err := retry.Wait(ctx, 1500*time.Millisecond); err != nil {
			return Outcome{}
		}
		if name, ok := p.clickFirst(ctx, deletePostConfirmStrategies, 2*time.Second); ok {
			p.log.WithField("strategy", name).Debug("album deletion confirmed")
			_ = retry.Wait(ctx, settleModalOpen)
		}
	}

	return Outcome{Success: true, ImagesDeleted: 0}
}
