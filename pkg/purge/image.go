package purge

import (
	"context"
	"time"

	"imgurpurge/pkg/retry"
)

// deleteImagePost drives the single-image deletion flow: the page exposes
// a direct "Delete image" control whose confirmation dialog has an
// unambiguous affirmative. In a dry run the dialog is opened for real and
// then dismissed through its cancel control, verifying the UI path works
// without committing; the outcome still reports one image so simulated
// statistics match a live run.
func (p *Purger) deleteImagePost(ctx context.Context) Outcome {
	name, ok := p.waitFirst(ctx, deleteImageButtonStrategies, 3*time.Second)
	if !ok {
		p.log.Warn("'Delete image' control not visible")
		return Outcome{}
	}

	// opening the confirmation dialog is not destructive, so this click
	// is real in both modes
	sel := findStrategy(deleteImageButtonStrategies, name)
	if err := p.page.Click(ctx, sel, 3*time.Second); err != nil {
		p.log.WithError(err).Warn("could not click 'Delete image' control")
		return Outcome{}
	}
	if err := retry.Wait(ctx, settleAfterClick); err != nil {
		return Outcome{}
	}

	if p.opts.DryRun {
		if _, ok := p.clickFirst(ctx, cancelStrategies, 2*time.Second); ok {
			p.log.Info("[dry-run] dismissed confirmation dialog")
		} else {
			p.log.Warn("[dry-run] cancel control not found, dialog may close on its own")
		}
		_ = retry.Wait(ctx, settleBetweenPosts)
		return Outcome{Success: true, ImagesDeleted: 1}
	}

	if _, ok := p.clickFirst(ctx, confirmDeleteImageStrategies, 3*time.Second); !ok {
		p.log.Warn("'Yes, Delete It' control not visible")
		return Outcome{}
	}
	_ = retry.Wait(ctx, settleBetweenPosts)
	return Outcome{Success: true, ImagesDeleted: 1}
}

// findStrategy returns the selector registered under name; falls back to
// the first entry (the list is never empty)
func findStrategy(strategies []Strategy, name string) Selector {
	for _, s := range strategies {
		if s.Name == name {
			return s.Sel
		}
	}
	return strategies[0].Sel
}
