package purge

import (
	"context"
	"time"

	"imgurpurge/pkg/retry"
)

// deleteMenuPost drives the three-stage overflow-menu flow used by posts
// that expose neither a direct delete control nor an album container:
// open the "more options" menu, pick its "Delete image" entry, then take
// the destructive "Delete from account" choice in the resulting dialog
// (distinct from "Remove from post"). This flow's confirmation semantics
// are the least certain of the three, so live runs fall through to the
// shared heuristic verification.
func (p *Purger) deleteMenuPost(ctx context.Context, postURL string) Outcome {
	// stage 1: open the overflow menu (navigational, real in both modes)
	opened := false
	if _, ok := p.clickFirst(ctx, overflowMenuStrategies, 1500*time.Millisecond); ok {
		opened = true
	} else if ok, err := p.page.ClickByAriaSubstring(ctx, ariaScanSubstrings, 500*time.Millisecond); err == nil && ok {
		p.log.Debug("opened overflow menu via aria-label scan")
		opened = true
	}
	if !opened {
		p.log.Warn("could not find overflow menu")
		return Outcome{}
	}
	if err := retry.Wait(ctx, settleMenuOpen); err != nil {
		return Outcome{}
	}

	// stage 2: the "Delete image" menu entry opens the dialog
	if _, ok := p.clickFirst(ctx, menuDeleteImageStrategies, 1500*time.Millisecond); !ok {
		p.log.Warn("could not find 'Delete image' entry in menu")
		return Outcome{}
	}
	if err := retry.Wait(ctx, settleModalOpen); err != nil {
		return Outcome{}
	}

	// stage 3: destructive choice, gated by dry-run
	if p.opts.DryRun {
		if name, ok := p.waitFirst(ctx, deleteFromAccountStrategies, 2*time.Second); ok {
			p.log.WithField("strategy", name).Info("[dry-run] would click 'Delete from account'")
			return Outcome{Success: true, ImagesDeleted: 1}
		}
		p.log.Warn("[dry-run] 'Delete from account' control not found in dialog")
		return Outcome{}
	}

	if _, ok := p.clickFirst(ctx, deleteFromAccountStrategies, 2*time.Second); !ok {
		p.log.Warn("could not find 'Delete from account' control in dialog")
		return Outcome{}
	}
	if err := retry.Wait(ctx, settleMenuOpen); err != nil {
		return Outcome{}
	}

	// some layouts show one more confirmation
	_, confirmed := p.clickFirst(ctx, finalConfirmStrategies, 2*time.Second)

	return p.verifyDeletion(ctx, postURL, confirmed)
}
