package purge

import (
	"context"
	"time"
)

// clickFirst runs the strategies in order and clicks the first one that
// locates a visible element within timeout. Returns the name of the
// strategy that acted. Exhausting the list is a normal failed action.
func (p *Purger) clickFirst(ctx context.Context, strategies []Strategy, timeout time.Duration) (string, bool) {
	for _, s := range strategies {
		if ctx.Err() != nil {
			return "", false
		}
		if err := p.page.Click(ctx, s.Sel, timeout); err != nil {
			continue
		}
		p.log.WithField("strategy", s.Name).Debug("clicked element")
		return s.Name, true
	}
	return "", false
}

// waitFirst runs the strategies in order and returns the first one that
// locates a visible element within timeout, without clicking
func (p *Purger) waitFirst(ctx context.Context, strategies []Strategy, timeout time.Duration) (string, bool) {
	for _, s := range strategies {
		if ctx.Err() != nil {
			return "", false
		}
		if err := p.page.WaitVisible(ctx, s.Sel, timeout); err != nil {
			continue
		}
		return s.Name, true
	}
	return "", false
}

// clickFirstArmed gates a destructive click behind dry-run mode: in a dry
// run the element is only located ("would click"), never activated.
func (p *Purger) clickFirstArmed(ctx context.Context, strategies []Strategy, timeout time.Duration) (string, bool) {
	if p.opts.DryRun {
		name, ok := p.waitFirst(ctx, strategies, timeout)
		if ok {
			p.log.WithField("strategy", name).Info("[dry-run] would click")
		}
		return name, ok
	}
	return p.clickFirst(ctx, strategies, timeout)
}
