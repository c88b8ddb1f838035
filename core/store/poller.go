package store

import (
	"context"

	"github.com/kilianp07/motofleet/core/logger"
	"github.com/kilianp07/motofleet/core/monitoring"
)

// Poller turns a Repository into a Watcher. It fetches once when watching
// starts and again on every Trigger.
type Poller struct {
	repo    Repository
	log     logger.Logger
	trigger chan struct{}
}

// NewPoller wraps repo.
func NewPoller(repo Repository, log logger.Logger) *Poller {
	return &Poller{repo: repo, log: logger.OrNop(log), trigger: make(chan struct{}, 1)}
}

// Trigger requests a refresh. Calls made while a refresh is already pending
// are coalesced.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Watch implements Watcher. Failed fetches are logged and skipped so the
// consumer keeps its previous collection.
func (p *Poller) Watch(ctx context.Context) (<-chan Collection, error) {
	out := make(chan Collection, 1)
	go func() {
		defer close(out)
		p.poll(ctx, out)
		for {
			select {
			case <-ctx.Done():
				return
			case <-p.trigger:
				p.poll(ctx, out)
			}
		}
	}()
	return out, nil
}

func (p *Poller) poll(ctx context.Context, out chan<- Collection) {
	c, err := Fetch(ctx, p.repo)
	if err != nil {
		if ctx.Err() == nil {
			p.log.Errorf("refresh failed: %v", err)
			monitoring.Capture(err, "store", "poll")
		}
		return
	}
	p.log.Debugf("fetched %d assets and %d maintenance records", len(c.Assets), len(c.Maintenance))
	select {
	case out <- c:
	case <-ctx.Done():
	}
}
