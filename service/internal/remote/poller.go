package remote

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Syncer requests a fresh snapshot. Client satisfies it.
type Syncer interface {
	RequestSync(ctx context.Context, sinceVersion int64) error
}

// Poller periodically asks for a snapshot so a table recovers from missed
// pushes. Since reports the last applied version at each tick.
type Poller struct {
	Syncer   Syncer
	Interval time.Duration
	Timeout  time.Duration
	Since    func() int64
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	if p.Interval <= 0 {
		return
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = p.Interval
	}
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var since int64
			if p.Since != nil {
				since = p.Since()
			}
			reqCtx, cancel := context.WithTimeout(ctx, timeout)
			if err := p.Syncer.RequestSync(reqCtx, since); err != nil {
				logrus.WithError(err).Warn("Snapshot poll failed")
			}
			cancel()
		}
	}
}
