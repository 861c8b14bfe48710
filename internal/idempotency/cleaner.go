package idempotency

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper is implemented by stores that need expired claims removed periodically.
type Sweeper interface {
	Sweep() int
}

type Cleaner struct {
	store    Sweeper
	log      *slog.Logger
	interval time.Duration
}

func NewCleaner(store Sweeper, log *slog.Logger, interval time.Duration) *Cleaner {
	if log == nil {
		log = slog.Default()
	}

	return &Cleaner{
		store:    store,
		log:      log,
		interval: interval,
	}
}

// Run sweeps the store every interval until ctx is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	if c == nil || c.store == nil || c.interval <= 0 {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := c.store.Sweep(); removed > 0 {
				c.log.Debug("idempotency claims expired", slog.Int("removed", removed))
			}
		}
	}
}
