package simulator

import (
	"context"
	"time"
)

const defaultTick = time.Second

// Run advances the device clock every tick until ctx is canceled.
func (d *Device) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = defaultTick
	}
	t := time.NewTicker(tick)
	defer t.Stop()

	last := d.now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			now := d.now()
			d.Advance(now.Sub(last))
			last = now
		}
	}
}
