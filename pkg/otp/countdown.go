package otp

import (
	"sync"
	"time"

	"github.com/shlapabank/dashboard-go/internal/clock"
)

// Countdown tracks one challenge lifetime. Expiry is derived from the clock,
// so the gate is exact even when ticks are dropped; ticks only drive
// notifications.
type Countdown struct {
	clock     clock.Clock
	expiresAt time.Time
	stop      chan struct{}
	stopOnce  sync.Once
}

func startCountdown(c clock.Clock, ttl time.Duration, onTick func(remaining int), onExpire func()) *Countdown {
	cd := &Countdown{
		clock:     c,
		expiresAt: c.Now().Add(ttl),
		stop:      make(chan struct{}),
	}

	ticker := c.NewTicker(time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-cd.stop:
				return
			case <-ticker.C():
				remaining := cd.Remaining()
				select {
				case <-cd.stop:
					return
				default:
				}
				onTick(remaining)
				if remaining == 0 {
					onExpire()
					return
				}
			}
		}
	}()

	return cd
}

// Remaining returns whole seconds left, rounded up.
func (cd *Countdown) Remaining() int {
	left := cd.expiresAt.Sub(cd.clock.Now())
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

func (cd *Countdown) Expired() bool {
	return !cd.clock.Now().Before(cd.expiresAt)
}

func (cd *Countdown) Stop() {
	cd.stopOnce.Do(func() {
		close(cd.stop)
	})
}
