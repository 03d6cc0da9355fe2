package session

import (
	"context"
	"sync"
	"time"

	"github.com/Ryan-Har/vibesession/internal/tokeninfo"
	"github.com/Ryan-Har/vibesession/pkg/activity"
)

// monitor is the set of listeners and timers that exist only while a user is present.
type monitor struct {
	token  string
	sub    activity.Subscription
	stopCh chan struct{}
	once   sync.Once
}

func (mon *monitor) stop() {
	mon.once.Do(func() {
		if mon.sub != nil {
			mon.sub.Unsubscribe()
		}
		close(mon.stopCh)
	})
}

// startMonitorLocked subscribes to activity and starts the expiry and refresh timers for token.
// A monitor already running for the same token is kept.
func (m *Manager) startMonitorLocked(token string) {
	if m.closed {
		return
	}
	if m.monitor != nil {
		if m.monitor.token == token {
			return
		}
		m.stopMonitorLocked()
	}

	mon := &monitor{
		token:  token,
		stopCh: make(chan struct{}),
	}
	if m.events != nil {
		mon.sub = m.events.Subscribe(func(activity.Kind) {
			m.activityFrom(mon)
		}, m.cfg.ActivityKinds...)
	}
	m.monitor = mon

	m.log.Debug("starting session monitor", "check_interval", m.cfg.CheckInterval,
		"refresh_interval", m.cfg.RefreshInterval)
	go m.runMonitor(mon)
}

// stopMonitorLocked releases the activity subscription and stops the timers. It never waits
// for the monitor goroutine, so it is safe to call from it.
func (m *Manager) stopMonitorLocked() {
	if m.monitor == nil {
		return
	}
	m.monitor.stop()
	m.monitor = nil
	m.log.Debug("stopped session monitor")
}

// activityFrom records activity only if mon is still the live monitor. Events already in
// flight when the monitor stopped are dropped.
func (m *Manager) activityFrom(mon *monitor) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.monitor != mon {
		return
	}
	m.lastActivity = m.now()
	m.expired = false
}

func (m *Manager) runMonitor(mon *monitor) {
	check := time.NewTicker(m.cfg.CheckInterval)
	defer check.Stop()

	var refreshC <-chan time.Time
	refresh := time.NewTimer(time.Hour)
	refresh.Stop()
	defer refresh.Stop()

	schedule := func() {
		if d, ok := m.refreshDelay(mon.token); ok {
			refresh.Reset(d)
			refreshC = refresh.C
		} else {
			refreshC = nil
		}
	}
	schedule()

	for {
		select {
		case <-check.C:
			m.CheckSessionExpiry()

		case <-refreshC:
			ctx, cancel := context.WithTimeout(context.Background(), m.cfg.CheckInterval)
			m.RefreshUserData(ctx)
			cancel()
			schedule()

		case <-mon.stopCh:
			return
		}
	}
}

// refreshDelay picks the next background refresh: the periodic interval, or earlier when the
// token is a JWT whose refresh point (exp minus threshold) is still ahead.
func (m *Manager) refreshDelay(token string) (time.Duration, bool) {
	var (
		delay time.Duration
		ok    bool
	)
	if m.cfg.RefreshInterval > 0 {
		delay, ok = m.cfg.RefreshInterval, true
	}

	if m.cfg.RefreshThreshold > 0 {
		if at, hasExp := tokeninfo.Inspect(token).RefreshAt(m.cfg.RefreshThreshold); hasExp {
			if until := at.Sub(m.now()); until > 0 && (!ok || until < delay) {
				delay, ok = until, true
			}
		}
	}
	return delay, ok
}
