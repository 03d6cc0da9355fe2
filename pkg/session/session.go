// Package session owns the signed in user of the application: the persisted bearer token,
// inactivity expiry and the cached profile fetched from the backend.
//
// A Manager is built once per application start with New, restored with Init and torn
// down with Close. All methods are safe for concurrent use.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ryan-Har/vibesession/internal/cache"
	"github.com/Ryan-Har/vibesession/internal/kvstore"
	"github.com/Ryan-Har/vibesession/internal/logutil"
	"github.com/Ryan-Har/vibesession/pkg/activity"
	"github.com/Ryan-Har/vibesession/pkg/authapi"
	"github.com/Ryan-Har/vibesession/pkg/models"
)

// TokenKey is the storage slot holding the raw bearer token.
const TokenKey = "token"

// Config holds the timing policy of the session.
type Config struct {
	// Timeout is the inactivity budget after which the session expires (default: 30 minutes)
	Timeout time.Duration

	// CheckInterval is how often expiry is evaluated while a user is present (default: 1 minute)
	CheckInterval time.Duration

	// CacheTTL is how long a fetched profile may be served from storage (default: 5 minutes)
	CacheTTL time.Duration

	// RefreshInterval re-fetches the profile in the background while a user is present.
	// Zero disables the periodic refresh.
	RefreshInterval time.Duration

	// RefreshThreshold schedules one refresh this long before a JWT token's exp claim (default: 5 minutes).
	// Zero disables it.
	RefreshThreshold time.Duration

	// ActivityKinds are the interaction kinds that count as activity (default: activity.DefaultKinds)
	ActivityKinds []activity.Kind
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:          30 * time.Minute,
		CheckInterval:    time.Minute,
		CacheTTL:         5 * time.Minute,
		RefreshThreshold: 5 * time.Minute,
		ActivityKinds:    activity.DefaultKinds(),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = d.CheckInterval
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.RefreshInterval < 0 {
		c.RefreshInterval = 0
	}
	if c.RefreshThreshold < 0 {
		c.RefreshThreshold = 0
	}
	if len(c.ActivityKinds) == 0 {
		c.ActivityKinds = d.ActivityKinds
	}
	return c
}

// Manager tracks the current user and its activity.
type Manager struct {
	mu sync.Mutex

	log    *slog.Logger
	cfg    Config
	now    func() time.Time
	store  kvstore.Store
	cache  *cache.Cache
	auth   authapi.Client
	events activity.Source

	user         *models.User
	sessionID    string
	lastActivity time.Time
	expired      bool
	loading      bool

	// epoch moves on every transition that resets the session; fetches started
	// under an older epoch drop their result
	epoch    uint64
	monitor  *monitor
	initOnce sync.Once
	closed   bool
}

type Option func(*Manager)

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.cfg = cfg
	}
}

// WithActivitySource sets where interaction events come from. Without one only explicit
// UpdateActivity calls count as activity.
func WithActivitySource(src activity.Source) Option {
	return func(m *Manager) {
		m.events = src
	}
}

// WithClock replaces the wall clock used for activity, expiry and cache age.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a manager in the loading state. Call Init to restore a persisted session.
func New(store kvstore.Store, auth authapi.Client, opts ...Option) *Manager {
	m := &Manager{
		log:   logutil.OrDiscard(nil),
		cfg:   DefaultConfig(),
		now:   time.Now,
		store: store,
		auth:  auth,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cfg = m.cfg.withDefaults()
	m.cache = cache.New(store, m.cfg.CacheTTL, m.now, m.log)
	m.lastActivity = m.now()
	m.loading = true
	return m
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Init restores the session from the persisted token. It only does work on its first call.
// Without a token the manager leaves the loading state immediately and no request is made.
func (m *Manager) Init(ctx context.Context) {
	m.initOnce.Do(func() {
		token, ok, err := m.store.Get(ctx, TokenKey)
		if err != nil {
			m.log.Error("failed to read persisted token", "err", err)
		}
		if err != nil || !ok || token == "" {
			m.mu.Lock()
			m.loading = false
			m.mu.Unlock()
			m.log.Debug("no persisted session to restore")
			return
		}

		m.log.Debug("restoring persisted session", "fingerprint", cache.Fingerprint(token))
		m.FetchUserData(ctx, token, true)
	})
}

// Close stops activity monitoring and background refresh. The manager keeps answering
// accessors but no longer starts monitors.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.stopMonitorLocked()
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Login makes p the current user. The input is expected to be validated by the caller.
func (m *Manager) Login(ctx context.Context, p models.LoginParams) {
	u := models.UserFromLogin(p)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.epoch++
	m.stopMonitorLocked()

	m.user = &u
	m.sessionID = uuid.NewString()
	m.lastActivity = m.now()
	m.expired = false
	m.loading = false

	if err := m.store.Set(context.WithoutCancel(ctx), TokenKey, u.Token); err != nil {
		m.log.Error("failed to persist token", "err", err)
	}

	m.startMonitorLocked(u.Token)
	m.log.Info("user logged in", "user_id", u.ID, "session_id", m.sessionID)
}

// Logout drops the current user, the persisted token and every cached profile.
// expired is reported through SessionExpired. Safe to call while logged out.
func (m *Manager) Logout(ctx context.Context, expired bool) {
	ctx = context.WithoutCancel(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.epoch++
	m.stopMonitorLocked()

	if err := m.store.Delete(ctx, TokenKey); err != nil {
		m.log.Error("failed to remove persisted token", "err", err)
	}
	if n, err := m.cache.Clear(ctx); err != nil {
		m.log.Error("failed to clear profile cache", "err", err)
	} else if n > 0 {
		m.log.Debug("cleared profile cache", "entries", n)
	}

	if m.user != nil {
		m.log.Info("user logged out", "user_id", m.user.ID, "session_id", m.sessionID, "expired", expired)
	}
	m.user = nil
	m.sessionID = ""
	m.loading = false
	m.lastActivity = m.now()
	m.expired = expired
}

// FetchUserData resolves token into the current user. A fresh cached profile is used when
// useCache is set; otherwise the backend is asked. Any failure logs the user out and removes
// the persisted token, without retry. Returns the user, or nil when none was set.
func (m *Manager) FetchUserData(ctx context.Context, token string, useCache bool) *models.User {
	fp := cache.Fingerprint(token)

	m.mu.Lock()
	epoch := m.epoch
	m.mu.Unlock()

	if useCache {
		if u, ok := m.cache.Get(ctx, token); ok {
			m.mu.Lock()
			defer m.mu.Unlock()

			if m.epoch != epoch {
				m.log.Debug("discarding cached profile for superseded session", "fingerprint", fp)
				return nil
			}
			m.log.Debug("serving profile from cache", "fingerprint", fp)
			m.setUserLocked(*u)
			return m.userCopyLocked()
		}
	}

	profile, err := m.auth.Me(ctx, token)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epoch != epoch {
		m.log.Debug("discarding identity result for superseded session", "fingerprint", fp, "failed", err != nil)
		return nil
	}

	storeCtx := context.WithoutCancel(ctx)
	if err != nil {
		m.log.Warn("identity check failed, clearing session", "fingerprint", fp, "err", err)
		m.epoch++
		m.stopMonitorLocked()
		if err := m.store.Delete(storeCtx, TokenKey); err != nil {
			m.log.Error("failed to remove persisted token", "err", err)
		}
		m.user = nil
		m.sessionID = ""
		m.loading = false
		return nil
	}

	u := profile.ToUser(token)
	if err := m.cache.Put(storeCtx, token, u); err != nil {
		m.log.Warn("failed to cache profile", "fingerprint", fp, "err", err)
	}
	m.setUserLocked(u)
	return m.userCopyLocked()
}

// RefreshUserData re-fetches the current user's profile, bypassing the cache.
// Returns nil without a request when nobody is logged in.
func (m *Manager) RefreshUserData(ctx context.Context) *models.User {
	m.mu.Lock()
	if m.user == nil || m.user.Token == "" {
		m.mu.Unlock()
		return nil
	}
	token := m.user.Token
	m.mu.Unlock()

	return m.FetchUserData(ctx, token, false)
}

// UpdateActivity records an interaction now and clears the expired flag.
func (m *Manager) UpdateActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastActivity = m.now()
	m.expired = false
}

// CheckSessionExpiry expires the session when a user is present and has been idle for longer
// than the budget. Expiry clears the user and the persisted token. Reports whether it fired.
func (m *Manager) CheckSessionExpiry() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !IdleExpired(m.now(), m.lastActivity, m.user != nil, m.cfg.Timeout) {
		return false
	}

	m.log.Info("session expired after inactivity", "user_id", m.user.ID, "session_id", m.sessionID,
		"idle", m.now().Sub(m.lastActivity).String())

	m.epoch++
	m.stopMonitorLocked()
	m.expired = true
	m.user = nil
	m.sessionID = ""
	if err := m.store.Delete(context.Background(), TokenKey); err != nil {
		m.log.Error("failed to remove persisted token", "err", err)
	}
	return true
}

// IdleExpired is the expiry rule: a present user idle for strictly longer than budget.
func IdleExpired(now, lastActivity time.Time, userPresent bool, budget time.Duration) bool {
	return userPresent && now.Sub(lastActivity) > budget
}

// =============================================================================
// STATE
// =============================================================================

// User returns a copy of the current user, or nil when logged out.
func (m *Manager) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userCopyLocked()
}

// Loading reports whether the initial restore is still running.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// SessionExpired reports whether the last session ended through inactivity.
func (m *Manager) SessionExpired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expired
}

// Status returns a snapshot of the session.
func (m *Manager) Status() models.SessionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	idle := m.now().Sub(m.lastActivity)
	var remaining time.Duration
	if m.user != nil {
		remaining = max(m.cfg.Timeout-idle, 0)
	}

	return models.SessionStatus{
		SessionID:     m.sessionID,
		User:          m.userCopyLocked(),
		Loading:       m.loading,
		Expired:       m.expired,
		LastActivity:  m.lastActivity,
		IdleTime:      idle,
		RemainingTime: remaining,
	}
}

func (m *Manager) setUserLocked(u models.User) {
	if m.user == nil {
		m.sessionID = uuid.NewString()
	}
	m.user = &u
	m.expired = false
	m.loading = false
	m.startMonitorLocked(u.Token)
}

func (m *Manager) userCopyLocked() *models.User {
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}
