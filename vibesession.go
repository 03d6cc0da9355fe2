// Package vibesession assembles a session manager from a storage backend, the backend
// identity endpoint and an activity source.
package vibesession

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-logr/logr"

	"github.com/Ryan-Har/vibesession/internal/logutil"
	"github.com/Ryan-Har/vibesession/pkg/activity"
	"github.com/Ryan-Har/vibesession/pkg/authapi"
	"github.com/Ryan-Har/vibesession/pkg/services"
	"github.com/Ryan-Har/vibesession/pkg/session"
)

type Vibe struct {
	logger   *slog.Logger
	Services *services.Services
	Session  *session.Manager

	// Hold information to initialize services after configuration
	db         *sql.DB
	dbType     services.DBType
	auth       authapi.Client
	baseURL    string
	events     activity.Source
	sessionCfg session.Config
}

type Option func(*Vibe)

func WithLogger(l *slog.Logger) Option {
	return func(v *Vibe) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithLogr routes logging through a logr.Logger. A logger without a sink is ignored.
func WithLogr(l logr.Logger) Option {
	return func(v *Vibe) {
		if l.GetSink() != nil {
			v.logger = slog.New(logr.ToSlogHandler(l))
		}
	}
}

func WithSqliteDB(db *sql.DB) Option {
	return func(v *Vibe) {
		v.db = db
		v.dbType = services.DBTypeSQLite
	}
}

// WithInMemoryStorage keeps the token and cached profiles in process memory only.
func WithInMemoryStorage() Option {
	return func(v *Vibe) {
		v.dbType = services.DBTypeInMemory
	}
}

// WithAuthClient sets the client used to resolve tokens. It takes precedence over WithAPIBaseURL.
func WithAuthClient(c authapi.Client) Option {
	return func(v *Vibe) {
		v.auth = c
	}
}

// WithAPIBaseURL resolves tokens against baseURL + "/auth/me" over HTTP.
func WithAPIBaseURL(baseURL string) Option {
	return func(v *Vibe) {
		v.baseURL = baseURL
	}
}

func WithActivitySource(src activity.Source) Option {
	return func(v *Vibe) {
		v.events = src
	}
}

func WithSessionConfig(cfg session.Config) Option {
	return func(v *Vibe) {
		v.sessionCfg = cfg
	}
}

func New(opts ...Option) (*Vibe, error) {
	v := &Vibe{
		logger:     logutil.OrDiscard(nil),
		sessionCfg: session.DefaultConfig(),
	}

	for _, opt := range opts {
		opt(v)
	}

	v.logger.Info("starting vibesession")

	if v.dbType == "" {
		return nil, errors.New("no storage configured: use WithSqliteDB or WithInMemoryStorage")
	}
	if v.auth == nil {
		if v.baseURL == "" {
			return nil, errors.New("no identity endpoint configured: use WithAuthClient or WithAPIBaseURL")
		}
		v.auth = authapi.NewHTTPClient(v.baseURL, authapi.WithLogger(v.logger))
	}

	v.Services = services.New(v.db, v.dbType, v.logger)
	v.logger.Debug("vibesession services loaded", "storage", v.dbType)

	// check if database is pingable
	if err := v.Services.Ping(); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	v.logger.Debug("successfully connected to database")

	if err := v.Services.RunMigrations(); err != nil {
		return nil, fmt.Errorf("unable to run migrations: %w", err)
	}
	v.logger.Debug("successfully run migrations")

	sessOpts := []session.Option{
		session.WithLogger(v.logger),
		session.WithConfig(v.sessionCfg),
	}
	if v.events != nil {
		sessOpts = append(sessOpts, session.WithActivitySource(v.events))
	}
	v.Session = session.New(v.Services.Store, v.auth, sessOpts...)
	v.logger.Info("vibesession session manager loaded")

	return v, nil
}
