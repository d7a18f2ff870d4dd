package container

import (
	"context"
	"fmt"
	"time"

	"askmydata/adapters/excel"
	"askmydata/adapters/postgres"
	"askmydata/adapters/sqlite"
	"askmydata/domain/core"
	"askmydata/internal"
	"askmydata/internal/config"
	"askmydata/internal/session"
	"askmydata/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	InteractionLog ports.InteractionLog
	SessionRepo    ports.SessionRepository
	Reader         ports.DatasetReader

	// Application
	Interactor *session.Interactor

	sessions    *session.MemoryStore
	stopCleanup context.CancelFunc
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return &Container{
		Config: cfg,
		Logger: internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)),
	}, nil
}

const sessionCleanupInterval = 5 * time.Minute

// Init opens the interaction log, wires the remaining components and starts
// evicting idle sessions
func (c *Container) Init(ctx context.Context) error {
	log, err := OpenInteractionLog(ctx, c.Config.Database, core.SystemClock)
	if err != nil {
		return err
	}
	if err := c.InitWithLog(log); err != nil {
		return err
	}

	if idle := c.Config.Session.IdleTimeout(); idle > 0 {
		cleanupCtx, cancel := context.WithCancel(context.Background())
		c.stopCleanup = cancel
		go c.sessions.RunCleanup(cleanupCtx, sessionCleanupInterval, idle, c.Logger.With("Sessions"))
	}
	return nil
}

// InitWithLog wires components around an already opened interaction log
func (c *Container) InitWithLog(log ports.InteractionLog) error {
	if log == nil {
		return fmt.Errorf("interaction log cannot be nil")
	}

	c.InteractionLog = log
	c.sessions = session.NewMemoryStore()
	c.SessionRepo = c.sessions
	c.Reader = excel.NewDataReader()
	c.Interactor = session.NewInteractor(c.Reader, c.InteractionLog, c.Logger)
	return nil
}

// OpenInteractionLog picks postgres when DATABASE_URL is set, the local sqlite
// file otherwise.
func OpenInteractionLog(ctx context.Context, cfg config.DatabaseConfig, clock core.Clock) (ports.InteractionLog, error) {
	if cfg.UsesPostgres() {
		internal.DefaultLogger.Info("Using PostgreSQL interaction log")
		repo, err := postgres.Open(ctx, cfg.URL, clock)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
	internal.DefaultLogger.Info("Using SQLite interaction log at %s", cfg.ChatDBPath)
	repo, err := sqlite.Open(ctx, cfg.ChatDBPath, clock)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.stopCleanup != nil {
		c.stopCleanup()
	}
	if c.InteractionLog != nil {
		if err := c.InteractionLog.Close(); err != nil {
			return fmt.Errorf("failed to close interaction log: %w", err)
		}
	}
	return nil
}
