package bindings

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/dshills/rewind/bindings/blob"
	"github.com/dshills/rewind/internal/logging"
)

// AccountsAPI is the credential pair for the user-account service.
type AccountsAPI struct {
	BaseURL string
	Token   string
}

// OAuthClient is the OAuth client id/secret pair.
type OAuthClient struct {
	ID     string
	Secret string
}

// Env is the resolved set of resource handles. One Env is shared across
// requests; Bind derives a per-request view.
type Env struct {
	DB       *sql.DB
	Objects  blob.Store
	Accounts AccountsAPI
	AI       AIClients
	OAuth    OAuthClient
	Log      *slog.Logger

	redis *backend.Client
}

// Option configures Resolve.
type Option func(*Env)

// WithLogger sets the logger the environment and its requests use.
func WithLogger(log *slog.Logger) Option {
	return func(e *Env) {
		if log != nil {
			e.Log = log
		}
	}
}

// Resolve opens every handle the manifest declares, authenticated with
// the given secrets. The returned Env must be closed.
func Resolve(ctx context.Context, m Manifest, s Secrets, opts ...Option) (*Env, error) {
	applyDefaults(&m)
	if err := m.validate(); err != nil {
		return nil, err
	}

	e := &Env{
		Accounts: AccountsAPI{BaseURL: m.Services.AccountsURL, Token: s.AccountsToken},
		OAuth:    OAuthClient{ID: s.OAuthClientID, Secret: s.OAuthClientSecret},
		Log:      logging.NewLogger(nil, slog.LevelInfo),
	}
	for _, opt := range opts {
		opt(e)
	}

	db, err := sql.Open(m.Database.Driver, m.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("bindings: open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bindings: ping database: %w", err)
	}
	e.DB = db

	switch m.Objects.Backend {
	case BackendFS:
		e.Objects = blob.NewFS(m.Objects.Root)
	case BackendRedis:
		client := backend.NewClient(&backend.Options{
			Addr:     m.Objects.Addr,
			Password: s.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			_ = db.Close()
			return nil, fmt.Errorf("bindings: ping redis: %w", err)
		}
		e.redis = client
		e.Objects = blob.NewRedis(client, blob.WithPrefix(m.Objects.Prefix))
	}

	ai, err := newAIClients(m.Services.AIProvider, s)
	if err != nil {
		e.closeHandles()
		return nil, err
	}
	e.AI = ai

	e.Log.Debug("environment resolved",
		"database", m.Database.Binding,
		"objects", m.Objects.Binding,
		"objects_backend", m.Objects.Backend,
		"ai_provider", ai.Provider,
	)
	return e, nil
}

// Close releases the database and any owned network clients.
func (e *Env) Close() error {
	return e.closeHandles()
}

func (e *Env) closeHandles() error {
	var firstErr error
	if e.DB != nil {
		if err := e.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		e.DB = nil
	}
	if e.redis != nil {
		if err := e.redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		e.redis = nil
	}
	return firstErr
}

// Request is the per-request view of an Env: the same handles plus a
// unique id and a logger carrying it.
type Request struct {
	*Env

	ID      uuid.UUID
	Started time.Time
	Log     *slog.Logger
}

// Bind mints a Request with a fresh id.
func (e *Env) Bind() *Request {
	id := uuid.New()
	return &Request{
		Env:     e,
		ID:      id,
		Started: time.Now(),
		Log:     e.Log.With("request_id", id.String()),
	}
}
