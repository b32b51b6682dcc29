package command

import (
	"context"
	"fmt"

	"github.com/n1rna/fossflow-cli/internal/config"
	"github.com/n1rna/fossflow-cli/internal/icons"
	"github.com/n1rna/fossflow-cli/internal/shell"
	"github.com/n1rna/fossflow-cli/internal/storage"
)

type envKey struct{}

// Env carries what the root command set up for its sub-commands.
type Env struct {
	Config  *config.Config
	Store   storage.Store
	Catalog *icons.Catalog

	shell *shell.Shell
}

// NewEnv opens the configured store and the bundled icon catalog.
func NewEnv(cfg *config.Config) (*Env, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	catalog, err := icons.Default()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load icon catalog: %w", err)
	}

	return &Env{Config: cfg, Store: store, Catalog: catalog}, nil
}

// Shell returns the session shell, creating it with notifier on first use.
func (e *Env) Shell(notifier shell.Notifier) *shell.Shell {
	if e.shell == nil {
		e.shell = shell.New(shell.Options{
			Accessor:      storage.NewAccessor(e.Store),
			Catalog:       e.Catalog,
			Capacity:      e.Config.CapacityBytes,
			AutoSaveDelay: e.Config.AutoSaveDelay,
			Notifier:      notifier,
		})
	}
	return e.shell
}

// Close stops the shell and closes the store.
func (e *Env) Close() error {
	if e.shell != nil {
		e.shell.Close()
	}
	return e.Store.Close()
}

// WithEnv returns a new context with the command environment
func WithEnv(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

// GetEnv retrieves the command environment from the context
func GetEnv(ctx context.Context) *Env {
	if env, ok := ctx.Value(envKey{}).(*Env); ok {
		return env
	}
	return nil
}

// RequireEnv retrieves the command environment and returns an error if not found
func RequireEnv(ctx context.Context) (*Env, error) {
	env := GetEnv(ctx)
	if env == nil {
		return nil, fmt.Errorf("command environment not initialized")
	}
	return env, nil
}
