package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/n1rna/fossflow-cli/internal/logger"
	"github.com/n1rna/fossflow-cli/internal/server"
)

// NewServeCommand exposes the diagram shell over HTTP.
func NewServeCommand(groupId string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram shell to a browser-hosted editor",
		Long: `Start an HTTP server that drives one editing session.

The diagramming component reports model changes to the server, which
keeps track of the current diagram, persists saves and auto-saves, and
queues notices the page can poll from /api/notices.`,
		Args:    cobra.NoArgs,
		RunE:    runServe,
		GroupID: groupId,
	}

	cmd.Flags().String("addr", "", "Listen address (default: addr from config)")
	cmd.Flags().Bool("allow-all", false, "Allow all CORS origins (development)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	env, err := RequireEnv(cmd.Context())
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = env.Config.Addr
	}
	allowAll, _ := cmd.Flags().GetBool("allow-all")

	if err := logger.GetLogger().AddFileOutput(logger.DEBUG, env.Config.LogPath()); err != nil {
		logger.Warn("Could not open log file: %v", err)
	}

	notices := server.NewNotices()
	srv := server.New(server.Config{Addr: addr, AllowAll: allowAll}, env.Shell(notices), notices, env.Catalog)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	fmt.Fprintf(cmd.ErrOrStderr(), "Serving fossflow on http://%s (Ctrl-C to stop)\n", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return <-errCh
}
