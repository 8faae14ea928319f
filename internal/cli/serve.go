package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/interop-desk/mcpgate/internal/config"
	"github.com/interop-desk/mcpgate/internal/gateway"
	"github.com/interop-desk/mcpgate/pkg/symbols"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP gateway",
		Long: `Run the MCP gateway that multiplexes client sessions over one endpoint.

POST /mcp creates or continues a session, GET /mcp serves the session
stream, DELETE /mcp terminates a session.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log := newLogger(cfg.Log).With().Str("service", "mcpgate-server").Logger()

	store := gateway.NewMemoryStore(gateway.DefaultSessionFactory(symbols.Default(), log))
	gw := gateway.New(store, log)

	router := mux.NewRouter()
	gw.Routes(router)

	server := &http.Server{
		Addr:        cfg.ServerAddr(),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: GET /mcp holds a long-lived event stream.
		IdleTimeout: 60 * time.Second,
	}

	log.Info().Str("addr", server.Addr).Msg("MCP gateway listening")
	return serveUntilSignal(ctx, server, log)
}

// serveUntilSignal runs server until the context ends or a termination
// signal arrives, then shuts down gracefully.
func serveUntilSignal(ctx context.Context, server *http.Server, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
