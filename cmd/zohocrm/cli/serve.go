package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tracktor/zoho-crm/internal/config"
	"github.com/Tracktor/zoho-crm/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func NewServeCommand(cfg config.Config, f *flags, o *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web front-end",
		Long: `Serve a small web front-end: /zoho/auth starts the consent flow, /auth
receives the grant token and /api/... proxies authenticated requests to the
CRM API. The redirect URL of the connected app must point at /auth.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withApp(ctx, cfg, f, o, func(a *app) error {
				displayAppname(cmd, cfg.GetAppName())
				srv := &http.Server{
					Addr:              addr,
					Handler:           server.New(a.conn, a.config.Logger),
					ReadHeaderTimeout: 10 * time.Second,
				}
				return serve(ctx, srv)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", cfg.GetListenAddr(), "Address to listen on")
	return cmd
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server.ListenAndServe: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	log.Info().Msg("Server stopped")
	return nil
}
