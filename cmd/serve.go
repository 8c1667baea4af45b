package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/karolswdev/gamescout/internal/config"
	"github.com/karolswdev/gamescout/internal/session"
	"github.com/karolswdev/gamescout/internal/web"
)

const shutdownTimeout = 15 * time.Second

// serveOptions are the resolved settings for one server run.
type serveOptions struct {
	Language      string
	SessionTTL    time.Duration
	MaxSessions   int
	SecureCookies bool
}

func serveOptionsFrom(cfg *config.AppConfig, secure bool) serveOptions {
	return serveOptions{
		Language:      cfg.UI.Language,
		SessionTTL:    cfg.Server.SessionTTL,
		MaxSessions:   cfg.Server.MaxSessions,
		SecureCookies: secure,
	}
}

// serveRunE serves the web front-end on ln until ctx is cancelled, then shuts
// down gracefully.
func serveRunE(ctx context.Context, act ActionRunner, opts serveOptions, ln net.Listener) error {
	sessions := session.NewStore(act, opts.SessionTTL, session.WithMaxSessions(opts.MaxSessions))
	srv, err := web.NewServer(act, sessions, web.Options{
		Language:      opts.Language,
		SecureCookies: opts.SecureCookies,
	})
	if err != nil {
		return err
	}
	httpSrv := srv.HTTPServer(ln.Addr().String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		Log.Info().Str("addr", ln.Addr().String()).Str("language", opts.Language).Msg("Serving gamescout")
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		Log.Info().Msg("Shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		Log.Error().Err(err).Msg("Web server stopped with error")
		return err
	}
	Log.Info().Msg("Web server stopped")
	return nil
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web front-end",
	Long: `Serves the drill-down web page, its JSON API under /api, a health check at
/healthz and Prometheus metrics at /metrics. Stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		act, provider, err := actionsFromProvider(cmd)
		if err != nil {
			return err
		}

		addr, _ := cmd.Flags().GetString("listen")
		if addr == "" {
			addr = provider.AppConfig.Server.ListenAddr
		}
		secure, _ := cmd.Flags().GetBool("secure-cookies")

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			Log.Error().Err(err).Str("addr", addr).Msg("Failed to listen")
			cmd.PrintErrf("Error: cannot listen on %s: %v\n", addr, err)
			return err
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serveRunE(ctx, act, serveOptionsFrom(provider.AppConfig, secure), ln)
	},
}

func init() {
	serveCmd.Flags().StringP("listen", "l", "", "Listen address (default from server.listen_addr)")
	serveCmd.Flags().Bool("secure-cookies", false, "Mark the session cookie Secure (use behind HTTPS)")

	rootCmd.AddCommand(serveCmd)
}
