package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/PabloGalante/helper-kust/internal/adapters/http"
	"github.com/PabloGalante/helper-kust/internal/observability"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a := newAppFunc(ctx)
		defer a.Close()

		port, _ := cmd.Flags().GetString("port")
		if port == "" {
			port = a.cfg.Port
		}

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           httpadapter.NewServer(a.workspace, a.metrics),
			ReadHeaderTimeout: 10 * time.Second,
		}
		return serve(ctx, srv)
	},
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	log := observability.LoggerFromContext(ctx)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("helperkust API listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "port to listen on (default $HELPERKUST_PORT or 8080)")
}
