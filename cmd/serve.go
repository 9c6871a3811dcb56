package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mendonca-galvao/horaextra/internal/batch"
	"github.com/mendonca-galvao/horaextra/internal/notify"
	"github.com/mendonca-galvao/horaextra/internal/server"
	"github.com/mendonca-galvao/horaextra/internal/session"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the processing session over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ex, err := newExtractor(ctx)
	if err != nil {
		return err
	}
	dest, err := newDestination(ctx, cfg.Export.Dir)
	if err != nil {
		return err
	}

	notifier := notify.For(cfg.Notify.Enabled)
	s := session.New()
	srv := server.New(batch.New(ex, s, log), s, server.Options{
		MaxUploadMB:  cfg.Server.MaxUploadMB,
		ExportPrefix: cfg.Export.Prefix,
		Destination:  dest,
		OnBatchDone: func(r batch.Result) {
			if err := notifier.Notify("horaextra", notify.BatchMessage(r.Files, r.Failed, r.Records)); err != nil {
				log.Warn().Err(err).Msg("notification not shown")
			}
		},
	}, log)

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen(addr) }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
