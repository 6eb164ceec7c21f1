package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lazypower/monologue/internal/engine"
	"github.com/lazypower/monologue/internal/server"
	"github.com/lazypower/monologue/internal/store"
	"github.com/lazypower/monologue/internal/transcript"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	format, err := transcript.ParseFormat(cfg.Extract.Format)
	if err != nil {
		return err
	}

	var db *store.DB
	if cfg.Archive.Enabled {
		db, err = openDB()
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer db.Close()
		logger.WithField("db", db.Path).Info("archive enabled")
	}

	srv := server.New(engine.New(logger), db, server.CorpusSource{
		Path:   cfg.Extract.Output,
		Format: format,
	}, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("monologue serving")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-done:
	}
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
