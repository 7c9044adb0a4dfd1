package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	restapi "github.com/Lolirofle/fixed-circular-buffer/api/rest"
	"github.com/Lolirofle/fixed-circular-buffer/internal/custompromauto"
	"github.com/Lolirofle/fixed-circular-buffer/internal/history"
	"github.com/Lolirofle/fixed-circular-buffer/internal/source"
	"github.com/Lolirofle/fixed-circular-buffer/internal/store"
	"github.com/Lolirofle/fixed-circular-buffer/internal/store/memdb"
	"github.com/Lolirofle/fixed-circular-buffer/internal/store/sqlite"
)

func main() {
	logger := logrus.New()

	opts, err := parseOptions(flag.CommandLine, os.Args[1:])
	if err != nil {
		logger.WithError(err).Fatal("Failed to parse options")
	}
	err = validateOpts(opts)
	if err != nil {
		logger.Error(err)
		flag.Usage()
		os.Exit(1)
	}

	if opts.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	historyStore := memdb.NewHistoryStore(memdb.WithCapacity(opts.HistorySize))

	var snapshots *sqlite.SnapshotStore
	if opts.SnapshotPath != "" {
		snapshots, err = sqlite.Open(opts.SnapshotPath)
		if err != nil {
			logger.WithError(err).WithField("path", opts.SnapshotPath).Fatal("Failed to open snapshot store")
		}
		defer snapshots.Close()
		restoreSnapshot(ctx, logger, snapshots, historyStore)
	}

	httpClient := &http.Client{Timeout: time.Second * 10}
	sourceClient := source.New(logger, httpClient, opts.SourceURL, opts.SourceField)
	samples := sourceClient.Stream(ctx, opts.PollInterval)

	h := history.New(logger, historyStore, opts.WindowSize)
	go func() {
		err := h.Start(ctx, samples)
		if err != nil {
			logger.WithError(err).Error("History stopped before the window was filled")
		}
	}()

	restServer := restapi.NewServer(logger, historyStore)
	mux := http.NewServeMux()
	restapi.RegisterFunc(logger, mux, http.MethodGet, "/api/v1/history", restServer.ListHistory)
	restapi.RegisterFunc(logger, mux, http.MethodGet, "/api/v1/history/{index}", restServer.GetRecord)
	restapi.RegisterFunc(logger, mux, http.MethodGet, "/api/v1/window", restServer.GetWindow)

	// use a custom prom registry to avoid recording the default http handler metrics
	mux.Handle("/metrics", promhttp.HandlerFor(custompromauto.Registry(), promhttp.HandlerOpts{}))

	ln, err := net.Listen("tcp", opts.ServerAddr)
	if err != nil {
		logger.WithError(err).WithField("addr", opts.ServerAddr).Fatal("Failed to listen")
	}
	err = serve(ctx, logger, ln, mux, opts.ShutdownTimeout)
	if err != nil {
		logger.WithError(err).Error("History api stopped with error")
	}

	if snapshots != nil {
		saveSnapshot(logger, snapshots, historyStore)
	}
}

// serve runs the http server on ln until ctx is done, then drains in-flight requests for at most
// shutdownTimeout. It returns early if the server fails.
func serve(ctx context.Context, logger *logrus.Logger, ln net.Listener, handler http.Handler, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second * 5,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", ln.Addr().String()).Info("Serving history api...")
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve history api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.WithField("timeout", shutdownTimeout).Info("Shutting down history api...")
	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown history api: %w", err)
	}
	return nil
}

func restoreSnapshot(ctx context.Context, logger *logrus.Logger, snapshots *sqlite.SnapshotStore, historyStore *memdb.HistoryStore) {
	storage, first, err := snapshots.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Info("No history snapshot to restore")
			return
		}
		logger.WithError(err).Error("Failed to load history snapshot, starting empty")
		return
	}

	err = historyStore.Restore(ctx, storage, first)
	if err != nil {
		logger.WithError(err).Warn("Could not restore history snapshot, starting empty")
		return
	}
	logger.WithField("capacity", len(storage)).Info("Restored history snapshot")
}

func saveSnapshot(logger *logrus.Logger, snapshots *sqlite.SnapshotStore, historyStore *memdb.HistoryStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	storage, first, err := historyStore.Snapshot(ctx)
	if err != nil {
		logger.WithError(err).Error("Failed to take history snapshot")
		return
	}

	err = snapshots.Save(ctx, storage, first)
	if err != nil {
		logger.WithError(err).Error("Failed to save history snapshot")
		return
	}
	logger.WithField("capacity", len(storage)).Info("Saved history snapshot")
}
