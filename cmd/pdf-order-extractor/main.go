package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"

	"github.com/orderdesk/pdf-order-extractor/internal/config"
	"github.com/orderdesk/pdf-order-extractor/internal/export"
	"github.com/orderdesk/pdf-order-extractor/internal/extract"
	"github.com/orderdesk/pdf-order-extractor/internal/mcpserver"
	"github.com/orderdesk/pdf-order-extractor/internal/order"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, srv *mcpserver.Server, log *zap.Logger) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		log.Info("received signal, initiating graceful shutdown", zap.String("signal", sig.String()))
		cancel()

		if err := <-serverErrCh; err != nil {
			log.Error("server shutdown with error", zap.Error(err))
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	log.Info("server stopped successfully")
}

// runStdioMode handles stdio mode execution
func runStdioMode(ctx context.Context, _ context.CancelFunc, srv *mcpserver.Server, log *zap.Logger) {
	// In stdio mode, the parent process controls our lifecycle.
	if err := srv.Run(ctx); err != nil {
		log.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

// runOneShot processes a single PDF and writes the export files.
func runOneShot(ctx context.Context, cfg *config.Config, svc *order.Service, log *zap.Logger) {
	pages, err := extract.ParsePageSelector(cfg.PageSelector)
	if err != nil {
		log.Fatal("invalid page selector", zap.Error(err))
	}

	run, err := svc.Process(ctx, order.ProcessRequest{
		Path:  cfg.File,
		Pages: pages,
		Mode:  extract.Mode(cfg.ExtractMode),
	})
	if err != nil {
		log.Fatal("extraction failed", zap.String("file", cfg.File), zap.Error(err))
	}

	written, err := export.WriteRun(run, cfg.File, cfg.OutputDir, cfg.Format)
	if err != nil {
		log.Fatal("export failed", zap.Error(err))
	}

	for _, w := range run.Warnings {
		log.Warn(w)
	}
	log.Info("order record written",
		zap.String("file", cfg.File),
		zap.Strings("outputs", written),
		zap.Int("line_items", len(run.LineItems)),
	)
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := cfg.InitLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() && cfg.IsServerMode() {
		logger.Debug("starting with configuration", zap.String("config", cfg.String()))
	}

	// Wire the extraction pipeline
	primitive := extract.NewTextPrimitive(cfg.MaxFileSize)
	collector := extract.NewCollector(primitive, extract.CollectorOptions{
		ModeFallback: cfg.ModeFallback,
		Timeout:      cfg.Timeout,
	}, logger)
	orderService := order.NewService(collector, order.DateOrder(cfg.DateOrder), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsOneShot() {
		runOneShot(ctx, cfg, orderService, logger)
		return
	}

	srv, err := mcpserver.NewServer(cfg, orderService, logger)
	if err != nil {
		logger.Fatal("failed to create MCP server", zap.Error(err))
	}

	if cfg.IsServerMode() {
		runServerMode(ctx, cancel, srv, logger)
	} else {
		runStdioMode(ctx, cancel, srv, logger)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("PDF Order Extractor\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
