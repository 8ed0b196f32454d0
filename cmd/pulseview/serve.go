package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pulseview/pulseview/internal/api"
	"github.com/pulseview/pulseview/internal/config"
	"github.com/pulseview/pulseview/internal/ingest"
)

// runServe loads a record log into the engine and serves the viewer API.
// With -f the log is tailed live, so records appended by a concurrent poll
// process show up in the API as they land. A malformed log line fails the
// initial load loudly, per the decoder contract.
func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("c", "", "path to YAML config file")
	follow := fs.Bool("f", false, "keep tailing the log for new records")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one record log file, got %d arguments", fs.NArg())
	}
	logPath := fs.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	svc, err := ingest.Open(logPath, cfg.Series.SegmentDurationSeconds, os.Stderr)
	if err != nil {
		return err
	}
	defer svc.Close()

	n, err := svc.LoadAll()
	if err != nil {
		return fmt.Errorf("load %s: %w", logPath, err)
	}
	fmt.Printf("[Serve] Loaded %s record(s) from %s\n", api.FormatInt(int64(n)), logPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *follow {
		go svc.Tail(ctx, cfg.TailInterval())
		fmt.Printf("[Serve] Tailing %s every %s\n", logPath, cfg.TailInterval())
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	if cfg.Server.EnableCORS {
		e.Use(middleware.CORS())
	}

	h := api.NewHandler(svc)
	api.RegisterRoutes(e, h, cfg.TailInterval())

	s := &http.Server{
		Addr:         cfg.ServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- e.StartServer(s)
	}()
	fmt.Printf("[Serve] Listening on http://%s\n", cfg.ServerAddr())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
