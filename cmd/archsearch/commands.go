package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	chiTransport "github.com/kailas-cloud/archsearch/internal/transport/chi"
	"github.com/kailas-cloud/archsearch/internal/transport/console"
)

// exitSearchFailed is the console exit status when a pipeline fails.
const exitSearchFailed = 1

func traditionalCommand(c *cli.Context) error {
	return runConsole(c, false, func(ctx context.Context, svc *services, p *console.Printer) error {
		p.Banner("Starting Traditional Hybrid Search Demo")
		return runTraditional(ctx, svc, p, c.String("query"))
	})
}

func agenticCommand(c *cli.Context) error {
	return runConsole(c, true, func(ctx context.Context, svc *services, p *console.Printer) error {
		p.Banner("Starting Agentic Search Demo")
		return runAgentic(ctx, svc, p, c.String("query"))
	})
}

func compareCommand(c *cli.Context) error {
	return runConsole(c, true, func(ctx context.Context, svc *services, p *console.Printer) error {
		p.Banner("Traditional vs Agentic Search Comparison")
		if err := runTraditional(ctx, svc, p, defaultTraditionalQuery); err != nil {
			return err
		}
		return runAgentic(ctx, svc, p, defaultAgenticQuery)
	})
}

func runConsole(
	c *cli.Context,
	agentic bool,
	run func(ctx context.Context, svc *services, p *console.Printer) error,
) error {
	rt, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := console.New(os.Stdout)
	svc, err := buildServices(ctx, rt, buildOptions{
		agentic:        agentic,
		requireAgentic: agentic,
		notify:         p.Note,
	})
	if err != nil {
		return err
	}
	defer svc.Close()

	return run(ctx, svc, p)
}

func runTraditional(ctx context.Context, svc *services, p *console.Printer, query string) error {
	p.TraditionalHeader(query)
	res, err := svc.traditional.Run(ctx, query, p.Sink())
	if err != nil {
		p.Failure(fmt.Sprintf("Error in traditional search: %v", err))
		p.Failure("Traditional search failed")
		return cli.Exit("search failed", exitSearchFailed)
	}
	p.Traditional(res)
	p.TraditionalSummary(res)
	return nil
}

func runAgentic(ctx context.Context, svc *services, p *console.Printer, query string) error {
	p.Comparison()
	p.AgenticHeader(query)
	res, err := svc.agentic.Run(ctx, query, p.Sink())
	if err != nil {
		p.Failure(fmt.Sprintf("Error in agentic search: %v", err))
		p.Failure("Agentic search failed")
		return cli.Exit("search failed", exitSearchFailed)
	}
	p.Agentic(res)
	p.AgenticSummary(res)
	return nil
}

func serveCommand(c *cli.Context) error {
	rt, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()
	logger := rt.logger
	cfg := rt.cfg

	if err := cfg.ValidateHTTP(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	svc, err := buildServices(c.Context, rt, buildOptions{agentic: true})
	if err != nil {
		return err
	}
	defer svc.Close()

	// Keep the agentic runner a nil interface when the agent is not configured.
	var agentic chiTransport.AgenticRunner
	if svc.agentic != nil {
		agentic = svc.agentic
	}
	server := chiTransport.NewServer(svc.traditional, agentic, svc.health, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr: addr,
		Handler: server.Router(chiTransport.Options{
			APIKeys:        cfg.Auth.APIKeys,
			RateLimitRPS:   cfg.HTTP.RateLimitRPS,
			RateLimitBurst: cfg.HTTP.RateLimitBurst,
		}),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	logger.Info("Starting archsearch chat server",
		zap.String("env", rt.env),
		zap.String("addr", addr),
		zap.String("index", cfg.Search.Index),
		zap.Bool("agentic", agentic != nil),
		zap.Bool("cache", svc.cache != nil),
	)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-quit:
		logger.Info("Received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
