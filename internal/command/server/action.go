package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/lwmacct/251207-go-pkg-varres/internal/command"
	"github.com/lwmacct/251207-go-pkg-varres/internal/metrics"
	"github.com/lwmacct/251207-go-pkg-varres/internal/version"
)

func action(ctx context.Context, cmd *cli.Command) error {
	// 加载配置：默认值 → 配置文件 → 环境变量 → CLI flags
	cfg, err := command.Load(cmd)
	if err != nil {
		return err
	}

	m := metrics.New(version.AppRawName)
	chain, err := command.BuildChain(cfg.Source, m)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      NewHandler(chain.Resolver, m),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  cfg.Server.Idletime,
	}

	// 收到中断信号后取消 ctx，触发优雅关闭
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "addr", cfg.Server.Addr, "version", version.GetVersion())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

		return nil
	})

	if cfg.Server.Watch {
		for _, f := range chain.Files {
			g.Go(func() error { return f.Watch(gctx) })
		}
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")

		// 使用 WithoutCancel 保持 context 链，同时防止父 context 取消影响 shutdown
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.Timeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)

			return fmt.Errorf("server shutdown failed: %w", err)
		}
		slog.Info("Server stopped gracefully")

		return nil
	})

	return g.Wait()
}
