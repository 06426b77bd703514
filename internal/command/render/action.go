package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/lwmacct/251207-go-pkg-varres/internal/command"
	"github.com/lwmacct/251207-go-pkg-varres/pkg/varres"
	"github.com/lwmacct/251207-go-pkg-varres/pkg/varsrc"
)

const defaultDebounce = 100 * time.Millisecond

// ErrSameFile 输入与输出为同一文件。
var ErrSameFile = errors.New("input and output must differ")

func action(ctx context.Context, cmd *cli.Command) error {
	cfg, err := command.Load(cmd)
	if err != nil {
		return err
	}

	chain, err := command.BuildChain(cfg.Source, nil)
	if err != nil {
		return err
	}

	r, err := newRenderer(chain.Resolver, cmd.String("in"), cmd.String("out"), cmd.Root().Writer)
	if err != nil {
		return err
	}
	if err := r.render(); err != nil {
		return err
	}
	if !cmd.Bool("watch") {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return r.watch(ctx, chain.Files, cmd.Duration("debounce"))
}

type renderer struct {
	resolver *varres.Resolver
	in       string
	out      string
	stdout   io.Writer
}

func newRenderer(resolver *varres.Resolver, in, out string, stdout io.Writer) (*renderer, error) {
	in = filepath.Clean(in)
	if out != "" {
		out = filepath.Clean(out)
		if out == in {
			return nil, fmt.Errorf("%w: %s", ErrSameFile, in)
		}
	}

	return &renderer{resolver: resolver, in: in, out: out, stdout: stdout}, nil
}

// render 读取输入、解析并写出。写文件时先写临时文件再重命名。
func (r *renderer) render() error {
	content, err := os.ReadFile(r.in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	resolved, err := r.resolver.Resolve(string(content))
	if err != nil {
		return fmt.Errorf("render %s: %w", r.in, err)
	}

	if r.out == "" {
		_, err = io.WriteString(r.stdout, resolved)

		return err
	}

	tmp := r.out + ".tmp"
	if err := os.WriteFile(tmp, []byte(resolved), 0o600); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := os.Rename(tmp, r.out); err != nil {
		return fmt.Errorf("replace output: %w", err)
	}
	slog.Info("Rendered file", "in", r.in, "out", r.out)

	return nil
}

// watch 监听输入文件与变量文件，变化后重新输出，阻塞直到 ctx 结束。
//
// 单次输出失败只记录错误，继续监听。
func (r *renderer) watch(ctx context.Context, files []*varsrc.File, debounce time.Duration) error {
	trigger := make(chan struct{}, 1)
	notify := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}
	r.resolver.OnChange(notify)

	g, ctx := errgroup.WithContext(ctx)
	for _, f := range files {
		g.Go(func() error { return f.Watch(ctx) })
	}
	g.Go(func() error { return varsrc.WatchPath(ctx, r.in, debounce, notify) })
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-trigger:
				if err := r.render(); err != nil {
					slog.Error("Render failed", "in", r.in, "error", err)
				}
			}
		}
	})

	return g.Wait()
}
