package resolve

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-varres/internal/command"
)

func action(_ context.Context, cmd *cli.Command) error {
	cfg, err := command.Load(cmd)
	if err != nil {
		return err
	}

	chain, err := command.BuildChain(cfg.Source, nil)
	if err != nil {
		return err
	}

	resolve := chain.Resolver.Resolve
	if cmd.Bool("value") {
		resolve = chain.Resolver.Value
	}

	p := &printer{
		resolve: resolve,
		strict:  cmd.Bool("strict"),
		out:     cmd.Root().Writer,
	}

	if cmd.Args().Len() > 0 {
		for _, text := range cmd.Args().Slice() {
			if err := p.print(text); err != nil {
				return err
			}
		}

		return nil
	}

	return p.printLines(cmd.Root().Reader)
}

type printer struct {
	resolve func(string) (string, error)
	strict  bool
	out     io.Writer
}

func (p *printer) print(text string) error {
	resolved, err := p.resolve(text)
	if err != nil {
		if p.strict {
			return fmt.Errorf("resolve %q: %w", text, err)
		}
		slog.Warn("Keeping unresolved text", "text", text, "error", err)
		resolved = text
	}

	_, err = fmt.Fprintln(p.out, resolved)

	return err
}

func (p *printer) printLines(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := p.print(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	return nil
}
