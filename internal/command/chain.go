package command

import (
	"fmt"
	"log/slog"

	"github.com/lwmacct/251207-go-pkg-varres/internal/config"
	"github.com/lwmacct/251207-go-pkg-varres/internal/metrics"
	"github.com/lwmacct/251207-go-pkg-varres/pkg/varres"
	"github.com/lwmacct/251207-go-pkg-varres/pkg/varsrc"
)

// Chain 按配置构建的来源链。
type Chain struct {
	Resolver *varres.Resolver
	// Files 链中的文件来源，用于监听变更。
	Files []*varsrc.File
}

// BuildChain 按 set → files → env → hostname 的顺序构建来源链。
//
// m 不为 nil 时每个来源都会被计数。
func BuildChain(cfg config.SourceConfig, m *metrics.Metrics) (*Chain, error) {
	chain := &Chain{}
	var sources []varres.Source
	add := func(name string, src varres.Source) {
		if m != nil {
			src = m.Instrument(name, src)
		}
		sources = append(sources, src)
	}

	if len(cfg.Set) > 0 {
		add("set", varsrc.Literals(cfg.Set...))
	}

	var fileOpts []varsrc.FileOption
	if cfg.Template != "" {
		fileOpts = append(fileOpts, varsrc.WithTemplate(cfg.Template))
	}
	if cfg.Optional {
		fileOpts = append(fileOpts, varsrc.Optional())
	}
	if cfg.CheckPeriod > 0 {
		fileOpts = append(fileOpts, varsrc.WithCheckPeriod(cfg.CheckPeriod))
	}
	for _, path := range cfg.Files {
		f := varsrc.NewFile(path, fileOpts...)
		chain.Files = append(chain.Files, f)
		add("file", f)
	}

	if cfg.Env {
		add("env", varsrc.Env{Prefix: cfg.EnvPrefix})
	}
	if cfg.Hostname != "" {
		add("hostname", varsrc.Hostname{Name: cfg.Hostname})
	}

	r, err := varres.New(sources...)
	if err != nil {
		return nil, fmt.Errorf("build source chain: %w", err)
	}
	chain.Resolver = r

	for _, f := range chain.Files {
		slog.Debug("Using variable file", "path", f.Path())
	}

	return chain, nil
}
