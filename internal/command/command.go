// Package command 提供各子命令共享的配置加载、日志与来源链构建。
package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-varres/internal/config"
	"github.com/lwmacct/251207-go-pkg-varres/internal/version"
	"github.com/lwmacct/251207-go-pkg-varres/pkg/cfgm"
)

// Defaults 为默认配置的单一来源。
var Defaults = config.DefaultConfig()

// ConfigFlag 指定配置文件的 flag 名称。
const ConfigFlag = "config"

// RootFlags 返回根命令的全局 flags。
func RootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    ConfigFlag,
			Aliases: []string{"c"},
			Usage:   "配置文件路径（默认按 .varres.yaml、~/.varres.yaml 等顺序查找）",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Value: Defaults.Log.Level,
			Usage: "日志级别 (debug|info|warn|error)",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Value: Defaults.Log.Format,
			Usage: "日志格式 (text|json)",
		},
	}
}

// SourceFlags 返回来源链相关的 flags，每次调用返回新实例。
func SourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "source-set",
			Aliases: []string{"s"},
			Usage:   "内联变量，如 --source-set 'a:1,b:2'，可重复",
		},
		&cli.StringSliceFlag{
			Name:    "source-files",
			Aliases: []string{"f"},
			Usage:   "变量文件 (YAML/JSON)，可重复，靠前的优先",
		},
		&cli.StringFlag{
			Name:  "source-template",
			Usage: "变量文件不存在时复制的模板",
		},
		&cli.BoolFlag{
			Name:  "source-optional",
			Usage: "变量文件不存在时视为空",
		},
		&cli.DurationFlag{
			Name:  "source-check-period",
			Value: Defaults.Source.CheckPeriod,
			Usage: "查询时检查文件变更的最小间隔，0 表示不检查",
		},
		&cli.BoolFlag{
			Name:  "source-env",
			Value: Defaults.Source.Env,
			Usage: "启用环境变量来源",
		},
		&cli.StringFlag{
			Name:  "source-env-prefix",
			Value: Defaults.Source.EnvPrefix,
			Usage: "环境变量来源的名称前缀",
		},
		&cli.StringFlag{
			Name:  "source-hostname",
			Value: Defaults.Source.Hostname,
			Usage: "主机名变量名，为空时禁用",
		},
	}
}

// Load 加载配置：默认值 → 配置文件 → 环境变量 → CLI flags，校验后按配置初始化日志。
func Load(cmd *cli.Command) (*config.Config, error) {
	opts := []cfgm.Option{cfgm.WithEnvPrefix(config.EnvPrefix)}
	if path := cmd.String(ConfigFlag); path != "" {
		opts = append(opts, cfgm.WithConfigPaths(path))
	}

	cfg, err := cfgm.LoadCmd(cmd, Defaults, version.AppRawName, opts...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := SetupLogging(cmd.Root().ErrWriter, cfg.Log); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Before 根命令的 Before 钩子，尽早按全局 flags 初始化日志。
func Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	_, err := Load(cmd)

	return ctx, err
}
