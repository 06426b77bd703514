// Package render 提供 render 命令：解析整个文件并输出结果。
package render

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-varres/internal/command"
)

// Command render 命令
var Command = &cli.Command{
	Name:  "render",
	Usage: "解析文件中的变量引用并输出",
	Description: `--watch 时输入文件或任一变量文件变化都会重新输出。

示例：
  varres render --in nginx.conf.tmpl --out nginx.conf -f vars.yaml
  varres render --in app.env.tmpl -f '${HOME}/.vars.yaml' --watch`,
	Action: action,
	Flags: append(command.SourceFlags(),
		&cli.StringFlag{
			Name:     "in",
			Aliases:  []string{"i"},
			Usage:    "输入文件",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "输出文件，默认输出到标准输出",
		},
		&cli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "监听变化并重新输出",
		},
		&cli.DurationFlag{
			Name:  "debounce",
			Value: defaultDebounce,
			Usage: "合并连续文件事件的等待时间",
		},
	),
}
