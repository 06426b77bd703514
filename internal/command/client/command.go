// Package client 提供 HTTP 客户端命令。
package client

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-varres/internal/command"
)

// Command 客户端命令
var Command = &cli.Command{
	Name:  "client",
	Usage: "变量解析服务的 HTTP 客户端",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "client-url",
			Aliases: []string{"u"},
			Value:   command.Defaults.Client.URL,
			Usage:   "服务器地址",
		},
		&cli.DurationFlag{
			Name:  "client-timeout",
			Value: command.Defaults.Client.Timeout,
			Usage: "请求超时时间",
		},
		&cli.IntFlag{
			Name:  "client-retries",
			Value: command.Defaults.Client.Retries,
			Usage: "重试次数",
		},
	},
	Commands: []*cli.Command{
		{
			Name:   "health",
			Usage:  "检查服务器健康状态",
			Action: healthAction,
		},
		{
			Name:      "resolve",
			Usage:     "在服务端解析文本",
			ArgsUsage: "TEXT...",
			Action:    resolveAction,
		},
		{
			Name:      "var",
			Usage:     "在服务端查询变量",
			ArgsUsage: "NAME",
			Action:    varAction,
		},
	},
}
