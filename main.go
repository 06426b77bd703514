package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-varres/internal/command"
	"github.com/lwmacct/251207-go-pkg-varres/internal/command/client"
	"github.com/lwmacct/251207-go-pkg-varres/internal/command/render"
	"github.com/lwmacct/251207-go-pkg-varres/internal/command/resolve"
	"github.com/lwmacct/251207-go-pkg-varres/internal/command/server"
	"github.com/lwmacct/251207-go-pkg-varres/internal/version"
)

func main() {
	app := &cli.Command{
		Name:    version.AppRawName,
		Usage:   "变量引用解析工具",
		Version: version.GetVersion(),
		Flags:   command.RootFlags(),
		Before:  command.Before,
		// 列表字面量自行处理逗号与引号
		DisableSliceFlagSeparator: true,
		Commands: []*cli.Command{
			version.Command,
			resolve.Command,
			render.Command,
			client.Command,
			server.Command,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
