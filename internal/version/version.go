// Package version 提供构建版本信息与 version 子命令。
//
// 构建时通过 -ldflags 注入：
//
//	go build -ldflags "-X github.com/lwmacct/251207-go-pkg-varres/internal/version.Version=v1.0.0"
package version

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/urfave/cli/v3"
)

// AppRawName 应用名称，同时用于默认配置路径与环境变量前缀。
const AppRawName = "varres"

// 构建信息，未注入时从 debug.BuildInfo 推断。
var (
	Version   = ""
	Commit    = ""
	BuildTime = ""
)

// GetVersion 返回版本号，未知时为 "dev"。
func GetVersion() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return "dev"
}

// Command version 子命令。
var Command = &cli.Command{
	Name:  "version",
	Usage: "显示版本信息",
	Action: func(_ context.Context, cmd *cli.Command) error {
		_, err := fmt.Fprintf(cmd.Root().Writer, "%s %s (commit %s, built %s, %s)\n",
			AppRawName, GetVersion(), orUnknown(Commit), orUnknown(BuildTime), runtime.Version())

		return err
	},
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}

	return s
}
