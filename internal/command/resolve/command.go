// Package resolve 提供 resolve 命令：解析参数或标准输入中的变量引用。
package resolve

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-varres/internal/command"
)

// Command resolve 命令
var Command = &cli.Command{
	Name:      "resolve",
	Usage:     "解析文本中的变量引用",
	ArgsUsage: "[TEXT...]",
	Description: `未提供 TEXT 时逐行读取标准输入。

示例：
  varres resolve -s 'user:alice' 'hello ${user}, home is ${HOME:/tmp}'
  varres resolve --value hostname
  echo '$$HOME is $HOME' | varres resolve`,
	Action: action,
	Flags: append(command.SourceFlags(),
		&cli.BoolFlag{
			Name:  "strict",
			Value: true,
			Usage: "解析失败时返回错误；为 false 时输出原文并记录警告",
		},
		&cli.BoolFlag{
			Name:  "value",
			Usage: "将参数视为变量名而不是文本",
		},
	),
}
