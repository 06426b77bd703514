package cfgm

import (
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-varres/pkg/varres"
)

// options 配置加载选项。
type options struct {
	appName             string // 应用名称，用于生成默认配置路径
	cmd                 *cli.Command
	configPaths         []string
	baseDir             string // 相对路径的基准目录，空表示当前工作目录
	envPrefix           string
	noTemplateExpansion bool // 是否禁用变量替换（默认启用）
	lenient             bool // 替换失败时保留原值
	sources             []varres.Source
	sourcesSet          bool // 区分未设置与显式传入空列表
}

// Option 配置加载选项函数。
type Option func(*options)

// WithCommand 绑定 CLI 命令，读取显式设置的 flags 以覆盖配置（最高优先级）。
func WithCommand(cmd *cli.Command) Option {
	return func(o *options) {
		o.cmd = cmd
	}
}

// WithAppName 设置应用名称，用于生成默认搜索路径（见 [DefaultPaths]）。
//
// 示例：
//
//	cfgm.Load(defaultConfig,
//	    cfgm.WithAppName("myapp"),  // 自动搜索 .myapp.yaml 等
//	    cfgm.WithCommand(cmd),
//	)
func WithAppName(name string) Option {
	return func(o *options) {
		o.appName = name
	}
}

// WithConfigPaths 设置配置文件搜索路径。
//
// 按顺序查找，命中首个文件即停止；相对路径会基于 [WithBaseDir] 解析。
func WithConfigPaths(paths ...string) Option {
	return func(o *options) {
		o.configPaths = paths
	}
}

// WithBaseDir 设置相对配置路径的解析基准，默认为当前工作目录。
func WithBaseDir(path string) Option {
	return func(o *options) {
		o.baseDir = path
	}
}

// WithEnvPrefix 启用环境变量前缀解析。
//
// 环境变量命名规则：
//   - 前缀 + 大写的配置 key
//   - 点号 (.) 和连字符 (-) 转为下划线 (_)
//
// 示例 (前缀为 "MYAPP_")：
//   - MYAPP_DEBUG → debug
//   - MYAPP_SERVER_URL → server.url
//   - MYAPP_CLIENT_REV_AUTH_USER → client.rev-auth-user
//
// 注意：通过反射自动生成配置 key 的绑定，只匹配结构体中定义的 key。
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithSources 设置变量替换使用的来源链，默认只有进程环境变量。
//
// 合并后的配置本身总是作为最后一个来源，因此配置值可以引用其他配置 key：
//
//	server:
//	  addr: ":8080"
//	client:
//	  url: "http://localhost${server.addr}"
func WithSources(sources ...varres.Source) Option {
	return func(o *options) {
		o.sources = sources
		o.sourcesSet = true
	}
}

// WithoutTemplateExpansion 禁用变量替换，保留原始 ${...} 字符串。
func WithoutTemplateExpansion() Option {
	return func(o *options) {
		o.noTemplateExpansion = true
	}
}

// WithLenientExpansion 替换失败时记录警告并保留原始字符串，而不是返回错误。
func WithLenientExpansion() Option {
	return func(o *options) {
		o.lenient = true
	}
}

// resolvePaths 将相对路径拼接到 baseDir。
func (o *options) resolvePaths() []string {
	if o.baseDir == "" {
		return o.configPaths
	}

	paths := make([]string, len(o.configPaths))
	for i, path := range o.configPaths {
		if filepath.IsAbs(path) {
			paths[i] = path

			continue
		}
		paths[i] = filepath.Join(o.baseDir, path)
	}

	return paths
}
