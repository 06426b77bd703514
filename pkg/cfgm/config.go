package cfgm

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-varres/pkg/varsrc"
)

// DefaultPaths 返回默认配置文件的搜索顺序。
//
// appName 可选，提供后会追加应用专属路径。
// 返回顺序即查找顺序，先命中的文件生效。
//
// 优先级 (从高到低)：
//  1. ./.appname.yaml - 当前目录应用配置
//  2. ~/.appname.yaml - 用户主目录配置
//  3. /etc/appname/config.yaml - 系统级配置
//  4. config.yaml - 当前目录通用配置
//  5. config/config.yaml - 子目录通用配置
func DefaultPaths(appName ...string) []string {
	var paths []string

	if len(appName) > 0 && appName[0] != "" {
		name := appName[0]
		paths = append(paths, "."+name+".yaml")
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths, filepath.Join(home, "."+name+".yaml"))
		}
		paths = append(paths, "/etc/"+name+"/config.yaml")
	}

	paths = append(paths, "config.yaml", "config/config.yaml")

	return paths
}

// Load 读取配置并按优先级合并。
//
// 优先级 (从低到高)：
//  1. 默认值 - defaultConfig
//  2. 配置文件 - [WithConfigPaths] / [WithAppName]
//  3. 环境变量(前缀) - [WithEnvPrefix]
//  4. CLI flags - [WithCommand]
//
// 合并完成后对所有字符串值做变量替换（见 [WithSources]），再解码到结构体。
// 配置文件按顺序查找，命中首个文件即停止。
func Load[T any](defaultConfig T, opts ...Option) (*T, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	return load(defaultConfig, o)
}

func load[T any](defaultConfig T, o *options) (*T, error) {
	if len(o.configPaths) == 0 {
		o.configPaths = DefaultPaths(o.appName)
	}

	configMap := structToMap(defaultConfig)

	// 配置文件：命中第一个即停止
	loadedFrom := ""
	for _, path := range o.resolvePaths() {
		content, err := os.ReadFile(path) //nolint:gosec // path is from trusted config
		if err != nil {
			continue
		}

		fileMap, err := varsrc.DecodeDocument(path, content)
		if err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		mergeMaps(configMap, fileMap)
		loadedFrom = path

		break
	}
	if loadedFrom != "" {
		slog.Debug("Loaded config from file", "path", loadedFrom)
	} else {
		slog.Debug("No config file found, using defaults")
	}

	// 环境变量：按配置 key 生成绑定，如 server.idle-timeout → PREFIX_SERVER_IDLE_TIMEOUT
	if o.envPrefix != "" {
		env := varsrc.Env{Prefix: o.envPrefix, Normalize: true}
		for _, key := range collectConfigKeys(defaultConfig) {
			if val, ok, _ := env.Lookup(key); ok && val != "" {
				setByPath(configMap, key, val)
				slog.Debug("Loaded env binding", "env", env.Key(key), "path", key)
			}
		}
	}

	// CLI flags：仅覆盖用户显式设置的 flag
	if o.cmd != nil {
		applyCLIFlags(o.cmd, configMap, reflect.TypeOf(defaultConfig), "")
	}

	if !o.noTemplateExpansion {
		if err := expandConfigMap(configMap, collectRawKeys(defaultConfig), o); err != nil {
			return nil, err
		}
	}

	var cfg T
	if err := decodeConfigMap(configMap, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadCmd 是 [Load] 的便捷版本，适用于 CLI 场景。
//
// 它会注入 [WithCommand]，appName 非空时额外注入 [WithAppName]。
//
// 示例：
//
//	cfg, err := cfgm.LoadCmd(cmd, DefaultConfig(), "myapp",
//	    cfgm.WithEnvPrefix("MYAPP_"),
//	)
func LoadCmd[T any](cmd *cli.Command, defaultConfig T, appName string, opts ...Option) (*T, error) {
	return Load(defaultConfig, cmdOptions(cmd, appName, opts)...)
}

// MustLoad 调用 [Load] 并在失败时 panic，适合启动阶段。
func MustLoad[T any](defaultConfig T, opts ...Option) *T {
	cfg, err := Load(defaultConfig, opts...)
	if err != nil {
		panic(fmt.Sprintf("cfgm: failed to load config: %v", err))
	}

	return cfg
}

// MustLoadCmd 调用 [LoadCmd] 并在失败时 panic，适合启动阶段。
func MustLoadCmd[T any](cmd *cli.Command, defaultConfig T, appName string, opts ...Option) *T {
	return MustLoad(defaultConfig, cmdOptions(cmd, appName, opts)...)
}

func cmdOptions(cmd *cli.Command, appName string, opts []Option) []Option {
	base := []Option{WithCommand(cmd)}
	if appName != "" {
		base = append(base, WithAppName(appName))
	}

	return append(base, opts...)
}

// collectConfigKeys 递归收集配置结构体的叶子 key（如 client.rev-auth-user）。
func collectConfigKeys[T any](defaultConfig T) []string {
	var keys []string
	walkFields(reflect.TypeOf(defaultConfig), "", func(key string, _ reflect.StructField) {
		keys = append(keys, key)
	})

	return keys
}

// collectRawKeys 收集标记为 expand:"-" 的 key，这些值保持原样不做替换。
func collectRawKeys[T any](defaultConfig T) []string {
	var keys []string
	walkFields(reflect.TypeOf(defaultConfig), "", func(key string, field reflect.StructField) {
		if field.Tag.Get("expand") == "-" {
			keys = append(keys, key)
		}
	})

	return keys
}

// walkFields 以 json tag 拼接完整 key，对每个叶子字段调用 fn。
func walkFields(typ reflect.Type, prefix string, fn func(key string, field reflect.StructField)) {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return
	}

	for i := range typ.NumField() {
		field := typ.Field(i)
		key := configTagName(field)
		if key == "" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}

		if isStructType(field.Type) {
			walkFields(field.Type, key, fn)

			continue
		}
		fn(key, field)
	}
}

// applyCLIFlags 将用户显式设置的 CLI flags 写入配置 map。
//
// flag 名称由 key 中的 "." 替换为 "-" 得到，如 server.addr → --server-addr。
func applyCLIFlags(cmd *cli.Command, config map[string]any, typ reflect.Type, prefix string) {
	walkFields(typ, prefix, func(key string, field reflect.StructField) {
		flag := strings.ReplaceAll(key, ".", "-")
		if !cmd.IsSet(flag) {
			return
		}
		if val, ok := cliFlagValue(cmd, flag, field.Type); ok {
			setByPath(config, key, val)
		}
	})
}

// cliFlagValue 按字段类型读取 flag 值，不支持的类型返回 false。
//
// 取值函数需与 flag 类型一致，如 int64 字段对应 Int64Flag。
func cliFlagValue(cmd *cli.Command, flag string, typ reflect.Type) (any, bool) {
	switch typ {
	case durationType:
		return cmd.Duration(flag), true
	case timeType:
		return cmd.Timestamp(flag), true
	}

	switch typ.Kind() {
	case reflect.String:
		return cmd.String(flag), true
	case reflect.Bool:
		return cmd.Bool(flag), true
	case reflect.Int:
		return cmd.Int(flag), true
	case reflect.Int32:
		return cmd.Int32(flag), true
	case reflect.Int64:
		return cmd.Int64(flag), true
	case reflect.Uint:
		return cmd.Uint(flag), true
	case reflect.Uint32:
		return cmd.Uint32(flag), true
	case reflect.Uint64:
		return cmd.Uint64(flag), true
	case reflect.Float64:
		return cmd.Float64(flag), true
	case reflect.Slice:
		return sliceFlagValue(cmd, flag, typ.Elem())
	case reflect.Map:
		if typ.Key().Kind() == reflect.String && typ.Elem().Kind() == reflect.String {
			return cmd.StringMap(flag), true
		}
	}

	return nil, false
}

func sliceFlagValue(cmd *cli.Command, flag string, elem reflect.Type) (any, bool) {
	switch elem.Kind() {
	case reflect.String:
		return cmd.StringSlice(flag), true
	case reflect.Int:
		return cmd.IntSlice(flag), true
	case reflect.Int64:
		return cmd.Int64Slice(flag), true
	case reflect.Float64:
		return cmd.Float64Slice(flag), true
	}

	return nil, false
}
