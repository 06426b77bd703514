// Package config 提供应用配置管理。
//
// 配置加载优先级 (从低到高)：
//  1. 默认值 - DefaultConfig() 函数中定义
//  2. 配置文件 - 通过 WithAppName / WithConfigPaths 选项设置
//  3. 环境变量 - 通过 WithEnvPrefix 选项启用
//  4. CLI flags - 通过 WithCommand 选项设置
//
// 加载后字符串值中的 ${...} 会被替换，标记 expand:"-" 的字段除外。
package config

import (
	"time"
)

// EnvPrefix 配置项对应的环境变量前缀，如 VARRES_SERVER_ADDR。
const EnvPrefix = "VARRES_"

// Config 应用配置。
type Config struct {
	Log    LogConfig    `json:"log" desc:"日志配置"`
	Source SourceConfig `json:"source" desc:"变量来源配置"`
	Server ServerConfig `json:"server" desc:"服务端配置"`
	Client ClientConfig `json:"client" desc:"客户端配置"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level  string `json:"level" validate:"oneof=debug info warn error" desc:"日志级别 (debug|info|warn|error)"`
	Format string `json:"format" validate:"oneof=text json" desc:"日志格式 (text|json)"`
}

// SourceConfig 变量来源链配置，按以下顺序查询：set → files → env → hostname。
//
// set 与 files 中的引用在运行时由来源链解析，加载配置时保持原样。
//
//nolint:tagliatelle
type SourceConfig struct {
	Set         []string      `json:"set" expand:"-" desc:"内联变量，如 a:1,b:2"`
	Files       []string      `json:"files" expand:"-" desc:"变量文件 (YAML/JSON)，路径可引用后续来源的变量"`
	Template    string        `json:"template" expand:"-" desc:"变量文件不存在时复制的模板"`
	Optional    bool          `json:"optional" desc:"变量文件不存在时视为空"`
	CheckPeriod time.Duration `json:"check-period" validate:"gte=0" desc:"查询时检查文件变更的最小间隔，0 表示不检查"`
	Env         bool          `json:"env" desc:"启用环境变量来源"`
	EnvPrefix   string        `json:"env-prefix" desc:"环境变量来源的名称前缀"`
	Hostname    string        `json:"hostname" desc:"主机名变量名，为空时禁用"`
}

// ServerConfig 服务端配置。
type ServerConfig struct {
	Addr     string        `json:"addr" validate:"required" desc:"服务器监听地址"`
	Timeout  time.Duration `json:"timeout" validate:"min=1ms" desc:"HTTP 读写超时"`
	Idletime time.Duration `json:"idletime" desc:"HTTP 空闲超时"`
	Watch    bool          `json:"watch" desc:"监听变量文件变化并自动重载"`
}

// ClientConfig 客户端配置。
type ClientConfig struct {
	URL     string        `json:"url" validate:"required,http_url" desc:"服务器地址"`
	Timeout time.Duration `json:"timeout" desc:"请求超时时间"`
	Retries int           `json:"retries" validate:"gte=0,lte=10" desc:"重试次数"`
}

// DefaultConfig 返回默认配置。
// 注意：internal/command/command.go 中的 Defaults 变量引用此函数以实现单一配置来源。
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Source: SourceConfig{
			Env:      true,
			Hostname: "hostname",
		},
		Server: ServerConfig{
			Addr:     ":40117",
			Timeout:  15 * time.Second,
			Idletime: 60 * time.Second,
		},
		Client: ClientConfig{
			URL:     `${API_BASE_URL:http://localhost:40117}`,
			Timeout: 30 * time.Second,
			Retries: 3,
		},
	}
}
