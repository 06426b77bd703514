package command

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lwmacct/251207-go-pkg-varres/internal/config"
)

// ErrLogFormat 不支持的日志格式。
var ErrLogFormat = errors.New("unsupported log format")

// ParseLevel 解析日志级别，大小写不敏感。
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level %q: %w", s, err)
	}

	return level, nil
}

// NewLogger 按配置创建 logger，w 为 nil 时输出到 stderr。
func NewLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrLogFormat, cfg.Format)
	}
}

// SetupLogging 创建 logger 并设为默认。
func SetupLogging(w io.Writer, cfg config.LogConfig) error {
	logger, err := NewLogger(w, cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	return nil
}
