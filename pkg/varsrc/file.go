package varsrc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lwmacct/251207-go-pkg-varres/pkg/varres"
)

// ErrNotLoaded 文件来源尚未初始化。
var ErrNotLoaded = errors.New("variable file not loaded")

const defaultDebounce = 100 * time.Millisecond

// File 以 YAML/JSON 文件作为来源，嵌套 key 展开为 "a.b.c" 形式。
//
// 文件路径与模板路径可以包含变量引用，在 [File.Init] 时由链中排在其后的来源解析。
// 重载时整体替换数据，Lookup 可并发调用。
type File struct {
	rawPath     string
	rawTemplate string
	optional    bool
	checkPeriod time.Duration
	debounce    time.Duration

	values    atomic.Pointer[map[string]string]
	lastCheck atomic.Int64

	mu       sync.Mutex
	path     string
	modTime  time.Time
	handlers []func()
}

// FileOption 文件来源选项。
type FileOption func(*File)

// WithTemplate 文件不存在时从模板复制一份。模板路径同样支持变量引用。
func WithTemplate(path string) FileOption {
	return func(f *File) {
		f.rawTemplate = path
	}
}

// WithCheckPeriod 启用查询时的变更检查，两次检查至少间隔 d。
//
// 适合无法使用 [File.Watch] 的场景。
func WithCheckPeriod(d time.Duration) FileOption {
	return func(f *File) {
		f.checkPeriod = d
	}
}

// WithDebounce 设置 [File.Watch] 合并连续事件的等待时间，默认 100ms。
func WithDebounce(d time.Duration) FileOption {
	return func(f *File) {
		f.debounce = d
	}
}

// Optional 文件不存在时视为空文件，而不是返回错误。
func Optional() FileOption {
	return func(f *File) {
		f.optional = true
	}
}

// NewFile 创建文件来源。需加入 varres.New 的来源链完成初始化后才能查询。
func NewFile(path string, opts ...FileOption) *File {
	f := &File{rawPath: path, debounce: defaultDebounce}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Init 实现 varres.Initializer：解析路径、按需从模板创建文件并加载。
func (f *File) Init(r *varres.Resolver) error {
	path, err := r.Resolve(f.rawPath)
	if err != nil {
		return fmt.Errorf("resolve path %q: %w", f.rawPath, err)
	}
	f.mu.Lock()
	f.path = filepath.Clean(path)
	f.mu.Unlock()

	if f.rawTemplate != "" {
		template, err := r.Resolve(f.rawTemplate)
		if err != nil {
			return fmt.Errorf("resolve template %q: %w", f.rawTemplate, err)
		}
		if err := f.createFromTemplate(template); err != nil {
			return err
		}
	}

	return f.Reload()
}

// Path 返回解析后的文件路径，初始化前为空。
func (f *File) Path() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.path
}

// Lookup 实现 varres.Source。
func (f *File) Lookup(name string) (string, bool, error) {
	if f.values.Load() == nil {
		return "", false, ErrNotLoaded
	}
	if f.checkPeriod > 0 {
		f.checkChanges()
	}

	v, ok := (*f.values.Load())[name]

	return v, ok, nil
}

// Values 返回当前数据的副本。
func (f *File) Values() map[string]string {
	values := f.values.Load()
	if values == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(*values))
	for k, v := range *values {
		out[k] = v
	}

	return out
}

// Children 返回 prefix 的直接子项，如 prefix 为 "db" 时返回 {"host": ..., "port": ...}，
// 不包含 db.pool.size 这类更深的 key。
func (f *File) Children(prefix string) map[string]string {
	values := f.values.Load()
	if values == nil {
		return map[string]string{}
	}

	return directChildren(*values, prefix)
}

// OnChange 实现 varres.ChangeNotifier，每次成功加载后调用 fn。
func (f *File) OnChange(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.handlers = append(f.handlers, fn)
}

// Reload 重新读取文件并通知订阅者。失败时保留原有数据。
func (f *File) Reload() error {
	path := f.Path()
	if path == "" {
		return ErrNotLoaded
	}

	values, modTime, err := f.read(path)
	if err != nil {
		return err
	}

	f.values.Store(&values)
	f.lastCheck.Store(time.Now().UnixNano())

	f.mu.Lock()
	f.modTime = modTime
	handlers := slices.Clone(f.handlers)
	f.mu.Unlock()

	slog.Debug("Loaded variables from file", "path", path, "count", len(values))
	for _, fn := range handlers {
		fn()
	}

	return nil
}

// Watch 监听文件变化并自动重载，阻塞直到 ctx 结束。
func (f *File) Watch(ctx context.Context) error {
	path := f.Path()
	if path == "" {
		return ErrNotLoaded
	}

	return WatchPath(ctx, path, f.debounce, func() {
		if err := f.Reload(); err != nil {
			slog.Error("Failed to reload variable file", "path", path, "error", err)
		}
	})
}

func (f *File) read(path string) (map[string]string, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		if f.optional && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, time.Time{}, nil
		}

		return nil, time.Time{}, fmt.Errorf("stat variable file: %w", err)
	}

	content, err := os.ReadFile(path) //nolint:gosec // path is from trusted config
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read variable file: %w", err)
	}

	doc, err := DecodeDocument(path, content)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("parse variable file %s: %w", path, err)
	}

	return Flatten(doc), info.ModTime(), nil
}

// checkChanges 在检查间隔到期后比较修改时间，有变化则重载。
func (f *File) checkChanges() {
	last := f.lastCheck.Load()
	now := time.Now().UnixNano()
	if time.Duration(now-last) < f.checkPeriod || !f.lastCheck.CompareAndSwap(last, now) {
		return
	}

	path := f.Path()
	var modTime time.Time
	if info, err := os.Stat(path); err == nil {
		modTime = info.ModTime()
	}

	f.mu.Lock()
	unchanged := modTime.Equal(f.modTime)
	f.mu.Unlock()
	if unchanged {
		return
	}

	if err := f.Reload(); err != nil {
		slog.Warn("Keeping previous variables after failed reload", "path", path, "error", err)
	}
}

func (f *File) createFromTemplate(template string) error {
	path := f.Path()
	if _, err := os.Stat(path); err == nil || !errors.Is(err, fs.ErrNotExist) {
		return nil //nolint:nilerr // existing or inaccessible files are handled by Reload
	}

	content, err := os.ReadFile(template) //nolint:gosec // path is from trusted config
	if err != nil {
		return fmt.Errorf("read template %s: %w", template, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	slog.Info("Created variable file from template", "path", path, "template", template)

	return nil
}
