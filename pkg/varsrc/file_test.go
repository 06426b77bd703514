package varsrc_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251207-go-pkg-varres/pkg/varres"
	"github.com/lwmacct/251207-go-pkg-varres/pkg/varsrc"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestFile_InitResolvesPathFromLaterSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "prod.yaml"), "db:\n  host: db.prod\n  url: postgres://${db.host}:${db.port:5432}\n")

	file := varsrc.NewFile("${dir}/${env}.yaml")
	r, err := varres.New(file, varres.MapSource{"dir": dir, "env": "prod"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "prod.yaml"), file.Path())

	got, err := r.Resolve("$db.url")
	require.NoError(t, err)
	assert.Equal(t, "postgres://db.prod:5432", got)
}

func TestFile_InitErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := varres.New(varsrc.NewFile(filepath.Join(dir, "missing.yaml")))
	require.Error(t, err)
	assert.ErrorContains(t, err, "stat variable file")

	_, err = varres.New(varsrc.NewFile("${nowhere}/vars.yaml"))
	assert.ErrorIs(t, err, varres.ErrMissingVariable)

	writeFile(t, filepath.Join(dir, "bad.json"), "{")
	_, err = varres.New(varsrc.NewFile(filepath.Join(dir, "bad.json")))
	assert.ErrorContains(t, err, "parse variable file")
}

func TestFile_Optional(t *testing.T) {
	file := varsrc.NewFile(filepath.Join(t.TempDir(), "missing.yaml"), varsrc.Optional())
	r, err := varres.New(file, varres.MapSource{"a": "from-map"})
	require.NoError(t, err)

	got, err := r.Resolve("$a")
	require.NoError(t, err)
	assert.Equal(t, "from-map", got)
	assert.Empty(t, file.Values())
}

func TestFile_Template(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "template.yaml"), "greeting: hello\n")
	target := filepath.Join(dir, "nested", "vars.yaml")

	file := varsrc.NewFile(target, varsrc.WithTemplate("${dir}/template.yaml"))
	r, err := varres.New(file, varres.MapSource{"dir": dir})
	require.NoError(t, err)

	assert.FileExists(t, target)
	got, err := r.Resolve("$greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	// 已存在的文件不会被模板覆盖
	writeFile(t, target, "greeting: hi\n")
	file = varsrc.NewFile(target, varsrc.WithTemplate(filepath.Join(dir, "template.yaml")))
	r, err = varres.New(file)
	require.NoError(t, err)
	got, err = r.Resolve("$greeting")
	require.NoError(t, err)
	assert.Equal(t, "hi", got)
}

func TestFile_NotLoaded(t *testing.T) {
	file := varsrc.NewFile("vars.yaml")

	_, _, err := file.Lookup("a")
	require.ErrorIs(t, err, varsrc.ErrNotLoaded)
	require.ErrorIs(t, file.Reload(), varsrc.ErrNotLoaded)
	require.ErrorIs(t, file.Watch(context.Background()), varsrc.ErrNotLoaded)

	r := varres.MustNew(varres.SourceFunc(file.Lookup))
	_, err = r.Resolve("$a")
	assert.ErrorIs(t, err, varres.ErrSourceLookup)
	assert.ErrorIs(t, err, varsrc.ErrNotLoaded)
}

func TestFile_Children(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.yaml")
	writeFile(t, path, "db:\n  host: h\n  port: 1\n  pool:\n    size: 5\nother: x\n")

	file := varsrc.NewFile(path)
	varres.MustNew(file)

	assert.Equal(t, map[string]string{"host": "h", "port": "1"}, file.Children("db"))
	assert.Equal(t, map[string]string{"size": "5"}, file.Children("db.pool."))
	assert.Equal(t, map[string]string{"other": "x"}, file.Children(""))
}

func TestFile_ReloadNotifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.yaml")
	writeFile(t, path, "a: 1\n")

	file := varsrc.NewFile(path)
	r := varres.MustNew(file)

	var changes atomic.Int32
	r.OnChange(func() { changes.Add(1) })

	writeFile(t, path, "a: 2\n")
	require.NoError(t, file.Reload())
	assert.Equal(t, int32(1), changes.Load())

	got, err := r.Resolve("$a")
	require.NoError(t, err)
	assert.Equal(t, "2", got)

	// 解析失败时保留旧数据
	writeFile(t, path, "- not\n- a map\n")
	require.Error(t, file.Reload())
	got, err = r.Resolve("$a")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
	assert.Equal(t, int32(1), changes.Load())
}

func TestFile_CheckPeriod(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.yaml")
	writeFile(t, path, "a: 1\n")

	file := varsrc.NewFile(path, varsrc.WithCheckPeriod(time.Nanosecond))
	r := varres.MustNew(file)

	writeFile(t, path, "a: 2\n")
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	got, err := r.Resolve("$a")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestFile_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vars.yaml")
	writeFile(t, path, "a: 1\n")

	file := varsrc.NewFile(path, varsrc.WithDebounce(10*time.Millisecond))
	r := varres.MustNew(file)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- file.Watch(ctx) }()

	assert.Eventually(t, func() bool {
		if err := os.WriteFile(path, []byte("a: 2\n"), 0o600); err != nil {
			return false
		}
		got, err := r.Resolve("$a")

		return err == nil && got == "2"
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func TestWatchPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	writeFile(t, path, "v1")

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = varsrc.WatchPath(ctx, path, 10*time.Millisecond, func() { calls.Add(1) }) }()

	assert.Eventually(t, func() bool {
		if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600); err != nil {
			return false
		}
		if err := os.WriteFile(path, []byte("v2"), 0o600); err != nil {
			return false
		}

		return calls.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatchPath_MissingDir(t *testing.T) {
	err := varsrc.WatchPath(context.Background(), filepath.Join(t.TempDir(), "nope", "x.yaml"), time.Millisecond, func() {})
	require.Error(t, err)
}
