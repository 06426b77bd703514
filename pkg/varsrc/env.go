package varsrc

import (
	"os"
	"strings"
)

var envReplacer = strings.NewReplacer(".", "_", "-", "_")

// Env 以进程环境变量作为来源，每次查询实时读取。
type Env struct {
	// Prefix 查询时拼接在变量名之前。
	Prefix string
	// Normalize 为 true 时，变量名中的 "." 和 "-" 转为 "_" 并转为大写，
	// 如 server.idle-timeout → SERVER_IDLE_TIMEOUT。
	Normalize bool
}

// Lookup 实现 varres.Source。
func (e Env) Lookup(name string) (string, bool, error) {
	v, ok := os.LookupEnv(e.Key(name))

	return v, ok, nil
}

// Key 返回 name 对应的环境变量名。
func (e Env) Key(name string) string {
	if e.Normalize {
		name = strings.ToUpper(envReplacer.Replace(name))
	}

	return e.Prefix + name
}
