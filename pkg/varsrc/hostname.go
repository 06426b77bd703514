package varsrc

import (
	"log/slog"
	"os"
)

// DefaultHostnameVariable [Hostname] 默认响应的变量名。
const DefaultHostnameVariable = "hostname"

// Hostname 只响应一个变量名，值为本机主机名。
type Hostname struct {
	// Name 响应的变量名，为空时使用 [DefaultHostnameVariable]。
	Name string
	// Fallback 获取主机名失败时返回的值，nil 表示视为未找到。
	Fallback *string

	lookup func() (string, error)
}

// Lookup 实现 varres.Source。
func (h Hostname) Lookup(name string) (string, bool, error) {
	want := h.Name
	if want == "" {
		want = DefaultHostnameVariable
	}
	if name != want {
		return "", false, nil
	}

	lookup := h.lookup
	if lookup == nil {
		lookup = os.Hostname
	}

	host, err := lookup()
	if err == nil && host != "" {
		return host, true, nil
	}

	slog.Error("Unable to resolve hostname", "variable", want, "error", err)
	if h.Fallback != nil {
		return *h.Fallback, true, nil
	}

	return "", false, nil
}
