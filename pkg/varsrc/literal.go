package varsrc

import (
	"github.com/lwmacct/251207-go-pkg-varres/pkg/kvlist"
	"github.com/lwmacct/251207-go-pkg-varres/pkg/varres"
)

// Literal 由列表字面量（如 "host:localhost,port:8080"）构建来源，语法见 kvlist。
//
// 没有值的条目不会被收录。
func Literal(s string) varres.MapSource {
	return varres.MapSource(kvlist.Map(s))
}

// Literals 将多个字面量合并为一个来源，靠前的字面量优先。
func Literals(list ...string) varres.MapSource {
	out := make(varres.MapSource)
	for i := len(list) - 1; i >= 0; i-- {
		for k, v := range kvlist.Map(list[i]) {
			out[k] = v
		}
	}

	return out
}
