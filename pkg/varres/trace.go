package varres

import "slices"

// trace 记录当前调用链中正在解析的变量名，用于检测循环。
//
// 每次外层 Resolve 调用创建一个新的 trace，并显式传给所有递归调用。
type trace struct {
	names []string
}

func (t *trace) push(name string) error {
	if slices.Contains(t.names, name) {
		chain := make([]string, 0, len(t.names)+1)
		chain = append(chain, t.names...)
		chain = append(chain, name)

		return &CircularError{Chain: chain}
	}
	t.names = append(t.names, name)

	return nil
}

func (t *trace) pop() {
	t.names = t.names[:len(t.names)-1]
}
