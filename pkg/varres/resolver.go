package varres

import (
	"fmt"
	"slices"
	"strings"
)

// Resolver 在有序的来源链上解析字符串中的变量引用。
//
// 来源在创建时确定，之后只读；每次调用各自维护解析轨迹，可并发使用。
type Resolver struct {
	sources []Source
}

// New 创建 Resolver。来源按顺序查询，先找到者生效。
//
// 实现 [Initializer] 的来源会从后往前依次初始化，任一失败即返回错误。
func New(sources ...Source) (*Resolver, error) {
	r := &Resolver{sources: slices.Clone(sources)}
	for i := len(r.sources) - 1; i >= 0; i-- {
		src, ok := r.sources[i].(Initializer)
		if !ok {
			continue
		}
		if err := src.Init(&Resolver{sources: r.sources[i+1:]}); err != nil {
			return nil, fmt.Errorf("varres: init source %d: %w", i, err)
		}
	}

	return r, nil
}

// MustNew 调用 [New] 并在失败时 panic，适合启动阶段。
func MustNew(sources ...Source) *Resolver {
	r, err := New(sources...)
	if err != nil {
		panic(err.Error())
	}

	return r
}

// Sources 返回来源链的副本。
func (r *Resolver) Sources() []Source {
	return slices.Clone(r.sources)
}

// Resolve 替换 text 中的全部引用。
//
// 支持的语法：
//   - $name - name 由字母、数字、"_"、"."、"-" 组成
//   - ${name} - name 可包含任意字符及嵌套引用
//   - ${name:default} - 以第一个顶层 ":" 分隔默认值
//   - $$ 或 ${$} - 字面量 "$"
//
// 无法识别的 "$" 原样保留。失败时返回 [MissingVariableError]、
// [CircularError] 或 [SourceError]，不返回部分结果。
func (r *Resolver) Resolve(text string) (string, error) {
	return r.resolve(text, &trace{})
}

// Value 解析名为 name 的变量，等价于 Resolve("${name}")，但 name 按原样查询。
func (r *Resolver) Value(name string) (string, error) {
	return r.expand(Reference{Name: name}, &trace{})
}

// Lookup 在来源链中查询原始值，不做替换。
//
// Resolver 因此也是一个 [Source]，可以嵌入其他来源链。
func (r *Resolver) Lookup(name string) (string, bool, error) {
	for i, src := range r.sources {
		v, ok, err := src.Lookup(name)
		if err != nil {
			return "", false, &SourceError{Name: name, Index: i, Err: err}
		}
		if ok {
			return v, true, nil
		}
	}

	return "", false, nil
}

// OnChange 向链中所有实现 [ChangeNotifier] 的来源注册回调。
func (r *Resolver) OnChange(fn func()) {
	for _, src := range r.sources {
		if n, ok := src.(ChangeNotifier); ok {
			n.OnChange(fn)
		}
	}
}

func (r *Resolver) resolve(text string, t *trace) (string, error) {
	if !strings.Contains(text, "$") {
		return text, nil
	}

	sc := NewScanner(text)
	var buf strings.Builder
	buf.Grow(len(text))

	for sc.Next() {
		ref := sc.Ref()
		if ref.Name == "$" {
			sc.Replace(&buf, "$")
			continue
		}

		replacement, err := r.expand(ref, t)
		if err != nil {
			return "", err
		}
		sc.Replace(&buf, replacement)
	}
	sc.Tail(&buf)

	return buf.String(), nil
}

func (r *Resolver) expand(ref Reference, t *trace) (string, error) {
	name, err := r.resolve(ref.Name, t)
	if err != nil {
		return "", err
	}

	var def string
	if ref.HasDefault {
		def, err = r.resolve(ref.Default, t)
		if err != nil {
			return "", err
		}
	}

	value, found, err := r.lookupResolved(name, t)
	if err != nil {
		return "", err
	}
	if found {
		return value, nil
	}
	if ref.HasDefault {
		return def, nil
	}

	return "", &MissingVariableError{Name: name}
}

// lookupResolved 在 name 入栈期间查询并解析其值。
func (r *Resolver) lookupResolved(name string, t *trace) (string, bool, error) {
	if err := t.push(name); err != nil {
		return "", false, err
	}
	defer t.pop()

	raw, found, err := r.Lookup(name)
	if err != nil || !found {
		return "", false, err
	}

	value, err := r.resolve(raw, t)
	if err != nil {
		return "", false, err
	}

	return value, true, nil
}
