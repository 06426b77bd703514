package varres

// Source 按名称提供原始值。
//
// 找到时返回 (value, true, nil)，value 可以包含引用；未找到返回 ("", false, nil)。
// 返回 error 表示查询失败，[Resolver] 不会继续查询后续来源。
// 实现需支持并发调用。
type Source interface {
	Lookup(name string) (string, bool, error)
}

// SourceFunc 将普通函数适配为 [Source]。
type SourceFunc func(name string) (string, bool, error)

// Lookup 调用 f(name)。
func (f SourceFunc) Lookup(name string) (string, bool, error) {
	return f(name)
}

// MapSource 以 map 作为来源。创建后不应再修改。
type MapSource map[string]string

// Lookup 实现 [Source]。
func (m MapSource) Lookup(name string) (string, bool, error) {
	v, ok := m[name]

	return v, ok, nil
}

// Initializer 由需要在加入链时初始化的来源实现。
//
// [New] 从后往前初始化来源，传入的 Resolver 只包含排在该来源之后的来源，
// 因此来源自身的配置（如文件路径）可以引用后续来源中的变量。
type Initializer interface {
	Init(r *Resolver) error
}

// ChangeNotifier 由数据会变化的来源实现（如可重载的文件）。
//
// 回调在数据更新后调用，可能来自其他 goroutine。
type ChangeNotifier interface {
	OnChange(fn func())
}
