package varres

// ResolveMap 解析 m 中的每个值，返回新的 map，m 保持不变。
//
// 每个值独立解析，互不共享解析轨迹。
func (r *Resolver) ResolveMap(m map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(m))
	for key, value := range m {
		resolved, err := r.Resolve(value)
		if err != nil {
			return nil, err
		}
		out[key] = resolved
	}

	return out, nil
}

// ResolveMapInPlace 解析 m 中的每个值并写回 m。
//
// 全部解析成功后才写回，失败时 m 保持不变。
func (r *Resolver) ResolveMapInPlace(m map[string]string) error {
	resolved, err := r.ResolveMap(m)
	if err != nil {
		return err
	}
	for key, value := range resolved {
		m[key] = value
	}

	return nil
}

// ResolveSlice 按顺序解析 items 中的每一项，返回新的切片。
func (r *Resolver) ResolveSlice(items []string) ([]string, error) {
	out := make([]string, len(items))
	for i, item := range items {
		resolved, err := r.Resolve(item)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}

	return out, nil
}

// ResolveSliceInPlace 解析 items 中的每一项并写回。失败时 items 保持不变。
func (r *Resolver) ResolveSliceInPlace(items []string) error {
	resolved, err := r.ResolveSlice(items)
	if err != nil {
		return err
	}
	copy(items, resolved)

	return nil
}
