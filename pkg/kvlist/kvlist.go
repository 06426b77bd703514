// Package kvlist 解析 "key:value,key2:value2" 形式的列表字面量。
//
// 规则：
//   - 以不在引号内、未被转义的 "," 分隔条目，空条目忽略
//   - 条目中第一个不在引号内、未被转义的 ":" 分隔 key 与 value，没有 ":" 时只有 key
//   - key 与 value 去除首尾空白；首尾为同一种引号（' 或 "）时去掉引号
//   - "\" 转义其后的一个字符，末尾单独的 "\" 保留
//   - 重复的 key 覆盖旧值，但保留首次出现的位置
//
// 示例：
//
//	kvlist.Map(`a:1, b:'x,y', c:"1:2", d`)
//	// map[a:1 b:x,y c:1:2]（d 没有值，不出现在 Map 结果中）
package kvlist

import "strings"

// Entry 列表中的一个条目。
type Entry struct {
	Key      string
	Value    string
	HasValue bool
}

// Parse 按出现顺序返回全部条目。
func Parse(s string) []Entry {
	var entries []Entry
	index := make(map[string]int)

	for _, raw := range split(s, ',') {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		entry := Entry{Key: clean(raw)}
		if parts := split(raw, ':'); len(parts) > 1 {
			entry = Entry{
				Key:      clean(parts[0]),
				Value:    clean(raw[len(parts[0])+1:]),
				HasValue: true,
			}
		}

		if i, ok := index[entry.Key]; ok {
			entries[i] = entry
			continue
		}
		index[entry.Key] = len(entries)
		entries = append(entries, entry)
	}

	return entries
}

// Map 返回带值条目组成的 map。
func Map(s string) map[string]string {
	entries := Parse(s)
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.HasValue {
			out[e.Key] = e.Value
		}
	}

	return out
}

// split 以不在引号内、未被转义的 sep 切分 s，保留原始文本。
func split(s string, sep byte) []string {
	var parts []string
	var quote byte
	escaped := false
	start := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '\'' || c == '"':
			if quote == 0 {
				quote = c
			} else if quote == c {
				quote = 0
			}
		case c == sep && quote == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}

	return append(parts, s[start:])
}

// clean 去除空白与成对引号，并处理转义。
func clean(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	if !strings.Contains(s, `\`) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}

	return sb.String()
}
