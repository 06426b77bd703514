package varsrc

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	yamlv3 "go.yaml.in/yaml/v3"
)

// ErrDocumentRoot 文档根节点不是对象。
var ErrDocumentRoot = errors.New("document root must be object")

// DecodeDocument 按扩展名解析 YAML 或 JSON 文档，返回嵌套 map。
//
// ".json" 使用 JSON 解析，其余按 YAML 解析；空文档返回空 map。
func DecodeDocument(path string, content []byte) (map[string]any, error) {
	var raw any
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(content, &raw)
	} else {
		err = yamlv3.Unmarshal(content, &raw)
	}
	if err != nil {
		return nil, err
	}

	switch doc := stringKeys(raw).(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return doc, nil
	default:
		return nil, fmt.Errorf("%w, got %T", ErrDocumentRoot, doc)
	}
}

// stringKeys 将 YAML 可能产生的非字符串 key 统一为字符串。
func stringKeys(val any) any {
	switch typed := val.(type) {
	case map[string]any:
		for k, v := range typed {
			typed[k] = stringKeys(v)
		}

		return typed
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[fmt.Sprint(k)] = stringKeys(v)
		}

		return out
	case []any:
		for i := range typed {
			typed[i] = stringKeys(typed[i])
		}

		return typed
	default:
		return val
	}
}

// Flatten 将嵌套文档展开为以 "." 连接的 key。
//
// 列表元素使用下标（如 hosts.0），nil 值展开为空字符串，空对象不产生 key。
func Flatten(doc map[string]any) map[string]string {
	out := make(map[string]string)
	flattenInto(out, "", doc)

	return out
}

func flattenInto(out map[string]string, prefix string, val any) {
	join := func(key string) string {
		if prefix == "" {
			return key
		}

		return prefix + "." + key
	}

	switch typed := val.(type) {
	case map[string]any:
		for key, child := range typed {
			flattenInto(out, join(key), child)
		}
	case []any:
		for i, child := range typed {
			flattenInto(out, join(strconv.Itoa(i)), child)
		}
	case nil:
		out[prefix] = ""
	case string:
		out[prefix] = typed
	default:
		out[prefix] = fmt.Sprint(typed)
	}
}

// directChildren 返回 prefix 下一级的 key（不含更深层级）。
func directChildren(values map[string]string, prefix string) map[string]string {
	if prefix != "" && !strings.HasSuffix(prefix, ".") {
		prefix += "."
	}

	out := make(map[string]string)
	for key, value := range values {
		child, ok := strings.CutPrefix(key, prefix)
		if !ok || child == "" || strings.Contains(child, ".") {
			continue
		}
		out[child] = value
	}

	return out
}
