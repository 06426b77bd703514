package cfgm

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/lwmacct/251207-go-pkg-varres/pkg/varres"
	"github.com/lwmacct/251207-go-pkg-varres/pkg/varsrc"
)

// expandConfigMap 对配置 map 中的所有字符串叶子做变量替换。
//
// rawKeys 及其子 key 保持原样。
func expandConfigMap(configMap map[string]any, rawKeys []string, o *options) error {
	sources := []varres.Source{varsrc.Env{}}
	if o.sourcesSet {
		sources = slices.Clone(o.sources)
	}
	sources = append(sources, varres.MapSource(varsrc.Flatten(configMap)))

	resolver, err := varres.New(sources...)
	if err != nil {
		return fmt.Errorf("build expansion sources: %w", err)
	}

	e := &expander{resolver: resolver, rawKeys: rawKeys, lenient: o.lenient}
	for key, val := range configMap {
		expanded, err := e.expand(key, val)
		if err != nil {
			return err
		}
		configMap[key] = expanded
	}

	return nil
}

type expander struct {
	resolver *varres.Resolver
	rawKeys  []string
	lenient  bool
}

func (e *expander) expand(path string, val any) (any, error) {
	if e.isRaw(path) {
		return val, nil
	}

	switch typed := val.(type) {
	case string:
		resolved, err := e.resolver.Resolve(typed)
		if err == nil {
			return resolved, nil
		}
		if !e.lenient {
			return nil, fmt.Errorf("expand %s: %w", path, err)
		}
		slog.Warn("Keeping unexpanded config value", "path", path, "error", err)

		return typed, nil
	case map[string]any:
		for key, child := range typed {
			expanded, err := e.expand(path+"."+key, child)
			if err != nil {
				return nil, err
			}
			typed[key] = expanded
		}

		return typed, nil
	case []any:
		for i, child := range typed {
			expanded, err := e.expand(path+"."+strconv.Itoa(i), child)
			if err != nil {
				return nil, err
			}
			typed[i] = expanded
		}

		return typed, nil
	case []string:
		out := make([]any, len(typed))
		for i, child := range typed {
			expanded, err := e.expand(path+"."+strconv.Itoa(i), child)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}

		return out, nil
	default:
		return val, nil
	}
}

func (e *expander) isRaw(path string) bool {
	for _, key := range e.rawKeys {
		if path == key || strings.HasPrefix(path, key+".") {
			return true
		}
	}

	return false
}
