package varres

import (
	"errors"
	"strconv"
	"strings"
)

// 哨兵错误，配合 errors.Is 使用。
var (
	// ErrMissingVariable 变量在所有来源中都不存在，且没有默认值。
	ErrMissingVariable = errors.New("missing variable")

	// ErrCircularSubstitution 解析过程中同一变量被再次进入。
	ErrCircularSubstitution = errors.New("circular substitution")

	// ErrSourceLookup 某个来源查询失败。
	ErrSourceLookup = errors.New("source lookup failed")
)

// MissingVariableError 表示变量缺失。Name 为解析后的有效变量名。
type MissingVariableError struct {
	Name string
}

// Error 返回可读的错误信息。
func (e *MissingVariableError) Error() string {
	return "varres: missing variable " + e.Name
}

// Is 匹配 [ErrMissingVariable]。
func (e *MissingVariableError) Is(target error) bool {
	return target == ErrMissingVariable
}

// CircularError 表示循环替换。
//
// Chain 按进入顺序列出正在解析的变量名，最后一项为再次进入的变量名。
type CircularError struct {
	Chain []string
}

// Repeated 返回触发循环的变量名。
func (e *CircularError) Repeated() string {
	if len(e.Chain) == 0 {
		return ""
	}

	return e.Chain[len(e.Chain)-1]
}

// Path 返回形如 "a <- b* <- c <- b" 的链路，"*" 标记重复的变量。
func (e *CircularError) Path() string {
	if len(e.Chain) == 0 {
		return ""
	}

	repeated := e.Repeated()
	var sb strings.Builder
	for _, name := range e.Chain[:len(e.Chain)-1] {
		sb.WriteString(name)
		if name == repeated {
			sb.WriteByte('*')
		}
		sb.WriteString(" <- ")
	}
	sb.WriteString(repeated)

	return sb.String()
}

// Error 返回可读的错误信息。
func (e *CircularError) Error() string {
	return "varres: circular substitution " + e.Path()
}

// Is 匹配 [ErrCircularSubstitution]。
func (e *CircularError) Is(target error) bool {
	return target == ErrCircularSubstitution
}

// SourceError 包装来源查询时返回的错误，errors.Is 可同时匹配原始错误。
type SourceError struct {
	Name  string // 查询的有效变量名
	Index int    // 来源在链中的位置，从 0 开始
	Err   error
}

// Error 返回可读的错误信息。
func (e *SourceError) Error() string {
	return "varres: lookup " + strconv.Quote(e.Name) + " in source " + strconv.Itoa(e.Index) + ": " + e.Err.Error()
}

// Unwrap 返回原始错误。
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is 匹配 [ErrSourceLookup]。
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceLookup
}
