package varres

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reference 描述一次匹配到的变量引用。
//
// Name 与 Default 均为原始文本，可能仍包含嵌套引用，由 [Resolver] 递归解析。
type Reference struct {
	Definition string // 匹配到的原文，如 ${a:b}、$a、$$
	Name       string // 原始变量名，非空
	Default    string // 原始默认值，仅当 HasDefault 为 true 时有效
	HasDefault bool
	Offset     int // 在输入中的起始位置
	Length     int // 匹配长度
}

// Scanner 在单个字符串上按顺序查找变量引用。
//
// 只做语法切分，不做任何解析；格式不完整的引用按普通文本处理。
// 扫描只向前推进，不可重置，如需重扫请新建 Scanner。
type Scanner struct {
	input   string
	ref     Reference
	next    int // 下一次查找的起点
	emitted int // 已输出到的位置
	matched bool
	done    bool
}

// NewScanner 创建绑定到 input 的扫描器。
func NewScanner(input string) *Scanner {
	return &Scanner{input: input}
}

// Next 查找下一个引用，找到时返回 true，可通过 [Scanner.Ref] 读取。
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}

	for from := s.next; from < len(s.input); {
		i := strings.IndexByte(s.input[from:], '$')
		if i < 0 {
			break
		}
		at := from + i
		if ref, ok := s.match(at); ok {
			s.ref = ref
			s.matched = true
			s.next = at + ref.Length

			return true
		}
		// 无效的 "$" 保留为字面量，从其后继续
		from = at + 1
	}

	s.ref = Reference{}
	s.matched = false
	s.done = true
	s.next = len(s.input)

	return false
}

// Ref 返回最近一次 [Scanner.Next] 匹配到的引用。
func (s *Scanner) Ref() Reference {
	return s.ref
}

// Replace 追加上次输出位置到当前引用之间的原文，再追加 text，
// 然后把输出位置移到当前引用之后。
func (s *Scanner) Replace(buf *strings.Builder, text string) {
	if !s.matched {
		return
	}
	buf.WriteString(s.input[s.emitted:s.ref.Offset])
	buf.WriteString(text)
	s.emitted = s.ref.Offset + s.ref.Length
	s.matched = false
}

// Tail 追加剩余的原文，并将输出位置移到末尾。
func (s *Scanner) Tail(buf *strings.Builder) {
	buf.WriteString(s.input[s.emitted:])
	s.emitted = len(s.input)
}

// match 尝试在 at 处（s.input[at] == '$'）识别一个引用。
func (s *Scanner) match(at int) (Reference, bool) {
	if at+1 >= len(s.input) {
		return Reference{}, false
	}

	switch s.input[at+1] {
	case '{':
		return s.matchBraced(at)
	case '$':
		return s.reference(at, 2, "$", "", false), true
	}

	end := at + 1
	for end < len(s.input) {
		r, size := utf8.DecodeRuneInString(s.input[end:])
		if !isNameRune(r) {
			break
		}
		end += size
	}
	if end == at+1 {
		return Reference{}, false
	}

	return s.reference(at, end-at, s.input[at+1:end], "", false), true
}

func (s *Scanner) matchBraced(at int) (Reference, bool) {
	bodyStart := at + 2
	closing := findRelevant(s.input, '}', bodyStart, len(s.input))
	if closing < 0 {
		return Reference{}, false
	}

	name, def, hasDef := s.input[bodyStart:closing], "", false
	if sep := findRelevant(s.input, ':', bodyStart, closing); sep >= 0 {
		name, def, hasDef = s.input[bodyStart:sep], s.input[sep+1:closing], true
	}
	if name == "" {
		return Reference{}, false
	}

	return s.reference(at, closing+1-at, name, def, hasDef), true
}

func (s *Scanner) reference(at, length int, name, def string, hasDef bool) Reference {
	return Reference{
		Definition: s.input[at : at+length],
		Name:       name,
		Default:    def,
		HasDefault: hasDef,
		Offset:     at,
		Length:     length,
	}
}

// findRelevant 在 [from, to) 中查找嵌套深度为零的 ch，未找到返回 -1。
//
// 任意 "{" 使深度加一，"}" 使深度减一。
func findRelevant(text string, ch byte, from, to int) int {
	depth := 0
	for i := from; i < to; i++ {
		c := text[i]
		if depth == 0 && c == ch {
			return i
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
		}
	}

	return -1
}

func isNameRune(r rune) bool {
	if r == utf8.RuneError {
		return false
	}

	return r == '_' || r == '.' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
