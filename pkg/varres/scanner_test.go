package varres_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251207-go-pkg-varres/pkg/varres"
)

type wantRef struct {
	name       string
	def        string
	hasDefault bool
	definition string
}

func scanAll(input string) []varres.Reference {
	sc := varres.NewScanner(input)
	var refs []varres.Reference
	for sc.Next() {
		refs = append(refs, sc.Ref())
	}

	return refs
}

func TestScanner_Find(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []wantRef
	}{
		{
			name:  "braced",
			input: "${val}",
			want:  []wantRef{{name: "val", definition: "${val}"}},
		},
		{
			name:  "bare",
			input: "$val",
			want:  []wantRef{{name: "val", definition: "$val"}},
		},
		{
			name:  "braced with default",
			input: "${val:xyz}",
			want:  []wantRef{{name: "val", def: "xyz", hasDefault: true, definition: "${val:xyz}"}},
		},
		{
			name:  "mixed with trailing dollar",
			input: "a ${a} b $b c ${c:d} $",
			want: []wantRef{
				{name: "a", definition: "${a}"},
				{name: "b", definition: "$b"},
				{name: "c", def: "d", hasDefault: true, definition: "${c:d}"},
			},
		},
		{
			name:  "nested references",
			input: "a ${${x}} b $$ c ${i${y}:j${z}} $",
			want: []wantRef{
				{name: "${x}", definition: "${${x}}"},
				{name: "$", definition: "$$"},
				{name: "i${y}", def: "j${z}", hasDefault: true, definition: "${i${y}:j${z}}"},
			},
		},
		{
			name:  "deeply nested references",
			input: "${1${${${3}}2}} - ${${${${${a}}}}:${${${${b}}}}}",
			want: []wantRef{
				{name: "1${${${3}}2}", definition: "${1${${${3}}2}}"},
				{name: "${${${${a}}}}", def: "${${${${b}}}}", hasDefault: true, definition: "${${${${${a}}}}:${${${${b}}}}}"},
			},
		},
		{
			name:  "escaping",
			input: "${$$} - ${$} $$$$ $",
			want: []wantRef{
				{name: "$$", definition: "${$$}"},
				{name: "$", definition: "${$}"},
				{name: "$", definition: "$$"},
				{name: "$", definition: "$$"},
			},
		},
		{
			name:  "bare name characters",
			input: "$a.b-c_1! $ü2",
			want: []wantRef{
				{name: "a.b-c_1", definition: "$a.b-c_1"},
				{name: "ü2", definition: "$ü2"},
			},
		},
		{
			name:  "bare name stops at dollar",
			input: "$a$b",
			want: []wantRef{
				{name: "a", definition: "$a"},
				{name: "b", definition: "$b"},
			},
		},
		{
			name:  "colon inside nested braces is not a separator",
			input: "${a{b:c}d:e}",
			want:  []wantRef{{name: "a{b:c}d", def: "e", hasDefault: true, definition: "${a{b:c}d:e}"}},
		},
		{
			name:  "empty default",
			input: "${a:}",
			want:  []wantRef{{name: "a", hasDefault: true, definition: "${a:}"}},
		},
		{
			name:  "default keeps later colons",
			input: "${url:http://localhost:80}",
			want:  []wantRef{{name: "url", def: "http://localhost:80", hasDefault: true, definition: "${url:http://localhost:80}"}},
		},
		{
			name:  "unterminated brace resumes after dollar",
			input: "${a $b",
			want:  []wantRef{{name: "b", definition: "$b"}},
		},
		{
			name:  "empty braces are not a reference",
			input: "${} ${:x} $c",
			want:  []wantRef{{name: "c", definition: "$c"}},
		},
		{
			name:  "dollar before punctuation",
			input: "cost: $5 $! $ $",
			want:  []wantRef{{name: "5", definition: "$5"}},
		},
		{
			name:  "no references",
			input: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs := scanAll(tt.input)
			require.Len(t, refs, len(tt.want))
			for i, want := range tt.want {
				got := refs[i]
				assert.Equal(t, want.name, got.Name, "name of ref %d", i)
				assert.Equal(t, want.def, got.Default, "default of ref %d", i)
				assert.Equal(t, want.hasDefault, got.HasDefault, "hasDefault of ref %d", i)
				assert.Equal(t, want.definition, got.Definition, "definition of ref %d", i)
				assert.Equal(t, want.definition, tt.input[got.Offset:got.Offset+got.Length])
			}
		})
	}
}

func TestScanner_Replace(t *testing.T) {
	sc := varres.NewScanner("a ${${x}} b $$ c ${i${y}:j${z}} $")
	var buf strings.Builder

	replacements := []string{"X", "$", "YZ"}
	for _, repl := range replacements {
		require.True(t, sc.Next())
		sc.Replace(&buf, repl)
	}
	assert.False(t, sc.Next())
	assert.False(t, sc.Next(), "finished scanner stays finished")

	sc.Tail(&buf)
	assert.Equal(t, "a X b $ c YZ $", buf.String())
}

func TestScanner_TailWithoutMatches(t *testing.T) {
	sc := varres.NewScanner("nothing $ here")
	var buf strings.Builder

	assert.False(t, sc.Next())
	sc.Tail(&buf)
	assert.Equal(t, "nothing $ here", buf.String())
}

func TestScanner_UnreplacedMatchesStayInTail(t *testing.T) {
	sc := varres.NewScanner("$a-$b")
	var buf strings.Builder

	require.True(t, sc.Next())
	assert.Equal(t, "a-", sc.Ref().Name)
	require.True(t, sc.Next())
	assert.Equal(t, "b", sc.Ref().Name)
	require.False(t, sc.Next())

	sc.Tail(&buf)
	assert.Equal(t, "$a-$b", buf.String())
}
