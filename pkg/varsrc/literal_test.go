package varsrc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251207-go-pkg-varres/pkg/varres"
	"github.com/lwmacct/251207-go-pkg-varres/pkg/varsrc"
)

func TestLiteral(t *testing.T) {
	r := varres.MustNew(varsrc.Literal("a:a$b, b:b${c}b, c:'x,y', d"))

	got, err := r.Resolve("$a")
	require.NoError(t, err)
	assert.Equal(t, "abx,yb", got)

	_, found, err := r.Lookup("d")
	require.NoError(t, err)
	assert.False(t, found, "entries without value are not variables")
}

func TestLiterals_FirstWins(t *testing.T) {
	src := varsrc.Literals("a:1,b:2", "a:10,c:30")

	assert.Equal(t, varres.MapSource{"a": "1", "b": "2", "c": "30"}, src)
}
