package resolve

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-varres/internal/command"
	"github.com/lwmacct/251207-go-pkg-varres/pkg/varres"
)

func TestPrinter(t *testing.T) {
	r := varres.MustNew(varres.MapSource{"user": "alice"})

	tests := []struct {
		name    string
		strict  bool
		input   string
		want    string
		wantErr error
	}{
		{name: "resolved", strict: true, input: "hi $user", want: "hi alice\n"},
		{name: "strict missing", strict: true, input: "hi $nobody", wantErr: varres.ErrMissingVariable},
		{name: "lenient missing", strict: false, input: "hi $nobody", want: "hi $nobody\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := &printer{resolve: r.Resolve, strict: tt.strict, out: &out}

			err := p.print(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestPrinter_Lines(t *testing.T) {
	r := varres.MustNew(varres.MapSource{"a": "1", "b": "2"})
	var out bytes.Buffer
	p := &printer{resolve: r.Resolve, strict: true, out: &out}

	require.NoError(t, p.printLines(strings.NewReader("$a\n${b}$$\n\nplain\n")))
	assert.Equal(t, "1\n2$\n\nplain\n", out.String())
}

func TestCommand_Run(t *testing.T) {
	var out bytes.Buffer
	app := &cli.Command{
		Name:                      "varres",
		Writer:                    &out,
		Reader:                    strings.NewReader(""),
		Flags:                     command.RootFlags(),
		Commands:                  []*cli.Command{Command},
		DisableSliceFlagSeparator: true,
	}

	err := app.Run(context.Background(), []string{
		"varres", "--config", filepath.Join(t.TempDir(), "none.yaml"),
		"resolve",
		"--source-set", "user:alice, greeting:'hello ${user}'",
		"--source-env=false",
		"--source-hostname=",
		"${greeting}!", "${missing:default}", "$$user",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello alice!\ndefault\n$user\n", out.String())
}
