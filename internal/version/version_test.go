package version

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestGetVersion(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3"
	assert.Equal(t, "v1.2.3", GetVersion())

	Version = ""
	assert.NotEmpty(t, GetVersion())
}

func TestCommand(t *testing.T) {
	var out bytes.Buffer
	app := &cli.Command{
		Name:     AppRawName,
		Writer:   &out,
		Commands: []*cli.Command{Command},
	}

	require.NoError(t, app.Run(context.Background(), []string{AppRawName, "version"}))
	assert.Contains(t, out.String(), AppRawName+" ")
	assert.Contains(t, out.String(), "commit unknown")
}
