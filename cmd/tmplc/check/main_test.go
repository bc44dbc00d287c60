package check

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	return cmd, buf
}

func TestCheckAllValid(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "templates/a.html", "{% if x %}a{% endif %}")
	writeFile(t, fs, "templates/sub/b.html", "plain text")

	me := &Handler{patterns: []string{"templates/**/*.html"}, format: "text", fs: fs}
	cmd, buf := newTestCmd()

	require.NoError(t, me.Run(context.Background(), cmd))
	assert.Empty(t, buf.String())
}

func TestCheckAggregatesFailures(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "a.html", "{% break %}")
	writeFile(t, fs, "b.html", "{% if %}x{% endif %}")
	writeFile(t, fs, "c.html", "fine")

	me := &Handler{patterns: []string{"*.html"}, format: "vscode", fs: fs}
	cmd, buf := newTestCmd()

	err := me.Run(context.Background(), cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.html")
	assert.Contains(t, err.Error(), "b.html")
	assert.NotContains(t, err.Error(), "c.html")

	assert.Contains(t, buf.String(), "a.html:1:3-1:3: error:")
}

func TestCheckNoMatches(t *testing.T) {
	me := &Handler{patterns: []string{"*.nope"}, format: "text", fs: afero.NewMemMapFs()}
	cmd, _ := newTestCmd()

	err := me.Run(context.Background(), cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no template files match")
}

func TestResolveDeduplicates(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "a.html", "x")
	writeFile(t, fs, "b.html", "y")

	me := &Handler{patterns: []string{"*.html", "a.html"}, fs: fs}
	files, err := me.resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.html", "b.html"}, files)
}
