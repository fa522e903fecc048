package cliapp

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-driven-dev/kdd-index/internal/kindrules"
	"github.com/knowledge-driven-dev/kdd-index/internal/query"
)

func TestToKinds(t *testing.T) {
	assert.Nil(t, toKinds(nil))
	got := toKinds([]string{"entity", "use-case"})
	assert.Equal(t, []kindrules.Kind{kindrules.KindEntity, kindrules.KindUseCase}, got)
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	require.NoError(t, w.Close())
	os.Stdout = old

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestReportQueryErr_RendersQueryErrorAsJSON(t *testing.T) {
	out := captureStdout(t, func() {
		err := reportQueryErr(query.NewError(query.ErrNodeNotFound, "no such node: ENT:Missing"))
		require.NoError(t, err)
	})
	assert.Contains(t, out, `"error_code": "NODE_NOT_FOUND"`)
	assert.Contains(t, out, "no such node: ENT:Missing")
}

func TestAssembleEngine_EmptyIndexDirYieldsEmptyEngine(t *testing.T) {
	indexDir := t.TempDir()
	engine, err := assembleEngine(indexDir)
	require.NoError(t, err)
	require.NotNil(t, engine)

	_, err = engine.GraphQuery(query.GraphQueryInput{RootNode: "ENT:Missing"})
	require.Error(t, err)
	qerr, ok := err.(*query.Error)
	require.True(t, ok)
	assert.Equal(t, query.ErrNodeNotFound, qerr.Code)
}
