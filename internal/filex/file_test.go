package filex

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookCache_StoreHasOpen(t *testing.T) {
	c, err := NewBookCache(t.TempDir())
	require.NoError(t, err)

	assert.False(t, c.Has("b1"))

	require.NoError(t, c.Store("b1", strings.NewReader("epub-bytes")))
	assert.True(t, c.Has("b1"))

	f, err := c.Open("b1")
	require.NoError(t, err)
	defer f.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, f)
	require.NoError(t, err)
	assert.Equal(t, "epub-bytes", buf.String())
}

func TestBookCache_StoreReplaces(t *testing.T) {
	c, err := NewBookCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Store("b1", strings.NewReader("v1")))
	require.NoError(t, c.Store("b1", strings.NewReader("v2")))

	f, err := c.Open("b1")
	require.NoError(t, err)
	defer f.Close()

	b, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(b))
}

func TestBookCache_OpenMissing(t *testing.T) {
	c, err := NewBookCache(t.TempDir())
	require.NoError(t, err)

	_, err = c.Open("nope")
	require.Error(t, err)
}
