package models

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewHandle_SpoolAndOpen(t *testing.T) {
	t.Parallel()

	handle, err := NewPreviewHandle(t.TempDir(), strings.NewReader("fake image bytes"))
	require.NoError(t, err)
	assert.NotEmpty(t, handle.Path())
	assert.False(t, handle.Released())

	f, err := handle.Open()
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))
}

func TestPreviewHandle_ReleaseExactlyOnce(t *testing.T) {
	t.Parallel()

	handle, err := NewPreviewHandle(t.TempDir(), strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, handle.Release())
	assert.True(t, handle.Released())

	_, statErr := os.Stat(handle.Path())
	assert.True(t, os.IsNotExist(statErr))

	// Second release must be an error, not a silent no-op.
	assert.ErrorIs(t, handle.Release(), ErrHandleReleased)
}

func TestPreviewHandle_OpenAfterRelease(t *testing.T) {
	t.Parallel()

	handle, err := NewPreviewHandle(t.TempDir(), strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, handle.Release())

	_, err = handle.Open()
	assert.ErrorIs(t, err, ErrHandleReleased)
}

func TestPreviewHandle_MissingFileStillReleases(t *testing.T) {
	t.Parallel()

	handle, err := NewPreviewHandle(t.TempDir(), strings.NewReader("x"))
	require.NoError(t, err)

	// Someone swept the temp dir underneath us; release still succeeds.
	require.NoError(t, os.Remove(handle.Path()))
	assert.NoError(t, handle.Release())
	assert.True(t, handle.Released())
}
