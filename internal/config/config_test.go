package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scriptbind.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDecodeFile(t *testing.T) {
	path := writeConfig(t, `
log_level  = "debug"
log_format = "json"

package "basic_string" {
  floats = false
  maps   = true
}
`)

	model, err := DecodeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "debug", model.LogLevel)
	assert.Equal(t, "json", model.LogFormat)
	require.Len(t, model.Packages, 1)

	blk := model.Packages[0]
	assert.Equal(t, "basic_string", blk.Name)
	require.NotNil(t, blk.Floats)
	assert.False(t, *blk.Floats)
	require.NotNil(t, blk.Maps)
	assert.True(t, *blk.Maps)
	assert.Nil(t, blk.SizedIntegers)
	assert.Nil(t, blk.Lists)
}

func TestDecodeFileDefaults(t *testing.T) {
	path := writeConfig(t, ``)

	model, err := DecodeFile(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, model.LogLevel)
	assert.Empty(t, model.Packages)
}

func TestDecodeFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := DecodeFile(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
		assert.ErrorContains(t, err, "failed to parse")
	})

	t.Run("unknown attribute", func(t *testing.T) {
		path := writeConfig(t, `bogus = true`)
		_, err := DecodeFile(context.Background(), path)
		assert.ErrorContains(t, err, "failed to decode")
	})
}
