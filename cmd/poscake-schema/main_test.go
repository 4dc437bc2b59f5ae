package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenlanh282/poscake-skill/internal/config"
	"github.com/nguyenlanh282/poscake-skill/internal/schema"
)

func TestRunWritesToArgument(t *testing.T) {
	out := filepath.Join(t.TempDir(), "custom", "schema.prisma")

	path, err := run([]string{out}, config.Config{SchemaOut: "unused"})
	require.NoError(t, err)
	assert.Equal(t, out, path)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, schema.POS().String(), string(got))
}

func TestRunDefaultsToConfig(t *testing.T) {
	out := filepath.Join(t.TempDir(), "prisma", "schema.prisma")

	path, err := run(nil, config.Config{SchemaOut: out})
	require.NoError(t, err)
	assert.Equal(t, out, path)
	assert.FileExists(t, out)
}

func TestRunRejectsExtraArguments(t *testing.T) {
	_, err := run([]string{"a", "b"}, config.Config{})
	assert.Error(t, err)
}
