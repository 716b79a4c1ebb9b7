package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmptyHasNoBindings(t *testing.T) {
	cfg := Empty()
	require.Empty(t, cfg.NativeConstraints)
	require.Empty(t, cfg.NativeRewrites)
}

func TestLoadParsesAdditiveBindings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analysis.yaml")
	yaml := `
nativeConstraints:
  is_memref:
    - builtin.memref
nativeRewrites:
  get_one:
    kind: parametric_any
    argIndex: 0
    baseType: builtin.integer_attr
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"builtin.memref"}, cfg.NativeConstraints["is_memref"])

	tmpl, ok := cfg.NativeRewrites["get_one"]
	require.True(t, ok)
	require.Equal(t, RewriteParametricAny, tmpl.Kind)
	require.Equal(t, "builtin.integer_attr", tmpl.BaseType)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
