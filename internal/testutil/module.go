// Package testutil builds throwaway Go modules for package-level tests.
package testutil

import (
	"context"
	"go/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/griffnb/core-apidoc/internal/loader"
	"github.com/stretchr/testify/require"
)

// ModulePath is the module path of every generated module.
const ModulePath = "example.com/app"

// WriteModule lays out files under a temp dir with a go.mod and returns the dir.
func WriteModule(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module "+ModulePath+"\n\ngo 1.22\n"), 0o644))
	for name, src := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}
	return dir
}

// LoadModule writes files and loads them with the loader service.
func LoadModule(t *testing.T, files map[string]string) *loader.LoadResult {
	t.Helper()

	dir := WriteModule(t, files)
	result, err := loader.NewService().Load(context.Background(), dir)
	require.NoError(t, err)
	return result
}

// Named looks up a declared type of a loaded package. pkg is relative to
// ModulePath; "" is the module root.
func Named(t *testing.T, result *loader.LoadResult, pkg, name string) *types.Named {
	t.Helper()

	path := ModulePath
	if pkg != "" {
		path += "/" + pkg
	}
	for _, p := range result.Packages {
		if p.PkgPath != path || p.Types == nil {
			continue
		}
		obj, ok := p.Types.Scope().Lookup(name).(*types.TypeName)
		require.True(t, ok, "type %s not found in %s", name, path)
		named, ok := obj.Type().(*types.Named)
		require.True(t, ok, "%s is not a named type", name)
		return named
	}
	require.FailNow(t, "package not loaded", path)
	return nil
}

// FieldType returns the declared type of a struct field.
func FieldType(t *testing.T, named *types.Named, fieldName string) types.Type {
	t.Helper()

	st, ok := named.Underlying().(*types.Struct)
	require.True(t, ok, "%s is not a struct", named.Obj().Name())
	for i := 0; i < st.NumFields(); i++ {
		if st.Field(i).Name() == fieldName {
			return st.Field(i).Type()
		}
	}
	require.FailNow(t, "field not found", fieldName)
	return nil
}
