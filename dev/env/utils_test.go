package devenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePathPassthrough(t *testing.T) {
	path, err := ResolvePath("some/relative/file.db")
	require.NoError(t, err)
	require.Equal(t, "some/relative/file.db", path)
}

func TestWorkspaceRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module netbank\n\ngo 1.22.2\n"), 0600))
	nested := filepath.Join(root, "lib", "commbank")
	require.NoError(t, os.MkdirAll(nested, 0700))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	defer os.Chdir(cwd)

	found, err := GetWorkspaceRoot()
	require.NoError(t, err)
	expected, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	actual, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	require.Equal(t, expected, actual)

	resolved, err := ResolvePath(filepath.Join("<dev_state>", "netbank_config.json5"))
	require.NoError(t, err)
	resolved, err = filepath.EvalSymlinks(filepath.Dir(resolved))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(expected, "dev", ".state"), resolved)
}

func TestIsWorkspaceRootOtherModule(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/other\n"), 0600))
	require.False(t, isWorkspaceRoot(root))
}
