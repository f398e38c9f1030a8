package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()
	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}
	return tempDir
}

func TestProjectScanner(t *testing.T) {
	t.Parallel()
	tempDir := writeTree(t, map[string]string{
		"lib/a.dart":                      "void main() {}",
		"lib/a.dart.unit.yaml":            "file: a.dart",
		"lib/src/b.dart.unit.yaml":        "file: b.dart",
		"pubspec.yaml":                    "name: app",
		".dart_tool/c.dart.unit.yaml":     "file: c.dart",
		"build/gen/d.dart.unit.yaml":      "file: d.dart",
		"test/widget/e.dart.unit.yaml":    "file: e.dart",
		"test/widget/e.generated.unit.ya": "x",
	})

	files, err := New(tempDir, ".unit.yaml").Scan()
	require.NoError(t, err)

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
		assert.Greater(t, f.Size, int64(0), "File size should be greater than 0")
	}
	assert.Equal(t, []string{
		filepath.Join(tempDir, "lib/a.dart.unit.yaml"),
		filepath.Join(tempDir, "lib/src/b.dart.unit.yaml"),
		filepath.Join(tempDir, "test/widget/e.dart.unit.yaml"),
	}, paths)
}

func TestScannerSkipDir(t *testing.T) {
	t.Parallel()
	tempDir := writeTree(t, map[string]string{
		"lib/a.dart.unit.yaml":  "file: a.dart",
		"test/b.dart.unit.yaml": "file: b.dart",
	})

	files, err := New(tempDir, ".unit.yaml").SkipDir("test").Scan()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(tempDir, "lib/a.dart.unit.yaml"), files[0].Path)
}

func TestScannerAllFiles(t *testing.T) {
	t.Parallel()
	tempDir := writeTree(t, map[string]string{
		"a.dart":   "a",
		"b.txt":    "b",
		".git/HEA": "c",
	})

	files, err := New(tempDir).Scan()
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestScannerDirs(t *testing.T) {
	t.Parallel()
	tempDir := writeTree(t, map[string]string{
		"lib/src/a.dart":      "a",
		".dart_tool/x/b.dart": "b",
	})

	dirs, err := New(tempDir).Dirs()
	require.NoError(t, err)
	assert.Equal(t, []string{
		tempDir,
		filepath.Join(tempDir, "lib"),
		filepath.Join(tempDir, "lib/src"),
	}, dirs)
}

func TestScannerMissingRoot(t *testing.T) {
	t.Parallel()
	_, err := New(filepath.Join(t.TempDir(), "missing")).Scan()
	assert.Error(t, err)
}
