package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/folio/internal/adapters/fs"
	"go.trai.ch/folio/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func TestWalker_WalkFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "file1.md"), "content1")
	writeFile(t, filepath.Join(tmpDir, "dir1", "file2.md"), "content2")
	writeFile(t, filepath.Join(tmpDir, "dir2", "file3.png"), "content3")

	walker := fs.NewWalker()
	files := make([]string, 0)
	for filePath := range walker.WalkFiles(tmpDir, nil) {
		files = append(files, filePath)
	}

	assert.Len(t, files, 3)
	assert.Contains(t, files, filepath.Join(tmpDir, "file1.md"))
	assert.Contains(t, files, filepath.Join(tmpDir, "dir1", "file2.md"))
	assert.Contains(t, files, filepath.Join(tmpDir, "dir2", "file3.png"))
}

func TestWalker_WalkFiles_SkipsVCSAndIgnores(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".git", "config"), "gitconfig")
	writeFile(t, filepath.Join(tmpDir, ".jj", "store"), "jjstore")
	writeFile(t, filepath.Join(tmpDir, "build", "out.html"), "out")
	writeFile(t, filepath.Join(tmpDir, "src", "main.md"), "# main")

	walker := fs.NewWalker()
	files := make([]string, 0)
	for filePath := range walker.WalkFiles(tmpDir, []string{"build"}) {
		files = append(files, filePath)
	}

	assert.Equal(t, []string{filepath.Join(tmpDir, "src", "main.md")}, files)
}

func TestWalker_WalkFiles_MissingRoot(t *testing.T) {
	walker := fs.NewWalker()

	count := 0
	for range walker.WalkFiles(filepath.Join(t.TempDir(), "missing"), nil) {
		count++
	}

	assert.Zero(t, count)
}

func TestWalker_WalkRelative(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "posts", "a.md"), "a")
	writeFile(t, filepath.Join(tmpDir, "index.md"), "index")

	walker := fs.NewWalker()
	files := make([]string, 0)
	for rel := range walker.WalkRelative(tmpDir, nil) {
		files = append(files, rel)
	}

	assert.ElementsMatch(t, []string{"posts/a.md", "index.md"}, files)
}

func TestWalker_WalkFiles_EarlyStop(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		writeFile(t, filepath.Join(tmpDir, name), name)
	}

	walker := fs.NewWalker()
	count := 0
	for range walker.WalkFiles(tmpDir, nil) {
		count++
		break
	}

	assert.Equal(t, 1, count)
}
