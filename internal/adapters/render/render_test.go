package render_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/folio/internal/adapters/fs"
	"go.trai.ch/folio/internal/adapters/render"
	"go.trai.ch/folio/internal/core/domain"
)

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestRenderDocument(t *testing.T) {
	ws := domain.NewWorkspace(t.TempDir(), "", "", "", "", "")
	opts := &domain.Options{Title: "Notes"}
	doc := domain.NewDocument(domain.NewKey("posts/a"), "posts/a.md", "A <b>", "<p>body</p>\n", nil, opts)

	r := render.New(fs.NewWalker())
	require.NoError(t, r.RenderDocument(t.Context(), ws, doc))

	g := goldie.New(t)
	g.Assert(t, "document", readFile(t, domain.OutputPath(ws.CacheRoot, "posts/a.md")))
}

func TestRenderError(t *testing.T) {
	ws := domain.NewWorkspace(t.TempDir(), "", "", "", "", "")
	out := domain.OutputPath(ws.CacheRoot, "b.md")

	r := render.New(fs.NewWalker())
	require.NoError(t, r.RenderError(t.Context(), out, "document b: referenced document not found"))

	g := goldie.New(t)
	g.Assert(t, "error", readFile(t, out))
}

func TestPublishAndRemove(t *testing.T) {
	ws := domain.NewWorkspace(t.TempDir(), "", "", "", "", "")
	opts := &domain.Options{AssetsRoot: filepath.Join(ws.ConfigRoot, "assets")}
	require.NoError(t, os.MkdirAll(opts.AssetsRoot, domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(opts.AssetsRoot, "site.css"), []byte("body{}"), domain.FilePerm))
	require.NoError(t, os.WriteFile(filepath.Join(opts.AssetsRoot, "template.html"), []byte("<x/>"), domain.FilePerm))

	r := render.New(fs.NewWalker())
	doc := domain.NewDocument(domain.NewKey("index"), "index.md", "Home", "", nil, opts)
	require.NoError(t, r.RenderDocument(t.Context(), ws, doc))

	require.NoError(t, r.Publish(t.Context(), ws, opts))

	published := filepath.Join(ws.OutputRoot, "index.html")
	assert.FileExists(t, published)
	assert.FileExists(t, filepath.Join(ws.OutputRoot, "assets", "site.css"))
	assert.NoFileExists(t, filepath.Join(ws.OutputRoot, "assets", "template.html"))

	require.NoError(t, r.Remove(t.Context(), ws, "index.md"))
	assert.NoFileExists(t, published)
	assert.NoFileExists(t, domain.OutputPath(ws.CacheRoot, "index.md"))

	require.NoError(t, r.Remove(t.Context(), ws, "index.md"), "removing twice is fine")
}
