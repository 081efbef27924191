package compiler_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/folio/internal/adapters/compiler"
	"go.trai.ch/folio/internal/adapters/registry"
	"go.trai.ch/folio/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func setup(t *testing.T) (domain.Workspace, *registry.Registry, *compiler.Compiler) {
	t.Helper()
	ws := domain.NewWorkspace(t.TempDir(), "", "", "", "", "")
	reg := registry.New()
	return ws, reg, compiler.New(reg)
}

func TestCompile_TitleHeadingsAndLinks(t *testing.T) {
	ws, reg, c := setup(t)
	writeFile(t, filepath.Join(ws.SourceRoot, "posts", "a.md"), "# A\n")
	writeFile(t, filepath.Join(ws.SourceRoot, "guide.md"), `# The Guide

## Getting Started
Read [[posts/a.md]] and [[posts/a]] <now>.
`)

	doc, ann, err := c.Compile(t.Context(), ws, &domain.Options{}, "guide.md")
	require.NoError(t, err)

	assert.Equal(t, "guide", doc.Key.String())
	assert.Equal(t, "guide.md", doc.Path)
	assert.Equal(t, "The Guide", doc.Title)
	assert.Equal(t, `<h2 id="getting-started">Getting Started</h2>
<p>Read <a href="/posts/a.html">posts/a</a> and <a href="/posts/a.html">posts/a</a> &lt;now&gt;.</p>
`, doc.Content)

	assert.Equal(t, []domain.Key{domain.NewKey("posts/a")}, doc.Dependencies())
	assert.Equal(t, []string{"posts/a.md"}, ann.Outbound)
	assert.Equal(t, []string{"Getting Started"}, ann.Fragments)

	p, ok := reg.Path(domain.NewKey("posts/a"))
	require.True(t, ok)
	assert.Equal(t, "posts/a.md", p)
}

func TestCompile_MissingReference(t *testing.T) {
	ws, _, c := setup(t)
	writeFile(t, filepath.Join(ws.SourceRoot, "a.md"), "see [[gone.md]] and [[../escape.md]]")

	_, _, err := c.Compile(t.Context(), ws, &domain.Options{}, "a.md")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrReferenceNotFound)
	assert.Contains(t, err.Error(), domain.ErrCompileFailed.Error())
}

func TestCompile_LibraryIsIncluded(t *testing.T) {
	ws, reg, c := setup(t)
	writeFile(t, filepath.Join(ws.SourceRoot, "lib", "note.md"), "# ignored title\nshared text [[lib/note.md]]\n")
	writeFile(t, filepath.Join(ws.SourceRoot, "page.md"), "# Page\n[[lib/note.md]]\n")
	opts := &domain.Options{LibraryPaths: map[string]struct{}{"lib/note.md": {}}}

	doc, ann, err := c.Compile(t.Context(), ws, opts, "page.md")
	require.NoError(t, err)

	assert.Equal(t, "Page", doc.Title)
	assert.Equal(t, "<p>shared text </p>\n", doc.Content)
	assert.Empty(t, doc.Dependencies())
	assert.Empty(t, ann.Outbound)
	_, ok := reg.Key("lib/note.md")
	assert.False(t, ok, "library paths are not registered")
}

func TestCompile_SelfLinkIsNotADependency(t *testing.T) {
	ws, _, c := setup(t)
	writeFile(t, filepath.Join(ws.SourceRoot, "self.md"), "[[self.md]]")

	doc, _, err := c.Compile(t.Context(), ws, nil, "self.md")
	require.NoError(t, err)

	assert.Equal(t, "self", doc.Title)
	assert.Empty(t, doc.Dependencies())
}

func TestCompile_MissingSource(t *testing.T) {
	ws, _, c := setup(t)

	_, _, err := c.Compile(t.Context(), ws, nil, "nope.md")

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCompile_Cancelled(t *testing.T) {
	ws, _, c := setup(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, _, err := c.Compile(ctx, ws, nil, "a.md")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompile_NonDocumentLinkIsPlain(t *testing.T) {
	ws, reg, c := setup(t)
	writeFile(t, filepath.Join(ws.SourceRoot, "notes.txt"), "plain")
	writeFile(t, filepath.Join(ws.SourceRoot, "b.md"), "# B")
	writeFile(t, filepath.Join(ws.SourceRoot, "a.md"), "[[b.md]] [[notes.txt]]")

	doc, ann, err := c.Compile(t.Context(), ws, &domain.Options{}, "a.md")
	require.NoError(t, err)

	assert.Equal(t, `<p><a href="/b.html">b</a> <a href="/notes.txt">notes.txt</a></p>
`, doc.Content)
	assert.Equal(t, []domain.Key{domain.NewKey("b")}, doc.Dependencies())
	assert.Equal(t, []string{"b.md"}, ann.Outbound)

	_, ok := reg.Key("notes.txt")
	assert.False(t, ok, "non-document links are not registered")
}

func TestCompile_SameStemDifferentExtension(t *testing.T) {
	ws, reg, c := setup(t)
	writeFile(t, filepath.Join(ws.SourceRoot, "b.md"), "# B")
	writeFile(t, filepath.Join(ws.SourceRoot, "b.txt"), "text")
	writeFile(t, filepath.Join(ws.SourceRoot, "a.md"), "[[b.md]] [[b.txt]]")

	doc, _, err := c.Compile(t.Context(), ws, &domain.Options{}, "a.md")
	require.NoError(t, err)

	assert.Equal(t, []domain.Key{domain.NewKey("b")}, doc.Dependencies())
	p, ok := reg.Path(domain.NewKey("b"))
	require.True(t, ok)
	assert.Equal(t, "b.md", p)
}
