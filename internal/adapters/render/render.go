// Package render writes compiled documents and error pages as HTML and
// publishes them to the output root.
package render

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	folioFS "go.trai.ch/folio/internal/adapters/fs"
	"go.trai.ch/folio/internal/core/domain"
	"go.trai.ch/folio/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Renderer = (*Renderer)(nil)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}{{with .Site}} | {{.}}{{end}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{.Content}}</body>
</html>
`))

var errorTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Build error</title>
</head>
<body>
<h1>Build error</h1>
<pre>{{.}}</pre>
</body>
</html>
`))

type page struct {
	Title   string
	Site    string
	Content template.HTML
}

// Renderer implements ports.Renderer.
type Renderer struct {
	walker *folioFS.Walker
}

// New creates a Renderer.
func New(walker *folioFS.Walker) *Renderer {
	return &Renderer{walker: walker}
}

// RenderDocument writes the page of doc below the cache HTML directory.
func (r *Renderer) RenderDocument(ctx context.Context, ws domain.Workspace, doc *domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var site string
	if doc.Options != nil {
		site = doc.Options.Title
	}

	var buf bytes.Buffer
	//nolint:gosec // Content is HTML produced by the compiler with escaped text
	err := pageTemplate.Execute(&buf, page{Title: doc.Title, Site: site, Content: template.HTML(doc.Content)})
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRenderFailed.Error()), "path", doc.Path)
	}

	return writeFile(domain.OutputPath(ws.CacheRoot, doc.Path), buf.Bytes())
}

// RenderError writes an error page at outputPath.
func (r *Renderer) RenderError(ctx context.Context, outputPath, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := errorTemplate.Execute(&buf, message); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRenderFailed.Error()), "path", outputPath)
	}
	return writeFile(outputPath, buf.Bytes())
}

// Remove deletes the rendered and the published page of rel. Missing pages are fine.
func (r *Renderer) Remove(_ context.Context, ws domain.Workspace, rel string) error {
	rendered := domain.OutputPath(ws.CacheRoot, rel)
	published, err := publishedPath(ws, rendered)
	if err != nil {
		return err
	}

	for _, p := range []string{rendered, published} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(err, domain.ErrRenderFailed.Error()), "path", p)
		}
	}
	return nil
}

// Publish copies every rendered page and every asset into the output root.
func (r *Renderer) Publish(ctx context.Context, ws domain.Workspace, opts *domain.Options) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	htmlRoot := domain.HTMLPath(ws.CacheRoot)
	for src := range r.walker.WalkFiles(htmlRoot, nil) {
		if strings.HasSuffix(src, ".tmp") {
			continue
		}
		dst, err := publishedPath(ws, src)
		if err != nil {
			_ = g.Wait()
			return err
		}
		g.Go(func() error { return copyFile(gctx, src, dst) })
	}

	if opts != nil && opts.AssetsRoot != "" {
		assetsDir := filepath.Join(ws.OutputRoot, filepath.Base(opts.AssetsRoot))
		for rel := range r.walker.WalkRelative(opts.AssetsRoot, nil) {
			if strings.EqualFold(filepath.Ext(rel), domain.OutputExt) {
				continue
			}
			src := filepath.Join(opts.AssetsRoot, filepath.FromSlash(rel))
			dst := filepath.Join(assetsDir, filepath.FromSlash(rel))
			g.Go(func() error { return copyFile(gctx, src, dst) })
		}
	}

	return g.Wait()
}

func publishedPath(ws domain.Workspace, rendered string) (string, error) {
	rel, err := filepath.Rel(domain.HTMLPath(ws.CacheRoot), rendered)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", zerr.With(domain.ErrPathOutsideRoot, "path", rendered)
	}
	return filepath.Join(ws.OutputRoot, rel), nil
}

func writeFile(p string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(p), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRenderFailed.Error()), "path", p)
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRenderFailed.Error()), "path", p)
	}
	if err := os.Rename(tmp, p); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRenderFailed.Error()), "path", p)
	}
	return nil
}

func copyFile(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	in, err := os.Open(src) //nolint:gosec // src comes from a walk of a workspace directory
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", src)
	}
	defer in.Close() //nolint:errcheck // read-only file

	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRenderFailed.Error()), "path", dst)
	}

	out, err := os.Create(dst) //nolint:gosec // dst is below the output root
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRenderFailed.Error()), "path", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrRenderFailed.Error()), "path", dst)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRenderFailed.Error()), "path", dst)
	}
	return nil
}
