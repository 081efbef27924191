// Package compiler implements a small reference compiler for markdown-like
// sources. Lines become paragraphs, "# " sets the title, "## " adds a
// fragment heading and [[path]] links another document. Links to library
// paths include the library's body instead of linking to it. Links to files
// that are not documents render as plain links and add no dependency.
package compiler

import (
	"context"
	"html"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/folio/internal/core/domain"
	"go.trai.ch/folio/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Compiler = (*Compiler)(nil)

var linkPattern = regexp.MustCompile(`\[\[([^\[\]\s]+)\]\]`)

// Compiler implements ports.Compiler.
type Compiler struct {
	registry ports.Registry
}

// New creates a Compiler that assigns keys through registry.
func New(registry ports.Registry) *Compiler {
	return &Compiler{registry: registry}
}

// unit is the compilation state of one document.
type unit struct {
	ws       domain.Workspace
	opts     *domain.Options
	rel      string
	refs     []domain.Reference
	outbound []string
	missing  []string
	title    string
	headings []string
	body     strings.Builder
}

// Compile reads and compiles the document at rel.
func (c *Compiler) Compile(ctx context.Context, ws domain.Workspace, opts *domain.Options, rel string) (*domain.Document, domain.Annotations, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Annotations{}, err
	}

	rel = path.Clean(filepath.ToSlash(rel))
	source, err := readSource(ws, rel)
	if err != nil {
		return nil, domain.Annotations{}, zerr.With(zerr.Wrap(err, domain.ErrCompileFailed.Error()), "path", rel)
	}

	u := &unit{ws: ws, opts: opts, rel: rel}
	u.compile(c, source, true)

	if len(u.missing) > 0 {
		err := zerr.Wrap(domain.ErrReferenceNotFound, domain.ErrCompileFailed.Error())
		err = zerr.With(err, "path", rel)
		return nil, domain.Annotations{}, zerr.With(err, "references", strings.Join(u.missing, ", "))
	}

	key := c.registry.Register(rel)[0]
	title := u.title
	if title == "" {
		title = key.String()
	}

	doc := domain.NewDocument(key, rel, title, u.body.String(), u.refs, opts)
	return doc, domain.Annotations{Outbound: u.outbound, Fragments: u.headings}, nil
}

// compile appends the HTML of source to the unit body. Library bodies are
// compiled with includes disabled so includes cannot recurse.
func (u *unit) compile(c *Compiler, source string, includes bool) {
	for line := range strings.Lines(source) {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "# "):
			if u.title == "" && includes {
				u.title = strings.TrimSpace(line[2:])
			}
		case strings.HasPrefix(line, "## "):
			heading := strings.TrimSpace(line[3:])
			u.headings = append(u.headings, heading)
			u.body.WriteString(`<h2 id="` + slug(heading) + `">` + html.EscapeString(heading) + "</h2>\n")
		default:
			u.compileLine(c, line, includes)
		}
	}
}

func (u *unit) compileLine(c *Compiler, line string, includes bool) {
	var out strings.Builder
	last := 0
	for _, m := range linkPattern.FindAllStringSubmatchIndex(line, -1) {
		out.WriteString(html.EscapeString(line[last:m[0]]))
		last = m[1]

		target, ok := u.resolve(line[m[2]:m[3]])
		if !ok {
			u.missing = append(u.missing, line[m[2]:m[3]])
			continue
		}

		if u.opts.IsLibrary(target) {
			if !includes {
				continue
			}
			lib, err := readSource(u.ws, target)
			if err != nil {
				u.missing = append(u.missing, target)
				continue
			}
			if out.Len() > 0 {
				u.body.WriteString("<p>" + out.String() + "</p>\n")
				out.Reset()
			}
			u.compile(c, lib, false)
			continue
		}

		if !u.ws.IsDocument(target) {
			out.WriteString(`<a href="` + html.EscapeString("/"+target) + `">` + html.EscapeString(target) + "</a>")
			continue
		}

		if target != u.rel {
			key := c.registry.Register(target)[0]
			if !slices.Contains(u.outbound, target) {
				u.refs = append(u.refs, domain.Reference{Key: key, Path: target})
				u.outbound = append(u.outbound, target)
			}
		}
		href := "/" + strings.TrimSuffix(target, path.Ext(target)) + domain.OutputExt
		label := strings.TrimSuffix(target, path.Ext(target))
		out.WriteString(`<a href="` + html.EscapeString(href) + `">` + html.EscapeString(label) + "</a>")
	}
	out.WriteString(html.EscapeString(line[last:]))

	if out.Len() > 0 {
		u.body.WriteString("<p>" + out.String() + "</p>\n")
	}
}

// resolve turns a link target into a source path relative to the source
// root. Targets without an extension get the document extension.
func (u *unit) resolve(target string) (string, bool) {
	target = path.Clean(strings.TrimPrefix(target, "/"))
	if target == "." || target == ".." || strings.HasPrefix(target, "../") {
		return "", false
	}
	if path.Ext(target) == "" {
		target += u.ws.DocumentExt
	}
	info, err := os.Stat(filepath.Join(u.ws.SourceRoot, filepath.FromSlash(target)))
	if err != nil || info.IsDir() {
		return "", false
	}
	return target, true
}

func readSource(ws domain.Workspace, rel string) (string, error) {
	//nolint:gosec // rel is resolved under the source root
	data, err := os.ReadFile(filepath.Join(ws.SourceRoot, filepath.FromSlash(rel)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
