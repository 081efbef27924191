package domain

import (
	"maps"
	"slices"
	"strings"
)

// Reference is a resolved dependency edge from one document to another.
type Reference struct {
	Key  Key
	Path string
}

// Document is the compiled, in-memory form of one source file.
// Its dependency set is fixed at construction and only changes through a
// full recompilation, which produces a new Document.
type Document struct {
	Key     Key
	Path    string
	Title   string
	Content string

	// Options is the run's immutable project options, shared by every document.
	Options *Options

	refs []Reference
	deps map[Key]struct{}
}

// NewDocument creates a Document. refs is copied.
func NewDocument(key Key, path, title, content string, refs []Reference, opts *Options) *Document {
	deps := make(map[Key]struct{}, len(refs))
	copied := make([]Reference, 0, len(refs))
	for _, ref := range refs {
		if _, seen := deps[ref.Key]; seen {
			continue
		}
		deps[ref.Key] = struct{}{}
		copied = append(copied, ref)
	}
	return &Document{
		Key:     key,
		Path:    path,
		Title:   title,
		Content: content,
		Options: opts,
		refs:    copied,
		deps:    deps,
	}
}

// DependsOn reports whether the document references key.
func (d *Document) DependsOn(key Key) bool {
	_, ok := d.deps[key]
	return ok
}

// DependsOnAny reports whether the document references any key in keys.
func (d *Document) DependsOnAny(keys map[Key]struct{}) bool {
	for key := range d.deps {
		if _, ok := keys[key]; ok {
			return true
		}
	}
	return false
}

// Dependencies returns the referenced keys in sorted order.
func (d *Document) Dependencies() []Key {
	keys := slices.Collect(maps.Keys(d.deps))
	slices.SortFunc(keys, Key.Compare)
	return keys
}

// References returns a copy of the document's resolved references.
func (d *Document) References() []Reference {
	return slices.Clone(d.refs)
}

// Annotations are the categorized string lists a compiler pass attaches to a
// document before it is persisted. The cache round-trips them unchanged.
type Annotations struct {
	Outbound  []string
	Inbound   []string
	Fragments []string
}

// Record is the serializable form of a Document used across runs.
// Restoring a Document from a Record requires the registry to resolve
// References back into keys.
type Record struct {
	Path       string   `json:"path"`
	Title      string   `json:"title,omitzero"`
	Content    string   `json:"content,omitzero"`
	References []string `json:"references,omitzero"`
	Outbound   []string `json:"outbound,omitzero"`
	Inbound    []string `json:"inbound,omitzero"`
	Fragments  []string `json:"fragments,omitzero"`
}

// NewRecord reduces doc and its annotations to a Record.
func NewRecord(doc *Document, ann Annotations) Record {
	refs := make([]string, len(doc.refs))
	for i, ref := range doc.refs {
		refs[i] = ref.Path
	}
	return Record{
		Path:       doc.Path,
		Title:      doc.Title,
		Content:    doc.Content,
		References: refs,
		Outbound:   slices.Clone(ann.Outbound),
		Inbound:    slices.Clone(ann.Inbound),
		Fragments:  slices.Clone(ann.Fragments),
	}
}

// Annotations returns the annotation lists stored in the record.
func (r Record) Annotations() Annotations {
	return Annotations{
		Outbound:  slices.Clone(r.Outbound),
		Inbound:   slices.Clone(r.Inbound),
		Fragments: slices.Clone(r.Fragments),
	}
}

// DocumentError describes why a document cannot be rendered.
type DocumentError struct {
	Key    Key
	Causes []error
}

// NewDocumentError creates a DocumentError for key.
func NewDocumentError(key Key, causes ...error) *DocumentError {
	return &DocumentError{Key: key, Causes: causes}
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	msgs := make([]string, 0, len(e.Causes))
	for _, cause := range e.Causes {
		msgs = append(msgs, cause.Error())
	}
	if len(msgs) == 0 {
		return "document " + e.Key.String() + " failed"
	}
	return "document " + e.Key.String() + ": " + strings.Join(msgs, "; ")
}

// Unwrap exposes the causes to errors.Is and errors.As.
func (e *DocumentError) Unwrap() []error {
	return e.Causes
}

// ErrorRecord associates a failed document with the output it would have produced.
type ErrorRecord struct {
	Key        Key
	OutputPath string
	Err        *DocumentError
}

// ErrorReport maps intended output paths to rendered error messages.
type ErrorReport map[string]string
