package articles_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/folio/internal/adapters/compiler"
	"go.trai.ch/folio/internal/adapters/registry"
	"go.trai.ch/folio/internal/core/domain"
	"go.trai.ch/folio/internal/core/ports/mocks"
	"go.trai.ch/folio/internal/engine/articles"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	root     string
	opts     *domain.Options
	registry *registry.Registry
	logger   *mocks.MockLogger
	cache    *articles.Cache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		root:     t.TempDir(),
		opts:     &domain.Options{Title: "site"},
		registry: registry.New(),
		logger:   mocks.NewMockLogger(ctrl),
	}
	f.cache = articles.New(f.root, f.opts, f.registry, f.logger)
	return f
}

// writeRecord persists a record for rel that references refs.
func (f *fixture) writeRecord(t *testing.T, rel string, refs ...string) {
	t.Helper()
	rec := domain.Record{Path: rel, Title: rel, Content: "<p>" + rel + "</p>", References: refs}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	path := domain.RecordPath(f.root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, data, domain.FilePerm))
}

func (f *fixture) output(rel string) string {
	return domain.OutputPath(f.root, rel)
}

func key(s string) domain.Key {
	return domain.NewKey(s)
}

func TestLoad_RestoresDocuments(t *testing.T) {
	f := newFixture(t)
	f.writeRecord(t, "index.md")
	f.writeRecord(t, "posts/a.md", "index.md")

	report := f.cache.Load(t.Context(), nil)

	assert.Empty(t, report)
	assert.Equal(t, 2, f.cache.Len())

	doc, ok := f.cache.Get(key("posts/a"))
	require.True(t, ok)
	assert.Equal(t, "posts/a.md", doc.Path)
	assert.True(t, doc.DependsOn(key("index")))
	assert.Same(t, f.opts, doc.Options)
}

func TestLoad_ChainCascade(t *testing.T) {
	f := newFixture(t)
	// a -> b -> c -> missing
	f.writeRecord(t, "a.md", "b.md")
	f.writeRecord(t, "b.md", "c.md")
	f.writeRecord(t, "c.md", "missing.md")
	f.writeRecord(t, "unrelated.md")

	report := f.cache.Load(t.Context(), nil)

	require.Len(t, report, 3)
	assert.Contains(t, report[f.output("c.md")], domain.ErrReferenceNotFound.Error())
	assert.Contains(t, report[f.output("b.md")], "depends on c")
	assert.Contains(t, report[f.output("a.md")], "depends on b")

	for _, rel := range []string{"a.md", "b.md", "c.md"} {
		assert.NoFileExists(t, domain.RecordPath(f.root, rel))
		_, ok := f.registry.Key(rel)
		assert.False(t, ok, "%s must leave the registry", rel)
	}

	_, ok := f.cache.Get(key("unrelated"))
	assert.True(t, ok)
	assert.Equal(t, 1, f.cache.Len())
}

func TestLoad_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.writeRecord(t, "a.md")
	f.writeRecord(t, "b.md", "a.md")

	first := f.cache.Load(t.Context(), nil)
	docA1, _ := f.cache.Get(key("a"))
	docB1, _ := f.cache.Get(key("b"))

	second := f.cache.Load(t.Context(), nil)
	docA2, _ := f.cache.Get(key("a"))
	docB2, _ := f.cache.Get(key("b"))

	assert.Empty(t, first)
	assert.Empty(t, second)
	assert.Equal(t, 2, f.cache.Len())
	assert.Equal(t, docA1, docA2)
	assert.Equal(t, docB1, docB2)
}

func TestLoad_DeletedDocument(t *testing.T) {
	f := newFixture(t)
	f.writeRecord(t, "a.md")
	f.writeRecord(t, "b.md", "a.md")
	f.registry.Register("a.md")

	report := f.cache.Load(t.Context(), []string{"a.md", "never-cached.md"})

	assert.NoFileExists(t, domain.RecordPath(f.root, "a.md"))
	_, ok := f.registry.Key("a.md")
	assert.False(t, ok)

	assert.Equal(t, []string{f.output("b.md")}, mapKeys(report))
	assert.Zero(t, f.cache.Len())
}

func TestLoad_CorruptRecordIsSkipped(t *testing.T) {
	f := newFixture(t)
	f.writeRecord(t, "good.md")
	bad := domain.RecordPath(f.root, "bad.md")
	require.NoError(t, os.WriteFile(bad, []byte("{"), domain.FilePerm))

	f.logger.EXPECT().Error(gomock.Any()).Times(1)

	report := f.cache.Load(t.Context(), nil)

	assert.Empty(t, report)
	assert.Equal(t, 1, f.cache.Len())
}

func TestLoad_MissingRecordsRoot(t *testing.T) {
	f := newFixture(t)

	report := f.cache.Load(t.Context(), nil)

	assert.Empty(t, report)
	assert.Zero(t, f.cache.Len())
}

func TestFail_CascadesCompileFailure(t *testing.T) {
	f := newFixture(t)
	f.writeRecord(t, "a.md")
	f.writeRecord(t, "b.md", "a.md")
	f.writeRecord(t, "c.md", "b.md")
	require.Empty(t, f.cache.Load(t.Context(), nil))

	cause := domain.ErrCompileFailed
	report := f.cache.Fail(map[domain.Key]error{key("a"): cause})

	assert.ElementsMatch(t, []string{f.output("a.md"), f.output("b.md"), f.output("c.md")}, mapKeys(report))
	assert.Equal(t, "document a: "+cause.Error(), report[f.output("a.md")])
	assert.Zero(t, f.cache.Len())
}

func TestWriteCache_PersistsAndRemoves(t *testing.T) {
	f := newFixture(t)
	keys := f.registry.Register("a.md", "b.md")
	docA := domain.NewDocument(keys[0], "a.md", "A", "<p>a</p>", nil, f.opts)
	docB := domain.NewDocument(keys[1], "b.md", "B", "<p>b</p>", []domain.Reference{{Key: keys[0], Path: "a.md"}}, f.opts)
	f.cache.Refresh(docA, docB)

	ann := domain.Annotations{Outbound: []string{"a.md"}, Fragments: []string{"Intro"}}
	errs := f.cache.WriteCache(t.Context(), map[domain.Key]domain.Annotations{keys[1]: ann})

	assert.Empty(t, errs)
	_, ok := f.cache.Get(keys[1])
	assert.False(t, ok, "written documents leave the cache")
	_, ok = f.cache.Get(keys[0])
	assert.True(t, ok)

	data, err := os.ReadFile(domain.RecordPath(f.root, "b.md"))
	require.NoError(t, err)
	var rec domain.Record
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "b.md", rec.Path)
	assert.Equal(t, []string{"a.md"}, rec.References)
	assert.Equal(t, ann, rec.Annotations())
}

func TestWriteCache_MissingKeyIsScopedToEntry(t *testing.T) {
	f := newFixture(t)
	keys := f.registry.Register("a.md")
	f.cache.Refresh(domain.NewDocument(keys[0], "a.md", "A", "", nil, f.opts))

	f.logger.EXPECT().Error(gomock.Any()).Times(1)

	errs := f.cache.WriteCache(t.Context(), map[domain.Key]domain.Annotations{
		keys[0]:      {},
		key("ghost"): {},
	})

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[key("ghost")], domain.ErrDocumentNotCached)
	assert.FileExists(t, domain.RecordPath(f.root, "a.md"))
}

func TestWriteCache_RoundTripThroughLoad(t *testing.T) {
	f := newFixture(t)
	keys := f.registry.Register("a.md", "b.md")
	f.cache.Refresh(
		domain.NewDocument(keys[0], "a.md", "A", "<p>a</p>", nil, f.opts),
		domain.NewDocument(keys[1], "b.md", "B", "<p>b</p>", []domain.Reference{{Key: keys[0], Path: "a.md"}}, f.opts),
	)
	require.Empty(t, f.cache.WriteCache(t.Context(), map[domain.Key]domain.Annotations{keys[0]: {}, keys[1]: {}}))

	next := articles.New(f.root, f.opts, registry.New(), f.logger)
	assert.Empty(t, next.Load(t.Context(), nil))

	doc, ok := next.Get(keys[1])
	require.True(t, ok)
	assert.Equal(t, "B", doc.Title)
	assert.True(t, doc.DependsOn(keys[0]))
}

func TestDrain_EmptiesCache(t *testing.T) {
	f := newFixture(t)
	keys := f.registry.Register("b.md", "a.md")
	f.cache.Refresh(
		domain.NewDocument(keys[0], "b.md", "", "", nil, f.opts),
		domain.NewDocument(keys[1], "a.md", "", "", nil, f.opts),
	)

	var drained []domain.Key
	for k, doc := range f.cache.Drain() {
		assert.Equal(t, k, doc.Key)
		drained = append(drained, k)
	}

	assert.Equal(t, []domain.Key{key("a"), key("b")}, drained)
	for _, k := range keys {
		_, ok := f.cache.Get(k)
		assert.False(t, ok)
	}
	assert.Zero(t, f.cache.Len())
}

func TestRefresh_RegistersCanonicalKey(t *testing.T) {
	f := newFixture(t)
	canonical := key("custom/slug")

	f.cache.Refresh(domain.NewDocument(canonical, "posts/x.md", "", "", nil, f.opts))

	got, ok := f.registry.Key("posts/x.md")
	require.True(t, ok)
	assert.Equal(t, canonical, got)
	_, ok = f.cache.Get(canonical)
	assert.True(t, ok)
}

func mapKeys(report domain.ErrorReport) []string {
	keys := make([]string, 0, len(report))
	for k := range report {
		keys = append(keys, k)
	}
	return keys
}

func TestLoad_RecordPathOutsideRootIsSkipped(t *testing.T) {
	f := newFixture(t)
	outside := filepath.Join(f.root, "x.md"+domain.RecordExt)
	require.NoError(t, os.WriteFile(outside, []byte("{}"), domain.FilePerm))

	rec := domain.Record{Path: "../x.md", References: []string{"missing.md"}}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	file := domain.RecordPath(f.root, "evil.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(file), domain.DirPerm))
	require.NoError(t, os.WriteFile(file, data, domain.FilePerm))

	f.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrPathOutsideRoot)
	}).Times(1)

	report := f.cache.Load(t.Context(), nil)

	assert.Empty(t, report)
	assert.Zero(t, f.cache.Len())
	assert.FileExists(t, outside)
}

func TestLoad_DeletedPathOutsideRootIsIgnored(t *testing.T) {
	f := newFixture(t)
	outside := filepath.Join(f.root, "x.md"+domain.RecordExt)
	require.NoError(t, os.WriteFile(outside, []byte("{}"), domain.FilePerm))

	f.logger.EXPECT().Error(gomock.Any()).Times(1)

	f.cache.Load(t.Context(), []string{"../x.md"})

	assert.FileExists(t, outside)
}

func TestWriteCache_NonDocumentLinkSurvivesReload(t *testing.T) {
	f := newFixture(t)
	ws := domain.NewWorkspace(t.TempDir(), "", "", "", "", "")
	require.NoError(t, os.MkdirAll(ws.SourceRoot, domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(ws.SourceRoot, "notes.txt"), []byte("plain"), domain.FilePerm))
	require.NoError(t, os.WriteFile(filepath.Join(ws.SourceRoot, "a.md"), []byte("see [[notes.txt]]"), domain.FilePerm))

	doc, ann, err := compiler.New(f.registry).Compile(t.Context(), ws, f.opts, "a.md")
	require.NoError(t, err)
	f.cache.Refresh(doc)
	require.Empty(t, f.cache.WriteCache(t.Context(), map[domain.Key]domain.Annotations{doc.Key: ann}))

	for range 2 {
		next := articles.New(f.root, f.opts, registry.New(), f.logger)
		assert.Empty(t, next.Load(t.Context(), nil))
		assert.Equal(t, 1, next.Len())
	}
	assert.FileExists(t, domain.RecordPath(f.root, "a.md"))
}
