package domain

// ChangeSet holds the changed and deleted paths of one category.
type ChangeSet struct {
	Changed []string
	Deleted []string
}

// Empty reports whether the change set has no changed and no deleted paths.
func (c ChangeSet) Empty() bool {
	return len(c.Changed) == 0 && len(c.Deleted) == 0
}

// Changes is what a Monitor reports for one run. Document paths are
// relative to the source root; configuration paths are absolute.
type Changes struct {
	AllDocuments []string
	Documents    ChangeSet
	Config       ChangeSet
	NonDocuments ChangeSet

	// Retry holds output paths that failed on a previous run.
	Retry []string
}

// Input is the decision record produced by the initializer: what has to be
// (re)compiled this run and why.
type Input struct {
	Workspace Workspace
	Options   *Options

	// Documents holds the document paths to compile and to drop. When a full
	// rebuild is needed Changed holds every document path.
	Documents    ChangeSet
	Config       ChangeSet
	NonDocuments ChangeSet
	Assets       ChangeSet

	// Libraries holds the library paths that were removed from Documents.
	Libraries ChangeSet

	Retry []string

	OptionsChanged       bool
	ComponentsChanged    bool
	LibsChanged          bool
	OverallCompileNeeded bool

	// Continuous is set in watch mode.
	Continuous bool
}

// Unchanged reports whether nothing needs to be done. Pending retries only
// count outside of continuous mode; in watch mode they are retried on the
// next cycle anyway.
func (in *Input) Unchanged() bool {
	return in.Documents.Empty() &&
		in.Config.Empty() &&
		in.NonDocuments.Empty() &&
		(in.Continuous || len(in.Retry) == 0)
}
