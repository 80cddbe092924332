package runner

import "context"

// Processor handles one file. The fmt and build commands each provide an
// implementation; the runner only schedules and aggregates.
type Processor interface {
	ProcessFile(ctx context.Context, path string) (*FileResult, error)
}

// FileResult describes what happened to one file.
type FileResult struct {
	// Changed reports that the processed output differs from the input.
	Changed bool

	// Written reports that a file was written (in-place rewrite or
	// generated output).
	Written bool

	// Skipped reports that the file was discovered but intentionally not
	// processed (e.g. generated content).
	Skipped bool

	// SkipReason explains a skip, empty otherwise.
	SkipReason string

	// Blocks is the number of template blocks handled in the file.
	Blocks int

	// Components is the number of client component usages recorded.
	Components int

	// OutputPath is where generated output was written, when any.
	OutputPath string
}

// FileOutcome pairs a file path with its result or error.
type FileOutcome struct {
	Path   string
	Result *FileResult
	Error  error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesSkipped    int
	FilesErrored    int

	// FilesChanged counts files whose output differed from their input.
	FilesChanged int

	// FilesWritten counts files actually written.
	FilesWritten int

	// BlocksTotal is the number of template blocks across all files.
	BlocksTotal int

	// ComponentsTotal is the number of client component usages recorded.
	ComponentsTotal int
}

// Result is the overall runner result. Files are ordered by path.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasErrors reports whether any file failed to process.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// HasChanges reports whether any file's output differed from its input,
// the signal check mode turns into a non-zero exit.
func (r *Result) HasChanges() bool {
	return r != nil && r.Stats.FilesChanged > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	if outcome.Result.Skipped {
		r.Stats.FilesSkipped++
		return
	}

	r.Stats.FilesProcessed++
	if outcome.Result.Changed {
		r.Stats.FilesChanged++
	}
	if outcome.Result.Written {
		r.Stats.FilesWritten++
	}
	r.Stats.BlocksTotal += outcome.Result.Blocks
	r.Stats.ComponentsTotal += outcome.Result.Components
}
