// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldCommand    = "command"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldChanged    = "changed"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldConfig    = "config"
	FieldWrite     = "write"
	FieldCheck     = "check"
	FieldJobs      = "jobs"
	FieldOutDir    = "out_dir"
	FieldSourcemap = "sourcemap"
	FieldManifest  = "manifest"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesChanged    = "files_changed"
	FieldFilesWritten    = "files_written"
	FieldBlocksTotal     = "blocks_total"
	FieldComponents      = "components"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Template fields.
	FieldLine   = "line"
	FieldColumn = "column"
	FieldReason = "reason"
)
