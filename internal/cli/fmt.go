package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gozx/internal/logging"
	"github.com/yaklabco/gozx/internal/ui/pretty"
	"github.com/yaklabco/gozx/pkg/config"
	"github.com/yaklabco/gozx/pkg/format"
	"github.com/yaklabco/gozx/pkg/fsutil"
	"github.com/yaklabco/gozx/pkg/hostfmt"
	"github.com/yaklabco/gozx/pkg/runner"
)

// ErrFilesNeedFormatting is returned by fmt --check when any file would
// change. It signals the exit code; no further logging is needed.
var ErrFilesNeedFormatting = errors.New("files need formatting")

// ErrRunFailed is returned when one or more files failed to process.
var ErrRunFailed = errors.New("run failed")

type fmtFlags struct {
	write   bool
	check   bool
	summary bool
	ignore  []string
	jobs    int
}

func newFmtCommand() *cobra.Command {
	flags := &fmtFlags{}

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Canonicalize template markup",
		Long:  fmtLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "rewrite files in place")
	cmd.Flags().BoolVar(&flags.check, "check", false, "exit non-zero when any file would change")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print a summary block after the run")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")

	return cmd
}

const fmtLongDescription = `Canonicalize zx template markup in host source files.

Template blocks are re-rendered in canonical form; layout (vertical or
horizontal) follows the source. Host code around the blocks is delegated
to the configured host formatter, falling back to the original host text
when no formatter is configured or the formatter fails.

By default, formats all .zx files in the current directory and
subdirectories and prints whether anything would change. Use -w to
rewrite files.

Examples:
  gozx fmt              # Report files that would change
  gozx fmt -w           # Reformat in place
  gozx fmt --check      # CI mode: non-zero exit on unformatted files
  gozx fmt -w src/      # Reformat one directory`

func runFmt(cmd *cobra.Command, args []string, flags *fmtFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	cfg, err := loadConfig(cmd, workDir)
	if err != nil {
		return errors.Join(errors.New("failed to load configuration"), err)
	}

	cfg.Write = flags.write
	cfg.Check = flags.check
	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = flags.jobs
	}
	cfg.Ignore = append(cfg.Ignore, flags.ignore...)

	logger.Debug("starting format run",
		logging.FieldPaths, args,
		logging.FieldWorkingDir, workDir,
		logging.FieldWrite, cfg.Write,
		logging.FieldCheck, cfg.Check,
		logging.FieldJobs, cfg.Jobs,
	)

	proc := &fmtProcessor{cfg: cfg, hf: hostFormatter(cfg)}
	result, err := runner.New(proc).Run(ctx, runner.Options{
		Paths:           args,
		WorkingDir:      workDir,
		Extensions:      cfg.Extensions,
		ExcludeGlobs:    cfg.Ignore,
		IncludeVendored: cfg.IncludeVendored,
		Jobs:            cfg.Jobs,
	})
	if err != nil {
		return errors.Join(errors.New("format run failed"), err)
	}

	styles := newStyles(cmd)
	out := cmd.OutOrStdout()

	for _, outcome := range result.Files {
		switch {
		case outcome.Error != nil:
			source, _ := os.ReadFile(outcome.Path)
			fmt.Fprint(out, styles.FormatParseError(outcome.Path, outcome.Error, source))
		case outcome.Result.Skipped:
			fmt.Fprint(out, styles.FormatSkip(outcome.Path, outcome.Result.SkipReason))
		case outcome.Result.Changed && !cfg.Write:
			fmt.Fprint(out, styles.FormatChanged(outcome.Path))
		}
	}
	fmt.Fprint(out, styles.FormatFmtOneLine(result.Stats, cfg.Check))
	if flags.summary {
		fmt.Fprint(out, styles.FormatSummary(result.Stats, pretty.SummaryWidth(os.Stdout)))
	}

	switch ExitCodeFromResult(result, cfg.Check) {
	case ExitProcessErrors:
		return ErrRunFailed
	case ExitChanged:
		return ErrFilesNeedFormatting
	}
	return nil
}

// fmtProcessor formats one file per call. Safe for concurrent use.
type fmtProcessor struct {
	cfg *config.Config
	hf  hostfmt.Formatter
}

func (p *fmtProcessor) ProcessFile(ctx context.Context, path string) (*runner.FileResult, error) {
	content, snap, err := fsutil.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	formatted, err := format.File(ctx, content, p.hf)
	if err != nil {
		return nil, err
	}

	res := &runner.FileResult{
		Changed: !bytes.Equal(formatted, content),
		Blocks:  countBlocks(content),
	}
	logging.FromContext(ctx).Debug("file formatted",
		logging.FieldPath, path,
		logging.FieldChanged, res.Changed,
	)
	if !res.Changed || !p.cfg.Write {
		return res, nil
	}

	// The file may have been edited between read and write.
	modified, err := snap.Modified(ctx)
	if err != nil {
		return nil, err
	}
	if modified {
		res.Skipped = true
		res.SkipReason = "file changed during run"
		return res, nil
	}

	if err := fsutil.WriteAtomic(ctx, path, formatted, snap.Mode.Perm()); err != nil {
		return nil, err
	}
	res.Written = true
	return res, nil
}
