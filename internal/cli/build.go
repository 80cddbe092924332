package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-enry/go-enry/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/gozx/internal/logging"
	"github.com/yaklabco/gozx/internal/ui/pretty"
	"github.com/yaklabco/gozx/pkg/config"
	"github.com/yaklabco/gozx/pkg/fsutil"
	"github.com/yaklabco/gozx/pkg/registry"
	"github.com/yaklabco/gozx/pkg/runner"
	"github.com/yaklabco/gozx/pkg/sourcemap"
	"github.com/yaklabco/gozx/pkg/transpile"
)

// generatedExtension is the extension of transpiled host files.
const generatedExtension = ".zig"

type buildFlags struct {
	outDir    string
	sourcemap bool
	manifest  string
	summary   bool
	ignore    []string
	jobs      int
}

func newBuildCommand() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build [paths...]",
		Short: "Transpile template files to host code",
		Long:  buildLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.outDir, "out-dir", "", "output directory for generated files")
	cmd.Flags().BoolVar(&flags.sourcemap, "sourcemap", false, "emit a source map next to each generated file")
	cmd.Flags().StringVar(&flags.manifest, "manifest", "", "client component manifest path, relative to the output directory")
	cmd.Flags().BoolVar(&flags.summary, "summary", false, "print a summary block after the run")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")

	return cmd
}

const buildLongDescription = `Transpile zx template files into plain host code.

Each template block is lowered to calls into the zx runtime; host code
between blocks is copied verbatim. Output files mirror the source layout
under the output directory with a .zig extension. Client-rendered
component usages are collected into a manifest for the bundler.

Examples:
  gozx build                      # Build current directory into zx-out/
  gozx build src/                 # Build one directory
  gozx build --sourcemap          # Emit .map files alongside output
  gozx build --out-dir build/gen  # Custom output directory`

func runBuild(cmd *cobra.Command, args []string, flags *buildFlags) error {
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

	if cmd.Flags().Changed("out-dir") {
		cfg.Build.OutDir = flags.outDir
	}
	if cmd.Flags().Changed("sourcemap") {
		cfg.Build.Sourcemap = flags.sourcemap
	}
	if cmd.Flags().Changed("manifest") {
		cfg.Build.Manifest = flags.manifest
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = flags.jobs
	}
	cfg.Ignore = append(cfg.Ignore, flags.ignore...)
	if err := cfg.Validate(); err != nil {
		return errors.Join(errors.New("invalid configuration"), err)
	}

	outDir := cfg.Build.OutDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(workDir, outDir)
	}

	logger.Debug("starting build run",
		logging.FieldPaths, args,
		logging.FieldWorkingDir, workDir,
		logging.FieldOutDir, outDir,
		logging.FieldSourcemap, cfg.Build.Sourcemap,
		logging.FieldJobs, cfg.Jobs,
	)

	proc := newBuildProcessor(cfg, workDir, outDir)
	result, err := runner.New(proc).Run(ctx, runner.Options{
		Paths:           args,
		WorkingDir:      workDir,
		Extensions:      cfg.Extensions,
		ExcludeGlobs:    append([]string{relGlob(workDir, outDir)}, cfg.Ignore...),
		IncludeVendored: cfg.IncludeVendored,
		Jobs:            cfg.Jobs,
	})
	if err != nil {
		return errors.Join(errors.New("build run failed"), err)
	}

	if cfg.Build.Manifest != "" {
		manifestPath := filepath.Join(outDir, cfg.Build.Manifest)
		if err := writeManifest(ctx, manifestPath, proc.manifestComponents(result)); err != nil {
			return errors.Join(errors.New("write component manifest"), err)
		}
		logger.Debug("component manifest written", logging.FieldManifest, manifestPath)
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
		}
	}
	fmt.Fprint(out, styles.FormatBuildOneLine(result.Stats))
	if flags.summary {
		fmt.Fprint(out, styles.FormatSummary(result.Stats, pretty.SummaryWidth(os.Stdout)))
	}

	if result.HasErrors() {
		return ErrRunFailed
	}
	return nil
}

// relGlob converts the output directory to an exclude glob relative to the
// working directory, so a build never re-reads its own output.
func relGlob(workDir, outDir string) string {
	rel, err := filepath.Rel(workDir, outDir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(outDir) + "/**"
	}
	return filepath.ToSlash(rel) + "/**"
}

// buildProcessor transpiles one file per call. Safe for concurrent use;
// per-file component lists are collected under a mutex and assembled into
// the manifest in discovery order after the run.
type buildProcessor struct {
	cfg        *config.Config
	workingDir string
	outDir     string

	mu         sync.Mutex
	components map[string][]registry.ClientComponent
}

func newBuildProcessor(cfg *config.Config, workingDir, outDir string) *buildProcessor {
	return &buildProcessor{
		cfg:        cfg,
		workingDir: workingDir,
		outDir:     outDir,
		components: make(map[string][]registry.ClientComponent),
	}
}

func (p *buildProcessor) ProcessFile(ctx context.Context, path string) (*runner.FileResult, error) {
	content, _, err := fsutil.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	if enry.IsGenerated(filepath.Base(path), content) {
		return &runner.FileResult{Skipped: true, SkipReason: "generated file"}, nil
	}

	res, err := transpile.File(content, transpile.Options{
		TrackMappings: p.cfg.Build.Sourcemap,
		ComponentDir:  p.cfg.Build.ComponentDir,
	})
	if err != nil {
		return nil, err
	}

	outPath := p.outputPath(path)
	if err := fsutil.EnsureDir(filepath.Dir(outPath)); err != nil {
		return nil, err
	}
	written, err := fsutil.WriteAtomicIfChanged(ctx, outPath, res.Code, 0)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug("file transpiled",
		logging.FieldPath, path,
		logging.FieldOutput, outPath,
		logging.FieldChanged, written,
	)

	if res.SourceMap != nil {
		mapData, marshalErr := encodeSourceMap(res.SourceMap)
		if marshalErr != nil {
			return nil, marshalErr
		}
		if _, writeErr := fsutil.WriteAtomicIfChanged(ctx, outPath+".map", mapData, 0); writeErr != nil {
			return nil, writeErr
		}
	}

	if len(res.Components) > 0 {
		p.mu.Lock()
		p.components[path] = res.Components
		p.mu.Unlock()
	}

	return &runner.FileResult{
		Changed:    written,
		Written:    written,
		Blocks:     countBlocks(content),
		Components: len(res.Components),
		OutputPath: outPath,
	}, nil
}

// outputPath mirrors the source path under the output directory, swapping
// the template extension for the generated one. Sources outside the
// working directory fall back to their base name.
func (p *buildProcessor) outputPath(path string) string {
	rel, err := filepath.Rel(p.workingDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + generatedExtension
	return filepath.Join(p.outDir, rel)
}

// manifestComponents assembles component usages in the runner's
// deterministic file order.
func (p *buildProcessor) manifestComponents(result *runner.Result) []registry.ClientComponent {
	p.mu.Lock()
	defer p.mu.Unlock()

	var all []registry.ClientComponent
	for _, outcome := range result.Files {
		all = append(all, p.components[outcome.Path]...)
	}
	return all
}

// encodeSourceMap renders a source map as JSON lines, one mapping tuple
// per line, so downstream tools can stream it.
func encodeSourceMap(sm *sourcemap.SourceMap) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, m := range sm.Mappings {
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("encode source map: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// componentManifest is the YAML document listing client component usages.
type componentManifest struct {
	Components []registry.ClientComponent `yaml:"components"`
}

func writeManifest(ctx context.Context, path string, components []registry.ClientComponent) error {
	if err := fsutil.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(componentManifest{Components: components}); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close encoder: %w", err)
	}

	_, err := fsutil.WriteAtomicIfChanged(ctx, path, buf.Bytes(), 0)
	return err
}
