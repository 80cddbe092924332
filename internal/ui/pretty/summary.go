package pretty

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/yaklabco/gozx/pkg/runner"
)

const (
	wordFile  = "file"
	wordFiles = "files"
)

// DefaultSummaryWidth is the divider width used when the terminal width is
// unknown or wider.
const DefaultSummaryWidth = 40

// SummaryWidth returns the summary divider width, clamped to the terminal
// width when writer is a narrow terminal.
func SummaryWidth(writer io.Writer) int {
	if f, ok := writer.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 && w < DefaultSummaryWidth {
			return w
		}
	}
	return DefaultSummaryWidth
}

func plural(n int) string {
	if n == 1 {
		return wordFile
	}
	return wordFiles
}

// FormatFmtOneLine formats format-run statistics as a single line.
// Example: "3 files reformatted (12 checked), 1 skipped".
func (s *Styles) FormatFmtOneLine(stats runner.Stats, check bool) string {
	if stats.FilesChanged == 0 {
		msg := s.Success.Render("All files formatted") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed, plural(stats.FilesProcessed)))
		return msg + "\n"
	}

	var parts []string
	if check || stats.FilesWritten == 0 {
		verb := "need"
		if stats.FilesChanged == 1 {
			verb = "needs"
		}
		parts = append(parts, s.Changed.Render(
			fmt.Sprintf("%d %s %s formatting", stats.FilesChanged, plural(stats.FilesChanged), verb)))
	} else {
		parts = append(parts, s.Success.Render(
			fmt.Sprintf("%d %s reformatted", stats.FilesWritten, plural(stats.FilesWritten))))
	}
	parts = append(parts, fmt.Sprintf("%d checked", stats.FilesProcessed))
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatBuildOneLine formats build-run statistics as a single line.
// Example: "5 files built, 23 blocks, 4 client components".
func (s *Styles) FormatBuildOneLine(stats runner.Stats) string {
	first := s.Success.Render(fmt.Sprintf("%d %s built", stats.FilesWritten, plural(stats.FilesWritten)))
	if stats.FilesWritten == 0 && stats.FilesProcessed > 0 {
		first = s.Success.Render("All files up to date")
	}
	parts := []string{
		first,
		fmt.Sprintf("%d blocks", stats.BlocksTotal),
	}
	if stats.ComponentsTotal > 0 {
		parts = append(parts, fmt.Sprintf("%d client components", stats.ComponentsTotal))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats, width int) string {
	if width <= 0 {
		width = DefaultSummaryWidth
	}

	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", width))
	builder.WriteString("\n")

	builder.WriteString("  Files discovered:  " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files processed:   " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesChanged > 0 {
		builder.WriteString("  Files changed:     " +
			s.Changed.Render(strconv.Itoa(stats.FilesChanged)) + "\n")
	}
	if stats.FilesWritten > 0 {
		builder.WriteString("  Files written:     " +
			s.Success.Render(strconv.Itoa(stats.FilesWritten)) + "\n")
	}
	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:     " +
			s.SummaryValue.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files errored:     " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")

	builder.WriteString("  Template blocks:   " +
		s.SummaryValue.Render(strconv.Itoa(stats.BlocksTotal)) + "\n")
	if stats.ComponentsTotal > 0 {
		builder.WriteString("  Client components: " +
			s.SummaryValue.Render(strconv.Itoa(stats.ComponentsTotal)) + "\n")
	}

	builder.WriteString("\n")

	// Overall status
	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Completed with errors"))
	case stats.FilesChanged > 0 && stats.FilesWritten == 0:
		builder.WriteString(s.Changed.Render("Files need formatting"))
	default:
		builder.WriteString(s.Success.Render("Done"))
	}
	builder.WriteString("\n")

	return builder.String()
}
