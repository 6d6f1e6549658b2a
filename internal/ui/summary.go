package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmo/mmopack/pkg/release"
)

func row(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}

// RenderResult writes the summary of a finished packaging run.
func RenderResult(w io.Writer, r release.Result) {
	lines := []string{
		SuccessStyle.Render(SymbolCheck + " Release packaged"),
		row("Version", r.Version.String()),
		row("Archive", r.ArchivePath),
		row("Entries", fmt.Sprintf("%d", r.Entries)),
		row("Size", formatBytes(r.Size)),
		row("Release ID", r.ReleaseID.String()),
	}
	if r.ChecksumPath != "" {
		lines = append(lines, row("Checksum", r.ChecksumPath))
	}
	lines = append(lines, row("Duration", r.Duration.Round(time.Millisecond).String()))
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}

// RenderPlan writes a dry-run listing: version, destination and every entry.
func RenderPlan(w io.Writer, p release.Plan) {
	dest := p.ArchivePath
	if p.Exists {
		dest += " " + WarningStyle.Render("(exists, will be replaced)")
	}
	lines := []string{
		TitleStyle.Render("Release plan"),
		row("Version", p.Version.String()),
		row("Archive", dest),
		row("Entries", fmt.Sprintf("%d (%s)", len(p.Manifest.Entries), formatBytes(p.Manifest.TotalSize()))),
	}
	for _, e := range p.Manifest.Entries {
		lines = append(lines, EntryStyle.Render(fmt.Sprintf("%s %s %s %s", SymbolBullet, e.ArchivePath, SymbolArrow, e.SourcePath)))
	}
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
