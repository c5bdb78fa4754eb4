package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/vvka-141/savemigrate/internal/checksum"
	"github.com/vvka-141/savemigrate/pkg/savemigrate"
)

// Renderer formats run summaries and stored records. Interactive renderers
// use rounded borders and color; plain ones use ASCII only.
type Renderer struct {
	interactive bool
}

// NewRenderer creates a Renderer for the given mode.
func NewRenderer(mode Mode) *Renderer {
	return &Renderer{interactive: mode == ModeInteractive}
}

// Summary renders the per-file table of a run followed by its totals.
func (r *Renderer) Summary(s *savemigrate.Summary) string {
	var b strings.Builder

	if s.DirectoryErr != nil {
		b.WriteString(r.style(ErrorStyle, fmt.Sprintf("%s No files migrated: %v", SymbolCross, s.DirectoryErr)))
		b.WriteString("\n")
		return b.String()
	}

	if len(s.Results) > 0 {
		t := r.newTable().Headers("FILE", "USERNAME", "STATUS", "SIZE", "SHA256", "ERROR")
		for _, res := range s.Results {
			errText := ""
			if res.Err != nil {
				errText = res.Err.Error()
			}
			t.Row(
				res.FileName,
				res.Username,
				r.status(res.Status),
				humanize.Bytes(uint64(res.Size)),
				checksum.Short(res.Checksum),
				errText,
			)
		}
		b.WriteString(t.String())
		b.WriteString("\n")
	}

	b.WriteString(r.totals(s))
	b.WriteString("\n")
	return b.String()
}

// Records renders the rows of the save table without their payloads.
func (r *Renderer) Records(tableName string, records []savemigrate.RecordInfo) string {
	if len(records) == 0 {
		return r.style(MutedStyle, fmt.Sprintf("Table '%s' has no records", tableName)) + "\n"
	}

	t := r.newTable().Headers("ID", "USERNAME", "SIZE", "LAST UPDATED")
	for _, rec := range records {
		t.Row(
			fmt.Sprintf("%d", rec.ID),
			rec.Username,
			humanize.Bytes(uint64(rec.Size)),
			rec.LastUpdated.UTC().Format(time.RFC3339),
		)
	}

	return t.String() + "\n" + fmt.Sprintf("%d record(s) in '%s'", len(records), tableName) + "\n"
}

func (r *Renderer) totals(s *savemigrate.Summary) string {
	var parts []string
	if s.Planned() > 0 {
		parts = append(parts, r.style(SuccessStyle, fmt.Sprintf("%d planned", s.Planned())))
	} else {
		parts = append(parts, r.style(SuccessStyle, fmt.Sprintf("%d migrated", s.Migrated())))
	}
	failed := fmt.Sprintf("%d failed", s.Failed())
	if s.Failed() > 0 {
		failed = r.style(ErrorStyle, failed)
	}
	parts = append(parts, failed, fmt.Sprintf("%d skipped", s.Skipped))

	line := fmt.Sprintf("Run %s: %s", s.RunID, strings.Join(parts, ", "))
	if d := s.Duration(); d > 0 {
		line += fmt.Sprintf(" in %s", d.Round(time.Millisecond))
	}
	return line
}

func (r *Renderer) status(st savemigrate.FileStatus) string {
	switch st {
	case savemigrate.FileMigrated:
		return r.style(SuccessStyle, SymbolCheck+" "+st.String())
	case savemigrate.FileFailed:
		return r.style(ErrorStyle, SymbolCross+" "+st.String())
	case savemigrate.FilePlanned:
		return r.style(WarningStyle, SymbolPlanned+" "+st.String())
	default:
		return st.String()
	}
}

func (r *Renderer) newTable() *table.Table {
	if !r.interactive {
		return table.New().
			Border(lipgloss.ASCIIBorder()).
			StyleFunc(func(_, _ int) lipgloss.Style { return CellStyle })
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(MutedStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			return CellStyle
		})
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.interactive {
		return text
	}
	return s.Render(text)
}
