package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("unknown report format")

// Encode writes r as "table", "json" or "yaml".
func Encode(w io.Writer, r *Report, format string) error {
	switch format {
	case "table":
		return EncodeTable(w, r)
	case "json":
		return EncodeJSON(w, r)
	case "yaml":
		return EncodeYAML(w, r)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

type reportDoc struct {
	ID         string    `json:"id" yaml:"id"`
	Grammar    string    `json:"grammar" yaml:"grammar"`
	Root       string    `json:"root" yaml:"root"`
	Extensions []string  `json:"extensions" yaml:"extensions"`
	StartedAt  string    `json:"started_at" yaml:"started_at"`
	Duration   string    `json:"duration" yaml:"duration"`
	Summary    summary   `json:"summary" yaml:"summary"`
	Files      []fileDoc `json:"files" yaml:"files"`
}

type summary struct {
	Total    int `json:"total" yaml:"total"`
	Accepted int `json:"accepted" yaml:"accepted"`
	Rejected int `json:"rejected" yaml:"rejected"`
	Failed   int `json:"failed" yaml:"failed"`
}

type fileDoc struct {
	Path    string `json:"path" yaml:"path"`
	Status  Status `json:"status" yaml:"status"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column  int    `json:"column,omitempty" yaml:"column,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Elapsed string `json:"elapsed" yaml:"elapsed"`
}

func reportToDoc(r *Report) *reportDoc {
	doc := &reportDoc{
		ID:         r.ID,
		Grammar:    r.Grammar,
		Root:       r.Root,
		Extensions: r.Extensions,
		StartedAt:  r.StartedAt.UTC().Format(time.RFC3339),
		Duration:   r.Duration.String(),
		Summary:    r.summary(),
		Files:      []fileDoc{},
	}
	for _, res := range r.Results {
		fd := fileDoc{
			Path:    res.Path,
			Status:  res.Status,
			Elapsed: res.Elapsed.String(),
		}
		if res.Err != nil {
			fd.Message = res.Err.Error()
			if pos, ok := res.Position(); ok {
				fd.Line, fd.Column = pos.Line, pos.Column
				fd.Message = res.Detail()
			}
		}
		doc.Files = append(doc.Files, fd)
	}
	return doc
}

func (r *Report) summary() summary {
	return summary{
		Total:    len(r.Results),
		Accepted: len(r.Accepted()),
		Rejected: len(r.Rejected()),
		Failed:   len(r.Failures()),
	}
}

func EncodeJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reportToDoc(r))
}

func EncodeYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reportToDoc(r)); err != nil {
		return err
	}
	return enc.Close()
}

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorOK      = lipgloss.Color("#10B981")
	colorWarn    = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	statusStyles = map[Status]lipgloss.Style{
		Accepted: lipgloss.NewStyle().Foreground(colorOK).Bold(true),
		Rejected: lipgloss.NewStyle().Foreground(colorError).Bold(true),
		TimedOut: lipgloss.NewStyle().Foreground(colorWarn).Bold(true),
		Failed:   lipgloss.NewStyle().Foreground(colorError),
	}
)

// EncodeTable writes one row per file followed by a summary panel.
func EncodeTable(w io.Writer, r *Report) error {
	rows := make([][]string, 0, len(r.Results))
	for i, res := range r.Results {
		name := res.Path
		if rel, err := filepath.Rel(r.Root, res.Path); err == nil {
			name = rel
		}
		detail := res.Detail()
		if res.Status == TimedOut || res.Status == Failed {
			detail = res.Err.Error()
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), name, statusLabel(res.Status), detail})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("#", "FILE", "STATUS", "DETAIL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 2 && row >= 0 && row < len(r.Results) {
				return statusStyles[r.Results[row].Status].Padding(0, 1)
			}
			return cellStyle
		})

	s := r.summary()
	panel := summaryStyle.Render(fmt.Sprintf(
		"run %s\ngrammar %s · root %s\n%d files: %d accepted, %d rejected, %d failed in %s",
		r.ID, r.Grammar, r.Root, s.Total, s.Accepted, s.Rejected, s.Failed, r.Duration.Round(time.Millisecond),
	))

	out := panel + "\n"
	if len(rows) > 0 {
		out = t.String() + "\n" + out
	}
	_, err := io.WriteString(w, out)
	return err
}

func statusLabel(s Status) string {
	switch s {
	case Accepted:
		return "ACCEPTED"
	case Rejected:
		return "REJECTED"
	case TimedOut:
		return "TIMEOUT"
	}
	return "ERROR"
}
