// Package classify runs the recognizer over every source file below a
// directory and collects the verdicts into a report.
package classify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/minic/diag"
	"github.com/dhamidi/minic/lexer"
	"github.com/dhamidi/minic/ll1"
)

var log = commonlog.GetLogger("minic.classify")

type Status int

const (
	Accepted Status = iota + 1
	Rejected
	TimedOut
	Failed
)

func (s Status) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case TimedOut:
		return "timeout"
	case Failed:
		return "error"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, st := range []Status{Accepted, Rejected, TimedOut, Failed} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Result is the verdict for one file.
type Result struct {
	Path    string
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Position returns where the rejection happened, if the error carries one.
func (r Result) Position() (lexer.Position, bool) {
	return diag.Locate(r.Err)
}

// Detail is a one-line description of the error, or "" when accepted.
func (r Result) Detail() string {
	if r.Err == nil {
		return ""
	}
	return diag.Summary(r.Err)
}

// Classify recognizes text with grammar g. name is used in error messages.
func Classify(g ll1.Grammar, name, text string) Result {
	start := time.Now()
	err := ll1.Recognize(g, text, ll1.WithFile(name))
	r := Result{Path: name, Status: Accepted, Err: err, Elapsed: time.Since(start)}
	switch {
	case err == nil:
	case errors.Is(err, ll1.ErrUnknownGrammar):
		r.Status = Failed
	default:
		r.Status = Rejected
	}
	return r
}

// NormalizeExtensions lowercases extensions and gives each a leading dot.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !slices.Contains(out, ext) {
			out = append(out, ext)
		}
	}
	return out
}

// Find returns the files below root whose extension matches one of exts,
// ignoring case, in lexical order.
func Find(root string, exts []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", root)
	}

	exts = NormalizeExtensions(exts)
	var files []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if slices.Contains(exts, strings.ToLower(filepath.Ext(p))) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	slices.Sort(files)
	return files, nil
}

// Runner classifies every matching file of a directory.
type Runner struct {
	Grammar ll1.Grammar
	// Timeout bounds each file; zero means no limit.
	Timeout time.Duration
	// Progress receives one "[i/n] ..." line per file when set.
	Progress io.Writer

	classify func(g ll1.Grammar, name, text string) Result
}

// Run classifies the files below root. A missing root is an error; a root
// without matching files yields an empty report. When ctx is cancelled Run
// returns the results so far together with ctx.Err().
func (r *Runner) Run(ctx context.Context, root string, exts []string) (*Report, error) {
	if r.Grammar.Table() == nil {
		return nil, fmt.Errorf("classify: %w: %s", ll1.ErrUnknownGrammar, r.Grammar)
	}
	files, err := Find(root, exts)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:         uuid.New().String(),
		Grammar:    r.Grammar.String(),
		Root:       root,
		Extensions: NormalizeExtensions(exts),
		StartedAt:  time.Now(),
	}
	log.Infof("run %s: %d files under %s with the %s grammar", report.ID, len(files), root, r.Grammar)

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(report.StartedAt)
			return report, err
		}
		res := r.classifyFile(ctx, file)
		report.Results = append(report.Results, res)
		r.progress(i+1, len(files), res)
	}
	report.Duration = time.Since(report.StartedAt)
	log.Infof("run %s: %d accepted, %d rejected in %s", report.ID, len(report.Accepted()), len(report.Rejected()), report.Duration)
	return report, nil
}

func (r *Runner) classifyFile(ctx context.Context, path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("read %s: %s", path, err)
		return Result{Path: path, Status: Failed, Err: err}
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	classify := r.classify
	if classify == nil {
		classify = Classify
	}
	done := make(chan Result, 1)
	start := time.Now()
	go func() {
		done <- classify(r.Grammar, path, string(data))
	}()

	select {
	case res := <-done:
		log.Debugf("%s: %s", path, res.Status)
		return res
	case <-ctx.Done():
		log.Warningf("%s: %s", path, ctx.Err())
		return Result{Path: path, Status: TimedOut, Err: fmt.Errorf("classify %s: %w", path, ctx.Err()), Elapsed: time.Since(start)}
	}
}

func (r *Runner) progress(i, n int, res Result) {
	if r.Progress == nil {
		return
	}
	switch res.Status {
	case Accepted:
		fmt.Fprintf(r.Progress, "[%d/%d] [OK] %s\n", i, n, res.Path)
	case Rejected:
		fmt.Fprintf(r.Progress, "[%d/%d] [REJECTED] %s: %s\n", i, n, res.Path, res.Detail())
	case TimedOut:
		fmt.Fprintf(r.Progress, "[%d/%d] [TIMEOUT] %s\n", i, n, res.Path)
	default:
		fmt.Fprintf(r.Progress, "[%d/%d] [ERROR] %s: %v\n", i, n, res.Path, res.Err)
	}
}

// Report is the outcome of one Run.
type Report struct {
	ID         string
	Grammar    string
	Root       string
	Extensions []string
	StartedAt  time.Time
	Duration   time.Duration
	Results    []Result
}

func (r *Report) filter(keep func(Result) bool) []Result {
	var out []Result
	for _, res := range r.Results {
		if keep(res) {
			out = append(out, res)
		}
	}
	return out
}

func (r *Report) Accepted() []Result {
	return r.filter(func(res Result) bool { return res.Status == Accepted })
}

func (r *Report) Rejected() []Result {
	return r.filter(func(res Result) bool { return res.Status == Rejected })
}

// Failures returns the files that could not be classified: read errors and
// timeouts.
func (r *Report) Failures() []Result {
	return r.filter(func(res Result) bool { return res.Status == TimedOut || res.Status == Failed })
}
