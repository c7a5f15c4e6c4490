package sonify

import (
	"fmt"
	"log"
	"sync"
)

// Level classifies a Diagnostic.
type Level int

const (
	// LevelInfo marks progress lines with no control meaning.
	LevelInfo Level = iota

	// LevelWarning marks recoverable conditions; processing continued.
	LevelWarning
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Stage identifies the step of the transform that emitted a Diagnostic.
type Stage int

const (
	StageLoad Stage = iota
	StageStretch
	StagePitch
	StageNormalize
	StageWrite
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StageStretch:
		return "stretch"
	case StagePitch:
		return "pitch"
	case StageNormalize:
		return "normalize"
	case StageWrite:
		return "write"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Diagnostic is a structured progress or warning record.
type Diagnostic struct {
	Level   Level
	Stage   Stage
	Message string

	// Err identifies the condition of a warning, e.g. ErrZeroAmplitude.
	// It is nil for progress lines.
	Err error
}

// Reporter receives diagnostics in emission order.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(d Diagnostic)

// Report calls f(d).
func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Reporter = ReporterFunc(func(Diagnostic) {})

// LogReporter prints diagnostics as human-readable lines.
type LogReporter struct {
	Logger *log.Logger

	// Quiet suppresses progress lines. Warnings are always printed.
	Quiet bool
}

// NewLogReporter returns a LogReporter writing to l, or to the standard
// logger when l is nil.
func NewLogReporter(l *log.Logger) *LogReporter {
	if l == nil {
		l = log.Default()
	}
	return &LogReporter{Logger: l}
}

// Report implements Reporter.
func (r *LogReporter) Report(d Diagnostic) {
	switch d.Level {
	case LevelWarning:
		r.Logger.Printf("Warning: %s", d.Message)
	default:
		if !r.Quiet {
			r.Logger.Print(d.Message)
		}
	}
}

// Recorder keeps every diagnostic it receives. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	records []Diagnostic
}

// Report implements Reporter.
func (r *Recorder) Report(d Diagnostic) {
	r.mu.Lock()
	r.records = append(r.records, d)
	r.mu.Unlock()
}

// Records returns a copy of everything recorded so far.
func (r *Recorder) Records() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Diagnostic(nil), r.records...)
}

// Warnings returns the recorded diagnostics at LevelWarning.
func (r *Recorder) Warnings() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Diagnostic
	for _, d := range r.records {
		if d.Level == LevelWarning {
			out = append(out, d)
		}
	}
	return out
}
