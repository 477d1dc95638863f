// Package diag is the structured diagnostic sink the CFG builder reports
// into. It never formats user-facing text itself — that is the
// error-reporting sink's job, external to this core — it only records
// the kind, location, and interpolation data for each finding.
package diag

import "github.com/glint-lang/cfgbuild/ast"

// Kind names a diagnostic the builder can raise. These are semantic
// markers, not Go types.
type Kind int

const (
	UndeclaredVariable Kind = iota
	MalformedTAbsurd
	NoNextScope
	InternalError
)

func (k Kind) String() string {
	switch k {
	case UndeclaredVariable:
		return "UndeclaredVariable"
	case MalformedTAbsurd:
		return "MalformedTAbsurd"
	case NoNextScope:
		return "NoNextScope"
	case InternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// Diagnostic is one reported finding.
type Diagnostic struct {
	Kind Kind
	Loc  ast.Loc
	// Header is a short, already-interpolated message, kept separate
	// from Args so a sink can render either.
	Header string
	Args   []any
}

// Sink accepts diagnostics as the builder walks. A sink may suppress any
// diagnostic; Collector below never does, it just remembers them for the
// caller.
type Sink interface {
	Report(d Diagnostic)
}

// Collector is the default Sink: an in-memory slice, good enough for
// tests and for a CLI that prints everything it collects.
type Collector struct {
	Diagnostics []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}

func (c *Collector) HasKind(k Kind) bool {
	for _, d := range c.Diagnostics {
		if d.Kind == k {
			return true
		}
	}

	return false
}
