package mesher

import "fmt"

// Severity indicates whether a finding aborted a unit of work or is
// advisory.
type Severity int

const (
	SeverityWarning Severity = iota // recoverable, work continued
	SeverityError                   // unit of work aborted
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Code identifies the class of a diagnostic finding.
type Code int

const (
	CodeDegenerateShape Code = iota // triangulation produced too little geometry; shape skipped
	CodeNonManifold                 // mesh kept, but it is not a closed oriented surface
	CodeColorAmbiguity              // multiple colors on one imported mesh; first one used
)

func (c Code) String() string {
	switch c {
	case CodeDegenerateShape:
		return "degenerate-shape"
	case CodeNonManifold:
		return "non-manifold"
	case CodeColorAmbiguity:
		return "color-ambiguity"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// Diagnostic is one recoverable finding reported by the engine. Fatal
// conditions are returned as errors instead.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Shape    string // label of the shape or mesh concerned, if any
	Message  string
}

func (d Diagnostic) String() string {
	if d.Shape == "" {
		return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("[%s] %s: shape %q: %s", d.Severity, d.Code, d.Shape, d.Message)
}
