package types

import (
	"fmt"
	"go/token"
	"strings"
)

// Issue represents a lint issue found in the code base.
type Issue struct {
	Rule       string
	Category   string
	Filename   string
	Message    string
	Suggestion string
	Note       string
	Start      token.Position
	End        token.Position
	Severity   Severity
	Confidence float64 // 0.0 to 1.0
	// Fixable is set when Suggestion replaces the [Start, End) range.
	Fixable bool
}

// Diagnostic is what a rule reports for one node. The engine turns it into
// an Issue once it knows the unit's positions and the rule's configuration.
type Diagnostic struct {
	Rule     string
	Category string
	Message  string
	Offset   int
	Length   int
	// Replacement, when HasFix is set, is the source text that replaces
	// the reported range.
	Replacement string
	HasFix      bool
	Confidence  float64
}

// Reporter is the diagnostic sink handed to rules.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// Severity is the level a rule reports its issues at.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	case SeverityInfo:
		return "INFO"
	case SeverityOff:
		return "OFF"
	}
	return "UNKNOWN"
}

// ParseSeverity parses a severity name, case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, nil
	case "warning":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	case "off":
		return SeverityOff, nil
	}
	return SeverityError, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ConfigRule is the configuration of a single rule.
type ConfigRule struct {
	Severity Severity `yaml:"severity"`
	// Note is attached to every issue of the rule.
	Note string `yaml:"note,omitempty"`
}
