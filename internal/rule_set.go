package internal

import (
	"github.com/gnolang/dlint/internal/lints"
	"github.com/gnolang/dlint/internal/syntax"
	tt "github.com/gnolang/dlint/internal/types"
)

/*
* Implement each lint rule as a separate struct
 */

// LintRule defines the interface for all lint rules.
type LintRule interface {
	// Register subscribes the rule's node callbacks for one traversal of
	// unit. Issues are sent to report.
	Register(reg *syntax.Registry, unit *syntax.Unit, report tt.Reporter)

	// Name returns the name of the lint rule.
	Name() string

	// Severity returns the severity of the lint rule.
	Severity() tt.Severity

	// SetSeverity sets the severity of the lint rule.
	SetSeverity(tt.Severity)
}

type UnnecessaryTypeAssertionsRule struct {
	severity tt.Severity
}

func NewUnnecessaryTypeAssertionsRule() LintRule {
	return &UnnecessaryTypeAssertionsRule{
		severity: tt.SeverityWarning,
	}
}

func (r *UnnecessaryTypeAssertionsRule) Register(reg *syntax.Registry, unit *syntax.Unit, report tt.Reporter) {
	lints.RegisterUnnecessaryTypeAssertions(reg, unit, report)
}

func (r *UnnecessaryTypeAssertionsRule) Name() string {
	return lints.UnnecessaryTypeAssertionsRule
}

func (r *UnnecessaryTypeAssertionsRule) Severity() tt.Severity {
	return r.severity
}

func (r *UnnecessaryTypeAssertionsRule) SetSeverity(severity tt.Severity) {
	r.severity = severity
}
