package lints

import (
	"fmt"

	"github.com/gnolang/dlint/internal/syntax"
	tt "github.com/gnolang/dlint/internal/types"
	"github.com/gnolang/dlint/internal/typesys"
)

const (
	UnnecessaryTypeAssertionsRule = "avoid-unnecessary-type-assertions"

	whereTypeMethod       = "whereType"
	typeAssertionCategory = "type-assertion"

	isAssertionMessage     = `Avoid unnecessary "%s" assertion.`
	whereTypeAssertMessage = `Avoid unnecessary "whereType" assertion.`
)

// UnnecessaryTypeAssertions flags `is`, `is!` and `whereType` checks whose
// result is already fixed by the static types involved.
type UnnecessaryTypeAssertions struct {
	unit   *syntax.Unit
	report tt.Reporter
}

// RegisterUnnecessaryTypeAssertions subscribes the rule's probes to reg for
// one traversal of unit.
func RegisterUnnecessaryTypeAssertions(reg *syntax.Registry, unit *syntax.Unit, report tt.Reporter) {
	r := &UnnecessaryTypeAssertions{unit: unit, report: report}
	reg.AddIsExpression(r.visitIsExpression)
	reg.AddMethodInvocation(r.visitMethodInvocation)
}

func (r *UnnecessaryTypeAssertions) visitIsExpression(node *syntax.IsExpression) {
	var objectType, castedType typesys.Type
	if node.Expression != nil {
		objectType = node.Expression.StaticType()
	}
	if node.Type != nil {
		castedType = node.Type.Type
	}
	cast := TypeCast{Source: objectType, Target: castedType}

	if node.Not &&
		objectType != nil &&
		!typesys.IsTypeParameter(objectType) &&
		!typesys.IsDynamic(objectType) &&
		!typesys.IsDartCoreObject(objectType) {
		if cast.IsUnnecessaryTypeCheck(true) {
			d := r.isDiagnostic(node)
			if alwaysDisjoint(objectType, castedType) {
				setConstantFix(&d, "true")
			}
			r.report.Report(d)
		}
		return
	}

	if cast.IsUnnecessaryTypeCheck(false) {
		value := "true"
		if node.Not {
			value = "false"
		}
		d := r.isDiagnostic(node)
		setConstantFix(&d, value)
		r.report.Report(d)
	}
}

func (r *UnnecessaryTypeAssertions) isDiagnostic(node *syntax.IsExpression) tt.Diagnostic {
	return tt.Diagnostic{
		Rule:     UnnecessaryTypeAssertionsRule,
		Category: typeAssertionCategory,
		Message:  fmt.Sprintf(isAssertionMessage, node.Operator()),
		Offset:   node.Offset(),
		Length:   node.Length(),
	}
}

func setConstantFix(d *tt.Diagnostic, value string) {
	d.Replacement = value
	d.HasFix = true
	d.Confidence = 0.9 // the operand is dropped with its side effects
}

// alwaysDisjoint reports whether no value of static type source can ever
// be a target: source excludes null and target is not one of its subtypes.
// Only then does `is!` evaluate to true on every run.
func alwaysDisjoint(source, target typesys.Type) bool {
	if typesys.IsNullable(source) {
		return false
	}
	s, ok := source.(*typesys.InterfaceType)
	if !ok {
		return false
	}
	t, ok := target.(*typesys.InterfaceType)
	if !ok {
		return false
	}
	return typesys.AsInstanceOf(t, s.Element) == nil
}

func (r *UnnecessaryTypeAssertions) visitMethodInvocation(node *syntax.MethodInvocation) {
	if node.MethodName != whereTypeMethod {
		return
	}

	if node.Target == nil || !typesys.IsParameterized(node.Target.StaticType()) {
		return
	}
	targetType := node.Target.StaticType().(*typesys.InterfaceType)

	realTarget := node.RealTarget()
	if realTarget == nil || !typesys.IsIterable(realTarget.StaticType()) {
		return
	}

	if len(node.TypeArguments) != 1 {
		return
	}

	if len(targetType.TypeArguments) == 0 {
		return
	}
	cast := TypeCast{
		Source: targetType.TypeArguments[0],
		Target: node.TypeArguments[0].Type,
	}
	if !cast.IsUnnecessaryTypeCheck(false) {
		return
	}

	d := tt.Diagnostic{
		Rule:     UnnecessaryTypeAssertionsRule,
		Category: typeAssertionCategory,
		Message:  whereTypeAssertMessage,
		Offset:   node.Offset(),
		Length:   node.Length(),
	}
	if receiver := r.unit.Text(node.Target); receiver != "" && node.Target.Offset() == node.Offset() {
		d.Replacement = receiver
		d.HasFix = true
		// the result becomes the receiver itself instead of a lazy view
		d.Confidence = 0.8
	}
	r.report.Report(d)
}
