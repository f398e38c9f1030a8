// Package syntax models a resolved Dart compilation unit: the expression
// nodes a lint rule inspects, their source ranges and their static types.
package syntax

import "github.com/gnolang/dlint/internal/typesys"

// Node is a syntax tree node anchored to a byte range of the unit source.
type Node interface {
	Offset() int
	Length() int
	End() int
}

// Expression is a node that has a static type. StaticType returns nil when
// the host analyzer could not resolve one.
type Expression interface {
	Node
	StaticType() typesys.Type
}

// Range is the byte range shared by all nodes.
type Range struct {
	Start int
	Len   int
}

func (r Range) Offset() int { return r.Start }
func (r Range) Length() int { return r.Len }
func (r Range) End() int    { return r.Start + r.Len }

// SimpleExpression is any expression the rules do not look into:
// identifiers, literals, property accesses, calls.
type SimpleExpression struct {
	Range
	Type typesys.Type
}

func (e *SimpleExpression) StaticType() typesys.Type { return e.Type }

// NamedType is a type written in source, such as the right operand of
// `is` or a type argument.
type NamedType struct {
	Range
	Type typesys.Type
}

// IsExpression is `Expression is Type`, or `Expression is! Type` when Not
// is set.
type IsExpression struct {
	Range
	Expression Expression
	Type       *NamedType
	Not        bool
}

// StaticType is always bool; the rules never ask for it.
func (e *IsExpression) StaticType() typesys.Type {
	return typesys.CoreLibrary().Class("bool").Instantiate(nil, typesys.NonNullable)
}

// Operator returns the written operator, `is` or `is!`.
func (e *IsExpression) Operator() string {
	if e.Not {
		return "is!"
	}
	return "is"
}

// MethodInvocation is `Target.MethodName<TypeArguments>(Arguments)`.
//
// Target is nil for an invocation written as a cascade section; RealTarget
// then reports the cascade's target.
type MethodInvocation struct {
	Range
	Target        Expression
	MethodName    string
	TypeArguments []*NamedType
	Arguments     []Expression
	Type          typesys.Type

	cascade *CascadeExpression
}

func (e *MethodInvocation) StaticType() typesys.Type { return e.Type }

// RealTarget returns the receiver the method is actually invoked on.
func (e *MethodInvocation) RealTarget() Expression {
	if e.Target != nil {
		return e.Target
	}
	if e.cascade != nil {
		return e.cascade.Target
	}
	return nil
}

// CascadeExpression is `Target..section..section`.
type CascadeExpression struct {
	Range
	Target   Expression
	Sections []Expression
}

// StaticType of a cascade is the type of its target.
func (e *CascadeExpression) StaticType() typesys.Type {
	if e.Target == nil {
		return nil
	}
	return e.Target.StaticType()
}

// FunctionExpression is a closure literal; Body lists the expressions of
// its body in source order.
type FunctionExpression struct {
	Range
	Body []Expression
	Type typesys.Type
}

func (e *FunctionExpression) StaticType() typesys.Type { return e.Type }

// NewCascade links sections back to the cascade so RealTarget works.
func NewCascade(r Range, target Expression, sections []Expression) *CascadeExpression {
	c := &CascadeExpression{Range: r, Target: target, Sections: sections}
	for _, s := range sections {
		if mi, ok := s.(*MethodInvocation); ok && mi.Target == nil {
			mi.cascade = c
		}
	}
	return c
}
