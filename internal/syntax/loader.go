package syntax

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/dlint/internal/typesys"
)

// UnitExt is the file suffix of resolved unit documents.
const UnitExt = ".unit.yaml"

var (
	ErrUnknownKind = errors.New("unknown node kind")
	ErrBadRange    = errors.New("node range outside of source")
	ErrMissingNode = errors.New("missing required node")
)

// UnitDocument is the on-disk form of a resolved unit produced by the host
// analyzer.
type UnitDocument struct {
	// File is the analyzed source path, relative to the document.
	File           string                      `yaml:"file"`
	Classes        []typesys.ClassDecl         `yaml:"classes,omitempty"`
	TypeParameters []typesys.TypeParameterDecl `yaml:"typeParameters,omitempty"`
	Nodes          []NodeDocument              `yaml:"nodes"`
}

// NodeDocument is one expression node. Which fields are meaningful depends
// on Kind.
type NodeDocument struct {
	Kind   string `yaml:"kind"`
	Offset int    `yaml:"offset"`
	Length int    `yaml:"length"`
	// Type is the static type of the expression, or the written type for
	// type annotations.
	Type string `yaml:"type,omitempty"`

	// is
	Expression *NodeDocument `yaml:"expression,omitempty"`
	TypeName   *NodeDocument `yaml:"typeName,omitempty"`
	Not        bool          `yaml:"not,omitempty"`

	// methodInvocation
	Target        *NodeDocument  `yaml:"target,omitempty"`
	MethodName    string         `yaml:"methodName,omitempty"`
	TypeArguments []NodeDocument `yaml:"typeArguments,omitempty"`
	Arguments     []NodeDocument `yaml:"arguments,omitempty"`

	// cascade
	Sections []NodeDocument `yaml:"sections,omitempty"`

	// function
	Body []NodeDocument `yaml:"body,omitempty"`
}

const (
	KindExpression       = "expression"
	KindIs               = "is"
	KindMethodInvocation = "methodInvocation"
	KindCascade          = "cascade"
	KindFunction         = "function"
)

// LoadUnit reads a unit document and the source file it points to.
func LoadUnit(path string) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read unit: %w", err)
	}

	var doc UnitDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode unit %s: %w", path, err)
	}
	if doc.File == "" {
		return nil, fmt.Errorf("unit %s: %w: file", path, ErrMissingNode)
	}

	sourcePath := doc.File
	if !filepath.IsAbs(sourcePath) {
		sourcePath = filepath.Join(filepath.Dir(path), sourcePath)
	}
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read source of unit %s: %w", path, err)
	}

	unit, err := BuildUnit(sourcePath, source, &doc)
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", path, err)
	}
	return unit, nil
}

// SourcePath returns the source file a unit document points to without
// resolving it.
func SourcePath(unitPath string) (string, error) {
	data, err := os.ReadFile(unitPath)
	if err != nil {
		return "", err
	}
	var doc struct {
		File string `yaml:"file"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", err
	}
	if filepath.IsAbs(doc.File) {
		return doc.File, nil
	}
	return filepath.Join(filepath.Dir(unitPath), doc.File), nil
}

// BuildUnit resolves doc against source.
func BuildUnit(path string, source []byte, doc *UnitDocument) (*Unit, error) {
	lib := typesys.NewLibrary()
	if err := lib.Declare(doc.Classes); err != nil {
		return nil, err
	}

	params := make([]*typesys.TypeParameterElement, len(doc.TypeParameters))
	for i, p := range doc.TypeParameters {
		params[i] = &typesys.TypeParameterElement{Name: p.Name}
	}
	scope := typesys.NewScope(lib, params)
	for i, p := range doc.TypeParameters {
		if p.Bound == "" {
			continue
		}
		bound, err := scope.ParseType(p.Bound)
		if err != nil {
			return nil, fmt.Errorf("bound of %s: %w", p.Name, err)
		}
		params[i].Bound = bound
	}

	b := &builder{scope: scope, size: len(source)}
	nodes := make([]Expression, 0, len(doc.Nodes))
	for i := range doc.Nodes {
		n, err := b.expression(&doc.Nodes[i])
		if err != nil {
			return nil, fmt.Errorf("node #%d: %w", i, err)
		}
		nodes = append(nodes, n)
	}
	return NewUnit(path, source, nodes), nil
}

type builder struct {
	scope *typesys.Scope
	size  int
}

func (b *builder) rangeOf(d *NodeDocument) (Range, error) {
	if d.Offset < 0 || d.Length < 0 || d.Offset+d.Length > b.size {
		return Range{}, fmt.Errorf("%w: [%d, %d) of %d bytes", ErrBadRange, d.Offset, d.Offset+d.Length, b.size)
	}
	return Range{Start: d.Offset, Len: d.Length}, nil
}

// staticType resolves an optional type; an empty type means unresolved.
func (b *builder) staticType(src string) (typesys.Type, error) {
	if src == "" {
		return nil, nil
	}
	return b.scope.ParseType(src)
}

func (b *builder) namedType(d *NodeDocument) (*NamedType, error) {
	r, err := b.rangeOf(d)
	if err != nil {
		return nil, err
	}
	t, err := b.staticType(d.Type)
	if err != nil {
		return nil, err
	}
	return &NamedType{Range: r, Type: t}, nil
}

func (b *builder) expressions(docs []NodeDocument) ([]Expression, error) {
	out := make([]Expression, 0, len(docs))
	for i := range docs {
		e, err := b.expression(&docs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (b *builder) expression(d *NodeDocument) (Expression, error) {
	r, err := b.rangeOf(d)
	if err != nil {
		return nil, err
	}

	switch d.Kind {
	case KindExpression, "":
		t, err := b.staticType(d.Type)
		if err != nil {
			return nil, err
		}
		return &SimpleExpression{Range: r, Type: t}, nil

	case KindIs:
		if d.Expression == nil || d.TypeName == nil {
			return nil, fmt.Errorf("%w: is needs expression and typeName", ErrMissingNode)
		}
		operand, err := b.expression(d.Expression)
		if err != nil {
			return nil, err
		}
		typeName, err := b.namedType(d.TypeName)
		if err != nil {
			return nil, err
		}
		return &IsExpression{Range: r, Expression: operand, Type: typeName, Not: d.Not}, nil

	case KindMethodInvocation:
		if d.MethodName == "" {
			return nil, fmt.Errorf("%w: methodName", ErrMissingNode)
		}
		mi := &MethodInvocation{Range: r, MethodName: d.MethodName}
		if d.Target != nil {
			if mi.Target, err = b.expression(d.Target); err != nil {
				return nil, err
			}
		}
		for i := range d.TypeArguments {
			nt, err := b.namedType(&d.TypeArguments[i])
			if err != nil {
				return nil, err
			}
			mi.TypeArguments = append(mi.TypeArguments, nt)
		}
		if mi.Arguments, err = b.expressions(d.Arguments); err != nil {
			return nil, err
		}
		if mi.Type, err = b.staticType(d.Type); err != nil {
			return nil, err
		}
		return mi, nil

	case KindCascade:
		if d.Target == nil {
			return nil, fmt.Errorf("%w: cascade target", ErrMissingNode)
		}
		target, err := b.expression(d.Target)
		if err != nil {
			return nil, err
		}
		sections, err := b.expressions(d.Sections)
		if err != nil {
			return nil, err
		}
		return NewCascade(r, target, sections), nil

	case KindFunction:
		body, err := b.expressions(d.Body)
		if err != nil {
			return nil, err
		}
		t, err := b.staticType(d.Type)
		if err != nil {
			return nil, err
		}
		return &FunctionExpression{Range: r, Body: body, Type: t}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, d.Kind)
}
