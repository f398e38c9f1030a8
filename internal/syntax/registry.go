package syntax

type (
	IsExpressionFunc     func(*IsExpression)
	MethodInvocationFunc func(*MethodInvocation)
)

// Registry holds the per-node-kind callbacks of the enabled rules for one
// traversal.
type Registry struct {
	isExpressions     []IsExpressionFunc
	methodInvocations []MethodInvocationFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// AddIsExpression subscribes fn to every `is` and `is!` expression.
func (r *Registry) AddIsExpression(fn IsExpressionFunc) {
	r.isExpressions = append(r.isExpressions, fn)
}

// AddMethodInvocation subscribes fn to every method invocation, cascaded
// or not.
func (r *Registry) AddMethodInvocation(fn MethodInvocationFunc) {
	r.methodInvocations = append(r.methodInvocations, fn)
}

// Walk visits every node of u once, depth-first in source order, and
// invokes the callbacks subscribed to its kind.
func (r *Registry) Walk(u *Unit) {
	for _, n := range u.Nodes {
		r.visit(n)
	}
}

func (r *Registry) visit(e Expression) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *IsExpression:
		for _, fn := range r.isExpressions {
			fn(n)
		}
		r.visit(n.Expression)
	case *MethodInvocation:
		for _, fn := range r.methodInvocations {
			fn(n)
		}
		r.visit(n.Target)
		for _, arg := range n.Arguments {
			r.visit(arg)
		}
	case *CascadeExpression:
		r.visit(n.Target)
		for _, s := range n.Sections {
			r.visit(s)
		}
	case *FunctionExpression:
		for _, b := range n.Body {
			r.visit(b)
		}
	}
}
