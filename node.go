package goricci

import (
	"strings"

	"github.com/njchilds90/goricci/symbolic"
)

// ============================================================
// Expression nodes
// ============================================================

// Node is a tensor expression. The concrete variants are *Scalar,
// *IndexedTensor, *Product, *Sum, *IndexedPartial, *Derivative and
// *CovariantDerivative; Algebra combines them.
type Node interface {
	String() string
	// occurrences lists the index occurrences visible at this level.
	occurrences() []Index
	node()
}

// FreeIndices returns the labels of n that occur exactly once, in order of
// appearance.
func FreeIndices(n Node) []Index {
	if s, ok := n.(*Sum); ok {
		return append([]Index(nil), s.free...)
	}
	return freeOf(n.occurrences())
}

// Scalar is an index-free symbolic value.
type Scalar struct{ value symbolic.Expr }

func ScalarOf(e symbolic.Expr) *Scalar { return &Scalar{value: e.Simplify()} }

func (s *Scalar) Value() symbolic.Expr { return s.value }
func (s *Scalar) String() string       { return s.value.String() }
func (s *Scalar) occurrences() []Index { return nil }
func (s *Scalar) node()                {}

// IndexedTensor is a head applied to indices. array is the head's data with
// every axis transformed to the covariance of its index.
type IndexedTensor struct {
	head    *Tensor
	indices []Index
	array   *symbolic.Array
}

func newIndexed(head *Tensor, indices []Index) (*IndexedTensor, error) {
	arr, err := head.CovarianceTransform(indices...)
	if err != nil {
		return nil, err
	}
	return &IndexedTensor{head: head, indices: indices, array: arr}, nil
}

func (it *IndexedTensor) Head() *Tensor            { return it.head }
func (it *IndexedTensor) Indices() []Index         { return append([]Index(nil), it.indices...) }
func (it *IndexedTensor) AsArray() *symbolic.Array { return it.array.Copy() }
func (it *IndexedTensor) occurrences() []Index     { return it.indices }
func (it *IndexedTensor) node()                    {}

func (it *IndexedTensor) AsMatrix() (*symbolic.Matrix, error) {
	if it.array.Rank() != 2 {
		return nil, ErrRank
	}
	return it.array.ToMatrix()
}

func (it *IndexedTensor) String() string {
	if len(it.indices) == 0 {
		return it.head.symbol
	}
	return it.head.symbol + "(" + strings.Join(indexStrings(it.indices), ",") + ")"
}

// LaTeX renders upper indices as superscripts and lower ones as subscripts,
// keeping slot order with empty groups.
func (it *IndexedTensor) LaTeX() string {
	var sb strings.Builder
	sb.WriteString(it.head.symbol)
	for _, idx := range it.indices {
		if idx.up {
			sb.WriteString("^{" + idx.LaTeX() + "}")
		} else {
			sb.WriteString("_{" + idx.LaTeX() + "}")
		}
		sb.WriteString("{}")
	}
	return strings.TrimSuffix(sb.String(), "{}")
}

// Product is coeff times an ordered list of factors. Factors are
// *IndexedTensor or *Derivative values.
type Product struct {
	coeff   symbolic.Expr
	factors []Node
}

func (p *Product) Coeff() symbolic.Expr { return p.coeff }
func (p *Product) Factors() []Node      { return append([]Node(nil), p.factors...) }
func (p *Product) node()                {}

func (p *Product) occurrences() []Index {
	var out []Index
	for _, f := range p.factors {
		out = append(out, f.occurrences()...)
	}
	return out
}

func (p *Product) String() string {
	parts := make([]string, 0, len(p.factors)+1)
	if n, ok := p.coeff.(*symbolic.Num); !ok || !n.IsOne() {
		c := p.coeff.String()
		if _, isAdd := p.coeff.(*symbolic.Add); isAdd {
			c = "(" + c + ")"
		}
		parts = append(parts, c)
	}
	for _, f := range p.factors {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, "*")
}

// baseKey identifies the product without its coefficient; like terms share
// it. Heads are keyed by ID so distinct tensors with one symbol stay apart.
func (p *Product) baseKey() string {
	parts := make([]string, len(p.factors))
	for i, f := range p.factors {
		parts[i] = nodeKey(f)
	}
	return strings.Join(parts, "*")
}

func nodeKey(n Node) string {
	switch v := n.(type) {
	case *IndexedTensor:
		return v.head.ID().String() + "(" + strings.Join(indexStrings(v.indices), ",") + ")"
	case *IndexedPartial:
		return v.head.ID().String() + "(" + v.index.String() + ")"
	case *Derivative:
		return nodeKey(v.op) + "[" + nodeKey(v.operand) + "]"
	case *Product:
		return v.coeff.String() + "*" + v.baseKey()
	}
	return n.String()
}

// Sum is a list of terms sharing one set of free indices. A Sum with no
// terms is a zero tensor that still carries its free indices.
type Sum struct {
	terms []Node
	free  []Index
}

func (s *Sum) Terms() []Node        { return append([]Node(nil), s.terms...) }
func (s *Sum) occurrences() []Index { return s.free }
func (s *Sum) node()                {}

func (s *Sum) String() string {
	if len(s.terms) == 0 {
		return "0"
	}
	parts := make([]string, len(s.terms))
	for i, t := range s.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}

func zeroOf(free []Index) Node {
	if len(free) == 0 {
		return ScalarOf(symbolic.N(0))
	}
	return &Sum{free: free}
}

// IndexedPartial is ∂ applied to one lower index; multiplying it into an
// expression differentiates that expression.
type IndexedPartial struct {
	head  *PartialDerivative
	index Index
}

func (ip *IndexedPartial) Head() *Tensor        { return ip.head.Tensor }
func (ip *IndexedPartial) Index() Index         { return ip.index }
func (ip *IndexedPartial) String() string       { return ip.head.symbol + "(" + ip.index.String() + ")" }
func (ip *IndexedPartial) occurrences() []Index { return []Index{ip.index} }
func (ip *IndexedPartial) node()                {}

// Derivative is the partial derivative of operand along op's index. The
// operand is never a product or a sum; those are expanded first.
type Derivative struct {
	op      *IndexedPartial
	operand Node
}

func (d *Derivative) Op() *IndexedPartial { return d.op }
func (d *Derivative) Operand() Node       { return d.operand }
func (d *Derivative) Head() *Tensor       { return d.op.Head() }
func (d *Derivative) String() string      { return d.op.String() + "[" + d.operand.String() + "]" }
func (d *Derivative) node()               {}

func (d *Derivative) occurrences() []Index {
	return append([]Index{d.op.index}, d.operand.occurrences()...)
}

// CovariantDerivative is ∇ along index with an accumulated left factor.
// Multiplying it into an expression expands the partial derivative and the
// connection terms.
type CovariantDerivative struct {
	metric *Metric
	index  Index
	left   Node
}

func (cd *CovariantDerivative) Index() Index { return cd.index }
func (cd *CovariantDerivative) Left() Node   { return cd.left }
func (cd *CovariantDerivative) node()        {}

func (cd *CovariantDerivative) occurrences() []Index {
	return append(append([]Index(nil), cd.left.occurrences()...), cd.index)
}

func (cd *CovariantDerivative) String() string {
	op := "∇(" + cd.index.String() + ")"
	if s, ok := cd.left.(*Scalar); ok {
		if n, ok := s.value.(*symbolic.Num); ok && n.IsOne() {
			return op
		}
	}
	return cd.left.String() + "*" + op
}

func isOperator(n Node) bool {
	switch n.(type) {
	case *IndexedPartial, *CovariantDerivative:
		return true
	}
	return false
}

// usedNames collects every index name anywhere inside n.
func usedNames(n Node, out map[string]bool) {
	switch v := n.(type) {
	case *Sum:
		for _, idx := range v.free {
			out[idx.name] = true
		}
		for _, t := range v.terms {
			usedNames(t, out)
		}
	case *Product:
		for _, f := range v.factors {
			usedNames(f, out)
		}
	case *Derivative:
		out[v.op.index.name] = true
		usedNames(v.operand, out)
	case *CovariantDerivative:
		out[v.index.name] = true
		usedNames(v.left, out)
	default:
		for _, idx := range n.occurrences() {
			out[idx.name] = true
		}
	}
}

// boundLabels returns the labels used inside n that are not free in n.
func boundLabels(n Node) map[string]bool {
	used := map[string]bool{}
	usedNames(n, used)
	for _, idx := range FreeIndices(n) {
		delete(used, idx.name)
	}
	return used
}
