package goricci

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/njchilds90/goricci/symbolic"
)

// ============================================================
// Commutation policy
// ============================================================

// CommutationPolicy records which commutation groups may be reordered past
// each other when a product is put in canonical order.
type CommutationPolicy struct {
	pairs map[[2]CommGroup]bool
}

func NewCommutationPolicy() *CommutationPolicy {
	return &CommutationPolicy{pairs: map[[2]CommGroup]bool{}}
}

// DefaultCommutation lets general and metric tensors commute with each other
// and themselves; partial derivatives commute only with themselves.
func DefaultCommutation() *CommutationPolicy {
	p := NewCommutationPolicy()
	p.Set(CommGeneral, CommGeneral, true)
	p.Set(CommGeneral, CommMetric, true)
	p.Set(CommMetric, CommMetric, true)
	p.Set(CommPartial, CommPartial, true)
	return p
}

func (p *CommutationPolicy) Set(a, b CommGroup, commute bool) {
	p.pairs[[2]CommGroup{a, b}] = commute
	p.pairs[[2]CommGroup{b, a}] = commute
}

func (p *CommutationPolicy) Commutes(a, b CommGroup) bool { return p.pairs[[2]CommGroup{a, b}] }

// ============================================================
// Algebra
// ============================================================

// Algebra combines expression nodes and evaluates them. It holds the
// commutation policy, the element simplifier applied to evaluated arrays and
// a logger.
type Algebra struct {
	comm     *CommutationPolicy
	simplify func(symbolic.Expr) symbolic.Expr
	logger   *slog.Logger
}

type Option func(*Algebra)

func WithCommutation(p *CommutationPolicy) Option {
	return func(a *Algebra) { a.comm = p }
}

// WithSimplifier replaces the element simplifier (default
// symbolic.Canonicalize).
func WithSimplifier(fn func(symbolic.Expr) symbolic.Expr) Option {
	return func(a *Algebra) { a.simplify = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Algebra) { a.logger = l }
}

func NewAlgebra(opts ...Option) *Algebra {
	a := &Algebra{
		comm:     DefaultCommutation(),
		simplify: symbolic.Canonicalize,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ============================================================
// Combination
// ============================================================

// Mul combines two nodes. Operators on the left act on the right operand;
// anything multiplied into a covariant derivative from the left accumulates
// into its left factor; everything else forms a product.
func (al *Algebra) Mul(a, b Node) (Node, error) {
	switch op := a.(type) {
	case *CovariantDerivative:
		if isOperator(b) {
			return nil, fmt.Errorf("%w: %s applied to %s", ErrOperatorOperand, a, b)
		}
		return al.applyCovariant(op, b)
	case *IndexedPartial:
		if isOperator(b) {
			return nil, fmt.Errorf("%w: %s applied to %s", ErrOperatorOperand, a, b)
		}
		return al.applyPartial(op, b)
	}
	switch op := b.(type) {
	case *CovariantDerivative:
		left, err := al.Mul(a, op.left)
		if err != nil {
			return nil, err
		}
		return &CovariantDerivative{metric: op.metric, index: op.index, left: left}, nil
	case *IndexedPartial:
		return nil, fmt.Errorf("%w: %s as right factor of %s", ErrOperatorOperand, b, a)
	}
	return al.product(a, b)
}

// Product folds Mul over nodes from the left.
func (al *Algebra) Product(nodes ...Node) (Node, error) {
	if len(nodes) == 0 {
		return ScalarOf(symbolic.N(1)), nil
	}
	acc := nodes[0]
	for _, n := range nodes[1:] {
		var err error
		if acc, err = al.Mul(acc, n); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (al *Algebra) Scale(coeff symbolic.Expr, n Node) (Node, error) {
	return al.Mul(ScalarOf(coeff), n)
}

func (al *Algebra) Neg(n Node) (Node, error) { return al.Scale(symbolic.N(-1), n) }

func (al *Algebra) Sub(a, b Node) (Node, error) {
	nb, err := al.Neg(b)
	if err != nil {
		return nil, err
	}
	return al.Add(a, nb)
}

func (al *Algebra) product(a, b Node) (Node, error) {
	if s, ok := a.(*Sum); ok {
		return al.distribute(s, b, true)
	}
	if s, ok := b.(*Sum); ok {
		return al.distribute(s, a, false)
	}

	a, b, err := al.separateDummies(a, b)
	if err != nil {
		return nil, err
	}
	ca, fa := splitProduct(a)
	cb, fb := splitProduct(b)
	factors := append(append([]Node(nil), fa...), fb...)
	p := &Product{coeff: symbolic.MulOf(ca, cb), factors: factors}
	if err := checkIndices(p.occurrences()); err != nil {
		return nil, fmt.Errorf("%s * %s: %w", a, b, err)
	}
	al.sortFactors(p.factors)
	return normalizeProduct(p), nil
}

// distribute multiplies every term of s by other, keeping operand order.
func (al *Algebra) distribute(s *Sum, other Node, sumFirst bool) (Node, error) {
	order := func(t Node) (Node, Node) {
		if sumFirst {
			return t, other
		}
		return other, t
	}
	if len(s.terms) == 0 {
		l, r := order(s)
		idxs := append(FreeIndices(l), FreeIndices(r)...)
		if err := checkIndices(idxs); err != nil {
			return nil, err
		}
		return zeroOf(freeOf(idxs)), nil
	}
	terms := make([]Node, len(s.terms))
	for i, t := range s.terms {
		l, r := order(t)
		prod, err := al.Mul(l, r)
		if err != nil {
			return nil, err
		}
		terms[i] = prod
	}
	return al.Add(terms...)
}

// separateDummies renames contracted labels so that no label bound inside
// one operand appears in the other.
func (al *Algebra) separateDummies(a, b Node) (Node, Node, error) {
	used := map[string]bool{}
	usedNames(a, used)
	usedNames(b, used)
	usedA := map[string]bool{}
	usedNames(a, usedA)
	var err error
	for _, name := range sortedNames(boundLabels(b)) {
		if !usedA[name] {
			continue
		}
		if b, err = al.renameLabel(b, name, freshName(name, used)); err != nil {
			return nil, nil, err
		}
	}
	usedB := map[string]bool{}
	usedNames(b, usedB)
	for _, name := range sortedNames(boundLabels(a)) {
		if !usedB[name] {
			continue
		}
		if a, err = al.renameLabel(a, name, freshName(name, used)); err != nil {
			return nil, nil, err
		}
	}
	return a, b, nil
}

func (al *Algebra) renameLabel(n Node, from, to string) (Node, error) {
	var metric *Metric
	findMetric(n, from, &metric)
	return al.SubstituteIndex(n, NewIndex(from, metric, true), NewIndex(to, metric, true))
}

func findMetric(n Node, name string, out **Metric) {
	switch v := n.(type) {
	case *Sum:
		for _, t := range v.terms {
			findMetric(t, name, out)
		}
	case *Product:
		for _, f := range v.factors {
			findMetric(f, name, out)
		}
	case *Derivative:
		findMetric(v.op, name, out)
		findMetric(v.operand, name, out)
	case *CovariantDerivative:
		findMetric(v.left, name, out)
	}
	if *out != nil {
		return
	}
	for _, idx := range n.occurrences() {
		if idx.name == name {
			*out = idx.metric
			return
		}
	}
}

// splitProduct returns the coefficient and factor list of a non-sum node.
func splitProduct(n Node) (symbolic.Expr, []Node) {
	switch v := n.(type) {
	case *Scalar:
		return v.value, nil
	case *Product:
		return v.coeff, v.factors
	}
	return symbolic.N(1), []Node{n}
}

func normalizeProduct(p *Product) Node {
	if symbolic.IsZero(p.coeff) {
		return zeroOf(freeOf(p.occurrences()))
	}
	if len(p.factors) == 0 {
		return ScalarOf(p.coeff)
	}
	if n, ok := p.coeff.(*symbolic.Num); ok && n.IsOne() && len(p.factors) == 1 {
		return p.factors[0]
	}
	return p
}

func commGroup(n Node) CommGroup {
	if it, ok := n.(*IndexedTensor); ok {
		return it.head.comm
	}
	return CommGeneral
}

// sortFactors orders factors by their string form, swapping neighbours only
// when the policy lets their groups commute.
func (al *Algebra) sortFactors(factors []Node) {
	keys := make([]string, len(factors))
	for i, f := range factors {
		keys[i] = f.String()
	}
	for i := 1; i < len(factors); i++ {
		for j := i; j > 0; j-- {
			if keys[j-1] <= keys[j] || !al.comm.Commutes(commGroup(factors[j-1]), commGroup(factors[j])) {
				break
			}
			factors[j-1], factors[j] = factors[j], factors[j-1]
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
}

// ============================================================
// Sums
// ============================================================

// Add sums nodes with identical free indices and collects like terms.
func (al *Algebra) Add(nodes ...Node) (Node, error) {
	var free []Index
	haveFree := false
	var flat []Node
	for _, n := range nodes {
		if isOperator(n) {
			return nil, fmt.Errorf("%w: %s in a sum", ErrOperatorOperand, n)
		}
		nf := FreeIndices(n)
		if !haveFree {
			free, haveFree = nf, true
		} else if !sameFree(free, nf) {
			return nil, fmt.Errorf("%w: %v and %v", ErrFreeIndices, indexStrings(free), indexStrings(nf))
		}
		if s, ok := n.(*Sum); ok {
			flat = append(flat, s.terms...)
		} else {
			flat = append(flat, n)
		}
	}
	return al.collect(free, flat), nil
}

func (al *Algebra) collect(free []Index, terms []Node) Node {
	scalar := symbolic.Expr(symbolic.N(0))
	hasScalar := false
	coeffs := map[string][]symbolic.Expr{}
	bases := map[string]Node{}
	var order []string
	for len(terms) > 0 {
		t := terms[0]
		terms = terms[1:]
		if s, ok := t.(*Sum); ok {
			terms = append(append([]Node(nil), s.terms...), terms...)
			continue
		}
		var coeff symbolic.Expr
		var base Node
		var key string
		switch v := t.(type) {
		case *Scalar:
			scalar = symbolic.AddOf(scalar, v.value)
			hasScalar = true
			continue
		case *Product:
			coeff = v.coeff
			base = &Product{coeff: symbolic.N(1), factors: v.factors}
			key = v.baseKey()
		default:
			coeff, base, key = symbolic.N(1), t, nodeKey(t)
		}
		if _, seen := bases[key]; !seen {
			bases[key] = base
			order = append(order, key)
		}
		coeffs[key] = append(coeffs[key], coeff)
	}

	var out []Node
	for _, key := range order {
		c := symbolic.AddOf(coeffs[key]...)
		if symbolic.IsZero(c) {
			continue
		}
		p := bases[key]
		if bp, ok := p.(*Product); ok {
			out = append(out, normalizeProduct(&Product{coeff: c, factors: bp.factors}))
		} else {
			out = append(out, normalizeProduct(&Product{coeff: c, factors: []Node{p}}))
		}
	}
	if hasScalar && !symbolic.IsZero(scalar) {
		out = append(out, ScalarOf(scalar))
	}
	switch len(out) {
	case 0:
		return zeroOf(free)
	case 1:
		return out[0]
	}
	return &Sum{terms: out, free: free}
}

// ============================================================
// Index substitution
// ============================================================

// SubstituteIndex replaces every occurrence of from with to, and of -from
// with -to, rebuilding the expression so canonical order is restored.
func (al *Algebra) SubstituteIndex(n Node, from, to Index) (Node, error) {
	swap := func(idx Index) Index {
		switch {
		case idx.Equal(from):
			return to
		case idx.Equal(from.Neg()):
			return to.Neg()
		}
		return idx
	}
	switch v := n.(type) {
	case *Scalar:
		return v, nil
	case *IndexedTensor:
		idxs := make([]Index, len(v.indices))
		for i, idx := range v.indices {
			idxs[i] = swap(idx)
		}
		return v.head.Call(idxs...)
	case *Product:
		nodes := []Node{ScalarOf(v.coeff)}
		for _, f := range v.factors {
			nf, err := al.SubstituteIndex(f, from, to)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, nf)
		}
		return al.Product(nodes...)
	case *Sum:
		free := make([]Index, len(v.free))
		for i, idx := range v.free {
			free[i] = swap(idx)
		}
		terms := make([]Node, len(v.terms))
		for i, t := range v.terms {
			nt, err := al.SubstituteIndex(t, from, to)
			if err != nil {
				return nil, err
			}
			terms[i] = nt
		}
		return al.collect(free, terms), nil
	case *IndexedPartial:
		return v.head.Call(swap(v.index))
	case *Derivative:
		op, err := v.op.head.Call(swap(v.op.index))
		if err != nil {
			return nil, err
		}
		operand, err := al.SubstituteIndex(v.operand, from, to)
		if err != nil {
			return nil, err
		}
		return al.Mul(op, operand)
	case *CovariantDerivative:
		left, err := al.SubstituteIndex(v.left, from, to)
		if err != nil {
			return nil, err
		}
		return &CovariantDerivative{metric: v.metric, index: swap(v.index), left: left}, nil
	}
	return nil, fmt.Errorf("goricci: cannot substitute indices in %T", n)
}
