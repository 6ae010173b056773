package goricci

import (
	"fmt"

	"github.com/njchilds90/goricci/symbolic"
)

// ============================================================
// Partial derivatives
// ============================================================

// PartialDerivative is the ∂ head of a metric. Its array holds the
// coordinate symbols, one per direction of differentiation.
type PartialDerivative struct {
	*Tensor
}

func newPartial(m *Metric) (*PartialDerivative, error) {
	basis := make([]symbolic.Expr, len(m.coords))
	for i, c := range m.coords {
		basis[i] = c
	}
	t, err := NewTensor("∂", basis, m, WithCovar(-1), WithComm(CommPartial))
	if err != nil {
		return nil, err
	}
	return &PartialDerivative{Tensor: t}, nil
}

// Call applies ∂ to a lower index.
func (p *PartialDerivative) Call(idx Index) (*IndexedPartial, error) {
	if idx.up {
		return nil, fmt.Errorf("%w: ∂(%s)", ErrContravariantPartial, idx)
	}
	if idx.metric != p.metric {
		return nil, fmt.Errorf("%w: index %s does not belong to metric %s", ErrIndexStructure, idx.name, p.metric.symbolName())
	}
	return &IndexedPartial{head: p, index: idx}, nil
}

// applyPartial differentiates x along p. Sums distribute; products expand by
// the Leibniz rule, rotating the factor list one step per term so the
// relative order of the undifferentiated factors is kept.
func (al *Algebra) applyPartial(p *IndexedPartial, x Node) (Node, error) {
	x, err := al.separatePartial(p, x)
	if err != nil {
		return nil, err
	}
	switch v := x.(type) {
	case *Sum:
		if len(v.terms) == 0 {
			idxs := append([]Index{p.index}, v.free...)
			if err := checkIndices(idxs); err != nil {
				return nil, err
			}
			return zeroOf(freeOf(idxs)), nil
		}
		terms := make([]Node, len(v.terms))
		for i, t := range v.terms {
			d, err := al.applyPartial(p, t)
			if err != nil {
				return nil, err
			}
			terms[i] = d
		}
		return al.Add(terms...)

	case *Product:
		num, rest := splitNumeric(v.coeff)
		factors := append([]Node(nil), v.factors...)
		if !isNumber(rest, 1) {
			factors = append([]Node{ScalarOf(rest)}, factors...)
		}
		terms := make([]Node, 0, len(factors))
		for range factors {
			factors = append(factors[1:], factors[0])
			leib, niz := factors[0], factors[1:]
			d, err := al.applyPartial(p, leib)
			if err != nil {
				return nil, err
			}
			term, err := al.Product(append(append([]Node{ScalarOf(num)}, niz...), d)...)
			if err != nil {
				return nil, err
			}
			terms = append(terms, term)
		}
		return al.Add(terms...)

	case *Scalar:
		if _, ok := v.value.(*symbolic.Num); ok {
			return zeroOf([]Index{p.index}), nil
		}
	}

	d := &Derivative{op: p, operand: x}
	if err := checkIndices(d.occurrences()); err != nil {
		return nil, fmt.Errorf("%s: %w", d, err)
	}
	return d, nil
}

// separatePartial renames labels bound inside x that clash with the
// derivative index.
func (al *Algebra) separatePartial(p *IndexedPartial, x Node) (Node, error) {
	if !boundLabels(x)[p.index.name] {
		return x, nil
	}
	used := map[string]bool{p.index.name: true}
	usedNames(x, used)
	return al.renameLabel(x, p.index.name, freshName(p.index.name, used))
}

// splitNumeric separates the rational factor of a coefficient.
func splitNumeric(c symbolic.Expr) (*symbolic.Num, symbolic.Expr) {
	if n, ok := c.(*symbolic.Num); ok {
		return n, symbolic.N(1)
	}
	return symbolic.SplitCoefficient(c)
}

func isNumber(e symbolic.Expr, v int64) bool {
	n, ok := e.(*symbolic.Num)
	return ok && n.Equal(symbolic.N(v))
}
