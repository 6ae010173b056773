package goricci

import (
	"fmt"

	"github.com/njchilds90/goricci/symbolic"
)

// ============================================================
// Covariant derivative
// ============================================================

// applyCovariant expands ∇(idx) acting on other into the partial derivative
// plus one connection term per free index of other:
//
//	∇_c T^a_b = ∂_c T^a_b + Γ^a_{cd} T^d_b - Γ^d_{cb} T^a_d
//
// An upper derivative index is handled by differentiating along a lower
// dummy and raising it with the metric.
func (al *Algebra) applyCovariant(cd *CovariantDerivative, other Node) (Node, error) {
	if err := checkIndices(other.occurrences()); err != nil {
		return nil, fmt.Errorf("∇(%s) of %s: %w", cd.index, other, err)
	}
	m := cd.metric
	gamma, err := m.Christoffel()
	if err != nil {
		return nil, err
	}

	used := map[string]bool{cd.index.name: true}
	usedNames(other, used)
	usedNames(cd.left, used)
	dum0 := NewIndex(dummyName(cd.index.name+"_0", used), m, true)
	dum1 := NewIndex(dummyName(cd.index.name+"_1", used), m, false)

	coidx := cd.index
	if cd.index.up {
		coidx = dum1
	}
	partial, err := m.Partial().Call(coidx)
	if err != nil {
		return nil, err
	}
	expr, err := al.Mul(partial, other)
	if err != nil {
		return nil, err
	}

	for _, j := range FreeIndices(other) {
		var conn, moved Node
		if j.up {
			if conn, err = gamma.Call(j, coidx, dum0.Neg()); err != nil {
				return nil, err
			}
			if moved, err = al.SubstituteIndex(other, j, dum0); err != nil {
				return nil, err
			}
		} else {
			if conn, err = gamma.Call(dum0, coidx, j); err != nil {
				return nil, err
			}
			if moved, err = al.SubstituteIndex(other, j, dum0.Neg()); err != nil {
				return nil, err
			}
		}
		term, err := al.Mul(conn, moved)
		if err != nil {
			return nil, err
		}
		if j.up {
			expr, err = al.Add(expr, term)
		} else {
			expr, err = al.Sub(expr, term)
		}
		if err != nil {
			return nil, err
		}
	}

	left := cd.left
	if cd.index.up {
		raise, err := m.Call(coidx.Neg(), cd.index)
		if err != nil {
			return nil, err
		}
		if left, err = al.Mul(left, raise); err != nil {
			return nil, err
		}
	}
	al.logger.Debug("covariant derivative", "index", cd.index.String(), "operand", other.String())
	return al.Mul(left, expr)
}

// dummyName returns base unless it is taken, then base plus a counter.
func dummyName(base string, used map[string]bool) string {
	if !used[base] {
		used[base] = true
		return base
	}
	return freshName(base+"_", used)
}

// Nabla returns the covariant derivative along idx with unit left factor.
func (m *Metric) Nabla(idx Index) *CovariantDerivative {
	return &CovariantDerivative{metric: m, index: idx, left: ScalarOf(symbolic.N(1))}
}
