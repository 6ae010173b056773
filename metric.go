package goricci

import (
	"fmt"

	"github.com/njchilds90/goricci/symbolic"
)

// ============================================================
// Metric: symmetric rank-2 tensor with its connection
// ============================================================

// Metric is a lower-index symmetric tensor over a coordinate system. It owns
// the partial-derivative head of those coordinates and, once requested, the
// Christoffel symbols of the second kind.
type Metric struct {
	*Tensor
	name        string
	coords      []*symbolic.Sym
	partial     *PartialDerivative
	christoffel *Tensor
}

// NewMetric builds a metric from a square matrix-like value whose size
// matches the number of coordinates.
func NewMetric(symbol string, coords []*symbolic.Sym, data interface{}) (*Metric, error) {
	arr, err := symbolic.ArrayFrom(data)
	if err != nil {
		return nil, fmt.Errorf("goricci: metric %s: %w", symbol, err)
	}
	if arr.Rank() != 2 {
		return nil, fmt.Errorf("%w: metric %s has rank %d", ErrRank, symbol, arr.Rank())
	}
	m := &Metric{name: symbol, coords: append([]*symbolic.Sym(nil), coords...)}
	if m.Tensor, err = NewTensor(symbol, arr, m,
		WithCovar(-1, -1), WithSymmetry(2), WithComm(CommMetric)); err != nil {
		return nil, err
	}
	if m.partial, err = newPartial(m); err != nil {
		return nil, err
	}
	m.Tensor.onChange = m.refreshConnection
	return m, nil
}

func (m *Metric) Dim() int { return len(m.coords) }

func (m *Metric) Coords() []*symbolic.Sym { return append([]*symbolic.Sym(nil), m.coords...) }

func (m *Metric) Partial() *PartialDerivative { return m.partial }

// Indices creates contravariant indices of this metric.
func (m *Metric) Indices(names string) []Index { return Indices(names, m) }

// symbolName is safe to call while the embedded tensor is being built.
func (m *Metric) symbolName() string { return m.name }

// Christoffel returns Γ^a_{bc} = ½ g^{ad}(∂_b g_{dc} + ∂_c g_{db} - ∂_d g_{bc}),
// computing it on first use.
func (m *Metric) Christoffel() (*Tensor, error) {
	if m.christoffel != nil {
		return m.christoffel, nil
	}
	arr, err := m.christoffelArray()
	if err != nil {
		return nil, err
	}
	gamma, err := NewTensor("Γ", arr, m, WithCovar(1, -1, -1), WithSymmetry(1, 2))
	if err != nil {
		return nil, err
	}
	m.christoffel = gamma
	return gamma, nil
}

func (m *Metric) christoffelArray() (*symbolic.Array, error) {
	inv, err := m.AsInverse()
	if err != nil {
		return nil, err
	}
	n := m.Dim()
	// dg[k] holds ∂_k g as a rank-2 array.
	dg := make([]*symbolic.Array, n)
	for k, c := range m.coords {
		dg[k] = m.array.Diff(c.Name())
	}
	out := symbolic.NewArray(n, n, n)
	half := symbolic.F(1, 2)
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			for c := b; c < n; c++ {
				terms := make([]symbolic.Expr, 0, n)
				for d := 0; d < n; d++ {
					gad := inv.At(a, d)
					if symbolic.IsZero(gad) {
						continue
					}
					bracket := symbolic.AddOf(
						dg[b].At(d, c),
						dg[c].At(d, b),
						symbolic.Neg(dg[d].At(b, c)),
					)
					terms = append(terms, symbolic.MulOf(half, gad, bracket))
				}
				v := symbolic.Canonicalize(symbolic.AddOf(terms...))
				out.Set(v, a, b, c)
				out.Set(v, a, c, b)
			}
		}
	}
	return out, nil
}

// refreshConnection recomputes cached Christoffel symbols in place after
// the metric changes, so existing expressions see the new values.
func (m *Metric) refreshConnection() error {
	if m.christoffel == nil {
		return nil
	}
	arr, err := m.christoffelArray()
	if err != nil {
		return err
	}
	return m.christoffel.replace(arr)
}
