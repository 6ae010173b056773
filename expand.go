package goricci

import (
	"fmt"

	"github.com/njchilds90/goricci/symbolic"
)

// ============================================================
// Evaluation
// ============================================================

// CollectRepl merges the replacement entries of every head reachable from
// expr, together with the entries of the metrics its indices belong to.
func (al *Algebra) CollectRepl(expr Node) *Repl {
	repl := NewRepl()
	var walk func(n Node)
	addMetrics := func(idxs []Index) {
		for _, idx := range idxs {
			if idx.metric != nil && idx.metric.Tensor != nil {
				repl.Update(idx.metric.repl)
			}
		}
	}
	walk = func(n Node) {
		switch v := n.(type) {
		case *IndexedTensor:
			repl.Update(v.head.repl)
			addMetrics(v.indices)
		case *IndexedPartial:
			repl.Update(v.head.repl)
			addMetrics([]Index{v.index})
		case *Derivative:
			walk(v.op)
			walk(v.operand)
		case *Product:
			for _, f := range v.factors {
				walk(f)
			}
		case *Sum:
			for _, t := range v.terms {
				walk(t)
			}
			addMetrics(v.free)
		case *CovariantDerivative:
			walk(v.left)
			addMetrics([]Index{v.index})
		}
	}
	walk(expr)
	return repl
}

// ExpandArray evaluates expr to a concrete array using the replacement
// entries reachable from it. The axes follow idxs when given, raising or
// lowering where the requested covariance differs; otherwise they follow
// the free indices of expr. A scalar result is a rank-0 array.
func (al *Algebra) ExpandArray(expr Node, idxs ...Index) (*symbolic.Array, error) {
	return al.ExpandWith(al.CollectRepl(expr), expr, idxs...)
}

// ExpandWith evaluates expr against repl only.
func (al *Algebra) ExpandWith(repl *Repl, expr Node, idxs ...Index) (*symbolic.Array, error) {
	if isOperator(expr) {
		return nil, fmt.Errorf("%w: %s has nothing to act on", ErrOperatorOperand, expr)
	}
	ev := &evaluator{repl: repl, inverses: map[*Metric]*symbolic.Array{}}
	arr, free, err := ev.eval(expr)
	if err != nil {
		return nil, err
	}
	if len(idxs) > 0 {
		if arr, err = ev.arrange(arr, free, idxs); err != nil {
			return nil, err
		}
		free = idxs
	}
	arr = arr.Apply(al.simplify)
	al.logger.Debug("expanded", "expr", expr.String(), "free", indexStrings(free), "shape", arr.Shape())
	return arr, nil
}

// ExpandTensor evaluates expr and wraps the array in a new head over metric
// whose covariance follows the output indices. A scalar result is returned
// as an expression with a nil tensor.
func (al *Algebra) ExpandTensor(symbol string, expr Node, metric *Metric, idxs []Index, opts ...TensorOption) (*Tensor, symbolic.Expr, error) {
	arr, err := al.ExpandArray(expr, idxs...)
	if err != nil {
		return nil, nil, err
	}
	if arr.Rank() == 0 {
		return nil, arr.Scalar(), nil
	}
	if len(idxs) == 0 {
		idxs = FreeIndices(expr)
	}
	covar := make([]int, len(idxs))
	for i, idx := range idxs {
		covar[i] = idx.Covar()
	}
	t, err := NewTensor(symbol, arr, metric, append([]TensorOption{WithCovar(covar...)}, opts...)...)
	if err != nil {
		return nil, nil, err
	}
	return t, nil, nil
}

type evaluator struct {
	repl     *Repl
	inverses map[*Metric]*symbolic.Array
}

// metricArray returns the metric array of m from the table, or its inverse
// when raising.
func (ev *evaluator) metricArray(m *Metric, up bool) (*symbolic.Array, error) {
	arr, ok := ev.repl.Get(m)
	if !ok {
		return nil, fmt.Errorf("%w: metric %s", ErrUnresolved, m.symbolName())
	}
	if !up {
		return arr, nil
	}
	if arr == m.array {
		return m.AsInverse()
	}
	if inv, ok := ev.inverses[m]; ok {
		return inv, nil
	}
	inv, err := inverseArray(m.symbolName(), arr)
	if err != nil {
		return nil, err
	}
	ev.inverses[m] = inv
	return inv, nil
}

// eval returns the array of n with one axis per free index, in the order
// the free indices are returned.
func (ev *evaluator) eval(n Node) (*symbolic.Array, []Index, error) {
	switch v := n.(type) {
	case *Scalar:
		return symbolic.ScalarArray(v.value), nil, nil

	case *IndexedTensor:
		arr, ok := ev.repl.Get(v.head)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnresolved, v.head.symbol)
		}
		arr, err := covarianceTransform(arr, v.head.covar, v.indices, ev.metricArray)
		if err != nil {
			return nil, nil, err
		}
		return contractPairs(arr, append([]Index(nil), v.indices...))

	case *Product:
		acc := symbolic.ScalarArray(symbolic.N(1))
		var idxs []Index
		for _, f := range v.factors {
			fa, fi, err := ev.eval(f)
			if err != nil {
				return nil, nil, err
			}
			acc = symbolic.TensorProduct(acc, fa)
			if acc, idxs, err = contractPairs(acc, append(idxs, fi...)); err != nil {
				return nil, nil, err
			}
		}
		return acc.Scale(v.coeff), idxs, nil

	case *Sum:
		if len(v.terms) == 0 {
			shape := make([]int, len(v.free))
			for i, idx := range v.free {
				shape[i] = idx.metric.Dim()
			}
			return symbolic.NewArray(shape...), v.free, nil
		}
		var total *symbolic.Array
		for _, t := range v.terms {
			ta, ti, err := ev.eval(t)
			if err != nil {
				return nil, nil, err
			}
			if ta, err = permuteTo(ta, ti, v.free); err != nil {
				return nil, nil, err
			}
			if total == nil {
				total = ta
			} else if total, err = total.Add(ta); err != nil {
				return nil, nil, err
			}
		}
		return total, v.free, nil

	case *Derivative:
		oa, oi, err := ev.eval(v.operand)
		if err != nil {
			return nil, nil, err
		}
		basis, ok := ev.repl.Get(v.op.Head())
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnresolved, v.op.head.symbol)
		}
		slices := make([]*symbolic.Array, basis.Len())
		for k := range slices {
			coord, ok := basis.At(k).(*symbolic.Sym)
			if !ok {
				return nil, nil, fmt.Errorf("goricci: partial basis element %s is not a coordinate", basis.At(k))
			}
			slices[k] = oa.Diff(coord.Name())
		}
		stacked, err := symbolic.ArrayFrom(slices)
		if err != nil {
			return nil, nil, err
		}
		return contractPairs(stacked, append([]Index{v.op.index}, oi...))
	}
	return nil, nil, fmt.Errorf("%w: cannot evaluate %s", ErrOperatorOperand, n)
}

// arrange brings arr from the free order to the order and covariance of
// idxs.
func (ev *evaluator) arrange(arr *symbolic.Array, free, idxs []Index) (*symbolic.Array, error) {
	if len(idxs) != len(free) {
		return nil, fmt.Errorf("%w: expression has %v, requested %v", ErrFreeIndices, indexStrings(free), indexStrings(idxs))
	}
	covar := make([]int, len(free))
	target := make([]Index, len(free))
	for i, f := range free {
		pos := indexPosition(idxs, f)
		if pos < 0 {
			return nil, fmt.Errorf("%w: expression has %v, requested %v", ErrFreeIndices, indexStrings(free), indexStrings(idxs))
		}
		covar[i] = f.Covar()
		target[i] = idxs[pos]
	}
	arr, err := covarianceTransform(arr, covar, target, ev.metricArray)
	if err != nil {
		return nil, err
	}
	return permuteTo(arr, target, idxs)
}

// permuteTo reorders the axes of arr, labelled by have, into the order of
// want.
func permuteTo(arr *symbolic.Array, have, want []Index) (*symbolic.Array, error) {
	if len(have) != len(want) {
		return nil, fmt.Errorf("%w: %v vs %v", ErrFreeIndices, indexStrings(have), indexStrings(want))
	}
	perm := make([]int, len(want))
	identity := true
	for n, w := range want {
		pos := indexPosition(have, w)
		if pos < 0 {
			return nil, fmt.Errorf("%w: %v vs %v", ErrFreeIndices, indexStrings(have), indexStrings(want))
		}
		perm[n] = pos
		identity = identity && pos == n
	}
	if identity {
		return arr, nil
	}
	return arr.Transpose(perm...)
}

// contractPairs traces every pair of axes that carry the same label.
func contractPairs(arr *symbolic.Array, idxs []Index) (*symbolic.Array, []Index, error) {
	for {
		i, j := -1, -1
	search:
		for a := range idxs {
			for b := a + 1; b < len(idxs); b++ {
				if idxs[a].Same(idxs[b]) {
					i, j = a, b
					break search
				}
			}
		}
		if i < 0 {
			return arr, idxs, nil
		}
		var err error
		if arr, err = arr.Contract(i, j); err != nil {
			return nil, nil, err
		}
		rest := make([]Index, 0, len(idxs)-2)
		for k, idx := range idxs {
			if k != i && k != j {
				rest = append(rest, idx)
			}
		}
		idxs = rest
	}
}
