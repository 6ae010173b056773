package goricci

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/njchilds90/goricci/symbolic"
)

// ============================================================
// Tensor: named head bound to a metric
// ============================================================

// CommGroup names the commutation category of a tensor head.
type CommGroup string

const (
	CommGeneral CommGroup = "general"
	CommMetric  CommGroup = "metric"
	CommPartial CommGroup = "partial"
)

// Tensor is a named tensor head. It owns one backing array, whose axes are
// stored with the covariance in covar, and one replacement entry.
type Tensor struct {
	id       uuid.UUID
	symbol   string
	metric   *Metric
	array    *symbolic.Array
	inverse  *symbolic.Array
	covar    []int
	symmetry []int
	comm     CommGroup
	repl     *Repl

	// onChange runs after the backing array is replaced.
	onChange func() error
}

type tensorConfig struct {
	symmetry []int
	covar    []int
	comm     CommGroup
}

type TensorOption func(*tensorConfig)

// WithSymmetry sets the signed symmetry groups: 2 is a symmetric pair, -2 an
// antisymmetric pair, 1 a slot without symmetry. The default is all 1s.
func WithSymmetry(groups ...int) TensorOption {
	return func(c *tensorConfig) { c.symmetry = append([]int(nil), groups...) }
}

// WithCovar declares the covariance of the stored axes: +1 upper, -1 lower.
// The default is all upper.
func WithCovar(covar ...int) TensorOption {
	return func(c *tensorConfig) { c.covar = append([]int(nil), covar...) }
}

func WithComm(group CommGroup) TensorOption {
	return func(c *tensorConfig) { c.comm = group }
}

// NewTensor builds a head from data (anything symbolic.ArrayFrom accepts).
func NewTensor(symbol string, data interface{}, metric *Metric, opts ...TensorOption) (*Tensor, error) {
	if metric == nil {
		return nil, fmt.Errorf("goricci: tensor %s needs a metric", symbol)
	}
	array, err := symbolic.ArrayFrom(data)
	if err != nil {
		return nil, fmt.Errorf("goricci: tensor %s: %w", symbol, err)
	}
	rank := array.Rank()
	cfg := tensorConfig{comm: CommGeneral}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.covar == nil {
		cfg.covar = make([]int, rank)
		for i := range cfg.covar {
			cfg.covar[i] = 1
		}
	}
	if len(cfg.covar) != rank {
		return nil, fmt.Errorf("%w: covariance signature %v does not match tensor rank %d", ErrCovarRank, cfg.covar, rank)
	}
	for _, c := range cfg.covar {
		if c != 1 && c != -1 {
			return nil, fmt.Errorf("%w: covariance entries must be +1 or -1, got %v", ErrCovarRank, cfg.covar)
		}
	}
	if cfg.symmetry == nil {
		cfg.symmetry = make([]int, rank)
		for i := range cfg.symmetry {
			cfg.symmetry[i] = 1
		}
	}
	covered := 0
	for _, g := range cfg.symmetry {
		if g == 0 {
			return nil, fmt.Errorf("%w: empty group in %v", ErrSymmetry, cfg.symmetry)
		}
		covered += abs(g)
	}
	if covered != rank {
		return nil, fmt.Errorf("%w: groups %v cover %d slots, rank is %d", ErrSymmetry, cfg.symmetry, covered, rank)
	}
	for axis, n := range array.Shape() {
		if n != metric.Dim() {
			return nil, fmt.Errorf("%w: axis %d of %s has size %d, metric %s has dimension %d",
				ErrDimension, axis, symbol, n, metric.symbolName(), metric.Dim())
		}
	}

	t := &Tensor{
		id:       uuid.New(),
		symbol:   symbol,
		metric:   metric,
		array:    array,
		covar:    cfg.covar,
		symmetry: cfg.symmetry,
		comm:     cfg.comm,
		repl:     NewRepl(),
	}
	t.repl.Set(t, array)
	return t, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (t *Tensor) Head() *Tensor   { return t }
func (t *Tensor) ID() uuid.UUID   { return t.id }
func (t *Tensor) Symbol() string  { return t.symbol }
func (t *Tensor) Metric() *Metric { return t.metric }
func (t *Tensor) Rank() int       { return t.array.Rank() }
func (t *Tensor) Covar() []int    { return append([]int(nil), t.covar...) }
func (t *Tensor) Symmetry() []int { return append([]int(nil), t.symmetry...) }
func (t *Tensor) Comm() CommGroup { return t.comm }
func (t *Tensor) Repl() *Repl     { return t.repl }
func (t *Tensor) String() string  { return t.symbol }

// At returns one element of the backing array.
func (t *Tensor) At(idx ...int) symbolic.Expr { return t.array.At(idx...) }

// DummyIndices returns the canonical indices the head is registered under:
// one generated name per slot, each with the stored covariance.
func (t *Tensor) DummyIndices() []Index {
	out := make([]Index, len(t.covar))
	for pos, c := range t.covar {
		out[pos] = NewIndex(fmt.Sprintf("%s_%d", t.metric.symbolName(), pos), t.metric, c > 0)
	}
	return out
}

// Key is the canonical application of the head to its dummy indices.
func (t *Tensor) Key() *IndexedTensor {
	return &IndexedTensor{head: t, indices: t.DummyIndices(), array: t.array}
}

// ============================================================
// Views
// ============================================================

func (t *Tensor) AsArray() *symbolic.Array { return t.array.Copy() }

func (t *Tensor) AsMatrix() (*symbolic.Matrix, error) {
	if t.array.Rank() != 2 {
		return nil, fmt.Errorf("%w: %s has rank %d", ErrRank, t.symbol, t.array.Rank())
	}
	return t.array.ToMatrix()
}

// AsInverse returns the array of the inverse matrix. The result is cached
// until the backing array changes.
func (t *Tensor) AsInverse() (*symbolic.Array, error) {
	if t.inverse != nil {
		return t.inverse, nil
	}
	inv, err := inverseArray(t.symbol, t.array)
	if err != nil {
		return nil, err
	}
	t.inverse = inv
	return inv, nil
}

func inverseArray(symbol string, arr *symbolic.Array) (*symbolic.Array, error) {
	if arr.Rank() != 2 {
		return nil, fmt.Errorf("%w: %s has rank %d", ErrRank, symbol, arr.Rank())
	}
	m, err := arr.ToMatrix()
	if err != nil {
		return nil, err
	}
	inv, err := m.Inverse()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSingular, symbol, err)
	}
	return symbolic.FromMatrix(inv), nil
}

// ============================================================
// Mutation
// ============================================================

// Subs substitutes symbols in the backing array and refreshes the
// replacement entry.
func (t *Tensor) Subs(subs map[string]symbolic.Expr) error {
	return t.replace(t.array.SubsMap(subs))
}

// Simplify canonicalises every element of the backing array in place.
func (t *Tensor) Simplify() error {
	return t.replace(t.array.Apply(symbolic.Canonicalize))
}

func (t *Tensor) replace(arr *symbolic.Array) error {
	t.array = arr
	t.inverse = nil
	t.repl.Set(t, arr)
	if t.onChange != nil {
		return t.onChange()
	}
	return nil
}

// ============================================================
// Application
// ============================================================

// Call applies indices to the head. Indices inside symmetry groups are put
// in canonical order; an odd permutation of an antisymmetric group negates
// the result and a repeated label inside one makes it vanish.
func (t *Tensor) Call(indices ...Index) (Node, error) {
	if len(indices) != t.Rank() {
		return nil, fmt.Errorf("%w: %s has rank %d, got %d indices", ErrIndexCount, t.symbol, t.Rank(), len(indices))
	}
	for _, idx := range indices {
		if idx.metric != t.metric {
			return nil, fmt.Errorf("%w: index %s does not belong to metric %s", ErrIndexStructure, idx.name, t.metric.symbolName())
		}
	}
	if err := checkIndices(indices); err != nil {
		return nil, fmt.Errorf("%s(%s): %w", t.symbol, strings.Join(indexStrings(indices), ","), err)
	}

	idxs := append([]Index(nil), indices...)
	negate := false
	start := 0
	for _, g := range t.symmetry {
		size := abs(g)
		group := idxs[start : start+size]
		start += size
		if size < 2 {
			continue
		}
		odd := sortIndices(group)
		if g > 0 {
			continue
		}
		for i := 1; i < len(group); i++ {
			if group[i].Same(group[i-1]) {
				return zeroOf(freeOf(idxs)), nil
			}
		}
		if odd {
			negate = !negate
		}
	}

	it, err := newIndexed(t, idxs)
	if err != nil {
		return nil, err
	}
	if negate {
		return &Product{coeff: symbolic.N(-1), factors: []Node{it}}, nil
	}
	return it, nil
}

// CovarianceTransform returns the backing array with each axis raised or
// lowered to the covariance of the matching index.
func (t *Tensor) CovarianceTransform(indices ...Index) (*symbolic.Array, error) {
	if len(indices) != t.Rank() {
		return nil, fmt.Errorf("%w: %s has rank %d, got %d indices", ErrIndexCount, t.symbol, t.Rank(), len(indices))
	}
	return covarianceTransform(t.array, t.covar, indices, func(m *Metric, up bool) (*symbolic.Array, error) {
		if up {
			return m.AsInverse()
		}
		return m.array, nil
	})
}

// covarianceTransform contracts the metric (or its inverse when raising)
// into every axis whose requested covariance differs from the stored one,
// then moves the new axis back into place.
func covarianceTransform(arr *symbolic.Array, covar []int, indices []Index,
	metricArray func(m *Metric, up bool) (*symbolic.Array, error)) (*symbolic.Array, error) {
	for pos, idx := range indices {
		if idx.up == (covar[pos] > 0) {
			continue
		}
		g, err := metricArray(idx.metric, idx.up)
		if err != nil {
			return nil, err
		}
		contracted, err := symbolic.TensorProduct(g, arr).Contract(1, 2+pos)
		if err != nil {
			return nil, err
		}
		perm := make([]int, arr.Rank())
		for n := range perm {
			switch {
			case n < pos:
				perm[n] = n + 1
			case n == pos:
				perm[n] = 0
			default:
				perm[n] = n
			}
		}
		if arr, err = contracted.Transpose(perm...); err != nil {
			return nil, err
		}
	}
	return arr, nil
}
