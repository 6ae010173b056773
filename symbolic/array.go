package symbolic

import (
	"errors"
	"fmt"
	"strings"
)

// ErrShape is returned when array shapes or axes do not line up.
var ErrShape = errors.New("symbolic: shape mismatch")

// ============================================================
// Array: N-dimensional symbolic array
// ============================================================

// Array is a dense row-major array of expressions. A rank-0 array holds a
// single scalar.
type Array struct {
	shape   []int
	strides []int
	data    []Expr
}

func computeStrides(shape []int) ([]int, int) {
	strides := make([]int, len(shape))
	size := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = size
		size *= shape[i]
	}
	return strides, size
}

// NewArray returns a zero-filled array of the given shape.
func NewArray(shape ...int) *Array {
	sh := append([]int(nil), shape...)
	strides, size := computeStrides(sh)
	data := make([]Expr, size)
	for i := range data {
		data[i] = N(0)
	}
	return &Array{shape: sh, strides: strides, data: data}
}

// ScalarArray wraps e as a rank-0 array.
func ScalarArray(e Expr) *Array {
	a := NewArray()
	a.data[0] = e
	return a
}

// FromMatrix copies a matrix into a rank-2 array.
func FromMatrix(m *Matrix) *Array {
	a := NewArray(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			a.data[i*m.cols+j] = m.data[i][j]
		}
	}
	return a
}

// ArrayFrom builds an array from nested data. Accepted leaves are Expr
// values and Go integers; accepted containers are []Expr, [][]Expr,
// []interface{}, *Matrix and *Array.
func ArrayFrom(nested interface{}) (*Array, error) {
	switch v := nested.(type) {
	case *Array:
		return v.Copy(), nil
	case *Matrix:
		return FromMatrix(v), nil
	case Expr:
		return ScalarArray(v), nil
	case int:
		return ScalarArray(N(int64(v))), nil
	case int64:
		return ScalarArray(N(v)), nil
	}

	items, ok := asItems(nested)
	if !ok {
		return nil, fmt.Errorf("symbolic: cannot build array from %T", nested)
	}
	if len(items) == 0 {
		return NewArray(0), nil
	}
	subs := make([]*Array, len(items))
	for i, it := range items {
		sub, err := ArrayFrom(it)
		if err != nil {
			return nil, err
		}
		if i > 0 && !sameShape(sub.shape, subs[0].shape) {
			return nil, fmt.Errorf("%w: ragged nesting at item %d", ErrShape, i)
		}
		subs[i] = sub
	}
	shape := append([]int{len(items)}, subs[0].shape...)
	out := NewArray(shape...)
	n := len(subs[0].data)
	for i, sub := range subs {
		copy(out.data[i*n:(i+1)*n], sub.data)
	}
	return out, nil
}

func asItems(nested interface{}) ([]interface{}, bool) {
	switch v := nested.(type) {
	case []interface{}:
		return v, true
	case []Expr:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = e
		}
		return out, true
	case [][]Expr:
		out := make([]interface{}, len(v))
		for i, row := range v {
			out[i] = row
		}
		return out, true
	case []*Array:
		out := make([]interface{}, len(v))
		for i, a := range v {
			out[i] = a
		}
		return out, true
	}
	return nil, false
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (a *Array) Rank() int    { return len(a.shape) }
func (a *Array) Shape() []int { return append([]int(nil), a.shape...) }
func (a *Array) Len() int     { return len(a.data) }

func (a *Array) offset(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("symbolic: array of rank %d indexed with %d indices", len(a.shape), len(idx)))
	}
	off := 0
	for i, k := range idx {
		if k < 0 || k >= a.shape[i] {
			panic(fmt.Sprintf("symbolic: index %d out of range for axis %d of size %d", k, i, a.shape[i]))
		}
		off += k * a.strides[i]
	}
	return off
}

func (a *Array) unravel(off int) []int {
	idx := make([]int, len(a.shape))
	for i, s := range a.strides {
		idx[i] = off / s
		off %= s
	}
	return idx
}

func (a *Array) At(idx ...int) Expr       { return a.data[a.offset(idx)] }
func (a *Array) Set(val Expr, idx ...int) { a.data[a.offset(idx)] = val }
func (a *Array) Flat() []Expr             { return append([]Expr(nil), a.data...) }
func (a *Array) Copy() *Array             { return a.Apply(func(e Expr) Expr { return e }) }

func (a *Array) Sub(name string, v Expr) *Array {
	return a.Apply(func(e Expr) Expr { return Sub(e, name, v) })
}

func (a *Array) Diff(name string) *Array {
	return a.Apply(func(e Expr) Expr { return Diff(e, name) })
}

// Scalar returns the element of a rank-0 array, or nil for higher ranks.
func (a *Array) Scalar() Expr {
	if len(a.shape) != 0 {
		return nil
	}
	return a.data[0]
}

// Apply returns a new array with fn applied to every element.
func (a *Array) Apply(fn func(Expr) Expr) *Array {
	out := &Array{
		shape:   append([]int(nil), a.shape...),
		strides: append([]int(nil), a.strides...),
		data:    make([]Expr, len(a.data)),
	}
	for i, e := range a.data {
		out.data[i] = fn(e)
	}
	return out
}

// SubsMap substitutes every entry of subs into every element.
func (a *Array) SubsMap(subs map[string]Expr) *Array {
	return a.Apply(func(e Expr) Expr { return SubsMap(e, subs) })
}

// Add returns the element-wise sum of two arrays of equal shape.
func (a *Array) Add(b *Array) (*Array, error) {
	if !sameShape(a.shape, b.shape) {
		return nil, fmt.Errorf("%w: %v + %v", ErrShape, a.shape, b.shape)
	}
	out := a.Copy()
	for i := range out.data {
		out.data[i] = AddOf(a.data[i], b.data[i])
	}
	return out, nil
}

func (a *Array) Scale(s Expr) *Array {
	return a.Apply(func(e Expr) Expr { return MulOf(s, e) })
}

// TensorProduct returns the outer product; axes of a come first.
func TensorProduct(a, b *Array) *Array {
	out := NewArray(append(a.Shape(), b.shape...)...)
	n := len(b.data)
	for i, x := range a.data {
		for j, y := range b.data {
			out.data[i*n+j] = MulOf(x, y)
		}
	}
	return out
}

// Contract sums over the diagonal of axes i and j and removes both.
func (a *Array) Contract(i, j int) (*Array, error) {
	r := len(a.shape)
	if i == j || i < 0 || j < 0 || i >= r || j >= r {
		return nil, fmt.Errorf("%w: cannot contract axes %d and %d of rank %d", ErrShape, i, j, r)
	}
	if a.shape[i] != a.shape[j] {
		return nil, fmt.Errorf("%w: axes %d and %d have sizes %d and %d", ErrShape, i, j, a.shape[i], a.shape[j])
	}
	if i > j {
		i, j = j, i
	}
	keep := make([]int, 0, r-2)
	for k := 0; k < r; k++ {
		if k != i && k != j {
			keep = append(keep, k)
		}
	}
	outShape := make([]int, len(keep))
	for n, k := range keep {
		outShape[n] = a.shape[k]
	}
	out := NewArray(outShape...)
	src := make([]int, r)
	for off := range out.data {
		idx := out.unravel(off)
		for n, k := range keep {
			src[k] = idx[n]
		}
		terms := make([]Expr, a.shape[i])
		for d := 0; d < a.shape[i]; d++ {
			src[i], src[j] = d, d
			terms[d] = a.data[a.offset(src)]
		}
		out.data[off] = AddOf(terms...)
	}
	return out, nil
}

// Transpose permutes axes: axis n of the result is axis perm[n] of a.
func (a *Array) Transpose(perm ...int) (*Array, error) {
	r := len(a.shape)
	if len(perm) != r {
		return nil, fmt.Errorf("%w: permutation of length %d for rank %d", ErrShape, len(perm), r)
	}
	seen := make([]bool, r)
	outShape := make([]int, r)
	for n, p := range perm {
		if p < 0 || p >= r || seen[p] {
			return nil, fmt.Errorf("%w: %v is not a permutation", ErrShape, perm)
		}
		seen[p] = true
		outShape[n] = a.shape[p]
	}
	out := NewArray(outShape...)
	src := make([]int, r)
	for off := range out.data {
		idx := out.unravel(off)
		for n, p := range perm {
			src[p] = idx[n]
		}
		out.data[off] = a.data[a.offset(src)]
	}
	return out, nil
}

// ToMatrix converts a rank-2 array into a Matrix.
func (a *Array) ToMatrix() (*Matrix, error) {
	if len(a.shape) != 2 {
		return nil, fmt.Errorf("%w: ToMatrix needs rank 2, got rank %d", ErrShape, len(a.shape))
	}
	m := NewMatrix(a.shape[0], a.shape[1])
	for i := 0; i < a.shape[0]; i++ {
		for j := 0; j < a.shape[1]; j++ {
			m.data[i][j] = a.data[i*a.shape[1]+j]
		}
	}
	return m, nil
}

// Equal compares shapes and elements structurally.
func (a *Array) Equal(b *Array) bool {
	if !sameShape(a.shape, b.shape) {
		return false
	}
	for i := range a.data {
		if !a.data[i].Equal(b.data[i]) {
			return false
		}
	}
	return true
}

// IsZero reports whether every element simplifies to 0.
func (a *Array) IsZero() bool {
	for _, e := range a.data {
		if !IsZero(e) {
			return false
		}
	}
	return true
}

func (a *Array) String() string {
	if len(a.shape) == 0 {
		return a.data[0].String()
	}
	var sb strings.Builder
	a.write(&sb, 0, 0)
	return sb.String()
}

func (a *Array) write(sb *strings.Builder, axis, off int) {
	sb.WriteString("[")
	for k := 0; k < a.shape[axis]; k++ {
		if k > 0 {
			sb.WriteString(", ")
		}
		next := off + k*a.strides[axis]
		if axis == len(a.shape)-1 {
			sb.WriteString(a.data[next].String())
		} else {
			a.write(sb, axis+1, next)
		}
	}
	sb.WriteString("]")
}
