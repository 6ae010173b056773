package symbolic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goricci/symbolic"
)

func ints(t *testing.T, shape []int, vals ...int64) *symbolic.Array {
	t.Helper()
	a := symbolic.NewArray(shape...)
	require.Equal(t, len(vals), a.Len())
	flat := make([]symbolic.Expr, len(vals))
	for i, v := range vals {
		flat[i] = symbolic.N(v)
	}
	for i, e := range flat {
		idx := make([]int, len(shape))
		rem := i
		for ax := len(shape) - 1; ax >= 0; ax-- {
			idx[ax] = rem % shape[ax]
			rem /= shape[ax]
		}
		a.Set(e, idx...)
	}
	return a
}

// ============================================================
// Construction
// ============================================================

func TestArrayFrom_Nested(t *testing.T) {
	a, err := symbolic.ArrayFrom([]interface{}{
		[][]symbolic.Expr{{symbolic.N(1), symbolic.N(2)}, {symbolic.N(3), symbolic.N(4)}},
		[][]symbolic.Expr{{symbolic.N(5), symbolic.N(6)}, {symbolic.N(7), symbolic.N(8)}},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 2}, a.Shape())
	assert.Equal(t, 3, a.Rank())
	assert.Equal(t, "7", a.At(1, 1, 0).String())
}

func TestArrayFrom_Ragged(t *testing.T) {
	_, err := symbolic.ArrayFrom([]interface{}{
		[]symbolic.Expr{symbolic.N(1)},
		[]symbolic.Expr{symbolic.N(1), symbolic.N(2)},
	})
	assert.ErrorIs(t, err, symbolic.ErrShape)
}

func TestArrayFrom_Matrix(t *testing.T) {
	a, err := symbolic.ArrayFrom(symbolic.Diag(symbolic.N(1), symbolic.S("x")))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, a.Shape())
	assert.Equal(t, "x", a.At(1, 1).String())
	assert.Equal(t, "0", a.At(0, 1).String())
}

func TestScalarArray(t *testing.T) {
	a := symbolic.ScalarArray(symbolic.S("x"))
	assert.Equal(t, 0, a.Rank())
	assert.Equal(t, "x", a.Scalar().String())
}

// ============================================================
// Arithmetic
// ============================================================

func TestArray_AddShape(t *testing.T) {
	a := symbolic.NewArray(2, 2)
	b := symbolic.NewArray(2, 3)
	_, err := a.Add(b)
	assert.ErrorIs(t, err, symbolic.ErrShape)
}

func TestTensorProduct_Contract(t *testing.T) {
	// Contracting the outer product of u and v gives u·v.
	u := ints(t, []int{3}, 1, 2, 3)
	v := ints(t, []int{3}, 4, 5, 6)
	outer := symbolic.TensorProduct(u, v)
	assert.Equal(t, []int{3, 3}, outer.Shape())
	assert.Equal(t, "12", outer.At(1, 2).String())

	dot, err := outer.Contract(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, dot.Rank())
	assert.Equal(t, "32", symbolic.Simplify(dot.Scalar()).String())
}

func TestContract_MatrixProduct(t *testing.T) {
	a := ints(t, []int{2, 2}, 1, 2, 3, 4)
	b := ints(t, []int{2, 2}, 5, 6, 7, 8)
	prod, err := symbolic.TensorProduct(a, b).Contract(1, 2)
	require.NoError(t, err)
	want := ints(t, []int{2, 2}, 19, 22, 43, 50)
	assert.Equal(t, want.String(), prod.Apply(symbolic.Simplify).String())
}

func TestContract_Errors(t *testing.T) {
	a := symbolic.NewArray(2, 3)
	_, err := a.Contract(0, 1)
	assert.ErrorIs(t, err, symbolic.ErrShape)
	_, err = a.Contract(0, 0)
	assert.Error(t, err)
}

func TestTranspose(t *testing.T) {
	a := ints(t, []int{2, 3, 4},
		0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11,
		12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23)
	b, err := a.Transpose(2, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 2, 3}, b.Shape())
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 4; k++ {
				assert.Equal(t, a.At(i, j, k).String(), b.At(k, i, j).String())
			}
		}
	}
	_, err = a.Transpose(0, 0, 1)
	assert.Error(t, err)
}

// ============================================================
// Element-wise
// ============================================================

func TestArray_DiffAndSubs(t *testing.T) {
	x, y := symbolic.S("x"), symbolic.S("y")
	a, err := symbolic.ArrayFrom([]symbolic.Expr{symbolic.MulOf(x, y), symbolic.PowOf(x, symbolic.N(2))})
	require.NoError(t, err)

	d := a.Diff("x")
	assert.Equal(t, "y", d.At(0).String())
	assert.Equal(t, "2*x", d.At(1).String())

	s := a.SubsMap(map[string]symbolic.Expr{"x": symbolic.N(3)})
	assert.Equal(t, "3*y", s.At(0).String())
	assert.Equal(t, "9", s.At(1).String())
	assert.Equal(t, "x*y", a.At(0).String(), "source is unchanged")
}

func TestArray_IsZeroAndEqual(t *testing.T) {
	x := symbolic.S("x")
	a, err := symbolic.ArrayFrom([]symbolic.Expr{symbolic.AddOf(x, symbolic.Neg(x)), symbolic.N(0)})
	require.NoError(t, err)
	assert.True(t, a.IsZero())
	assert.True(t, a.Equal(symbolic.NewArray(2)))
	assert.False(t, a.Equal(symbolic.NewArray(3)))
}

func TestArray_ToMatrix(t *testing.T) {
	a := ints(t, []int{2, 2}, 1, 2, 3, 4)
	m, err := a.ToMatrix()
	require.NoError(t, err)
	assert.Equal(t, "3", m.Get(1, 0).String())

	_, err = symbolic.NewArray(2).ToMatrix()
	assert.ErrorIs(t, err, symbolic.ErrShape)
}
