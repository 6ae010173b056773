package symbolic_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goricci/symbolic"
)

// ============================================================
// Expand tests
// ============================================================

func TestExpand_Distribution(t *testing.T) {
	// (x+1)*(x+2) => x^2 + 3x + 2
	x := symbolic.S("x")
	expr := symbolic.MulOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.AddOf(x, symbolic.N(2)))
	assert.Equal(t, "3*x + x^2 + 2", symbolic.String(symbolic.Expand(expr)))
}

func TestExpand_IntegerPower(t *testing.T) {
	x, y := symbolic.S("x"), symbolic.S("y")
	sq := symbolic.PowOf(symbolic.AddOf(x, y), symbolic.N(2))
	want := symbolic.AddOf(
		symbolic.PowOf(x, symbolic.N(2)),
		symbolic.MulOf(symbolic.N(2), x, y),
		symbolic.PowOf(y, symbolic.N(2)),
	)
	assert.Equal(t, symbolic.String(want), symbolic.String(symbolic.Expand(sq)))
}

func TestExpand_PowerOfSymbol(t *testing.T) {
	x := symbolic.S("x")
	sq := symbolic.PowOf(x, symbolic.N(2))
	assert.Equal(t, "x^2", symbolic.String(symbolic.Expand(sq)))
	assert.Equal(t, "x^2", symbolic.String(symbolic.Canonicalize(sq)))
	assert.Equal(t, "x^2", symbolic.String(symbolic.Expand(symbolic.MulOf(x, x))))
}

func TestExpand_CubeOfSum(t *testing.T) {
	x, y := symbolic.S("x"), symbolic.S("y")
	cube := symbolic.PowOf(symbolic.AddOf(x, y), symbolic.N(3))
	want := symbolic.AddOf(
		symbolic.PowOf(x, symbolic.N(3)),
		symbolic.MulOf(symbolic.N(3), symbolic.PowOf(x, symbolic.N(2)), y),
		symbolic.MulOf(symbolic.N(3), x, symbolic.PowOf(y, symbolic.N(2))),
		symbolic.PowOf(y, symbolic.N(3)),
	)
	assert.Equal(t, symbolic.String(want), symbolic.String(symbolic.Expand(cube)))
	assert.Equal(t, symbolic.String(symbolic.Canonicalize(want)), symbolic.String(symbolic.Canonicalize(cube)))

	// A repeated sum factor merges into a power inside MulOf.
	s := symbolic.AddOf(x, y)
	assert.Equal(t, symbolic.String(symbolic.Expand(symbolic.PowOf(s, symbolic.N(2)))),
		symbolic.String(symbolic.Expand(symbolic.MulOf(s, s))))
}

func TestCanonicalize_Cancels(t *testing.T) {
	x, y := symbolic.S("x"), symbolic.S("y")
	lhs := symbolic.MulOf(symbolic.AddOf(x, y), symbolic.AddOf(x, symbolic.Neg(y)))
	rhs := symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.Neg(symbolic.PowOf(y, symbolic.N(2))))
	diff := symbolic.AddOf(lhs, symbolic.Neg(rhs))
	assert.True(t, symbolic.IsZero(symbolic.Canonicalize(diff)))
}

// ============================================================
// Trigonometric simplification
// ============================================================

func TestTrigSimplify_Pythagorean(t *testing.T) {
	x := symbolic.S("x")
	expr := symbolic.AddOf(
		symbolic.PowOf(symbolic.SinOf(x), symbolic.N(2)),
		symbolic.PowOf(symbolic.CosOf(x), symbolic.N(2)),
	)
	assert.Equal(t, "1", symbolic.String(symbolic.TrigSimplify(expr)))
}

func TestTrigSimplify_SharedFactor(t *testing.T) {
	r, th := symbolic.S("r"), symbolic.S("theta")
	r2 := symbolic.PowOf(r, symbolic.N(2))
	expr := symbolic.AddOf(
		symbolic.MulOf(r2, symbolic.PowOf(symbolic.SinOf(th), symbolic.N(2))),
		symbolic.MulOf(r2, symbolic.PowOf(symbolic.CosOf(th), symbolic.N(2))),
	)
	assert.Equal(t, "r^2", symbolic.String(symbolic.DeepSimplify(expr)))
}

func TestTrigSimplify_LeavesMismatched(t *testing.T) {
	x, y := symbolic.S("x"), symbolic.S("y")
	expr := symbolic.AddOf(
		symbolic.PowOf(symbolic.SinOf(x), symbolic.N(2)),
		symbolic.PowOf(symbolic.CosOf(y), symbolic.N(2)),
	)
	assert.Equal(t, symbolic.String(expr), symbolic.String(symbolic.TrigSimplify(expr)))
}

// ============================================================
// FreeSymbols tests
// ============================================================

func TestFreeSymbols(t *testing.T) {
	expr := symbolic.AddOf(symbolic.S("x"), symbolic.MulOf(symbolic.S("y"), symbolic.N(2)))
	syms := symbolic.FreeSymbols(expr)
	assert.Len(t, syms, 2)
	assert.Contains(t, syms, "x")
	assert.Contains(t, syms, "y")
	assert.Empty(t, symbolic.FreeSymbols(symbolic.N(5)))
}

func TestSortedSymbols_FunctionArguments(t *testing.T) {
	r, th := symbolic.S("r"), symbolic.S("theta")
	expr := symbolic.MulOf(symbolic.Apply("alpha", r), symbolic.SinOf(th), symbolic.S("M"))
	assert.Equal(t, []string{"M", "r", "theta"}, symbolic.SortedSymbols(expr))
}

// ============================================================
// JSON
// ============================================================

func TestToJSON_Num(t *testing.T) {
	j, err := symbolic.ToJSON(symbolic.N(3))
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(j), &m))
	assert.Equal(t, "num", m["type"])
}

func TestFromJSON_RoundTrip(t *testing.T) {
	x := symbolic.S("x")
	original := symbolic.AddOf(
		symbolic.MulOf(symbolic.N(2), symbolic.SinOf(x)),
		symbolic.PowOf(x, symbolic.F(1, 2)),
		symbolic.N(1),
	)
	j, err := symbolic.ToJSON(original)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(j), &m))
	rebuilt, err := symbolic.FromJSON(m)
	require.NoError(t, err)
	assert.Equal(t, symbolic.String(original), symbolic.String(rebuilt))
}

func TestFromJSON_Errors(t *testing.T) {
	_, err := symbolic.FromJSON(map[string]interface{}{"type": "bogus"})
	assert.Error(t, err)
	_, err = symbolic.FromJSON(map[string]interface{}{"name": "x"})
	assert.Error(t, err)
}

func TestArrayJSON(t *testing.T) {
	arr, err := symbolic.ArrayFrom([][]symbolic.Expr{
		{symbolic.N(1), symbolic.S("x")},
		{symbolic.S("y"), symbolic.N(0)},
	})
	require.NoError(t, err)
	out, err := json.Marshal(symbolic.ArrayJSON(arr))
	require.NoError(t, err)
	assert.JSONEq(t, `[[{"type":"num","value":"1"},{"type":"sym","name":"x"}],[{"type":"sym","name":"y"},{"type":"num","value":"0"}]]`, string(out))
}
