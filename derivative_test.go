package goricci_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goricci"
	"github.com/njchilds90/goricci/symbolic"
)

// ============================================================
// Fixtures
// ============================================================

// plane is the two-dimensional metric diag(-1, 1) over (t, x).
func plane(t *testing.T) *goricci.Metric {
	t.Helper()
	g, err := goricci.NewMetric("g", symbolic.Symbols("t x"), symbolic.Diag(symbolic.N(-1), symbolic.N(1)))
	require.NoError(t, err)
	return g
}

// deSitter is the closed-slicing de Sitter metric with radius alpha.
func deSitter(t *testing.T) *goricci.Metric {
	t.Helper()
	coords := symbolic.Symbols("t chi theta phi")
	tt, chi, th := coords[0], coords[1], coords[2]
	alpha := symbolic.S("alpha")
	a2 := symbolic.MulOf(
		symbolic.PowOf(alpha, symbolic.N(2)),
		symbolic.PowOf(symbolic.CoshOf(symbolic.MulOf(tt, symbolic.PowOf(alpha, symbolic.N(-1)))), symbolic.N(2)),
	)
	sin2 := func(e symbolic.Expr) symbolic.Expr { return symbolic.PowOf(symbolic.SinOf(e), symbolic.N(2)) }
	g, err := goricci.NewMetric("g", coords, symbolic.Diag(
		symbolic.N(-1),
		a2,
		symbolic.MulOf(a2, sin2(chi)),
		symbolic.MulOf(a2, sin2(chi), sin2(th)),
	))
	require.NoError(t, err)
	return g
}

func scalarField(t *testing.T, g *goricci.Metric, name string) *goricci.Tensor {
	t.Helper()
	f, err := goricci.NewTensor(name, symbolic.Apply(name, g.Coords()[0]), g)
	require.NoError(t, err)
	return f
}

// ============================================================
// Partial derivatives
// ============================================================

func TestPartial_Leibniz(t *testing.T) {
	g := plane(t)
	f, h := scalarField(t, g, "f"), scalarField(t, g, "h")
	mu := g.Indices("mu")[0]
	al := goricci.NewAlgebra()

	fi, err := f.Call()
	require.NoError(t, err)
	hi, err := h.Call()
	require.NoError(t, err)
	prod, err := al.Mul(fi, hi)
	require.NoError(t, err)
	d, err := g.Partial().Call(mu.Neg())
	require.NoError(t, err)

	out, err := al.Mul(d, prod)
	require.NoError(t, err)
	s, ok := out.(*goricci.Sum)
	require.True(t, ok, "got %T", out)
	assert.Len(t, s.Terms(), 2)
	assert.Equal(t, "f*∂(-mu)[h] + h*∂(-mu)[f]", out.String())

	arr, err := al.ExpandArray(out)
	require.NoError(t, err)
	tt := g.Coords()[0]
	want, err := symbolic.ArrayFrom([]symbolic.Expr{
		symbolic.Diff(symbolic.MulOf(symbolic.Apply("f", tt), symbolic.Apply("h", tt)), "t"),
		symbolic.N(0),
	})
	require.NoError(t, err)
	assertSameArray(t, want, arr)
}

func TestPartial_NumericCoefficient(t *testing.T) {
	g := plane(t)
	f := scalarField(t, g, "f")
	mu := g.Indices("mu")[0]
	al := goricci.NewAlgebra()

	fi, _ := f.Call()
	scaled, err := al.Scale(symbolic.N(3), fi)
	require.NoError(t, err)
	d, _ := g.Partial().Call(mu.Neg())
	out, err := al.Mul(d, scaled)
	require.NoError(t, err)
	assert.Equal(t, "3*∂(-mu)[f]", out.String())

	zero, err := al.Mul(d, goricci.ScalarOf(symbolic.N(7)))
	require.NoError(t, err)
	assert.Equal(t, "0", zero.String())
	assert.Len(t, goricci.FreeIndices(zero), 1)
}

func TestPartial_VectorField(t *testing.T) {
	g := plane(t)
	tt, x := g.Coords()[0], g.Coords()[1]
	V, err := goricci.NewTensor("V", []symbolic.Expr{
		symbolic.MulOf(tt, x),
		symbolic.PowOf(x, symbolic.N(2)),
	}, g)
	require.NoError(t, err)
	mu, nu := pick2(g.Indices("mu nu"))
	al := goricci.NewAlgebra()

	v, _ := V.Call(nu)
	d, _ := g.Partial().Call(mu.Neg())
	dv, err := al.Mul(d, v)
	require.NoError(t, err)

	got, err := al.ExpandArray(dv, mu.Neg(), nu)
	require.NoError(t, err)
	want, err := symbolic.ArrayFrom([][]symbolic.Expr{
		{x, symbolic.N(0)},
		{tt, symbolic.MulOf(symbolic.N(2), x)},
	})
	require.NoError(t, err)
	assertSameArray(t, want, got)

	// Divergence contracts the derivative index with the field.
	vm, _ := V.Call(mu)
	div, err := al.Mul(d, vm)
	require.NoError(t, err)
	arr, err := al.ExpandArray(div)
	require.NoError(t, err)
	assert.Equal(t, symbolic.Canonicalize(symbolic.AddOf(x, symbolic.MulOf(symbolic.N(2), x))).String(), arr.Scalar().String())
}

func TestPartial_RenamesBoundLabel(t *testing.T) {
	g := plane(t)
	V, err := goricci.NewTensor("V", []symbolic.Expr{g.Coords()[0], g.Coords()[1]}, g)
	require.NoError(t, err)
	mu := g.Indices("mu")[0]
	al := goricci.NewAlgebra()

	up, _ := V.Call(mu)
	down, _ := V.Call(mu.Neg())
	norm, err := al.Mul(up, down)
	require.NoError(t, err)
	d, _ := g.Partial().Call(mu.Neg())

	out, err := al.Mul(d, norm)
	require.NoError(t, err)
	free := goricci.FreeIndices(out)
	require.Len(t, free, 1)
	assert.Equal(t, "-mu", free[0].String())

	arr, err := al.ExpandArray(out)
	require.NoError(t, err)
	tt, x := g.Coords()[0], g.Coords()[1]
	want, err := symbolic.ArrayFrom([]symbolic.Expr{
		symbolic.MulOf(symbolic.N(-2), tt),
		symbolic.MulOf(symbolic.N(2), x),
	})
	require.NoError(t, err)
	assertSameArray(t, want, arr)
}

// ============================================================
// Covariant derivatives
// ============================================================

func TestNabla_MetricCompatible(t *testing.T) {
	g := deSitter(t)
	idx := g.Indices("a mu nu")
	a, mu, nu := idx[0], idx[1], idx[2]
	var logs bytes.Buffer
	al := goricci.NewAlgebra(goricci.WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))))

	gd, err := g.Call(mu.Neg(), nu.Neg())
	require.NoError(t, err)
	expr, err := al.Mul(g.Nabla(a.Neg()), gd)
	require.NoError(t, err)
	assert.Len(t, goricci.FreeIndices(expr), 3)

	arr, err := al.ExpandArray(expr)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 4}, arr.Shape())
	assert.True(t, arr.IsZero(), arr.String())
	assert.Contains(t, logs.String(), "covariant derivative")
	assert.Contains(t, logs.String(), "expanded")
}

func TestNabla_ScalarIsPartial(t *testing.T) {
	g := deSitter(t)
	f := scalarField(t, g, "f")
	mu := g.Indices("mu")[0]
	al := goricci.NewAlgebra()

	fi, _ := f.Call()
	cov, err := al.Mul(g.Nabla(mu.Neg()), fi)
	require.NoError(t, err)
	d, _ := g.Partial().Call(mu.Neg())
	par, err := al.Mul(d, fi)
	require.NoError(t, err)

	a, err := al.ExpandArray(cov)
	require.NoError(t, err)
	b, err := al.ExpandArray(par)
	require.NoError(t, err)
	assertSameArray(t, b, a)
}

func TestNabla_LeftFactor(t *testing.T) {
	eta := minkowski(t)
	coords := eta.Coords()
	V, err := goricci.NewTensor("V", []symbolic.Expr{
		symbolic.MulOf(coords[0], coords[1]), coords[2], symbolic.PowOf(coords[3], symbolic.N(2)), symbolic.N(1),
	}, eta)
	require.NoError(t, err)
	mu, nu := pick2(eta.Indices("mu nu"))
	al := goricci.NewAlgebra()

	scaled, err := al.Mul(goricci.ScalarOf(symbolic.N(2)), eta.Nabla(mu.Neg()))
	require.NoError(t, err)
	cd, ok := scaled.(*goricci.CovariantDerivative)
	require.True(t, ok, "got %T", scaled)
	assert.Equal(t, "2", cd.Left().String())

	v, _ := V.Call(nu)
	out, err := al.Mul(scaled, v)
	require.NoError(t, err)
	got, err := al.ExpandArray(out, mu.Neg(), nu)
	require.NoError(t, err)

	d, _ := eta.Partial().Call(mu.Neg())
	plain, err := al.Mul(d, v)
	require.NoError(t, err)
	want, err := al.ExpandArray(plain, mu.Neg(), nu)
	require.NoError(t, err)
	assertSameArray(t, want.Scale(symbolic.N(2)), got)
}

func TestNabla_UpperIndex(t *testing.T) {
	g := deSitter(t)
	f := scalarField(t, g, "f")
	mu := g.Indices("mu")[0]
	al := goricci.NewAlgebra()

	fi, _ := f.Call()
	up, err := al.Mul(g.Nabla(mu), fi)
	require.NoError(t, err)
	free := goricci.FreeIndices(up)
	require.Len(t, free, 1)
	assert.True(t, free[0].IsUp())

	down, err := al.Mul(g.Nabla(mu.Neg()), fi)
	require.NoError(t, err)
	a, err := al.ExpandArray(up)
	require.NoError(t, err)
	b, err := al.ExpandArray(down, mu)
	require.NoError(t, err)
	assertSameArray(t, b, a)
}

func TestNabla_DummyNameTaken(t *testing.T) {
	eta := minkowski(t)
	coords := eta.Coords()
	V, err := goricci.NewTensor("V", []symbolic.Expr{coords[1], coords[0], symbolic.N(0), coords[3]}, eta)
	require.NoError(t, err)
	idx := eta.Indices("mu mu_0")
	mu, taken := idx[0], idx[1]
	al := goricci.NewAlgebra()

	v, _ := V.Call(taken)
	out, err := al.Mul(eta.Nabla(mu.Neg()), v)
	require.NoError(t, err)
	free := goricci.FreeIndices(out)
	require.Len(t, free, 2)

	got, err := al.ExpandArray(out, mu.Neg(), taken)
	require.NoError(t, err)
	d, _ := eta.Partial().Call(mu.Neg())
	plain, err := al.Mul(d, v)
	require.NoError(t, err)
	want, err := al.ExpandArray(plain, mu.Neg(), taken)
	require.NoError(t, err)
	assertSameArray(t, want, got)
}

// ============================================================
// Connection
// ============================================================

func TestChristoffel_RefreshedAfterSubs(t *testing.T) {
	k := symbolic.S("k")
	coords := symbolic.Symbols("t x")
	g, err := goricci.NewMetric("g", coords, symbolic.Diag(
		symbolic.N(-1),
		symbolic.ExpOf(symbolic.MulOf(k, coords[0])),
	))
	require.NoError(t, err)

	gamma, err := g.Christoffel()
	require.NoError(t, err)
	assert.Equal(t, []int{1, -1, -1}, gamma.Covar())
	assert.Equal(t, symbolic.Canonicalize(symbolic.MulOf(symbolic.F(1, 2), k)).String(), gamma.At(1, 0, 1).String())
	assert.Equal(t, gamma.At(1, 0, 1).String(), gamma.At(1, 1, 0).String())

	require.NoError(t, g.Subs(map[string]symbolic.Expr{"k": symbolic.N(2)}))
	same, err := g.Christoffel()
	require.NoError(t, err)
	assert.Same(t, gamma, same)
	assert.Equal(t, "1", gamma.At(1, 0, 1).String())
}

func TestChristoffel_Singular(t *testing.T) {
	g, err := goricci.NewMetric("g", symbolic.Symbols("u v"), symbolic.Diag(symbolic.N(1), symbolic.N(0)))
	require.NoError(t, err)
	_, err = g.Christoffel()
	assert.ErrorIs(t, err, goricci.ErrSingular)
}

func TestNewMetric_Rank(t *testing.T) {
	_, err := goricci.NewMetric("g", symbolic.Symbols("u v"), []symbolic.Expr{symbolic.N(1), symbolic.N(1)})
	assert.ErrorIs(t, err, goricci.ErrRank)
}
