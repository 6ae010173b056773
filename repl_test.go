package goricci_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goricci"
	"github.com/njchilds90/goricci/symbolic"
)

func TestRepl_SetItemUnknownHead(t *testing.T) {
	eta := minkowski(t)
	F := fieldStrength(t, eta)
	r := goricci.NewRepl()
	err := r.SetItem(F, F.AsArray())
	assert.ErrorIs(t, err, goricci.ErrUnresolved)
	assert.Contains(t, err.Error(), "F")
}

func TestRepl_ResolvesApplications(t *testing.T) {
	eta := minkowski(t)
	F := fieldStrength(t, eta)
	mu, nu := pick2(eta.Indices("mu nu"))
	r := goricci.NewRepl()
	r.Set(F, F.AsArray())

	f, err := F.Call(mu, nu.Neg())
	require.NoError(t, err)
	it, ok := f.(*goricci.IndexedTensor)
	require.True(t, ok)

	key, ok := r.GetKey(it)
	require.True(t, ok)
	assert.Equal(t, F.ID(), key)
	entry, ok := r.Entry(key)
	require.True(t, ok)
	assert.Same(t, F, entry.Head)
	assert.Len(t, entry.Indices, 2)

	zero := symbolic.NewArray(4, 4)
	require.NoError(t, r.SetItem(it, zero))
	got, ok := r.Get(F)
	require.True(t, ok)
	assert.True(t, got.IsZero())
	assert.Equal(t, 1, r.Len())
}

func TestRepl_Update(t *testing.T) {
	eta := minkowski(t)
	F := fieldStrength(t, eta)
	a := goricci.NewRepl()
	a.Update(F.Repl())
	a.Update(eta.Repl())
	require.Equal(t, 2, a.Len())
	assert.Equal(t, F.ID(), a.Keys()[0])

	b := goricci.NewRepl()
	b.Set(F, symbolic.NewArray(4, 4))
	a.Update(b)
	assert.Equal(t, 2, a.Len())
	got, _ := a.Get(F)
	assert.True(t, got.IsZero())
	orig, _ := F.Repl().Get(F)
	assert.False(t, orig.IsZero())
}

// ============================================================
// Expansion
// ============================================================

func TestExpandWith_Unresolved(t *testing.T) {
	eta := minkowski(t)
	F := fieldStrength(t, eta)
	mu, nu := pick2(eta.Indices("mu nu"))
	f, _ := F.Call(mu, nu)
	al := goricci.NewAlgebra()

	_, err := al.ExpandWith(goricci.NewRepl(), f)
	assert.ErrorIs(t, err, goricci.ErrUnresolved)

	only := goricci.NewRepl()
	only.Update(F.Repl())
	down, _ := F.Call(mu.Neg(), nu.Neg())
	_, err = al.ExpandWith(only, down)
	assert.ErrorIs(t, err, goricci.ErrUnresolved)
	assert.Contains(t, err.Error(), "eta")
}

func TestExpandWith_OverriddenArray(t *testing.T) {
	eta := minkowski(t)
	F := fieldStrength(t, eta)
	mu, nu := pick2(eta.Indices("mu nu"))
	f, _ := F.Call(mu, nu)
	al := goricci.NewAlgebra()

	r := al.CollectRepl(f)
	require.NoError(t, r.SetItem(F, symbolic.NewArray(4, 4)))
	arr, err := al.ExpandWith(r, f)
	require.NoError(t, err)
	assert.True(t, arr.IsZero())
}

func TestExpandArray_RequestedOrder(t *testing.T) {
	eta := minkowski(t)
	T, err := goricci.NewTensor("T", generic("T", 4), eta, goricci.WithCovar(1, -1))
	require.NoError(t, err)
	mu, nu := pick2(eta.Indices("mu nu"))
	al := goricci.NewAlgebra()
	tm, _ := T.Call(mu, nu.Neg())

	swapped, err := al.ExpandArray(tm, nu.Neg(), mu)
	require.NoError(t, err)
	want, err := T.AsArray().Transpose(1, 0)
	require.NoError(t, err)
	assertSameArray(t, want, swapped)

	lowered, err := al.ExpandArray(tm, mu.Neg(), nu.Neg())
	require.NoError(t, err)
	direct, err := T.CovarianceTransform(mu.Neg(), nu.Neg())
	require.NoError(t, err)
	assertSameArray(t, direct, lowered)

	_, err = al.ExpandArray(tm, mu)
	assert.ErrorIs(t, err, goricci.ErrFreeIndices)
}

func TestExpandTensor_Rank2(t *testing.T) {
	eta := minkowski(t)
	F := fieldStrength(t, eta)
	mu, nu := pick2(eta.Indices("mu nu"))
	al := goricci.NewAlgebra()
	f, _ := F.Call(mu, nu)

	G, scalar, err := al.ExpandTensor("G", f, eta, []goricci.Index{mu.Neg(), nu}, goricci.WithSymmetry(1, 1))
	require.NoError(t, err)
	assert.Nil(t, scalar)
	require.NotNil(t, G)
	assert.Equal(t, []int{-1, 1}, G.Covar())
	assert.Equal(t, "G", G.Symbol())

	// Expanding G back to two upper indices recovers F.
	g, _ := G.Call(mu, nu)
	back, err := al.ExpandArray(g)
	require.NoError(t, err)
	assertSameArray(t, F.AsArray(), back)
}
