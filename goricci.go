// Package goricci provides symbolic tensor algebra for general relativity.
//
// A Metric over a set of coordinate symbols owns the index space that
// tensors built on it live in. Tensors are applied to abstract indices to
// form expressions; an Algebra multiplies, adds and differentiates those
// expressions while tracking index structure, and finally expands them into
// concrete component arrays.
//
//	coords := symbolic.Symbols("t x y z")
//	eta, _ := goricci.NewMetric("eta", coords, symbolic.Diag(
//		symbolic.N(1), symbolic.N(-1), symbolic.N(-1), symbolic.N(-1)))
//	mu, nu := eta.Indices("mu nu")[0], eta.Indices("mu nu")[1]
//	F, _ := goricci.NewTensor("F", data, eta, goricci.WithSymmetry(-2))
//
//	al := goricci.NewAlgebra()
//	up, _ := F.Call(mu, nu)
//	down, _ := F.Call(mu.Neg(), nu.Neg())
//	inv, _ := al.Mul(up, down)
//	arr, _ := al.ExpandArray(inv) // rank 0: 2*B^2 - 2*E^2
//
// Component arithmetic is exact and lives in the symbolic subpackage.
package goricci
