// Package numeric evaluates symbolic components at a point.
//
// An Env supplies values for symbols and implementations for undefined
// functions such as alpha(r) and their derivatives D[alpha](r). Rank-2
// results are returned as gonum dense matrices.
package numeric

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/njchilds90/goricci"
	"github.com/njchilds90/goricci/symbolic"
)

var (
	ErrUnbound   = errors.New("numeric: unbound symbol")
	ErrUndefined = errors.New("numeric: undefined function")
	ErrDomain    = errors.New("numeric: result is not a finite number")
)

// Env binds symbol names to values and function names to implementations.
type Env struct {
	Values map[string]float64
	Funcs  map[string]func(float64) float64
}

// At is an Env with values only.
func At(values map[string]float64) Env { return Env{Values: values} }

// With returns a copy of env with fn bound to name.
func (env Env) With(name string, fn func(float64) float64) Env {
	funcs := make(map[string]func(float64) float64, len(env.Funcs)+1)
	for k, v := range env.Funcs {
		funcs[k] = v
	}
	funcs[name] = fn
	return Env{Values: env.Values, Funcs: funcs}
}

var builtins = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"exp":  math.Exp,
	"ln":   math.Log,
	"abs":  math.Abs,
	"sinh": math.Sinh,
	"cosh": math.Cosh,
	"tanh": math.Tanh,
}

// ============================================================
// Scalars
// ============================================================

// Eval evaluates e in env.
func Eval(e symbolic.Expr, env Env) (float64, error) {
	v, err := eval(e, env)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s", ErrDomain, e)
	}
	return v, nil
}

func eval(e symbolic.Expr, env Env) (float64, error) {
	switch v := e.(type) {
	case *symbolic.Num:
		return v.Float64(), nil
	case *symbolic.Sym:
		x, ok := env.Values[v.Name()]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnbound, v.Name())
		}
		return x, nil
	case *symbolic.Add:
		total := 0.0
		for _, t := range v.Terms() {
			x, err := eval(t, env)
			if err != nil {
				return 0, err
			}
			total += x
		}
		return total, nil
	case *symbolic.Mul:
		prod := 1.0
		for _, f := range v.Factors() {
			x, err := eval(f, env)
			if err != nil {
				return 0, err
			}
			prod *= x
		}
		return prod, nil
	case *symbolic.Pow:
		b, err := eval(v.Base(), env)
		if err != nil {
			return 0, err
		}
		x, err := eval(v.ExpExpr(), env)
		if err != nil {
			return 0, err
		}
		return math.Pow(b, x), nil
	case *symbolic.Func:
		arg, err := eval(v.Arg(), env)
		if err != nil {
			return 0, err
		}
		if fn, ok := env.Funcs[v.FuncName()]; ok {
			return fn(arg), nil
		}
		if fn, ok := builtins[v.FuncName()]; ok {
			return fn(arg), nil
		}
		return 0, fmt.Errorf("%w: %s", ErrUndefined, v.FuncName())
	}
	return 0, fmt.Errorf("numeric: cannot evaluate %T", e)
}

// ============================================================
// Arrays
// ============================================================

// Array evaluates every component of a and returns them in row-major
// order together with the shape.
func Array(a *symbolic.Array, env Env) ([]float64, []int, error) {
	flat := a.Flat()
	out := make([]float64, len(flat))
	for i, e := range flat {
		v, err := Eval(e, env)
		if err != nil {
			return nil, nil, fmt.Errorf("component %d: %w", i, err)
		}
		out[i] = v
	}
	return out, a.Shape(), nil
}

// Dense evaluates a rank-2 array into a gonum matrix.
func Dense(a *symbolic.Array, env Env) (*mat.Dense, error) {
	if a.Rank() != 2 {
		return nil, fmt.Errorf("%w: rank %d", symbolic.ErrShape, a.Rank())
	}
	data, shape, err := Array(a, env)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(shape[0], shape[1], data), nil
}

// Tensor evaluates the components of t.
func Tensor(t *goricci.Tensor, env Env) ([]float64, []int, error) {
	return Array(t.AsArray(), env)
}

// Lambdify fixes the argument order of a and returns a function that
// evaluates every component for the given argument values. Bindings in
// base not shadowed by an argument stay in force.
func Lambdify(a *symbolic.Array, args []string, base Env) func(vals ...float64) ([]float64, error) {
	return func(vals ...float64) ([]float64, error) {
		if len(vals) != len(args) {
			return nil, fmt.Errorf("numeric: %d arguments for %d parameters", len(vals), len(args))
		}
		values := make(map[string]float64, len(base.Values)+len(args))
		for k, v := range base.Values {
			values[k] = v
		}
		for i, name := range args {
			values[name] = vals[i]
		}
		out, _, err := Array(a, Env{Values: values, Funcs: base.Funcs})
		return out, err
	}
}

// ============================================================
// Metrics
// ============================================================

// MetricAt returns the metric components at a point.
func MetricAt(m *goricci.Metric, env Env) (*mat.Dense, error) {
	return Dense(m.AsArray(), env)
}

// InverseAt inverts the metric numerically at a point.
func InverseAt(m *goricci.Metric, env Env) (*mat.Dense, error) {
	g, err := MetricAt(m, env)
	if err != nil {
		return nil, err
	}
	var inv mat.Dense
	if err := inv.Inverse(g); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", goricci.ErrSingular, m.Symbol(), err)
	}
	return &inv, nil
}

// Signature counts the negative and positive eigenvalues of the metric at a
// point. A Lorentzian metric gives (1, n-1).
func Signature(m *goricci.Metric, env Env) (neg, pos int, err error) {
	g, err := MetricAt(m, env)
	if err != nil {
		return 0, 0, err
	}
	n, _ := g.Dims()
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(g.At(i, j)+g.At(j, i)))
		}
	}
	var es mat.EigenSym
	if !es.Factorize(sym, false) {
		return 0, 0, fmt.Errorf("numeric: eigen decomposition of %s failed", m.Symbol())
	}
	for _, v := range es.Values(nil) {
		switch {
		case v < 0:
			neg++
		case v > 0:
			pos++
		}
	}
	return neg, pos, nil
}

// Det returns the metric determinant at a point.
func Det(m *goricci.Metric, env Env) (float64, error) {
	g, err := MetricAt(m, env)
	if err != nil {
		return 0, err
	}
	return mat.Det(g), nil
}
