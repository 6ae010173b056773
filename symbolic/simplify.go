package symbolic

import "sort"

// ============================================================
// Expansion
// ============================================================

func Expand(e Expr) Expr { return expandExpr(e).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		result := Expr(N(1))
		for _, f := range v.factors {
			result = distribute(result, expandExpr(f))
		}
		return result
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}
		return AddOf(newTerms...)
	case *Pow:
		base := expandExpr(v.base)
		if _, ok := base.(*Add); ok {
			if n, ok := v.exp.(*Num); ok && n.IsInteger() {
				exp := n.val.Num().Int64()
				if exp >= 0 && exp <= 10 {
					result := Expr(N(1))
					for i := int64(0); i < exp; i++ {
						result = distribute(result, base)
					}
					return result
				}
			}
		}
		return PowOf(base, expandExpr(v.exp))
	case *Func:
		return funcOf(v.name, expandExpr(v.arg)).Simplify()
	}
	return e
}

// distribute multiplies two expanded expressions term by term. MulOf merges
// equal bases, so products are formed here rather than by re-expanding.
func distribute(a, b Expr) Expr {
	var out []Expr
	for _, ta := range termsOf(a) {
		for _, tb := range termsOf(b) {
			out = append(out, termsOf(MulOf(ta, tb))...)
		}
	}
	return AddOf(out...)
}

func termsOf(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

// Canonicalize expands, simplifies and applies trig identities until the
// expression stops changing. It is the default element simplifier of the
// tensor layer.
func Canonicalize(e Expr) Expr { return DeepSimplify(Expand(e)) }

// ============================================================
// Trig identities
// ============================================================

// TrigSimplify applies sin²+cos²=1 across sum terms that share every other
// factor and coefficient.
func TrigSimplify(e Expr) Expr {
	return trigSimplifyExpr(e.Simplify()).Simplify()
}

func trigSimplifyExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = trigSimplifyExpr(t)
		}
		return trigFindPythagorean(AddOf(newTerms...))
	case *Mul:
		newFactors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			newFactors[i] = trigSimplifyExpr(f)
		}
		return MulOf(newFactors...)
	case *Pow:
		return PowOf(trigSimplifyExpr(v.base), v.exp)
	case *Func:
		return funcOf(v.name, trigSimplifyExpr(v.arg)).Simplify()
	}
	return e
}

type trigTerm struct {
	funcName string
	argStr   string
	restKey  string
	rest     []Expr
	coeff    *Num
	idx      int
}

// splitSquaredTrig finds a sin(u)^2 or cos(u)^2 factor inside a term and
// returns it with the remaining factors.
func splitSquaredTrig(idx int, t Expr) (trigTerm, bool) {
	coeff, inner := extractCoefficient(t)
	var factors []Expr
	if m, ok := inner.(*Mul); ok {
		factors = m.factors
	} else {
		factors = []Expr{inner}
	}
	for i, f := range factors {
		p, ok := f.(*Pow)
		if !ok || !isNumEqual(p.exp, 2) {
			continue
		}
		fn, ok := p.base.(*Func)
		if !ok || (fn.name != "sin" && fn.name != "cos") {
			continue
		}
		rest := make([]Expr, 0, len(factors)-1)
		rest = append(rest, factors[:i]...)
		rest = append(rest, factors[i+1:]...)
		key := MulOf(append([]Expr{N(1)}, rest...)...).String()
		return trigTerm{funcName: fn.name, argStr: fn.arg.String(), restKey: key, rest: rest, coeff: coeff, idx: idx}, true
	}
	return trigTerm{}, false
}

func trigFindPythagorean(e Expr) Expr {
	add, ok := e.(*Add)
	if !ok {
		return e
	}
	var trigTerms []trigTerm
	for idx, t := range add.terms {
		if tt, ok := splitSquaredTrig(idx, t); ok {
			trigTerms = append(trigTerms, tt)
		}
	}
	for i := 0; i < len(trigTerms); i++ {
		for j := i + 1; j < len(trigTerms); j++ {
			ti, tj := trigTerms[i], trigTerms[j]
			if ti.argStr != tj.argStr || ti.funcName == tj.funcName || ti.restKey != tj.restKey {
				continue
			}
			if ti.coeff.val.Cmp(tj.coeff.val) != 0 {
				continue
			}
			newTerms := []Expr{}
			for idx, t := range add.terms {
				if idx != ti.idx && idx != tj.idx {
					newTerms = append(newTerms, t)
				}
			}
			newTerms = append(newTerms, MulOf(append([]Expr{ti.coeff}, ti.rest...)...))
			return trigFindPythagorean(AddOf(newTerms...))
		}
	}
	return e
}

// DeepSimplify applies repeated simplification+trig passes until stable.
func DeepSimplify(e Expr) Expr {
	prev := ""
	curr := e.Simplify()
	for i := 0; i < 10; i++ {
		str := curr.String()
		if str == prev {
			break
		}
		prev = str
		curr = TrigSimplify(curr).Simplify()
	}
	return curr
}

// ============================================================
// Free Symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

// SortedSymbols returns the free symbol names of e in sorted order.
func SortedSymbols(e Expr) []string {
	syms := FreeSymbols(e)
	names := make([]string, 0, len(syms))
	for n := range syms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}
