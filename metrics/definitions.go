package metrics

import "github.com/njchilds90/goricci/symbolic"

// Shorthands for writing components.
var (
	num  = symbolic.N
	frac = symbolic.F
	mul  = symbolic.MulOf
	add  = symbolic.AddOf
	neg  = symbolic.Neg
	pow  = symbolic.PowOf
	sin  = symbolic.SinOf
	cos  = symbolic.CosOf
	ln   = symbolic.LnOf
	sinh = symbolic.SinhOf
	cosh = symbolic.CoshOf
	exp  = symbolic.ExpOf
	sqrt = symbolic.SqrtOf
	diag = symbolic.Diag
)

func sq(e symbolic.Expr) symbolic.Expr  { return pow(e, num(2)) }
func inv(e symbolic.Expr) symbolic.Expr { return pow(e, num(-1)) }

func div(a, b symbolic.Expr) symbolic.Expr { return mul(a, inv(b)) }

func fn(name string, arg symbolic.Expr) symbolic.Expr { return symbolic.Apply(name, arg) }

func init() {
	// ============================================================
	// Flat
	// ============================================================

	define("minkowski_1", `
Name: Minkowski
Coordinates: Cartesian
Symmetry: Maximal
`, func() spacetime {
		c := symbolic.Symbols("t x y z")
		return spacetime{coords: c, metric: diag(num(-1), num(1), num(1), num(1))}
	})

	define("minkowski_2", `
Name: Minkowski
Coordinates: Spherical
Symmetry: Maximal
`, func() spacetime {
		c := symbolic.Symbols("t r theta phi")
		r, th := c[1], c[2]
		return spacetime{coords: c, metric: diag(num(-1), num(1), sq(r), mul(sq(r), sq(sin(th))))}
	})

	define("minkowski_3", `
Name: Minkowski
Coordinates: 'Null'
Symmetry: Maximal
`, func() spacetime {
		c := symbolic.Symbols("u v theta phi")
		v := symbolic.Symbols("a b c")
		u, vv, th := c[0], c[1], c[2]
		a, cc := v[0], v[2]
		f := sq(add(mul(a, u), neg(mul(frac(1, 2), vv, inv(a))), cc))
		m := symbolic.NewMatrix(4, 4)
		m.Set(2, 2, f)
		m.Set(3, 3, mul(f, sq(sin(th))))
		m.Set(0, 1, num(-1))
		m.Set(1, 0, num(-1))
		return spacetime{coords: c, variables: v, metric: m}
	})

	define("boost_1", `
Name: Flat Boost Isotropy
References: Stephani (11.16) p128
Symmetry: Boost Rotation
`, func() spacetime {
		c := symbolic.Symbols("t w x y")
		w, y := c[1], c[3]
		al, be := fn("alpha", w), fn("beta", w)
		return spacetime{
			coords:    c,
			functions: []string{"alpha", "beta"},
			metric:    diag(neg(mul(sq(be), sq(y))), num(1), sq(al), sq(be)),
		}
	})

	// ============================================================
	// Cosmological
	// ============================================================

	define("de_sitter_1", `
Name: de Sitter
References: Hawking and Ellis p125
Symmetry: Maximal
`, func() spacetime {
		c := symbolic.Symbols("t chi theta phi")
		v := symbolic.Symbols("alpha")
		t, ch, th := c[0], c[1], c[2]
		al := v[0]
		f := mul(sq(al), sq(cosh(div(t, al))))
		return spacetime{
			coords:    c,
			variables: v,
			metric:    diag(num(-1), f, mul(f, sq(sin(ch))), mul(f, sq(sin(ch)), sq(sin(th)))),
		}
	})

	define("de_sitter_3", `
Name: de Sitter
References: Hawking and Ellis p125
Coordinates: Spherical
Symmetry: Maximal
Notes: Cosmological Constant
`, func() spacetime {
		c := symbolic.Symbols("t r theta phi")
		v := symbolic.Symbols("Lambda")
		r, th := c[1], c[2]
		f := add(num(1), neg(mul(frac(1, 3), v[0], sq(r))))
		return spacetime{
			coords:    c,
			variables: v,
			metric:    diag(neg(f), inv(f), sq(r), mul(sq(r), sq(sin(th)))),
		}
	})

	define("einstein_2", `
Name: Einstein
References: Stephani (10.23a) p122
Coordinates: Polar
Symmetry: Static
`, func() spacetime {
		c := symbolic.Symbols("t chi theta phi")
		v := symbolic.Symbols("Lambda")
		ch, th := c[1], c[2]
		la := v[0]
		return spacetime{
			coords:    c,
			variables: v,
			metric: diag(
				neg(inv(la)),
				inv(la),
				div(sq(sin(ch)), la),
				div(mul(sq(sin(ch)), sq(sin(th))), la),
			),
		}
	})

	define("einstein_3", `
Name: Einstein
References: Stephani (10.23a) p122
Coordinates: Spherical
Symmetry: Static
`, func() spacetime {
		c := symbolic.Symbols("t r theta phi")
		v := symbolic.Symbols("Lambda")
		r, th := c[1], c[2]
		return spacetime{
			coords:    c,
			variables: v,
			metric:    diag(num(-1), inv(add(num(1), neg(mul(v[0], sq(r))))), sq(r), mul(sq(r), sq(sin(th)))),
		}
	})

	define("kasner_2", `
Name: Kasner Vacuum
Coordinates: Cartesian
Symmetry: Axial
`, func() spacetime {
		c := symbolic.Symbols("t x y z")
		return spacetime{coords: c, metric: diag(num(-1), sq(c[0]), num(1), num(1))}
	})

	define("bianchi_1", `
Name: Bianchi II
Coordinates: Cartesian
`, func() spacetime {
		c := symbolic.Symbols("t x y z")
		al := fn("alpha", c[0])
		return spacetime{
			coords:    c,
			functions: []string{"alpha"},
			metric:    diag(num(1), exp(mul(num(-2), al)), exp(al), exp(al)),
		}
	})

	define("plane_symmetric", `
Name: Bianchi
References: Stephani (13.49) p162
Coordinates: Cartesian
Symmetry: Planar
Notes: Bianchi I
`, func() spacetime {
		c := symbolic.Symbols("t x y z")
		al, be := fn("alpha", c[0]), fn("beta", c[0])
		e2b := exp(mul(num(2), be))
		return spacetime{
			coords:    c,
			functions: []string{"alpha", "beta"},
			metric:    diag(num(-1), e2b, e2b, exp(mul(num(2), al))),
		}
	})

	// ============================================================
	// Static, spherical and cylindrical
	// ============================================================

	define("static_spherical_1", `
Name: Generic Static Spherical
References: Stephani (14.1) p163
Coordinates: Spherical
Symmetry:
    - Spherical
    - Static
`, func() spacetime {
		c := symbolic.Symbols("t r theta phi")
		r, th := c[1], c[2]
		al, be := fn("alpha", r), fn("beta", r)
		return spacetime{
			coords:    c,
			functions: []string{"alpha", "beta"},
			metric: diag(
				neg(exp(mul(num(2), al))),
				exp(mul(num(2), be)),
				sq(r),
				mul(sq(r), sq(sin(th))),
			),
		}
	})

	define("static_spherical_2", `
Name: Generic Static Spherical
References: Stephani (14.1) p163
Coordinates: Spherical
Symmetry:
    - Spherical
    - Static
Notes: Additional exponential factors
`, func() spacetime {
		c := symbolic.Symbols("t r theta phi")
		r, th := c[1], c[2]
		al, be := fn("alpha", r), fn("beta", r)
		e2b := exp(mul(num(2), be))
		return spacetime{
			coords:    c,
			functions: []string{"alpha", "beta"},
			metric: diag(
				neg(exp(mul(num(2), al))),
				e2b,
				mul(e2b, sq(r)),
				mul(e2b, sq(r), sq(sin(th))),
			),
		}
	})

	define("klein", `
Name: Klein Radiation Perfect Fluid
Coordinates: Spherical
Symmetry:
    - Spherical
    - Static
`, func() spacetime {
		c := symbolic.Symbols("t r theta phi")
		v := symbolic.Symbols("p_0")
		r, th := c[1], c[2]
		return spacetime{
			coords:    c,
			variables: v,
			metric: diag(
				neg(mul(sqrt(mul(num(7), v[0])), r)),
				frac(7, 4),
				sq(r),
				mul(sq(r), sq(sin(th))),
			),
		}
	})

	define("heintzmann", `
Name: Heintzmann Perfect Fluid
References: Heintzmann, Z. Phys., v228, p489-493, (1969)
Coordinates: Spherical
Symmetry:
    - Spherical
    - Static
`, func() spacetime {
		c := symbolic.Symbols("t r theta phi")
		v := symbolic.Symbols("A a K")
		r, th := c[1], c[2]
		A, a, K := v[0], v[1], v[2]
		f := add(num(1), mul(a, sq(r)))
		return spacetime{
			coords:    c,
			variables: v,
			metric: diag(
				neg(mul(sq(A), pow(f, num(3)))),
				div(f, K),
				sq(r),
				mul(sq(r), sq(sin(th))),
			),
		}
	})

	define("taub_1", `
Name: Taub Perfect Fluid
References:
    - Taub, Phys. Rev., v103, p454, (1956)
    - Stephani (13.44) p161
Coordinates: Cartesian
Symmetry:
    - Planar
    - Static
`, func() spacetime {
		c := symbolic.Symbols("t x y z")
		v := symbolic.Symbols("mu")
		z := c[3]
		return spacetime{
			coords:    c,
			variables: v,
			metric: diag(
				neg(sq(add(z, num(-3)))),
				sq(z),
				sq(z),
				div(num(3), mul(v[0], sq(z))),
			),
		}
	})

	define("melvin", `
Name: Melvin Magnetic Universe
References:
    - Bonnor, Prog. Roy. Soc. Lond., vA67, p225, (1954)
    - Melvin, Phys. Lett., v8, p65, (1964)
    - Stephani (20.10) p222
Coordinates: Cylindrical
`, func() spacetime {
		c := symbolic.Symbols("t rho phi z")
		v := symbolic.Symbols("B_0")
		rh := c[1]
		f := sq(add(num(1), mul(frac(1, 4), sq(v[0]), sq(rh))))
		return spacetime{
			coords:    c,
			variables: v,
			metric:    diag(neg(f), f, div(sq(rh), f), f),
		}
	})

	define("levi_civita_2", `
Name: Levi-Civita
References: Stephani (Table 16.2) p188
Coordinates: Cylindrical
Notes: Class A2
`, func() spacetime {
		c := symbolic.Symbols("t r phi z")
		v := symbolic.Symbols("M")
		r, z := c[1], c[3]
		f := add(mul(num(2), v[0], inv(z)), num(-1))
		return spacetime{
			coords:    c,
			variables: v,
			metric:    diag(neg(f), sq(z), mul(sq(z), sq(sinh(r))), inv(f)),
		}
	})

	define("davidson", `
Name: Davidson Perfect Fluid
References: Davidson, J. Math. Phys., v32, p1560, (1991)
Coordinates: Cylindrical
Symmetry: Cylindrical
`, func() spacetime {
		c := symbolic.Symbols("t r phi z")
		t, r := c[0], c[1]
		f := pow(add(num(1), sq(r)), frac(2, 5))
		return spacetime{
			coords: c,
			metric: diag(
				neg(pow(f, num(3))),
				mul(pow(t, frac(4, 3)), f),
				div(mul(pow(t, frac(4, 3)), sq(r)), f),
				div(pow(t, frac(-2, 3)), f),
			),
		}
	})

	define("godfrey", `
Name: Godfrey
References:
    - Godfrey, Gen. Rel. Grav., v3, p3, (1972)
    - McIntosh, Gen. Rel. Grav., v7, p199-213, (1976)
Coordinates: Cylindrical
Notes:
    - Nontrivial Homothety
    - Not Hypersurface Orthogonal
    - Null Homothetic Bivector
`, func() spacetime {
		c := symbolic.Symbols("t r phi z")
		v := symbolic.Symbols("a C")
		r, z := c[1], c[3]
		a, C := v[0], v[1]
		f := mul(
			pow(r, mul(num(2), a, add(a, num(-1)))),
			exp(mul(num(2), add(mul(num(2), a, z), neg(z), neg(mul(frac(1, 2), sq(r))), C))),
		)
		return spacetime{
			coords:    c,
			variables: v,
			metric: diag(
				neg(mul(pow(r, mul(num(2), a)), exp(mul(num(2), z)))),
				f,
				div(pow(r, mul(num(2), add(num(1), neg(a)))), exp(mul(num(2), z))),
				f,
			),
		}
	})

	define("levi_civita_3", `
Name: Levi-Civita
References: Stephani (Table 16.2) p188
Coordinates: Cylindrical
Notes: Class A3
`, func() spacetime {
		c := symbolic.Symbols("t r phi z")
		r, z := c[1], c[3]
		return spacetime{coords: c, metric: diag(neg(inv(z)), sq(z), mul(sq(z), sq(r)), z)}
	})

	define("levi_civita_5", `
Name: Levi-Civita
References: Stephani (Table 16.2) p188
Notes: Class B2
`, func() spacetime {
		c := symbolic.Symbols("t z r phi")
		v := symbolic.Symbols("M")
		z, r := c[1], c[2]
		f := add(mul(num(2), v[0], inv(z)), num(-1))
		return spacetime{
			coords:    c,
			variables: v,
			metric:    diag(neg(mul(sq(z), sq(sinh(r)))), inv(f), sq(z), f),
		}
	})

	define("levi_civita_6", `
Name: Levi-Civita
References: Stephani (Table 16.2) p188
Coordinates: Cylindrical
Notes: Class B3
`, func() spacetime {
		c := symbolic.Symbols("t r phi z")
		r, z := c[1], c[3]
		return spacetime{coords: c, metric: diag(neg(mul(sq(r), sq(z))), sq(z), inv(z), z)}
	})

	define("levi_civita_7", `
Name: Levi-Civita Vacuum
References: Stephani (20.8) p221
Coordinates: Cylindrical
Notes: m = 2
`, func() spacetime {
		c := symbolic.Symbols("t rho phi z")
		rh := c[1]
		r4 := pow(rh, num(4))
		return spacetime{coords: c, metric: diag(neg(r4), r4, pow(rh, num(-2)), r4)}
	})

	define("levi_civita_8", `
Name: Levi-Civita Vacuum
References: Stephani (20.8) p221
Coordinates: Cylindrical
`, func() spacetime {
		c := symbolic.Symbols("t rho phi z")
		v := symbolic.Symbols("m")
		rh, m := c[1], v[0]
		f := pow(rh, mul(num(2), add(sq(m), neg(m))))
		return spacetime{
			coords:    c,
			variables: v,
			metric: diag(
				neg(pow(rh, mul(num(2), m))),
				f,
				pow(rh, mul(num(2), add(num(1), neg(m)))),
				f,
			),
		}
	})

	define("einstein_maxwell_2", `
Name: Einstein-Maxwell Field
References: Stephani (20.9a) p221
Coordinates: Cylindrical
Symmetry:
    - Cylindrical
    - Static
Notes: Longitudinal Magnetic Field
`, func() spacetime {
		c := symbolic.Symbols("t rho phi z")
		v := symbolic.Symbols("a b m")
		rh := c[1]
		a, b, m := v[0], v[1], v[2]
		f1 := sq(cosh(ln(mul(a, pow(rh, m)))))
		f2 := mul(pow(rh, mul(num(2), sq(m))), sq(b), f1)
		return spacetime{
			coords:    c,
			variables: v,
			metric:    diag(neg(f2), f2, inv(mul(sq(b), f1)), mul(sq(rh), sq(b), f1)),
		}
	})

	// ============================================================
	// Boost, planar and Bianchi
	// ============================================================

	define("boost_2", `
Name: Flat Boost Isotropy
References: Stephani (11.16) p128
Symmetry: Boost Rotation
Notes: Temporal Hyperbolic Sine
`, func() spacetime {
		c := symbolic.Symbols("t w x y")
		w, y := c[1], c[3]
		al, be := fn("alpha", w), fn("beta", w)
		return spacetime{
			coords:    c,
			functions: []string{"alpha", "beta"},
			metric:    diag(neg(mul(sq(be), sq(sinh(y)))), num(1), sq(al), sq(be)),
		}
	})

	define("boost_3", `
Name: Flat Boost Isotropy
References: Stephani (11.16) p128
Symmetry: Boost Rotation
Notes: Temporal Sine
`, func() spacetime {
		c := symbolic.Symbols("t w x y")
		w, y := c[1], c[3]
		al, be := fn("alpha", w), fn("beta", w)
		return spacetime{
			coords:    c,
			functions: []string{"alpha", "beta"},
			metric:    diag(neg(mul(sq(be), sq(sin(y)))), num(1), sq(al), sq(be)),
		}
	})

	define("cross_const_curvature_2", `
Name: Cross product of Constant Curvature Subspaces
References: Stephani (10.8) p118
Notes:
    - Temporal Sine
    - Spatial Hyperbolic Sine
`, func() spacetime {
		c := symbolic.Symbols("t x y z")
		v := symbolic.Symbols("A B")
		x, z := c[1], c[3]
		A, B := v[0], v[1]
		return spacetime{
			coords:    c,
			variables: v,
			metric:    diag(neg(mul(sq(B), sq(sin(z)))), sq(A), mul(sq(A), sq(sinh(x))), sq(B)),
		}
	})

	define("taub_2", `
Name: Taub Vacuum
References: Taub, Ann. Math., v53, p473, (1951)
Coordinates: Cartesian
Symmetry: Planar
`, func() spacetime {
		c := symbolic.Symbols("t x y z")
		z := c[3]
		return spacetime{coords: c, metric: diag(neg(inv(sqrt(z))), z, z, inv(sqrt(z)))}
	})

	define("novotny_horsky", `
Name: Novotny and Horsky Vacuum
References: Novotny et al., Can. J. Phys., v24, p718, (1974)
Coordinates: Cartesian
Symmetry: Planar
`, func() spacetime {
		c := symbolic.Symbols("t x y z")
		v := symbolic.Symbols("a")
		z := c[3]
		s43 := pow(sin(z), frac(4, 3))
		return spacetime{
			coords:    c,
			variables: v,
			metric:    diag(neg(div(cos(z), pow(sin(z), frac(2, 3)))), s43, s43, pow(v[0], num(-2))),
		}
	})

	define("bianchi_2", `
Name: Bianchi IV
Coordinates: Cartesian
`, func() spacetime {
		c := symbolic.Symbols("t x y z")
		t := c[0]
		return spacetime{
			coords:    c,
			functions: []string{"alpha", "beta", "gamma"},
			metric:    diag(num(1), exp(fn("alpha", t)), exp(fn("beta", t)), exp(fn("gamma", t))),
		}
	})

	define("ellis_maccallum_2", `
Name: Ellis and MacCallum Vacuum
References:
    - Ellis et al., Commun. Math. Phys., v12, p108, (1969)
    - Stephani (11.56) p136
Coordinates: Cartesian
Notes: Bianchi VIo
`, func() spacetime {
		c := symbolic.Symbols("t x y z")
		v := symbolic.Symbols("n")
		t, x, n := c[0], c[1], v[0]
		f := mul(sqrt(t), exp(mul(sq(n), sq(t))))
		return spacetime{
			coords:    c,
			variables: v,
			metric:    diag(neg(f), f, mul(t, exp(mul(num(2), n, x))), mul(t, exp(mul(num(-2), n, x)))),
		}
	})

	define("harrison_4", `
Name: Harrison
References:
    - Harrison, Phys. Rev., v116, p1285, (1959)
    - d'Inverno et al., J. Math. Phys., v12, p1258, (1971)
Notes:
    - Kinnersley Class IV.B
    - C = 1/2
    - Hyperbolic Cosine
`, func() spacetime {
		c := symbolic.Symbols("x_0 x_1 x_2 x_3")
		x0, x3 := c[0], c[3]
		f := add(num(1), neg(sq(x3)))
		return spacetime{
			coords: c,
			metric: diag(
				neg(pow(f, num(-2))),
				div(sq(cosh(mul(num(2), x0))), sq(f)),
				sq(x3),
				pow(f, num(-4)),
			),
		}
	})

	define("harrison_7", `
Name: Harrison
References:
    - Harrison, Phys. Rev., v116, p1285, (1959)
    - d'Inverno et al., J. Math. Phys., v12, p1258, (1971)
Notes:
    - Kinnersley Class II.C
    - a = l = 0
`, func() spacetime {
		c := symbolic.Symbols("x_0 x_1 x_2 x_3")
		x2, x3 := c[2], c[3]
		f := add(num(1), sq(x3))
		return spacetime{
			coords: c,
			metric: diag(
				neg(sq(x3)),
				div(sq(cosh(mul(num(2), x2))), sq(f)),
				pow(f, num(-2)),
				pow(f, num(-4)),
			),
		}
	})

	// ============================================================
	// Perfect fluids
	// ============================================================

	define("pant_sah", `
Name: Pant and Sah
References: Pant et al., J. Math. Phys., v20, p2537-2539, (1979)
Coordinates: Spherical
Symmetry:
    - Spherical
    - Static
`, func() spacetime {
		c := symbolic.Symbols("t r theta phi")
		v := symbolic.Symbols("A n")
		r, th := c[1], c[2]
		A, n := v[0], v[1]
		return spacetime{
			coords:    c,
			variables: v,
			metric: diag(
				neg(mul(A, pow(r, mul(num(2), n)))),
				add(sq(n), num(1)),
				sq(r),
				mul(sq(r), sq(sin(th))),
			),
		}
	})

	define("szekeres_2", `
Name: Szekeres Stiff Perfect Fluid
References: Szekeres, Commun. Math. Phys., v41, p55, (1975)
Coordinates: Cartesian
Notes: Abelian Coordinates
`, func() spacetime {
		c := symbolic.Symbols("t x y z")
		t, x := c[0], c[1]
		ch := cosh(mul(num(2), t))
		f := div(exp(mul(num(6), x)), sq(ch))
		g := mul(exp(mul(num(2), x)), ch)
		return spacetime{coords: c, metric: diag(neg(f), f, g, g)}
	})

	define("lrs", `
Name: LRS Stiff Perfect Fluid
References: Stephani (12.11) p146
Notes: Admits G4 on S3
`, func() spacetime {
		c := symbolic.Symbols("t x y z")
		v := symbolic.Symbols("k")
		t, k := c[0], v[0]
		f := pow(t, add(num(1), neg(inv(k))))
		return spacetime{
			coords:    c,
			variables: v,
			metric:    diag(num(-1), pow(t, mul(num(2), inv(k))), f, f),
		}
	})

	define("beckers_sinzinkayo_demaret_2", `
Name: Beckers, Sinzinkayo, and Demaret
References: Beckers et al., Phys. Rev. D, v30, p1846, (1984)
Coordinates: Cartesian
Notes:
    - k = 1
    - d = 0
`, func() spacetime {
		c := symbolic.Symbols("t x y z")
		v := symbolic.Symbols("m")
		f := pow(c[1], mul(num(2), v[0]))
		return spacetime{coords: c, variables: v, metric: diag(neg(f), f, f, f)}
	})

	define("dunn_tupper", `
Name: Dunn and Tupper Perfect Fluid
Coordinates: Cartesian
`, func() spacetime {
		c := symbolic.Symbols("t x y z")
		v := symbolic.Symbols("b")
		t, x, b := c[0], c[1], v[0]
		tb := pow(t, mul(num(-2), b))
		return spacetime{
			coords:    c,
			variables: v,
			metric: diag(
				num(-1),
				div(mul(num(4), sq(t)), neg(mul(b, add(num(1), b)))),
				mul(tb, exp(mul(num(-4), x))),
				mul(tb, exp(mul(num(4), x))),
			),
		}
	})
}
