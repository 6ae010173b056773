package goricci

import (
	"fmt"
	"sort"
	"strings"
)

// ============================================================
// Index: metric-scoped label with covariance
// ============================================================

// Index is an immutable tensor index. Two indices name the same slot label
// when their names and metrics match; covariance is carried separately.
type Index struct {
	name   string
	metric *Metric
	up     bool
}

func NewIndex(name string, metric *Metric, up bool) Index {
	return Index{name: name, metric: metric, up: up}
}

// Indices creates contravariant indices from a space separated list.
func Indices(names string, metric *Metric) []Index {
	fields := strings.Fields(names)
	out := make([]Index, len(fields))
	for i, f := range fields {
		out[i] = NewIndex(f, metric, true)
	}
	return out
}

// LowerIndices creates covariant indices from a space separated list.
func LowerIndices(names string, metric *Metric) []Index {
	out := Indices(names, metric)
	for i := range out {
		out[i].up = false
	}
	return out
}

func (i Index) Name() string    { return i.name }
func (i Index) Metric() *Metric { return i.metric }
func (i Index) IsUp() bool      { return i.up }
func (i Index) Neg() Index      { return Index{name: i.name, metric: i.metric, up: !i.up} }
func (i Index) Same(o Index) bool {
	return i.name == o.name && i.metric == o.metric
}
func (i Index) Equal(o Index) bool     { return i.Same(o) && i.up == o.up }
func (i Index) Contracts(o Index) bool { return i.Same(o) && i.up != o.up }

func (i Index) String() string {
	if i.up {
		return i.name
	}
	return "-" + i.name
}

// Covar returns +1 for an upper index and -1 for a lower one.
func (i Index) Covar() int {
	if i.up {
		return 1
	}
	return -1
}

func (i Index) LaTeX() string {
	base, sub, hasSub := strings.Cut(i.name, "_")
	if greekIndex[base] {
		base = "\\" + base
	}
	if hasSub {
		return base + "_{" + sub + "}"
	}
	return base
}

var greekIndex = map[string]bool{
	"alpha": true, "beta": true, "gamma": true, "delta": true, "epsilon": true,
	"zeta": true, "eta": true, "theta": true, "iota": true, "kappa": true,
	"lambda": true, "mu": true, "nu": true, "xi": true, "rho": true,
	"sigma": true, "tau": true, "phi": true, "chi": true, "psi": true, "omega": true,
}

// ============================================================
// Index bookkeeping
// ============================================================

type label struct {
	name   string
	metric *Metric
}

func labelOf(i Index) label { return label{name: i.name, metric: i.metric} }

// checkIndices enforces the summation convention: a label occurs at most
// twice, and a repeated label pairs one upper with one lower occurrence.
func checkIndices(idxs []Index) error {
	seen := map[label][]Index{}
	for _, idx := range idxs {
		l := labelOf(idx)
		seen[l] = append(seen[l], idx)
		switch occ := seen[l]; {
		case len(occ) > 2:
			return fmt.Errorf("%w: index %s occurs more than twice", ErrIndexStructure, idx.name)
		case len(occ) == 2 && occ[0].up == occ[1].up:
			return fmt.Errorf("%w: repeated index %s must be contracted upper against lower", ErrIndexStructure, idx.name)
		}
	}
	return nil
}

// freeOf returns the indices whose label occurs exactly once, in order of
// appearance.
func freeOf(idxs []Index) []Index {
	count := map[label]int{}
	for _, idx := range idxs {
		count[labelOf(idx)]++
	}
	var out []Index
	for _, idx := range idxs {
		if count[labelOf(idx)] == 1 {
			out = append(out, idx)
		}
	}
	return out
}

// sameFree reports whether two free-index lists agree as sets, covariance
// included.
func sameFree(a, b []Index) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		found := false
		for _, y := range b {
			if x.Equal(y) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func indexPosition(idxs []Index, target Index) int {
	for i, idx := range idxs {
		if idx.Same(target) {
			return i
		}
	}
	return -1
}

// freshName returns the first of base1, base2, ... that is not in used.
func freshName(base string, used map[string]bool) string {
	for k := 1; ; k++ {
		name := fmt.Sprintf("%s%d", base, k)
		if !used[name] {
			used[name] = true
			return name
		}
	}
}

// sortIndices orders a symmetry group by name, upper before lower, and
// returns the parity of the permutation applied.
func sortIndices(idxs []Index) (odd bool) {
	less := func(a, b Index) bool {
		if a.name != b.name {
			return a.name < b.name
		}
		return a.up && !b.up
	}
	// insertion sort so the parity can be counted swap by swap
	for i := 1; i < len(idxs); i++ {
		for j := i; j > 0 && less(idxs[j], idxs[j-1]); j-- {
			idxs[j], idxs[j-1] = idxs[j-1], idxs[j]
			odd = !odd
		}
	}
	return odd
}

func indexStrings(idxs []Index) []string {
	out := make([]string, len(idxs))
	for i, idx := range idxs {
		out[i] = idx.String()
	}
	return out
}

func sortedNames(used map[string]bool) []string {
	out := make([]string, 0, len(used))
	for n := range used {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
