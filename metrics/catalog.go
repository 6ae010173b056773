// Package metrics is a catalog of exact solutions of Einstein's equations.
//
// Every entry carries a YAML metadata block (name, references, coordinates,
// symmetry, notes) and a builder for its component matrix. Find, Data,
// CoordinateTypes and Variations search the metadata; Load turns an entry
// into a goricci.Metric.
package metrics

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/njchilds90/goricci"
	"github.com/njchilds90/goricci/symbolic"
)

var ErrNotFound = errors.New("metrics: metric not found")

// ============================================================
// Metadata
// ============================================================

// stringList accepts either a single YAML scalar or a sequence of them.
type stringList []string

func (l *stringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" || node.Value == "" {
			*l = nil
			return nil
		}
		*l = stringList{node.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	return fmt.Errorf("metrics: line %d: expected a string or a list of strings", node.Line)
}

func (l stringList) String() string { return strings.Join(l, ", ") }

type metadata struct {
	Name        string     `yaml:"name"`
	References  stringList `yaml:"references"`
	Coordinates string     `yaml:"coordinates"`
	Symmetry    stringList `yaml:"symmetry"`
	Notes       stringList `yaml:"notes"`
}

// spacetime is what an entry's builder returns.
type spacetime struct {
	coords    []*symbolic.Sym
	variables []*symbolic.Sym
	functions []string
	metric    *symbolic.Matrix
}

// Entry is one catalog metric. Metadata fields are lower case.
type Entry struct {
	ID          string
	Name        string
	References  []string
	Coordinates string
	Symmetry    []string
	Notes       []string
	Doc         string

	text  string
	build func() spacetime
}

func (e *Entry) NotesString() string    { return stringList(e.Notes).String() }
func (e *Entry) SymmetryString() string { return stringList(e.Symmetry).String() }

// Coords returns the coordinate symbols of the entry.
func (e *Entry) Coords() []*symbolic.Sym { return e.build().coords }

// Variables returns the constant parameters the components depend on.
func (e *Entry) Variables() []*symbolic.Sym { return e.build().variables }

// Functions returns the names of the undefined functions in the components.
func (e *Entry) Functions() []string { return e.build().functions }

// Matrix returns a fresh copy of the component matrix.
func (e *Entry) Matrix() *symbolic.Matrix { return e.build().metric }

// Metric builds a goricci metric named symbol from the entry.
func (e *Entry) Metric(symbol string) (*goricci.Metric, error) {
	st := e.build()
	m, err := goricci.NewMetric(symbol, st.coords, st.metric)
	if err != nil {
		return nil, fmt.Errorf("metrics: %s: %w", e.ID, err)
	}
	return m, nil
}

// ============================================================
// Registry
// ============================================================

var catalog []*Entry

// define parses the YAML block of an entry and registers it. The block is
// lower-cased before parsing so searches are case-insensitive.
func define(id, doc string, build func() spacetime) {
	var md metadata
	if err := yaml.Unmarshal([]byte(strings.ToLower(doc)), &md); err != nil {
		panic(fmt.Sprintf("metrics: %s: bad metadata: %v", id, err))
	}
	parts := []string{md.Name, md.References.String(), md.Coordinates, md.Symmetry.String(), md.Notes.String()}
	catalog = append(catalog, &Entry{
		ID:          id,
		Name:        md.Name,
		References:  md.References,
		Coordinates: md.Coordinates,
		Symmetry:    md.Symmetry,
		Notes:       md.Notes,
		Doc:         strings.TrimSpace(doc),
		text:        strings.Join(parts, "\n"),
		build:       build,
	})
}

// All returns every entry ordered by ID.
func All() []*Entry {
	out := append([]*Entry(nil), catalog...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the entry with the given ID, such as "de_sitter_1".
func Get(id string) (*Entry, error) {
	for _, e := range catalog {
		if e.ID == strings.ToLower(id) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Load builds the metric with the given ID under the symbol "g".
func Load(id string) (*goricci.Metric, error) {
	e, err := Get(id)
	if err != nil {
		return nil, err
	}
	return e.Metric("g")
}

// ============================================================
// Search
// ============================================================

func filter(entries []*Entry, value string, field func(*Entry) string) []*Entry {
	if value == "" {
		return entries
	}
	value = strings.ToLower(value)
	var out []*Entry
	for _, e := range entries {
		if strings.Contains(field(e), value) {
			out = append(out, e)
		}
	}
	return out
}

func byCoords(e *Entry) string   { return e.Coordinates }
func bySymmetry(e *Entry) string { return e.SymmetryString() }
func byNotes(e *Entry) string    { return e.NotesString() }

// Query narrows a search. Empty fields match everything; every listed
// symmetry and note must match.
type Query struct {
	Sub        string
	Symmetries []string
	Coords     string
	Notes      []string
}

// Find returns the sorted, de-duplicated names of matching metrics. Sub
// matches anywhere in the metadata.
func Find(q Query) []string {
	entries := catalog
	for _, s := range q.Symmetries {
		entries = filter(entries, s, bySymmetry)
	}
	entries = filter(entries, q.Coords, byCoords)
	for _, n := range q.Notes {
		entries = filter(entries, n, byNotes)
	}
	sub := strings.ToLower(q.Sub)
	seen := map[string]bool{}
	var names []string
	for _, e := range entries {
		if sub != "" && !strings.Contains(e.text, sub) {
			continue
		}
		if !seen[e.Name] {
			seen[e.Name] = true
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Data returns the entries named name, narrowed by coordinate type and
// notes.
func Data(name, coords string, notes ...string) ([]*Entry, error) {
	name = strings.ToLower(name)
	var entries []*Entry
	for _, e := range All() {
		if e.Name == name {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	entries = filter(entries, coords, byCoords)
	for _, n := range notes {
		entries = filter(entries, n, byNotes)
	}
	return entries, nil
}

// CoordinateTypes lists the coordinate systems the named metric is
// available in.
func CoordinateTypes(name string, notes ...string) ([]string, error) {
	entries, err := Data(name, "", notes...)
	if err != nil {
		return nil, err
	}
	return distinct(entries, byCoords), nil
}

// Variations lists the notes that distinguish entries of the named metric.
func Variations(name, coords string) ([]string, error) {
	entries, err := Data(name, coords)
	if err != nil {
		return nil, err
	}
	return distinct(entries, byNotes), nil
}

func distinct(entries []*Entry, field func(*Entry) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range entries {
		v := field(e)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
