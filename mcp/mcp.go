// Package mcp exposes the metric catalog and the tensor layer as JSON tool
// calls for agent frameworks.
package mcp

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/njchilds90/goricci"
	"github.com/njchilds90/goricci/metrics"
	"github.com/njchilds90/goricci/numeric"
	"github.com/njchilds90/goricci/symbolic"
)

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Handler dispatches tool calls. The zero value is not usable; use
// NewHandler.
type Handler struct {
	log *slog.Logger
}

// NewHandler returns a handler that logs to logger, or discards when nil.
func NewHandler(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{log: logger}
}

// HandleToolCall runs req with a silent handler.
func HandleToolCall(req ToolRequest) ToolResponse { return NewHandler(nil).Call(req) }

// ============================================================
// Parameters
// ============================================================

type params map[string]interface{}

func (p params) str(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", fmt.Errorf("missing param: %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("param %s must be a string", key)
	}
	return s, nil
}

func (p params) optStr(key string) (string, error) {
	if _, ok := p[key]; !ok {
		return "", nil
	}
	return p.str(key)
}

func (p params) optStrings(key string) ([]string, error) {
	v, ok := p[key]
	if !ok {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		return []string{s}, nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("param %s must be array", key)
	}
	out := make([]string, len(raw))
	for i, r := range raw {
		s, ok := r.(string)
		if !ok {
			return nil, fmt.Errorf("param %s[%d] must be string", key, i)
		}
		out[i] = s
	}
	return out, nil
}

func (p params) optBool(key string) (bool, error) {
	v, ok := p[key]
	if !ok {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("param %s must be a boolean", key)
	}
	return b, nil
}

func (p params) expr(key string) (symbolic.Expr, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("missing param: %s", key)
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid type for param %s", key)
	}
	return symbolic.FromJSON(m)
}

func (p params) point(key string) (map[string]float64, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("missing param: %s", key)
	}
	raw, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("param %s must be an object of numbers", key)
	}
	out := make(map[string]float64, len(raw))
	for k, x := range raw {
		f, ok := x.(float64)
		if !ok {
			return nil, fmt.Errorf("param %s.%s must be a number", key, k)
		}
		out[k] = f
	}
	return out, nil
}

// ============================================================
// Dispatch
// ============================================================

func fail(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

func respond(e symbolic.Expr) ToolResponse {
	return ToolResponse{Result: symbolic.JSONMap(e), LaTeX: symbolic.LaTeX(e), String: symbolic.String(e)}
}

func respondStrings(ss []string) ToolResponse {
	if ss == nil {
		ss = []string{}
	}
	return ToolResponse{Result: ss, String: strings.Join(ss, ", ")}
}

// Call executes one tool call. Errors are reported in the response.
func (h *Handler) Call(req ToolRequest) ToolResponse {
	h.log.Debug("tool call", "tool", req.Tool)
	resp := h.call(req.Tool, params(req.Params))
	if resp.Error != "" {
		h.log.Info("tool failed", "tool", req.Tool, "error", resp.Error)
	}
	return resp
}

func (h *Handler) call(tool string, p params) ToolResponse {
	switch tool {
	case "find_metrics":
		var q metrics.Query
		var err error
		if q.Sub, err = p.optStr("sub"); err != nil {
			return fail(err)
		}
		if q.Symmetries, err = p.optStrings("symmetries"); err != nil {
			return fail(err)
		}
		if q.Coords, err = p.optStr("coords"); err != nil {
			return fail(err)
		}
		if q.Notes, err = p.optStrings("notes"); err != nil {
			return fail(err)
		}
		return respondStrings(metrics.Find(q))

	case "metric_data":
		name, err := p.str("name")
		if err != nil {
			return fail(err)
		}
		coords, err := p.optStr("coords")
		if err != nil {
			return fail(err)
		}
		notes, err := p.optStrings("notes")
		if err != nil {
			return fail(err)
		}
		entries, err := metrics.Data(name, coords, notes...)
		if err != nil {
			return fail(err)
		}
		out := make([]map[string]interface{}, len(entries))
		ids := make([]string, len(entries))
		for i, e := range entries {
			out[i] = entryJSON(e)
			ids[i] = e.ID
		}
		return ToolResponse{Result: out, String: strings.Join(ids, ", ")}

	case "coordinate_types":
		name, err := p.str("name")
		if err != nil {
			return fail(err)
		}
		notes, err := p.optStrings("notes")
		if err != nil {
			return fail(err)
		}
		ct, err := metrics.CoordinateTypes(name, notes...)
		if err != nil {
			return fail(err)
		}
		return respondStrings(ct)

	case "variations":
		name, err := p.str("name")
		if err != nil {
			return fail(err)
		}
		coords, err := p.optStr("coords")
		if err != nil {
			return fail(err)
		}
		vs, err := metrics.Variations(name, coords)
		if err != nil {
			return fail(err)
		}
		return respondStrings(vs)

	case "christoffel":
		g, err := h.load(p)
		if err != nil {
			return fail(err)
		}
		simplify, err := p.optBool("simplify")
		if err != nil {
			return fail(err)
		}
		gamma, err := g.Christoffel()
		if err != nil {
			return fail(err)
		}
		if simplify {
			if err := gamma.Simplify(); err != nil {
				return fail(err)
			}
		}
		comps := Components(gamma, g.Coords())
		lines := make([]string, len(comps))
		for i, c := range comps {
			lines[i] = c.Label + " = " + c.String
		}
		return ToolResponse{Result: comps, String: strings.Join(lines, "\n")}

	case "nabla_metric":
		g, err := h.load(p)
		if err != nil {
			return fail(err)
		}
		ok, err := MetricCompatible(g, h.log)
		if err != nil {
			return fail(err)
		}
		return ToolResponse{Result: ok, String: fmt.Sprint(ok)}

	case "evaluate_metric":
		g, err := h.load(p)
		if err != nil {
			return fail(err)
		}
		pt, err := p.point("point")
		if err != nil {
			return fail(err)
		}
		env := numeric.At(pt)
		m, err := numeric.MetricAt(g, env)
		if err != nil {
			return fail(err)
		}
		det, err := numeric.Det(g, env)
		if err != nil {
			return fail(err)
		}
		neg, pos, err := numeric.Signature(g, env)
		if err != nil {
			return fail(err)
		}
		n, _ := m.Dims()
		rows := make([][]float64, n)
		for i := range rows {
			rows[i] = make([]float64, n)
			for j := range rows[i] {
				rows[i][j] = m.At(i, j)
			}
		}
		return ToolResponse{
			Result: map[string]interface{}{"components": rows, "det": det, "signature": []int{neg, pos}},
			String: fmt.Sprintf("det=%.10g signature=(%d,%d)", det, neg, pos),
		}

	case "simplify":
		e, err := p.expr("expr")
		if err != nil {
			return fail(err)
		}
		return respond(symbolic.TrigSimplify(symbolic.Canonicalize(e)))

	case "expand":
		e, err := p.expr("expr")
		if err != nil {
			return fail(err)
		}
		return respond(symbolic.Expand(e))

	case "diff":
		e, err := p.expr("expr")
		if err != nil {
			return fail(err)
		}
		v, err := p.str("var")
		if err != nil {
			return fail(err)
		}
		return respond(symbolic.Diff(e, v))

	case "to_latex":
		e, err := p.expr("expr")
		if err != nil {
			return fail(err)
		}
		l := symbolic.LaTeX(e)
		return ToolResponse{Result: l, LaTeX: l, String: symbolic.String(e)}

	case "mcp_spec":
		return ToolResponse{Result: json.RawMessage(MCPToolSpec())}
	}
	return ToolResponse{Error: "unknown tool: " + tool}
}

func (h *Handler) load(p params) (*goricci.Metric, error) {
	id, err := p.str("id")
	if err != nil {
		return nil, err
	}
	h.log.Debug("loading metric", "id", id)
	return metrics.Load(id)
}

func entryJSON(e *metrics.Entry) map[string]interface{} {
	m := e.Matrix()
	coords := make([]string, 0, 4)
	for _, c := range e.Coords() {
		coords = append(coords, c.Name())
	}
	vars := make([]string, 0)
	for _, v := range e.Variables() {
		vars = append(vars, v.Name())
	}
	return map[string]interface{}{
		"id":          e.ID,
		"name":        e.Name,
		"references":  e.References,
		"coordinates": e.Coordinates,
		"symmetry":    e.Symmetry,
		"notes":       e.Notes,
		"coords":      coords,
		"variables":   vars,
		"functions":   e.Functions(),
		"metric":      m.String(),
		"latex":       m.LaTeX(),
	}
}

// ============================================================
// Tensor helpers
// ============================================================

// Component is one non-zero element of a rank-3 connection.
type Component struct {
	Index  []int  `json:"index"`
	Label  string `json:"label"`
	String string `json:"string"`
	LaTeX  string `json:"latex"`
}

// Components lists the non-zero elements of a Christoffel tensor with
// labels such as Γ^r_{theta theta}. Symmetric duplicates in the lower pair
// are listed once.
func Components(gamma *goricci.Tensor, coords []*symbolic.Sym) []Component {
	n := len(coords)
	var out []Component
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			for c := b; c < n; c++ {
				e := gamma.At(a, b, c)
				if symbolic.IsZero(e) {
					continue
				}
				out = append(out, Component{
					Index:  []int{a, b, c},
					Label:  fmt.Sprintf("Γ^%s_{%s %s}", coords[a].Name(), coords[b].Name(), coords[c].Name()),
					String: symbolic.String(e),
					LaTeX:  symbolic.LaTeX(e),
				})
			}
		}
	}
	return out
}

// MetricCompatible expands ∇_a g_{bc} over g and reports whether every
// component vanishes. A nil logger discards.
func MetricCompatible(g *goricci.Metric, logger *slog.Logger) (bool, error) {
	var opts []goricci.Option
	if logger != nil {
		opts = append(opts, goricci.WithLogger(logger))
	}
	al := goricci.NewAlgebra(opts...)
	idx := g.Indices("a b c")
	gd, err := g.Call(idx[1].Neg(), idx[2].Neg())
	if err != nil {
		return false, err
	}
	expr, err := al.Mul(g.Nabla(idx[0].Neg()), gd)
	if err != nil {
		return false, err
	}
	arr, err := al.ExpandArray(expr)
	if err != nil {
		return false, err
	}
	return arr.IsZero(), nil
}

// ============================================================
// Tool schema
// ============================================================

// MCPToolSpec returns the tool schema for agent registration.
func MCPToolSpec() string {
	tools := []map[string]interface{}{
		ts("find_metrics", "Search the metric catalog. Optional: sub, symmetries, coords, notes", []string{}, map[string]string{"sub": "string", "symmetries": "array", "coords": "string", "notes": "array"}),
		ts("metric_data", "Catalog entries for a metric name", []string{"name"}, map[string]string{"name": "string", "coords": "string", "notes": "array"}),
		ts("coordinate_types", "Coordinate systems a metric is available in", []string{"name"}, map[string]string{"name": "string", "notes": "array"}),
		ts("variations", "Notes distinguishing entries of a metric", []string{"name"}, map[string]string{"name": "string", "coords": "string"}),
		ts("christoffel", "Non-zero Christoffel symbols of a catalog metric", []string{"id"}, map[string]string{"id": "string", "simplify": "boolean"}),
		ts("nabla_metric", "Check that the covariant derivative of a catalog metric vanishes", []string{"id"}, map[string]string{"id": "string"}),
		ts("evaluate_metric", "Numeric components, determinant and signature at a point", []string{"id", "point"}, map[string]string{"id": "string", "point": "object"}),
		ts("simplify", "Canonicalize and apply trig identities", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("expand", "Algebraically expand expression", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("diff", "First derivative d/dx", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string"}),
		ts("to_latex", "Convert to LaTeX", []string{"expr"}, map[string]string{"expr": "object"}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
