package mcp_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goricci/mcp"
	"github.com/njchilds90/goricci/metrics"
	"github.com/njchilds90/goricci/symbolic"
)

func exprParam(t *testing.T, e symbolic.Expr) map[string]interface{} {
	t.Helper()
	j, err := symbolic.ToJSON(e)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(j), &m))
	return m
}

func call(tool string, params map[string]interface{}) mcp.ToolResponse {
	return mcp.HandleToolCall(mcp.ToolRequest{Tool: tool, Params: params})
}

func TestFindMetrics(t *testing.T) {
	resp := call("find_metrics", map[string]interface{}{
		"symmetries": []interface{}{"static", "spherical"},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, []string{"generic static spherical", "heintzmann perfect fluid", "klein radiation perfect fluid", "pant and sah"}, resp.Result)

	resp = call("find_metrics", map[string]interface{}{"sub": "reissner"})
	require.Empty(t, resp.Error)
	assert.Equal(t, []string{}, resp.Result)

	resp = call("find_metrics", map[string]interface{}{"coords": 3})
	assert.Contains(t, resp.Error, "coords")
}

func TestMetricData(t *testing.T) {
	resp := call("metric_data", map[string]interface{}{"name": "minkowski", "coords": "spherical"})
	require.Empty(t, resp.Error)
	assert.Equal(t, "minkowski_2", resp.String)
	entries, ok := resp.Result.([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"t", "r", "theta", "phi"}, entries[0]["coords"])

	resp = call("metric_data", map[string]interface{}{"name": "kerr"})
	assert.Contains(t, resp.Error, "not found")

	resp = call("metric_data", map[string]interface{}{})
	assert.Equal(t, "missing param: name", resp.Error)
}

func TestCoordinateTypesAndVariations(t *testing.T) {
	resp := call("coordinate_types", map[string]interface{}{"name": "minkowski"})
	require.Empty(t, resp.Error)
	assert.Equal(t, "cartesian, null, spherical", resp.String)

	resp = call("variations", map[string]interface{}{"name": "generic static spherical"})
	require.Empty(t, resp.Error)
	assert.Equal(t, []string{"", "additional exponential factors"}, resp.Result)
}

func TestChristoffel(t *testing.T) {
	resp := call("christoffel", map[string]interface{}{"id": "minkowski_2", "simplify": true})
	require.Empty(t, resp.Error)
	comps, ok := resp.Result.([]mcp.Component)
	require.True(t, ok)
	require.Len(t, comps, 6)
	assert.Equal(t, []int{1, 2, 2}, comps[0].Index)
	assert.Equal(t, "Γ^r_{theta theta}", comps[0].Label)
	assert.Equal(t, "-1*r", comps[0].String)
	assert.Contains(t, resp.String, "Γ^theta_{r theta} = r^-1")

	resp = call("christoffel", map[string]interface{}{"id": "minkowski_1"})
	require.Empty(t, resp.Error)
	assert.Empty(t, resp.Result)

	resp = call("christoffel", map[string]interface{}{"id": "nope"})
	assert.Contains(t, resp.Error, "not found")
}

func TestNablaMetric(t *testing.T) {
	var buf bytes.Buffer
	h := mcp.NewHandler(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	resp := h.Call(mcp.ToolRequest{Tool: "nabla_metric", Params: map[string]interface{}{"id": "minkowski_2"}})
	require.Empty(t, resp.Error)
	assert.Equal(t, true, resp.Result)
	assert.Contains(t, buf.String(), "tool=nabla_metric")
	assert.Contains(t, buf.String(), "id=minkowski_2")
}

func TestMetricCompatible(t *testing.T) {
	g, err := metrics.Load("de_sitter_1")
	require.NoError(t, err)
	ok, err := mcp.MetricCompatible(g, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateMetric(t *testing.T) {
	resp := call("evaluate_metric", map[string]interface{}{
		"id":    "minkowski_2",
		"point": map[string]interface{}{"t": 0.0, "r": 2.0, "theta": 1.5707963267948966, "phi": 0.0},
	})
	require.Empty(t, resp.Error)
	res, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []int{1, 3}, res["signature"])
	assert.InDelta(t, -16.0, res["det"], 1e-9)

	resp = call("evaluate_metric", map[string]interface{}{"id": "minkowski_2", "point": map[string]interface{}{"r": "two"}})
	assert.Equal(t, "param point.r must be a number", resp.Error)

	resp = call("evaluate_metric", map[string]interface{}{"id": "minkowski_2", "point": map[string]interface{}{"r": 1.0}})
	assert.Contains(t, resp.Error, "unbound symbol")
}

func TestExpressionTools(t *testing.T) {
	x, th := symbolic.S("x"), symbolic.S("theta")
	sq := func(e symbolic.Expr) symbolic.Expr { return symbolic.PowOf(e, symbolic.N(2)) }

	resp := call("simplify", map[string]interface{}{
		"expr": exprParam(t, symbolic.AddOf(sq(symbolic.SinOf(th)), sq(symbolic.CosOf(th)))),
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "1", resp.String)

	resp = call("expand", map[string]interface{}{
		"expr": exprParam(t, sq(symbolic.AddOf(x, symbolic.N(1)))),
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "2*x + x^2 + 1", resp.String)

	resp = call("diff", map[string]interface{}{"expr": exprParam(t, sq(x)), "var": "x"})
	require.Empty(t, resp.Error)
	assert.Equal(t, "2*x", resp.String)

	resp = call("to_latex", map[string]interface{}{"expr": exprParam(t, symbolic.S("alpha"))})
	require.Empty(t, resp.Error)
	assert.Equal(t, `\alpha`, resp.LaTeX)

	resp = call("simplify", map[string]interface{}{"expr": "x"})
	assert.Equal(t, "invalid type for param expr", resp.Error)
}

func TestUnknownToolAndSpec(t *testing.T) {
	resp := call("nonexistent", map[string]interface{}{})
	assert.Equal(t, "unknown tool: nonexistent", resp.Error)

	var spec struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(mcp.MCPToolSpec()), &spec))
	names := make([]string, len(spec.Tools))
	for i, tool := range spec.Tools {
		names[i] = tool.Name
	}
	assert.Contains(t, names, "christoffel")
	assert.Contains(t, names, "find_metrics")

	resp = call("mcp_spec", nil)
	require.Empty(t, resp.Error)
	assert.IsType(t, json.RawMessage{}, resp.Result)
}
