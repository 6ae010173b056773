package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/njchilds90/goricci/mcp"
	"github.com/njchilds90/goricci/metrics"
	"github.com/njchilds90/goricci/numeric"
)

// ============================================================
// find
// ============================================================

func (a *app) findCmd() *cobra.Command {
	var q metrics.Query
	cmd := &cobra.Command{
		Use:   "find [text]",
		Short: "List catalog metrics matching text, symmetries, coordinates and notes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				q.Sub = args[0]
			}
			names := metrics.Find(q)
			a.logger.Debug("find", "query", q.Sub, "matches", len(names))
			if len(names) == 0 {
				return fmt.Errorf("no metric matches")
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&q.Symmetries, "symmetry", nil, "Required symmetry (repeatable)")
	cmd.Flags().StringVar(&q.Coords, "coords", "", "Coordinate type")
	cmd.Flags().StringSliceVar(&q.Notes, "notes", nil, "Required note (repeatable)")
	return cmd
}

// ============================================================
// show
// ============================================================

func (a *app) showCmd() *cobra.Command {
	var coords string
	var notes []string
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print the catalog entries of a metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := metrics.Data(args[0], coords, notes...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, e := range entries {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "[%s]\n", e.ID)
				fmt.Fprintln(out, e.Doc)
				names := make([]string, 0, 4)
				for _, c := range e.Coords() {
					names = append(names, c.Name())
				}
				fmt.Fprintf(out, "coords: %s\n", strings.Join(names, " "))
				if fs := e.Functions(); len(fs) > 0 {
					fmt.Fprintf(out, "functions: %s\n", strings.Join(fs, " "))
				}
				fmt.Fprintln(out, e.Matrix().String())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&coords, "coords", "", "Coordinate type")
	cmd.Flags().StringSliceVar(&notes, "notes", nil, "Required note (repeatable)")
	return cmd
}

// ============================================================
// christoffel
// ============================================================

func (a *app) christoffelCmd() *cobra.Command {
	var simplify bool
	cmd := &cobra.Command{
		Use:   "christoffel <id>",
		Short: "Print the non-zero Christoffel symbols of a catalog metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := metrics.Load(args[0])
			if err != nil {
				return err
			}
			gamma, err := g.Christoffel()
			if err != nil {
				return err
			}
			if simplify {
				if err := gamma.Simplify(); err != nil {
					return err
				}
			}
			comps := mcp.Components(gamma, g.Coords())
			a.logger.Info("christoffel", "id", args[0], "nonzero", len(comps))
			for _, c := range comps {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", c.Label, c.String)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&simplify, "simplify", false, "Canonicalize every component")
	return cmd
}

// ============================================================
// eval
// ============================================================

func (a *app) evalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <id> name=value...",
		Short: "Evaluate a catalog metric at a point",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := metrics.Load(args[0])
			if err != nil {
				return err
			}
			pt, err := parsePoint(args[1:])
			if err != nil {
				return err
			}
			env := numeric.At(pt)
			m, err := numeric.MetricAt(g, env)
			if err != nil {
				return err
			}
			neg, pos, err := numeric.Signature(g, env)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%v\n", mat.Formatted(m, mat.Squeeze()))
			fmt.Fprintf(out, "det = %.10g\n", mat.Det(m))
			fmt.Fprintf(out, "signature = (%d,%d)\n", neg, pos)
			return nil
		},
	}
}

func parsePoint(args []string) (map[string]float64, error) {
	pt := make(map[string]float64, len(args))
	for _, arg := range args {
		name, val, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected name=value, got %q", arg)
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		pt[name] = f
	}
	return pt, nil
}
