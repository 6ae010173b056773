// Command goricci searches the metric catalog, prints Christoffel symbols and
// serves the JSON tool surface over HTTP.
//
// Usage:
//
//	goricci find --symmetry static --symmetry spherical
//	goricci show minkowski --coords spherical
//	goricci christoffel static_spherical_1 --simplify
//	goricci eval minkowski_2 r=2 theta=1.57
//	goricci serve --port 8080
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what the subcommands share.
type app struct {
	logLevel string
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "goricci",
		Short:        "Tensor algebra over a catalog of exact spacetimes",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel(a.logLevel)
			if err != nil {
				return err
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		a.findCmd(),
		a.showCmd(),
		a.christoffelCmd(),
		a.evalCmd(),
		a.serveCmd(),
	)
	return root
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q", s)
	}
	return level, nil
}
