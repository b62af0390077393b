// Package cli implements tryonctl, the operator command line for the try-on
// service. It shares the component wiring with the API server so a command
// exercises exactly what a request would.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gelehaus/tryon/internal/bootstrap"
	"github.com/gelehaus/tryon/internal/infra"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// App carries the state shared by every command.
type App struct {
	version string
	out     io.Writer
	errOut  io.Writer

	format  string
	verbose bool

	// LoadConfig is replaceable so tests can skip the environment.
	LoadConfig func() (*infra.Config, error)

	cfg    *infra.Config
	logger zerolog.Logger
}

// New returns an App writing results to out and logs to errOut.
func New(version string, out, errOut io.Writer) *App {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &App{
		version:    version,
		out:        out,
		errOut:     errOut,
		LoadConfig: infra.LoadConfig,
		logger:     zerolog.Nop(),
	}
}

// Execute runs the command tree against args.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// RootCommand builds a fresh command tree bound to a.
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "tryonctl",
		Short: "Operate the gele try-on service",
		Long: `tryonctl inspects the gele catalog, checks credentials and runs
single try-on or mannequin conversions with the same pipeline the API uses.`,
		Version:           a.version,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.SetVersionTemplate("tryonctl {{.Version}}\n")

	root.PersistentFlags().StringVarP(&a.format, "format", "o", FormatTable, "output format: table, json, yaml")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log pipeline stages to stderr")

	root.AddCommand(
		newStylesCommand(a),
		newTryOnCommand(a),
		newMannequinCommand(a),
		newConfigCommand(a),
	)
	return root
}

func (a *App) setup(_ *cobra.Command, _ []string) error {
	a.format = strings.ToLower(strings.TrimSpace(a.format))
	switch a.format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("unknown format %q", a.format)
	}

	cfg, err := a.LoadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := zerolog.WarnLevel
	if a.verbose {
		level = zerolog.DebugLevel
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: a.errOut, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
	return nil
}

func (a *App) build(ctx context.Context, o bootstrap.Overrides) (*bootstrap.Components, error) {
	return bootstrap.Build(ctx, a.cfg, &a.logger, o)
}
