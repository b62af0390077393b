package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gelehaus/tryon/internal/bootstrap"
)

type configReport struct {
	Deployment  string                 `json:"deployment" yaml:"deployment"`
	Ready       bool                   `json:"ready" yaml:"ready"`
	Problem     string                 `json:"problem,omitempty" yaml:"problem,omitempty"`
	Credentials []bootstrap.Credential `json:"credentials" yaml:"credentials"`
}

// errNotReady makes `config check` exit non-zero after printing its report.
var errNotReady = errors.New("try-on is not fully configured")

func newConfigCommand(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the loaded configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Report which credentials are present and whether try-on can run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.build(cmd.Context(), bootstrap.Overrides{})
			if err != nil {
				return err
			}
			report := configReport{
				Deployment:  bootstrap.Describe(c),
				Ready:       true,
				Credentials: bootstrap.CredentialReport(a.cfg),
			}
			if err := c.Pipeline.Preflight(); err != nil {
				report.Ready = false
				report.Problem = err.Error()
			}
			if err := a.render(report, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "Deployment:\t%s\n", report.Deployment)
				fmt.Fprintf(w, "Ready:\t%t\n", report.Ready)
				if report.Problem != "" {
					fmt.Fprintf(w, "Problem:\t%s\n", report.Problem)
				}
				fmt.Fprintln(w)
				fmt.Fprintln(w, "COMPONENT\tENV\tPRESENT")
				for _, cred := range report.Credentials {
					fmt.Fprintf(w, "%s\t%s\t%t\n", cred.Component, cred.Env, cred.Present)
				}
			}); err != nil {
				return err
			}
			if !report.Ready {
				return errNotReady
			}
			return nil
		},
	})
	return cmd
}
