package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/partsdesk/internal/evalcmd"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Query routing evaluation tools",
		Long: `Evaluation tools for measuring how accurately queries are scoped and routed
to intents, against a labelled dataset.`,
	}

	cmd.AddCommand(evalcmd.NewRunCmd())
	cmd.AddCommand(evalcmd.NewReportCmd())

	return cmd
}
