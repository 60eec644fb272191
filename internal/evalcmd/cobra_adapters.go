package evalcmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command for scoring scope and intent routing
// against a labelled query set.
func NewRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Score scope and intent routing against labelled queries",
		Long: `Classify every query in a labelled dataset and compare the scope decision
and intent against the labels.

Datasets are JSONL (one object per line) or Parquet with the columns
id, query, expected_in_scope, expected_intent.`,
		Example: `  # Evaluate a JSONL dataset
  partsdesk eval run --dataset testdata/queries.jsonl

  # Evaluate the first 500 rows of a Parquet file with 8 workers
  partsdesk eval run --dataset queries.parquet --sample 500 --concurrency 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(opts.DatasetPath); os.IsNotExist(err) {
				return fmt.Errorf("dataset file not found: %s", opts.DatasetPath)
			}
			return executeRun(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.DatasetPath, "dataset", "", "Path to a labelled JSONL or Parquet file (required)")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "evals", "Directory for YAML results")
	cmd.Flags().IntVar(&opts.Sample, "sample", -1, "Number of records to evaluate (-1 for all)")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 4, "Number of concurrent workers")

	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	var path string
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a report from saved evaluation results",
		Example: `  partsdesk eval report --results evals/rules-2026-01-02_03-04-05.yaml
  partsdesk eval report --results evals/rules-2026-01-02_03-04-05.yaml --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeReport(path, format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&path, "results", "", "Path to a YAML results file (required)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, or csv")

	_ = cmd.MarkFlagRequired("results")
	return cmd
}
