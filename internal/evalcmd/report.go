package evalcmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/lehigh-university-libraries/partsdesk/internal/eval/results"
)

func executeReport(path, format string, out io.Writer) error {
	run, err := results.LoadYAML(path)
	if err != nil {
		return err
	}

	switch format {
	case "text":
		return printTextReport(run, out)
	case "json":
		return printJSONReport(run, out)
	case "csv":
		return printCSVReport(run, out)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printTextReport(run *results.EvalRun, out io.Writer) error {
	fmt.Fprintln(out, "========================================")
	fmt.Fprintln(out, "Routing Evaluation Report")
	fmt.Fprintln(out, "========================================")
	fmt.Fprintf(out, "Classifier: %s\n", run.Config.Classifier)
	fmt.Fprintf(out, "Dataset:    %s\n", run.Config.DatasetPath)
	fmt.Fprintf(out, "Run at:     %s\n", run.Config.Timestamp)

	run.Summary.PrintSummary(out)

	fmt.Fprintln(out, "\nMisclassified queries:")
	misses := 0
	for _, r := range run.Results {
		switch {
		case r.Error != "":
			fmt.Fprintf(out, "  [%s] error: %s\n", r.ID, r.Error)
		case !r.ScopeCorrect():
			fmt.Fprintf(out, "  [%s] scope expected=%t actual=%t  %q\n", r.ID, r.ExpectedInScope, r.ActualInScope, truncate(r.Query, 60))
		case r.IntentLabelled() && !r.IntentCorrect():
			fmt.Fprintf(out, "  [%s] intent expected=%s actual=%s  %q\n", r.ID, r.ExpectedIntent, r.ActualIntent, truncate(r.Query, 60))
		default:
			continue
		}
		misses++
	}
	if misses == 0 {
		fmt.Fprintln(out, "  none")
	}
	return nil
}

func printJSONReport(run *results.EvalRun, out io.Writer) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(run)
}

func printCSVReport(run *results.EvalRun, out io.Writer) error {
	writer := csv.NewWriter(out)

	header := []string{"ID", "Query", "Expected In Scope", "Actual In Scope", "Expected Intent", "Actual Intent", "Confidence", "Error"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, r := range run.Results {
		row := []string{
			r.ID,
			r.Query,
			strconv.FormatBool(r.ExpectedInScope),
			strconv.FormatBool(r.ActualInScope),
			r.ExpectedIntent,
			r.ActualIntent,
			fmt.Sprintf("%.4f", r.Confidence),
			r.Error,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
