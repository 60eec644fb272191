package evalcmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/partsdesk/internal/eval/dataset"
	"github.com/lehigh-university-libraries/partsdesk/internal/intent"
	"github.com/lehigh-university-libraries/partsdesk/internal/result"
)

type failingClassifier struct{}

func (failingClassifier) Classify(string) result.Result[intent.Classification] {
	return result.Failure[intent.Classification]("classifier offline")
}

func TestEvaluateKeepsOrder(t *testing.T) {
	records := []dataset.LabelledQuery{
		{ID: "1", Query: "one"},
		{ID: "2", Query: "two"},
		{ID: "3", Query: "three"},
	}
	got, err := evaluate(t.Context(), failingClassifier{}, records, 2)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	for i, r := range got {
		if r.ID != records[i].ID {
			t.Errorf("Result %d: expected ID %s, got %s", i, records[i].ID, r.ID)
		}
		if r.Error != "classifier offline" {
			t.Errorf("Result %d: expected failure reason, got %q", i, r.Error)
		}
	}
}

func TestEvaluateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	records := []dataset.LabelledQuery{{ID: "1", Query: "one"}, {ID: "2", Query: "two"}}
	if _, err := evaluate(ctx, failingClassifier{}, records, 1); err == nil {
		t.Error("Expected cancellation error")
	}
}

func TestRunAndReport(t *testing.T) {
	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "queries.jsonl")
	content := `{"id":"lookup","query":"PS12364199","expected_in_scope":true,"expected_intent":"part_lookup"}
{"id":"offtopic","query":"what is the capital of France","expected_in_scope":false}
`
	if err := os.WriteFile(datasetPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "evals")

	var out bytes.Buffer
	err := executeRun(t.Context(), runOptions{DatasetPath: datasetPath, OutputDir: outDir, Sample: -1, Concurrency: 2}, &out)
	if err != nil {
		t.Fatalf("executeRun failed: %v", err)
	}
	if !strings.Contains(out.String(), "SCOPE GATE") {
		t.Errorf("Expected summary in output:\n%s", out.String())
	}

	files, err := filepath.Glob(filepath.Join(outDir, "rules-*.yaml"))
	if err != nil || len(files) != 1 {
		t.Fatalf("Expected one results file, got %v (%v)", files, err)
	}

	tests := []struct {
		format string
		want   string
	}{
		{format: "text", want: "Routing Evaluation Report"},
		{format: "json", want: `"classifier"`},
		{format: "csv", want: "ID,Query,Expected In Scope"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var report bytes.Buffer
			if err := executeReport(files[0], tt.format, &report); err != nil {
				t.Fatalf("executeReport failed: %v", err)
			}
			if !strings.Contains(report.String(), tt.want) {
				t.Errorf("Expected %q in report:\n%s", tt.want, report.String())
			}
		})
	}

	if err := executeReport(files[0], "xml", &out); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
