package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/partsdesk/internal/eval/metrics"
)

// EvalConfig is the configuration section of the eval YAML.
type EvalConfig struct {
	Classifier  string `json:"classifier" yaml:"classifier"`
	DatasetPath string `json:"dataset_path" yaml:"datasetpath"`
	SampleSize  int    `json:"sample_size" yaml:"samplesize"`
	Concurrency int    `json:"concurrency" yaml:"concurrency"`
	Timestamp   string `json:"timestamp" yaml:"timestamp"`
}

// EvalRun is a saved evaluation run.
type EvalRun struct {
	Config  EvalConfig                `json:"config" yaml:"config"`
	Summary *metrics.AggregateResults `json:"summary" yaml:"summary"`
	Results []metrics.CaseResult      `json:"results" yaml:"results"`
}

// SaveToYAML writes the run to dir and returns the file path.
func SaveToYAML(dir string, cfg EvalConfig, agg *metrics.AggregateResults) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", dir, err)
	}

	if cfg.Timestamp == "" {
		cfg.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}
	run := EvalRun{
		Config:  cfg,
		Summary: agg,
		Results: agg.Results,
	}

	data, err := yaml.Marshal(&run)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s-%s.yaml", cfg.Classifier, cfg.Timestamp))
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}
	return filename, nil
}

// LoadYAML reads a saved run. The per-case results are reattached to the
// summary.
func LoadYAML(path string) (*EvalRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	var run EvalRun
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to parse results: %w", err)
	}
	if run.Summary == nil {
		run.Summary = metrics.Aggregate(run.Results)
	}
	run.Summary.Results = run.Results
	return &run, nil
}
