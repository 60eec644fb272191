package evalcmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/partsdesk/internal/eval/dataset"
	"github.com/lehigh-university-libraries/partsdesk/internal/eval/metrics"
	"github.com/lehigh-university-libraries/partsdesk/internal/eval/results"
	"github.com/lehigh-university-libraries/partsdesk/internal/intent"
	"github.com/lehigh-university-libraries/partsdesk/internal/result"
	"github.com/lehigh-university-libraries/partsdesk/internal/scope"
)

const classifierName = "rules"

// Classifier routes one query.
type Classifier interface {
	Classify(text string) result.Result[intent.Classification]
}

type runOptions struct {
	DatasetPath string
	OutputDir   string
	Sample      int
	Concurrency int
}

func executeRun(ctx context.Context, opts runOptions, out io.Writer) error {
	slog.Info("Starting evaluation run", "dataset", opts.DatasetPath, "sample", opts.Sample)

	records, err := dataset.NewLoader(opts.DatasetPath).LoadSample(opts.Sample)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	slog.Info("Dataset loaded", "items", len(records))

	classifier := intent.NewClassifier(scope.NewClassifier())
	caseResults, err := evaluate(ctx, classifier, records, opts.Concurrency)
	if err != nil {
		return err
	}

	agg := metrics.Aggregate(caseResults)
	path, err := results.SaveToYAML(opts.OutputDir, results.EvalConfig{
		Classifier:  classifierName,
		DatasetPath: opts.DatasetPath,
		SampleSize:  len(records),
		Concurrency: opts.Concurrency,
	}, agg)
	if err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	agg.PrintSummary(out)
	fmt.Fprintf(out, "\nResults saved to: %s\n", path)
	fmt.Fprintf(out, "\nGenerate a detailed report with:\n")
	fmt.Fprintf(out, "  partsdesk eval report --results %s\n", path)
	return nil
}

// evaluate classifies every record on a bounded pool of workers. Results
// keep dataset order.
func evaluate(ctx context.Context, classifier Classifier, records []dataset.LabelledQuery, concurrency int) ([]metrics.CaseResult, error) {
	concurrency = max(concurrency, 1)
	out := make([]metrics.CaseResult, len(records))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)
	for i, record := range records {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int, record dataset.LabelledQuery) {
			defer wg.Done()
			defer func() { <-semaphore }()

			out[idx] = classify(classifier, record)
			slog.Debug("Classified query", "id", record.ID, "progress", fmt.Sprintf("%d/%d", idx+1, len(records)))
		}(i, record)
	}
	wg.Wait()
	return out, nil
}

func classify(classifier Classifier, record dataset.LabelledQuery) metrics.CaseResult {
	r := metrics.CaseResult{
		ID:              record.ID,
		Query:           record.Query,
		ExpectedInScope: record.ExpectedInScope,
		ExpectedIntent:  record.ExpectedIntent,
	}

	start := time.Now()
	res := classifier.Classify(record.Query)
	r.ProcessingTime = time.Since(start)

	c, ok := res.Get()
	if !ok {
		r.Error = res.Reason()
		return r
	}
	r.ActualInScope = c.Intent != intent.OutOfScope
	r.ActualIntent = c.Intent.String()
	r.Confidence = c.Confidence
	return r
}
