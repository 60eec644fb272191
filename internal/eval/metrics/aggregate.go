package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// CaseResult is the routing produced for one labelled query.
type CaseResult struct {
	ID              string        `json:"id" yaml:"id"`
	Query           string        `json:"query" yaml:"query"`
	ExpectedInScope bool          `json:"expected_in_scope" yaml:"expectedinscope"`
	ActualInScope   bool          `json:"actual_in_scope" yaml:"actualinscope"`
	ExpectedIntent  string        `json:"expected_intent,omitempty" yaml:"expectedintent,omitempty"`
	ActualIntent    string        `json:"actual_intent,omitempty" yaml:"actualintent,omitempty"`
	Confidence      float64       `json:"confidence" yaml:"confidence"`
	ProcessingTime  time.Duration `json:"processing_time" yaml:"processingtime"`
	Error           string        `json:"error,omitempty" yaml:"error,omitempty"` // If classification failed
}

// ScopeCorrect reports whether the scope gate agreed with the label.
func (r CaseResult) ScopeCorrect() bool {
	return r.Error == "" && r.ExpectedInScope == r.ActualInScope
}

// IntentLabelled reports whether the case counts toward intent accuracy.
func (r CaseResult) IntentLabelled() bool {
	return r.ExpectedIntent != ""
}

func (r CaseResult) IntentCorrect() bool {
	return r.Error == "" && r.IntentLabelled() && r.ExpectedIntent == r.ActualIntent
}

// AggregateResults summarizes a run.
type AggregateResults struct {
	TotalRecords int `json:"total_records" yaml:"totalrecords"`
	SuccessCount int `json:"success_count" yaml:"successcount"`
	FailureCount int `json:"failure_count" yaml:"failurecount"`

	ScopeCorrect  int     `json:"scope_correct" yaml:"scopecorrect"`
	ScopeAccuracy float64 `json:"scope_accuracy" yaml:"scopeaccuracy"`

	// Out-of-scope queries let through, and in-scope queries refused.
	FalseAccepts int `json:"false_accepts" yaml:"falseaccepts"`
	FalseRejects int `json:"false_rejects" yaml:"falserejects"`

	IntentLabelled int                    `json:"intent_labelled" yaml:"intentlabelled"`
	IntentCorrect  int                    `json:"intent_correct" yaml:"intentcorrect"`
	IntentAccuracy float64                `json:"intent_accuracy" yaml:"intentaccuracy"`
	PerIntent      map[string]IntentStats `json:"per_intent" yaml:"perintent"`

	// Confusion counts expected -> actual for misrouted queries.
	Confusion map[string]map[string]int `json:"confusion" yaml:"confusion"`

	AverageProcessingTime time.Duration `json:"average_processing_time" yaml:"averageprocessingtime"`
	TotalProcessingTime   time.Duration `json:"total_processing_time" yaml:"totalprocessingtime"`

	Results        []CaseResult `json:"results" yaml:"-"`
	EvaluationDate time.Time    `json:"evaluation_date" yaml:"evaluationdate"`
}

// IntentStats holds per-intent precision and recall.
type IntentStats struct {
	Expected  int     `json:"expected" yaml:"expected"`
	Predicted int     `json:"predicted" yaml:"predicted"`
	Correct   int     `json:"correct" yaml:"correct"`
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
}

func Aggregate(results []CaseResult) *AggregateResults {
	agg := &AggregateResults{
		TotalRecords:   len(results),
		PerIntent:      make(map[string]IntentStats),
		Confusion:      make(map[string]map[string]int),
		Results:        results,
		EvaluationDate: time.Now(),
	}

	var successDuration time.Duration
	for _, r := range results {
		agg.TotalProcessingTime += r.ProcessingTime
		if r.Error != "" {
			agg.FailureCount++
			continue
		}
		agg.SuccessCount++
		successDuration += r.ProcessingTime

		switch {
		case r.ScopeCorrect():
			agg.ScopeCorrect++
		case r.ActualInScope:
			agg.FalseAccepts++
		default:
			agg.FalseRejects++
		}

		if !r.IntentLabelled() {
			continue
		}
		agg.IntentLabelled++

		expected := agg.PerIntent[r.ExpectedIntent]
		expected.Expected++
		if r.IntentCorrect() {
			agg.IntentCorrect++
			expected.Correct++
		}
		agg.PerIntent[r.ExpectedIntent] = expected

		predicted := agg.PerIntent[r.ActualIntent]
		predicted.Predicted++
		agg.PerIntent[r.ActualIntent] = predicted

		if !r.IntentCorrect() {
			row := agg.Confusion[r.ExpectedIntent]
			if row == nil {
				row = make(map[string]int)
				agg.Confusion[r.ExpectedIntent] = row
			}
			row[r.ActualIntent]++
		}
	}

	for name, s := range agg.PerIntent {
		s.Precision = ratio(s.Correct, s.Predicted)
		s.Recall = ratio(s.Correct, s.Expected)
		agg.PerIntent[name] = s
	}
	agg.ScopeAccuracy = ratio(agg.ScopeCorrect, agg.SuccessCount)
	agg.IntentAccuracy = ratio(agg.IntentCorrect, agg.IntentLabelled)
	if agg.SuccessCount > 0 {
		agg.AverageProcessingTime = successDuration / time.Duration(agg.SuccessCount)
	}
	return agg
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// Intents lists every intent seen in the run, sorted.
func (a *AggregateResults) Intents() []string {
	names := make([]string, 0, len(a.PerIntent))
	for name := range a.PerIntent {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PrintSummary writes a human-readable summary.
func (a *AggregateResults) PrintSummary(w io.Writer) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 70))
	fmt.Fprintln(w, "PARTSDESK ROUTING EVALUATION SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "Evaluation Date: %s\n", a.EvaluationDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Total Records: %d\n", a.TotalRecords)
	fmt.Fprintf(w, "Successful: %d\n", a.SuccessCount)
	fmt.Fprintf(w, "Failed: %d\n", a.FailureCount)
	fmt.Fprintf(w, "Average Processing Time: %s\n", a.AverageProcessingTime)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "SCOPE GATE")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "Accuracy: %.2f%% (%d/%d)\n", a.ScopeAccuracy*100, a.ScopeCorrect, a.SuccessCount)
	fmt.Fprintf(w, "False accepts: %d\n", a.FalseAccepts)
	fmt.Fprintf(w, "False rejects: %d\n", a.FalseRejects)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "INTENT ROUTING")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintf(w, "Accuracy: %.2f%% (%d/%d)\n", a.IntentAccuracy*100, a.IntentCorrect, a.IntentLabelled)
	for _, name := range a.Intents() {
		s := a.PerIntent[name]
		fmt.Fprintf(w, "  %-22s precision %.2f  recall %.2f  (expected %d, predicted %d)\n",
			name, s.Precision, s.Recall, s.Expected, s.Predicted)
	}
	if len(a.Confusion) > 0 {
		fmt.Fprintln(w, "\nMisroutes:")
		expected := make([]string, 0, len(a.Confusion))
		for name := range a.Confusion {
			expected = append(expected, name)
		}
		sort.Strings(expected)
		for _, e := range expected {
			for actual, n := range a.Confusion[e] {
				fmt.Fprintf(w, "  %s -> %s: %d\n", e, actual, n)
			}
		}
	}
	fmt.Fprintln(w, strings.Repeat("=", 70))
}
