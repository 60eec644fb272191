package dataset

// LabelledQuery is one chat message with the routing the pipeline is
// expected to produce for it.
type LabelledQuery struct {
	ID              string `json:"id" parquet:"id"`
	Query           string `json:"query" parquet:"query"`
	ExpectedInScope bool   `json:"expected_in_scope" parquet:"expected_in_scope"`
	// Empty when only the scope decision is labelled.
	ExpectedIntent string   `json:"expected_intent,omitempty" parquet:"expected_intent,optional"`
	PartNumbers    []string `json:"part_numbers,omitempty" parquet:"part_numbers,list"`
	ModelNumbers   []string `json:"model_numbers,omitempty" parquet:"model_numbers,list"`
	Notes          string   `json:"notes,omitempty" parquet:"notes,optional"`
}

// HasIntentLabel reports whether the record carries an intent label.
func (q *LabelledQuery) HasIntentLabel() bool {
	return q.ExpectedIntent != ""
}
