package result

import (
	"strconv"
	"testing"
)

func TestSuccess(t *testing.T) {
	r := Success(42, "search_parts")
	if !r.OK() {
		t.Fatal("expected success")
	}
	v, ok := r.Get()
	if !ok || v != 42 {
		t.Errorf("Expected 42, got %d (ok=%v)", v, ok)
	}
	if r.Err() != nil {
		t.Errorf("Expected nil error, got %v", r.Err())
	}
	if len(r.Tools()) != 1 || r.Tools()[0] != "search_parts" {
		t.Errorf("Unexpected tools %v", r.Tools())
	}
}

func TestFailureHasNoPayload(t *testing.T) {
	r := Failure[string]("classification failed: %s", "boom")
	if r.OK() {
		t.Fatal("expected failure")
	}
	v, ok := r.Get()
	if ok {
		t.Error("Get should report false for a failure")
	}
	if v != "" {
		t.Errorf("Expected zero value, got %q", v)
	}
	if r.Reason() != "classification failed: boom" {
		t.Errorf("Unexpected reason %q", r.Reason())
	}
	if r.Err() == nil {
		t.Error("Expected error for failure")
	}
}

func TestMap(t *testing.T) {
	tests := []struct {
		name   string
		in     Result[int]
		wantOK bool
		want   string
	}{
		{name: "success maps payload", in: Success(7), wantOK: true, want: "7"},
		{name: "failure passes through", in: Failure[int]("nope"), wantOK: false, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Map(tt.in, strconv.Itoa)
			got, ok := out.Get()
			if ok != tt.wantOK {
				t.Fatalf("Expected ok=%v, got %v", tt.wantOK, ok)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
			if !ok && out.Reason() != tt.in.Reason() {
				t.Errorf("Expected reason %q, got %q", tt.in.Reason(), out.Reason())
			}
		})
	}
}
