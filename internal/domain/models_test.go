package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewBatchResolutionResponse_EncodesEmptyLists(t *testing.T) {
	b := NewBatchResolutionResponse(0)
	b.Tally()

	raw, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(raw)
	for _, want := range []string{`"results":[]`, `"errors":[]`, `"total":0`, `"success_count":0`, `"error_count":0`} {
		if !strings.Contains(got, want) {
			t.Fatalf("encoded %s; missing %s", got, want)
		}
	}
}

func TestNewBatchResolutionResponse_NegativeCapacity(t *testing.T) {
	b := NewBatchResolutionResponse(-3)
	if b.Results == nil || b.Errors == nil {
		t.Fatalf("lists must be non-nil")
	}
}

func TestTally_AndValid(t *testing.T) {
	var b BatchResolutionResponse // nil lists on purpose
	b.Tally()
	if b.Results == nil || b.Errors == nil {
		t.Fatalf("Tally should replace nil lists")
	}

	b.Results = append(b.Results,
		ResolutionResult{InstagramURL: "u1", Shortcode: "a", VideoURL: "v1"},
		ResolutionResult{InstagramURL: "u3", Shortcode: "c", VideoURL: "v3"},
	)
	b.Errors = append(b.Errors, ResolutionError{InstagramURL: "u2", Error: "boom"})

	if b.Valid() {
		t.Fatalf("stale counters should be invalid: %+v", b)
	}
	b.Tally()
	if !b.Valid() || b.Total != 3 || b.SuccessCount != 2 || b.ErrorCount != 1 {
		t.Fatalf("unexpected tally: %+v", b)
	}
}

func TestJSONFieldNames(t *testing.T) {
	raw, _ := json.Marshal(ResolutionResult{InstagramURL: "i", Shortcode: "s", VideoURL: "v"})
	if string(raw) != `{"instagram_url":"i","shortcode":"s","video_url":"v"}` {
		t.Fatalf("result encoding = %s", raw)
	}
	raw, _ = json.Marshal(ResolutionError{InstagramURL: "i", Error: "e"})
	if string(raw) != `{"instagram_url":"i","error":"e"}` {
		t.Fatalf("error encoding = %s", raw)
	}
}
