package emotion

import (
	"encoding/json"
	"testing"
)

func TestTopNLengthAndOrder(t *testing.T) {
	scores := Scores{
		{Label: "Calmness", Value: 0.31},
		{Label: "Joy", Value: 0.87},
		{Label: "Interest", Value: 0.52},
		{Label: "Boredom", Value: 0.05},
	}

	top := TopN(scores, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].Value > top[i-1].Value {
			t.Fatalf("not sorted descending at index %d: %v", i, top)
		}
	}
	if top[0].Label != "Joy" {
		t.Fatalf("expected Joy first, got %s", top[0].Label)
	}
}

func TestTopNClampsToInputSize(t *testing.T) {
	scores := Scores{{Label: "Joy", Value: 0.5}}
	if got := TopN(scores, 3); len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got := TopN(nil, 3); len(got) != 0 {
		t.Fatalf("expected empty result for empty input, got %d", len(got))
	}
}

func TestTopNStableOnTies(t *testing.T) {
	scores := Scores{
		{Label: "Awe", Value: 0.4},
		{Label: "Pride", Value: 0.4},
		{Label: "Fear", Value: 0.4},
	}

	top := TopN(scores, 2)
	if top[0].Label != "Awe" || top[1].Label != "Pride" {
		t.Fatalf("ties must preserve original order, got %v", top)
	}
}

func TestTopNIdempotentOnSortedInput(t *testing.T) {
	scores := Scores{
		{Label: "Joy", Value: 0.9},
		{Label: "Calmness", Value: 0.6},
		{Label: "Interest", Value: 0.3},
	}

	once := TopN(scores, 3)
	twice := TopN(once, 3)
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("re-sorting sorted input changed result: %v vs %v", once, twice)
		}
	}
}

func TestUnmarshalPreservesKeyOrder(t *testing.T) {
	raw := []byte(`{"Interest": 0.12, "Joy": 0.80, "Calmness": 0.44}`)

	var scores Scores
	if err := json.Unmarshal(raw, &scores); err != nil {
		t.Fatalf("unmarshal err: %v", err)
	}

	want := []string{"Interest", "Joy", "Calmness"}
	if len(scores) != len(want) {
		t.Fatalf("expected %d scores, got %d", len(want), len(scores))
	}
	for i, label := range want {
		if scores[i].Label != label {
			t.Fatalf("expected label %s at index %d, got %s", label, i, scores[i].Label)
		}
	}
	if scores[1].Value != 0.80 {
		t.Fatalf("unexpected score for Joy: %f", scores[1].Value)
	}
}

func TestUnmarshalRejectsNonObject(t *testing.T) {
	var scores Scores
	if err := json.Unmarshal([]byte(`[1, 2]`), &scores); err == nil {
		t.Fatal("expected error for non-object input")
	}
}

func TestAggregateTakesMaxPerLabel(t *testing.T) {
	sets := []Scores{
		{{Label: "Joy", Value: 0.2}},
		{{Label: "Joy", Value: 0.9}, {Label: "Calmness", Value: 0.3}},
		{{Label: "Joy", Value: 0.5}},
	}

	agg := Aggregate(sets)
	if len(agg) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(agg))
	}
	if agg[0].Label != "Joy" || agg[0].Value != 0.9 {
		t.Fatalf("expected Joy max 0.9, got %v", agg[0])
	}
	if agg[1].Label != "Calmness" || agg[1].Value != 0.3 {
		t.Fatalf("expected Calmness 0.3, got %v", agg[1])
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	if agg := Aggregate(nil); len(agg) != 0 {
		t.Fatalf("expected empty profile, got %v", agg)
	}
}

func TestFormatProfile(t *testing.T) {
	scores := Scores{
		{Label: "Joy", Value: 0.871},
		{Label: "Calmness", Value: 0.4},
	}

	got := FormatProfile(scores)
	want := "Joy (probability: 0.87), Calmness (probability: 0.40)"
	if got != want {
		t.Fatalf("unexpected profile format: %q", got)
	}
}

func TestFormatInline(t *testing.T) {
	scores := Scores{{Label: "Joy", Value: 0.8}, {Label: "Awe", Value: 0.25}}
	if got := FormatInline(scores); got != "Joy (0.80) | Awe (0.25)" {
		t.Fatalf("unexpected inline format: %q", got)
	}
}
