package analysis

import "testing"

func TestSplitSentimentResponse(t *testing.T) {
	analysis, feedback, err := splitSentimentResponse(
		"  Hey there, it sounds like you're feeling great. ||| That's wonderful to hear.  ")
	if err != nil {
		t.Fatalf("split err: %v", err)
	}
	if analysis != "Hey there, it sounds like you're feeling great." {
		t.Fatalf("unexpected analysis part: %q", analysis)
	}
	if feedback != "That's wonderful to hear." {
		t.Fatalf("unexpected feedback part: %q", feedback)
	}
}

func TestSplitSentimentResponseFirstSeparatorWins(t *testing.T) {
	analysis, feedback, err := splitSentimentResponse("a|||b|||c")
	if err != nil {
		t.Fatalf("split err: %v", err)
	}
	if analysis != "a" || feedback != "b|||c" {
		t.Fatalf("expected split on first separator, got %q / %q", analysis, feedback)
	}
}

func TestSplitSentimentResponseMissingSeparator(t *testing.T) {
	if _, _, err := splitSentimentResponse("only one part"); err == nil {
		t.Fatal("expected error for missing separator")
	}
}
