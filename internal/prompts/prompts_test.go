package prompts

import "testing"

func TestNarrativeQuestion(t *testing.T) {
	got := NarrativeQuestion("red rose", "Love")
	want := "Why is the flower red rose associated with the meaning 'Love'? Explain the cultural or historical significance behind the red rose."
	if got != want {
		t.Errorf("NarrativeQuestion() = %q, want %q", got, want)
	}
}
