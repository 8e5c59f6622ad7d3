package notification

import "testing"

func TestMaxRetriesForSeverityKnown(t *testing.T) {
	cases := map[string]int{
		SeverityCritical: 6,
		SeverityHigh:     5,
		SeverityMedium:   3,
		SeverityLow:      2,
		SeverityInfo:     1,
	}
	for severity, want := range cases {
		if got := MaxRetriesForSeverity(severity); got != want {
			t.Errorf("MaxRetriesForSeverity(%q) = %d, want %d", severity, got, want)
		}
	}
}

func TestMaxRetriesForSeverityUnknownFallsBackToDefault(t *testing.T) {
	if got := MaxRetriesForSeverity("not-a-real-severity"); got != 3 {
		t.Errorf("got %d, want default of 3", got)
	}
}
