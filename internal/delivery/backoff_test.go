package delivery

import (
	"testing"
	"time"
)

func TestBackoffGrowsWithRetryCount(t *testing.T) {
	// jitter is ±25%, so compare against the widest possible bound for the lower retry count
	// to confirm the *base* delay still grows monotonically with retryCount.
	first := Backoff(1)
	fourth := Backoff(4)

	maxFirst := time.Duration(float64(backoffBase) * (1 + jitterFraction))
	minFourth := time.Duration(float64(backoffBase) * 8 * (1 - jitterFraction))

	if first > maxFirst {
		t.Fatalf("Backoff(1) = %v exceeds max possible bound %v", first, maxFirst)
	}
	if fourth < minFourth {
		t.Fatalf("Backoff(4) = %v is below min possible bound %v", fourth, minFourth)
	}
}

func TestBackoffCappedAtOneHour(t *testing.T) {
	d := Backoff(100)
	maxAllowed := backoffCap
	if d > maxAllowed {
		t.Fatalf("Backoff(100) = %v exceeds cap %v", d, maxAllowed)
	}
}

func TestBackoffNeverNegative(t *testing.T) {
	for i := 0; i < 50; i++ {
		if d := Backoff(i); d < 0 {
			t.Fatalf("Backoff(%d) = %v is negative", i, d)
		}
	}
}

func TestBackoffTreatsNonPositiveRetryCountAsOne(t *testing.T) {
	zero := Backoff(0)
	maxFirst := time.Duration(float64(backoffBase) * (1 + jitterFraction))
	if zero > maxFirst {
		t.Fatalf("Backoff(0) = %v should behave like Backoff(1), exceeds %v", zero, maxFirst)
	}
}
