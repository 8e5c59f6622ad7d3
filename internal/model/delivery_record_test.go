package model

import "testing"

func TestFailureReasonRetriable(t *testing.T) {
	cases := map[FailureReason]bool{
		FailureAuth:     false,
		FailureContent:  false,
		FailureNetwork:  true,
		FailureProvider: true,
		FailureInternal: true,
	}
	for reason, want := range cases {
		if got := reason.Retriable(); got != want {
			t.Errorf("%s.Retriable() = %v, want %v", reason, got, want)
		}
	}
}

func TestDeliveryRecordInFlight(t *testing.T) {
	for _, state := range []DeliveryState{StatePending, StateRetrying} {
		rec := DeliveryRecord{State: state}
		if !rec.InFlight() {
			t.Errorf("state %s should be in flight", state)
		}
		if rec.Terminal() {
			t.Errorf("state %s should not be terminal", state)
		}
	}
}

func TestDeliveryRecordTerminal(t *testing.T) {
	for _, state := range []DeliveryState{StateSuccess, StateFailed} {
		rec := DeliveryRecord{State: state}
		if !rec.Terminal() {
			t.Errorf("state %s should be terminal", state)
		}
		if rec.InFlight() {
			t.Errorf("state %s should not be in flight", state)
		}
	}
}
