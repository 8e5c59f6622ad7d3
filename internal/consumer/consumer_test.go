package consumer

import (
	"reflect"
	"testing"
)

func TestParseTopicsSplitsAndTrims(t *testing.T) {
	got := ParseTopics(" user.events , auth.events ,security.events")
	want := []string{"user.events", "auth.events", "security.events"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseTopicsDropsEmptyEntries(t *testing.T) {
	got := ParseTopics("user.events,,  ,auth.events")
	want := []string{"user.events", "auth.events"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseTopicsEmptyStringYieldsEmptySlice(t *testing.T) {
	got := ParseTopics("")
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}
