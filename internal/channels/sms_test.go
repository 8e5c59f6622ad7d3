package channels

import (
	"context"
	"testing"

	"github.com/Wadijet/notifyhub/internal/model"
)

func TestSMSSenderRejectsNonE164Recipient(t *testing.T) {
	sender := NewSMSSender()
	out := sender.Send(context.Background(), &model.Credential{}, model.RenderedContent{}, "555-1234")
	if out.OK {
		t.Fatal("expected failure for a non-E.164 recipient")
	}
	if out.FailureReason != model.FailureContent {
		t.Fatalf("got failure reason %q, want CONTENT_ERROR", out.FailureReason)
	}
	if out.Retriable {
		t.Fatal("content errors must not be retriable")
	}
}

func TestSMSSenderAcceptsE164Format(t *testing.T) {
	cases := []string{"+14155552671", "+442071838750"}
	for _, recipient := range cases {
		if !e164Pattern.MatchString(recipient) {
			t.Errorf("expected %q to match E.164 pattern", recipient)
		}
	}
}

func TestSMSSenderFailsFastOnMissingCredentials(t *testing.T) {
	sender := NewSMSSender()
	cred := &model.Credential{Secrets: map[string]string{}}
	out := sender.Send(context.Background(), cred, model.RenderedContent{}, "+14155552671")
	if out.OK {
		t.Fatal("expected failure for missing SMS provider credentials")
	}
	if out.FailureReason != model.FailureAuth {
		t.Fatalf("got failure reason %q, want AUTH_ERROR", out.FailureReason)
	}
}
