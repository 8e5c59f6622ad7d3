package channels

import (
	"context"
	"testing"

	"github.com/Wadijet/notifyhub/internal/model"
)

func TestStripHTML(t *testing.T) {
	got := stripHTML("<p>Hello <b>World</b></p>")
	if got != "Hello World" {
		t.Fatalf("got %q", got)
	}
}

func TestStripHTMLNoTags(t *testing.T) {
	got := stripHTML("plain text")
	if got != "plain text" {
		t.Fatalf("got %q", got)
	}
}

func TestClassifySMTPErrorAuth(t *testing.T) {
	out := classifySMTPError(errString("535 authentication failed"))
	if out.OK || out.FailureReason != model.FailureAuth {
		t.Fatalf("got %+v", out)
	}
	if out.Retriable {
		t.Fatal("auth errors must not be retriable")
	}
}

func TestClassifySMTPErrorContent(t *testing.T) {
	out := classifySMTPError(errString("550 no such user here"))
	if out.FailureReason != model.FailureContent {
		t.Fatalf("got %+v", out)
	}
}

func TestClassifySMTPErrorNetwork(t *testing.T) {
	out := classifySMTPError(errString("dial tcp: i/o timeout"))
	if out.FailureReason != model.FailureNetwork {
		t.Fatalf("got %+v", out)
	}
	if !out.Retriable {
		t.Fatal("network errors should be retriable")
	}
}

func TestEmailSenderFailsFastOnMissingCredentials(t *testing.T) {
	sender := NewEmailSender()
	out := sender.Send(context.Background(), &model.Credential{Secrets: map[string]string{}}, model.RenderedContent{}, "a@b.com")
	if out.OK {
		t.Fatal("expected failure for missing SMTP credentials")
	}
	if out.FailureReason != model.FailureAuth {
		t.Fatalf("got failure reason %q, want AUTH_ERROR", out.FailureReason)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
