package channels

import (
	"context"
	"testing"

	"github.com/Wadijet/notifyhub/internal/model"
)

type pushErr string

func (e pushErr) Error() string { return string(e) }

func TestPushSenderClassifyUnregisteredDeactivatesToken(t *testing.T) {
	deactivated := false
	store := deactivateFunc(func(ctx context.Context, tenantID, token string) error {
		deactivated = true
		return nil
	})
	sender := NewPushSender(store)

	out := sender.classify(context.Background(), "tenant-1", "device-token", pushErr("UNREGISTERED: token is gone"))
	if out.OK || out.FailureReason != model.FailureProvider {
		t.Fatalf("got %+v", out)
	}
	if !deactivated {
		t.Fatal("expected the stale token to be deactivated")
	}
}

func TestPushSenderClassifyInvalidArgument(t *testing.T) {
	sender := NewPushSender(nil)
	out := sender.classify(context.Background(), "tenant-1", "device-token", pushErr("INVALID_ARGUMENT: bad token"))
	if out.FailureReason != model.FailureContent {
		t.Fatalf("got %+v", out)
	}
}

func TestPushSenderClassifyUnavailableIsRetriable(t *testing.T) {
	sender := NewPushSender(nil)
	out := sender.classify(context.Background(), "tenant-1", "device-token", pushErr("UNAVAILABLE: try later"))
	if out.FailureReason != model.FailureNetwork || !out.Retriable {
		t.Fatalf("got %+v", out)
	}
}

func TestPushSenderClassifyQuotaExceeded(t *testing.T) {
	sender := NewPushSender(nil)
	out := sender.classify(context.Background(), "tenant-1", "device-token", pushErr("QUOTA_EXCEEDED: too many requests"))
	if out.FailureReason != model.FailureProvider {
		t.Fatalf("got %+v", out)
	}
}

func TestPushSenderFailsFastOnMissingServiceAccount(t *testing.T) {
	sender := NewPushSender(nil)
	out := sender.Send(context.Background(), &model.Credential{Secrets: map[string]string{}}, model.RenderedContent{}, "device-token")
	if out.OK || out.FailureReason != model.FailureAuth {
		t.Fatalf("got %+v", out)
	}
}

type deactivateFunc func(ctx context.Context, tenantID, token string) error

func (f deactivateFunc) Deactivate(ctx context.Context, tenantID, token string) error {
	return f(ctx, tenantID, token)
}
