package channels

import (
	"context"
	"testing"

	"github.com/Wadijet/notifyhub/internal/hub"
	"github.com/Wadijet/notifyhub/internal/model"
)

type recordingNotifier struct {
	tenantID string
	frame    hub.Frame
	calls    int
}

func (n *recordingNotifier) Broadcast(tenantID string, frame hub.Frame) {
	n.tenantID = tenantID
	n.frame = frame
	n.calls++
}

func TestInAppSenderBroadcastsToTenantGroup(t *testing.T) {
	notifier := &recordingNotifier{}
	sender := NewInAppSender(notifier)

	out := sender.Send(context.Background(), &model.Credential{TenantID: "tenant-1"},
		model.RenderedContent{Subject: "Hi", Body: "body"}, "user-42")

	if !out.OK {
		t.Fatalf("expected success, got %+v", out)
	}
	if notifier.calls != 1 {
		t.Fatalf("expected exactly one broadcast, got %d", notifier.calls)
	}
	if notifier.tenantID != "tenant-1" {
		t.Fatalf("got tenant %q", notifier.tenantID)
	}
	if notifier.frame.Type != hub.FrameNotification {
		t.Fatalf("got frame type %q", notifier.frame.Type)
	}
	if notifier.frame.Payload["recipient"] != "user-42" {
		t.Fatalf("got payload %+v", notifier.frame.Payload)
	}
}
