package channels

import (
	"context"

	"github.com/Wadijet/notifyhub/internal/hub"
	"github.com/Wadijet/notifyhub/internal/model"
)

// Notifier is the subset of the Hub's API the in-app sender needs (§4.6, §4.7): broadcasting
// a frame to every currently-connected member of a tenant's group.
type Notifier interface {
	Broadcast(tenantID string, frame hub.Frame)
}

// InAppSender delivers by asking the WebSocket Hub to broadcast a notification frame to the
// tenant group (§4.6): a recipient not currently connected still has the record available via
// the REST surface, so Send never fails just because nobody is listening right now.
type InAppSender struct {
	hub Notifier
}

func NewInAppSender(n Notifier) *InAppSender {
	return &InAppSender{hub: n}
}

func (s *InAppSender) Send(ctx context.Context, cred *model.Credential, content model.RenderedContent, recipient string) Outcome {
	s.hub.Broadcast(cred.TenantID, hub.Frame{
		Type: hub.FrameNotification,
		Payload: map[string]any{
			"recipient": recipient,
			"subject":   content.Subject,
			"body":      content.Body,
		},
	})
	return Success("broadcast to hub")
}
