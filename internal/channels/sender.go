// Package channels implements the per-channel senders (§4.6): email, SMS, push, in-app.
// Each sender classifies failures into the taxonomy in §7 and never panics across the
// component boundary — every outcome is a value, not an exception.
package channels

import (
	"context"

	"github.com/Wadijet/notifyhub/internal/model"
)

// Outcome is the structured result a Sender returns instead of throwing (§4.6, §7).
type Outcome struct {
	OK               bool
	ProviderResponse string
	FailureReason    model.FailureReason
	Retriable        bool
}

func Success(providerResponse string) Outcome {
	return Outcome{OK: true, ProviderResponse: providerResponse}
}

func Failure(reason model.FailureReason, providerResponse string) Outcome {
	return Outcome{OK: false, FailureReason: reason, Retriable: reason.Retriable(), ProviderResponse: providerResponse}
}

// Sender implements send(credentials, rendered_content, recipient) -> Outcome (§4.6).
type Sender interface {
	Send(ctx context.Context, cred *model.Credential, content model.RenderedContent, recipient string) Outcome
}
