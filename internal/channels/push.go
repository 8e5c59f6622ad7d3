package channels

import (
	"context"
	"fmt"
	"strings"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/Wadijet/notifyhub/internal/model"
)

// DeviceTokenStore lets PushSender deactivate a token FCM reports as unregistered (§4.6).
type DeviceTokenStore interface {
	Deactivate(ctx context.Context, tenantID, token string) error
}

// PushSender delivers through Firebase Cloud Messaging, one *messaging.Client per tenant
// credential since each tenant may supply its own service-account JSON (§4.4).
// Clients are cached because building one re-parses the service account and fetches an
// OAuth token; recipient is the device token itself.
type PushSender struct {
	tokens DeviceTokenStore

	mu      sync.Mutex
	clients map[string]*messaging.Client
}

func NewPushSender(tokens DeviceTokenStore) *PushSender {
	return &PushSender{tokens: tokens, clients: make(map[string]*messaging.Client)}
}

func (s *PushSender) Send(ctx context.Context, cred *model.Credential, content model.RenderedContent, recipient string) Outcome {
	saJSON := cred.Secrets["service_account_json"]
	if saJSON == "" {
		return Failure(model.FailureAuth, "missing FCM service account")
	}

	client, err := s.clientFor(ctx, cred.TenantID, saJSON)
	if err != nil {
		return Failure(model.FailureAuth, err.Error())
	}

	msg := &messaging.Message{
		Token: recipient,
		Notification: &messaging.Notification{
			Title: content.Subject,
			Body:  content.Body,
		},
	}

	resp, err := client.Send(ctx, msg)
	if err != nil {
		return s.classify(ctx, cred.TenantID, recipient, err)
	}
	return Success(resp)
}

func (s *PushSender) clientFor(ctx context.Context, tenantID, saJSON string) (*messaging.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := tenantID + "\x00" + saJSON
	if client, ok := s.clients[key]; ok {
		return client, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON([]byte(saJSON)))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init fcm client: %w", err)
	}
	s.clients[key] = client
	return client, nil
}

func (s *PushSender) classify(ctx context.Context, tenantID, token string, err error) Outcome {
	msg := err.Error()
	switch {
	case messaging.IsRegistrationTokenNotRegistered(err) || strings.Contains(msg, "UNREGISTERED"):
		if s.tokens != nil {
			_ = s.tokens.Deactivate(ctx, tenantID, token)
		}
		out := Failure(model.FailureProvider, msg)
		out.Retriable = false
		return out
	case strings.Contains(msg, "INVALID_ARGUMENT"):
		return Failure(model.FailureContent, msg)
	case strings.Contains(msg, "UNAVAILABLE") || strings.Contains(msg, "INTERNAL"):
		return Failure(model.FailureNetwork, msg)
	case strings.Contains(msg, "QUOTA_EXCEEDED"):
		return Failure(model.FailureProvider, msg)
	case strings.Contains(msg, "SENDER_ID_MISMATCH") || strings.Contains(msg, "THIRD_PARTY_AUTH_ERROR"):
		return Failure(model.FailureAuth, msg)
	default:
		return Failure(model.FailureProvider, msg)
	}
}
