package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeliveryState is the state machine over a DeliveryRecord (§4.5).
type DeliveryState string

const (
	StatePending   DeliveryState = "PENDING"
	StateRetrying  DeliveryState = "RETRYING"
	StateSuccess   DeliveryState = "SUCCESS"
	StateFailed    DeliveryState = "FAILED"
)

// FailureReason is the taxonomy from §7.
type FailureReason string

const (
	FailureAuth     FailureReason = "AUTH_ERROR"
	FailureContent  FailureReason = "CONTENT_ERROR"
	FailureNetwork  FailureReason = "NETWORK_ERROR"
	FailureProvider FailureReason = "PROVIDER_ERROR"
	FailureInternal FailureReason = "INTERNAL_ERROR"
)

// Retriable reports whether a failure reason permits another attempt.
func (r FailureReason) Retriable() bool {
	switch r {
	case FailureAuth, FailureContent:
		return false
	default:
		return true
	}
}

// DeliveryRecord is one row per (event-handler decision, channel, recipient) — §3.
type DeliveryRecord struct {
	ID                primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	TenantID          string                 `bson:"tenant_id" json:"tenant_id" index:"single:1"`
	EventID           string                 `bson:"event_id,omitempty" json:"event_id,omitempty" index:"compound:idempotency_unique;sparse"`
	Channel           Channel                `bson:"channel" json:"channel" index:"compound:idempotency_unique;sparse"`
	Recipient         string                 `bson:"recipient" json:"recipient" index:"compound:idempotency_unique;sparse"`
	Content           RenderedContent        `bson:"content" json:"content"`
	Context           map[string]interface{} `bson:"context,omitempty" json:"context,omitempty"`
	State             DeliveryState          `bson:"state" json:"state" index:"single:1"`
	RetryCount        int                    `bson:"retry_count" json:"retry_count"`
	MaxRetries        int                    `bson:"max_retries" json:"max_retries"`
	FailureReason     FailureReason          `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`
	ProviderResponse  string                 `bson:"provider_response,omitempty" json:"provider_response,omitempty"`
	CreatedAt         time.Time              `bson:"created_at" json:"created_at"`
	SentAt            *time.Time             `bson:"sent_at,omitempty" json:"sent_at,omitempty"`
	NextAttemptAt     time.Time              `bson:"next_attempt_at" json:"next_attempt_at" index:"single:1"`
	ClaimedAt         *time.Time             `bson:"claimed_at,omitempty" json:"claimed_at,omitempty"`
	DeletedAt         *time.Time             `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// InFlight reports whether the record still has a pending send attempt (§3 invariant).
func (d DeliveryRecord) InFlight() bool {
	return d.State == StatePending || d.State == StateRetrying
}

// Terminal reports whether the record is in an immutable end state.
func (d DeliveryRecord) Terminal() bool {
	return d.State == StateSuccess || d.State == StateFailed
}
