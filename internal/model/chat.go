package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConversationType classifies a ChatConversation (§3).
type ConversationType string

const (
	ConversationDirect  ConversationType = "direct"
	ConversationGroup   ConversationType = "group"
	ConversationChannel ConversationType = "channel"
)

// ParticipantRole is a ChatParticipant's role within a conversation.
type ParticipantRole string

const (
	RoleAdmin     ParticipantRole = "admin"
	RoleModerator ParticipantRole = "moderator"
	RoleMember    ParticipantRole = "member"
)

// MessageType classifies a ChatMessage's payload.
type MessageType string

const (
	MessageText   MessageType = "text"
	MessageEmoji  MessageType = "emoji"
	MessageFile   MessageType = "file"
	MessageImage  MessageType = "image"
	MessageSystem MessageType = "system"
)

// ChatConversation is a relational entity navigated by query, not pointer graph (§9).
type ChatConversation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TenantID  string             `bson:"tenant_id" json:"tenant_id" index:"single:1"`
	Type      ConversationType   `bson:"type" json:"type"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// ChatParticipant links a user to a conversation with a role and last-seen marker.
type ChatParticipant struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TenantID       string             `bson:"tenant_id" json:"tenant_id" index:"single:1"`
	ConversationID primitive.ObjectID `bson:"conversation_id" json:"conversation_id" index:"compound:conversation_user_unique"`
	UserID         string             `bson:"user_id" json:"user_id" index:"compound:conversation_user_unique"`
	Role           ParticipantRole    `bson:"role" json:"role"`
	LastSeenAt     time.Time          `bson:"last_seen_at" json:"last_seen_at"`
	ActiveUntil    *time.Time         `bson:"active_until,omitempty" json:"active_until,omitempty"` // nil = currently active
}

// Active reports whether this participant may currently post into the conversation.
func (p ChatParticipant) Active() bool {
	return p.ActiveUntil == nil
}

// ChatMessage is a message within a conversation. Deleted rather than removed, so
// reaction totals and reply_to pointers remain valid (§3 lifecycle).
type ChatMessage struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TenantID       string             `bson:"tenant_id" json:"tenant_id" index:"single:1"`
	ConversationID primitive.ObjectID `bson:"conversation_id" json:"conversation_id" index:"single:1"`
	SenderID       string             `bson:"sender_id" json:"sender_id"`
	Type           MessageType        `bson:"type" json:"type"`
	Content        string             `bson:"content" json:"content"`
	ReplyTo        *primitive.ObjectID `bson:"reply_to,omitempty" json:"reply_to,omitempty"`
	IdempotencyKey string             `bson:"idempotency_key,omitempty" json:"idempotency_key,omitempty" index:"single:1"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	EditedAt       *time.Time         `bson:"edited_at,omitempty" json:"edited_at,omitempty"`
	DeletedAt      *time.Time         `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// MessageReaction is unique per (message, user, emoji) — §3 invariant.
type MessageReaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TenantID  string             `bson:"tenant_id" json:"tenant_id" index:"single:1"`
	MessageID primitive.ObjectID `bson:"message_id" json:"message_id" index:"compound:message_user_emoji_unique"`
	UserID    string             `bson:"user_id" json:"user_id" index:"compound:message_user_emoji_unique"`
	Emoji     string             `bson:"emoji" json:"emoji" index:"compound:message_user_emoji_unique"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	RemovedAt *time.Time         `bson:"removed_at,omitempty" json:"removed_at,omitempty"`
}

// UserPresence tracks a user's last-known online state, per tenant.
type UserPresence struct {
	TenantID string    `bson:"tenant_id" json:"tenant_id" index:"compound:tenant_user_unique"`
	UserID   string    `bson:"user_id" json:"user_id" index:"compound:tenant_user_unique"`
	Online   bool      `bson:"online" json:"online"`
	LastSeen time.Time `bson:"last_seen" json:"last_seen"`
}
