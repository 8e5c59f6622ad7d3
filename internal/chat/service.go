// Package chat implements the chat domain's persistence and invariants (§3): conversations,
// participants, messages, reactions, and presence, consumed by the WebSocket Hub's chat frames.
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Wadijet/notifyhub/core/common"
	"github.com/Wadijet/notifyhub/core/service"
	"github.com/Wadijet/notifyhub/internal/model"
)

// Service owns the chat collections and enforces the §3 invariants that span them: only an
// active participant may post, a reaction is unique per (message, user, emoji), and an edit
// is authored-only.
type Service struct {
	conversations *service.BaseServiceMongoImpl[model.ChatConversation]
	participants  *service.BaseServiceMongoImpl[model.ChatParticipant]
	messages      *service.BaseServiceMongoImpl[model.ChatMessage]
	reactions     *service.BaseServiceMongoImpl[model.MessageReaction]
	presence      *service.BaseServiceMongoImpl[model.UserPresence]
}

func NewService(
	conversations *service.BaseServiceMongoImpl[model.ChatConversation],
	participants *service.BaseServiceMongoImpl[model.ChatParticipant],
	messages *service.BaseServiceMongoImpl[model.ChatMessage],
	reactions *service.BaseServiceMongoImpl[model.MessageReaction],
	presence *service.BaseServiceMongoImpl[model.UserPresence],
) *Service {
	return &Service{
		conversations: conversations,
		participants:  participants,
		messages:      messages,
		reactions:     reactions,
		presence:      presence,
	}
}

var (
	ErrNotParticipant = errors.New("user is not an active participant of this conversation")
	ErrNotAuthor      = errors.New("only the message author may perform this edit")
)

// ActiveParticipant checks the §3 invariant that a user may only act in a conversation where
// an active participant row exists for them.
func (s *Service) ActiveParticipant(ctx context.Context, tenantID, conversationID, userID string) (model.ChatParticipant, error) {
	convID, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return model.ChatParticipant{}, fmt.Errorf("invalid conversation id: %w", err)
	}
	p, err := s.participants.FindOne(ctx, bson.M{
		"tenant_id":       tenantID,
		"conversation_id": convID,
		"user_id":         userID,
	}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return model.ChatParticipant{}, ErrNotParticipant
		}
		return model.ChatParticipant{}, err
	}
	if !p.Active() {
		return model.ChatParticipant{}, ErrNotParticipant
	}
	return p, nil
}

// CreateMessage persists a message after checking the sender is an active participant (§3).
func (s *Service) CreateMessage(ctx context.Context, tenantID, conversationID, senderID string, msgType model.MessageType, content string, replyTo *primitive.ObjectID, idempotencyKey string) (model.ChatMessage, error) {
	if _, err := s.ActiveParticipant(ctx, tenantID, conversationID, senderID); err != nil {
		return model.ChatMessage{}, err
	}
	convID, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return model.ChatMessage{}, fmt.Errorf("invalid conversation id: %w", err)
	}

	if idempotencyKey != "" {
		if existing, err := s.messages.FindOne(ctx, bson.M{
			"tenant_id":       tenantID,
			"conversation_id": convID,
			"idempotency_key": idempotencyKey,
		}, nil); err == nil {
			return existing, nil
		}
	}

	msg := model.ChatMessage{
		TenantID:       tenantID,
		ConversationID: convID,
		SenderID:       senderID,
		Type:           msgType,
		Content:        content,
		ReplyTo:        replyTo,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      time.Now(),
	}
	created, err := s.messages.InsertOne(ctx, msg)
	if err != nil {
		return model.ChatMessage{}, err
	}
	_, _ = s.conversations.UpdateOne(ctx, bson.M{"_id": convID, "tenant_id": tenantID}, bson.M{"$set": bson.M{"updated_at": time.Now()}}, nil)
	return created, nil
}

// EditMessage enforces the authored-only invariant before updating content (§3).
func (s *Service) EditMessage(ctx context.Context, tenantID, messageID, editorID, content string) (model.ChatMessage, error) {
	msgID, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return model.ChatMessage{}, fmt.Errorf("invalid message id: %w", err)
	}
	existing, err := s.messages.FindOne(ctx, bson.M{"_id": msgID, "tenant_id": tenantID}, nil)
	if err != nil {
		return model.ChatMessage{}, err
	}
	if existing.SenderID != editorID {
		return model.ChatMessage{}, ErrNotAuthor
	}
	now := time.Now()
	return s.messages.UpdateOne(ctx, bson.M{"_id": msgID, "tenant_id": tenantID}, bson.M{
		"$set": bson.M{"content": content, "edited_at": now},
	}, nil)
}

// SoftDeleteMessage marks a message deleted without removing it, so reaction totals and
// reply_to pointers stay valid (§3 lifecycle).
func (s *Service) SoftDeleteMessage(ctx context.Context, tenantID, messageID, requesterID string) error {
	msgID, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return fmt.Errorf("invalid message id: %w", err)
	}
	existing, err := s.messages.FindOne(ctx, bson.M{"_id": msgID, "tenant_id": tenantID}, nil)
	if err != nil {
		return err
	}
	if existing.SenderID != requesterID {
		return ErrNotAuthor
	}
	now := time.Now()
	_, err = s.messages.UpdateOne(ctx, bson.M{"_id": msgID, "tenant_id": tenantID}, bson.M{"$set": bson.M{"deleted_at": now}}, nil)
	return err
}

// CreateConversation creates a conversation and seeds it with the given participants, each
// joining with LastSeenAt stamped now so an immediate MarkRead reflects no unread backlog.
func (s *Service) CreateConversation(ctx context.Context, tenantID string, convType model.ConversationType, title string, members map[string]model.ParticipantRole) (model.ChatConversation, error) {
	now := time.Now()
	conv, err := s.conversations.InsertOne(ctx, model.ChatConversation{
		TenantID:  tenantID,
		Type:      convType,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.ChatConversation{}, err
	}
	for userID, role := range members {
		if _, err := s.participants.InsertOne(ctx, model.ChatParticipant{
			TenantID:       tenantID,
			ConversationID: conv.ID,
			UserID:         userID,
			Role:           role,
			LastSeenAt:     now,
		}); err != nil {
			return model.ChatConversation{}, fmt.Errorf("add participant %s: %w", userID, err)
		}
	}
	return conv, nil
}

// AddParticipant joins a user to an existing conversation, re-activating a previously removed
// membership rather than inserting a duplicate row.
func (s *Service) AddParticipant(ctx context.Context, tenantID, conversationID, userID string, role model.ParticipantRole) (model.ChatParticipant, error) {
	convID, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return model.ChatParticipant{}, fmt.Errorf("invalid conversation id: %w", err)
	}
	now := time.Now()
	existing, err := s.participants.FindOne(ctx, bson.M{
		"tenant_id": tenantID, "conversation_id": convID, "user_id": userID,
	}, nil)
	if err == nil {
		return s.participants.UpdateOne(ctx, bson.M{"_id": existing.ID}, bson.M{
			"$set":   bson.M{"role": role, "last_seen_at": now},
			"$unset": bson.M{"active_until": ""},
		}, nil)
	}
	if !errors.Is(err, common.ErrNotFound) {
		return model.ChatParticipant{}, err
	}
	return s.participants.InsertOne(ctx, model.ChatParticipant{
		TenantID:       tenantID,
		ConversationID: convID,
		UserID:         userID,
		Role:           role,
		LastSeenAt:     now,
	})
}

// RemoveParticipant marks a participant inactive as of now, leaving the row for history.
func (s *Service) RemoveParticipant(ctx context.Context, tenantID, conversationID, userID string) error {
	convID, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return fmt.Errorf("invalid conversation id: %w", err)
	}
	now := time.Now()
	_, err = s.participants.UpdateOne(ctx, bson.M{
		"tenant_id": tenantID, "conversation_id": convID, "user_id": userID,
	}, bson.M{"$set": bson.M{"active_until": now}}, nil)
	return err
}

// Conversations lists the conversations a user currently participates in.
func (s *Service) Conversations(ctx context.Context, tenantID, userID string) ([]model.ChatConversation, error) {
	parts, err := s.participants.Find(ctx, bson.M{
		"tenant_id": tenantID, "user_id": userID, "active_until": bson.M{"$exists": false},
	}, nil)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(parts))
	for _, p := range parts {
		ids = append(ids, p.ConversationID)
	}
	if len(ids) == 0 {
		return []model.ChatConversation{}, nil
	}
	return s.conversations.Find(ctx, bson.M{"tenant_id": tenantID, "_id": bson.M{"$in": ids}}, nil)
}

// Messages lists a conversation's messages after checking the requester is an active
// participant (§3), oldest first.
func (s *Service) Messages(ctx context.Context, tenantID, conversationID, requesterID string) ([]model.ChatMessage, error) {
	if _, err := s.ActiveParticipant(ctx, tenantID, conversationID, requesterID); err != nil {
		return nil, err
	}
	convID, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return nil, fmt.Errorf("invalid conversation id: %w", err)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return s.messages.Find(ctx, bson.M{"tenant_id": tenantID, "conversation_id": convID}, opts)
}

// AddReaction is idempotent per (message, user, emoji) — a duplicate add is a no-op success
// rather than an error, matching the uniqueness invariant without surfacing a conflict to the
// client for a double-tap.
func (s *Service) AddReaction(ctx context.Context, tenantID, messageID, userID, emoji string) (model.MessageReaction, error) {
	msgID, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return model.MessageReaction{}, fmt.Errorf("invalid message id: %w", err)
	}
	filter := bson.M{"tenant_id": tenantID, "message_id": msgID, "user_id": userID, "emoji": emoji, "removed_at": bson.M{"$exists": false}}
	if existing, err := s.reactions.FindOne(ctx, filter, nil); err == nil {
		return existing, nil
	}
	return s.reactions.InsertOne(ctx, model.MessageReaction{
		TenantID:  tenantID,
		MessageID: msgID,
		UserID:    userID,
		Emoji:     emoji,
		CreatedAt: time.Now(),
	})
}

// RemoveReaction marks the active (message, user, emoji) reaction removed by stamping
// removed_at, if one exists; a missing reaction is not an error.
func (s *Service) RemoveReaction(ctx context.Context, tenantID, messageID, userID, emoji string) error {
	msgID, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return fmt.Errorf("invalid message id: %w", err)
	}
	_, err = s.reactions.UpdateOne(ctx, bson.M{
		"tenant_id": tenantID, "message_id": msgID, "user_id": userID, "emoji": emoji, "removed_at": bson.M{"$exists": false},
	}, bson.M{"$set": bson.M{"removed_at": time.Now()}}, nil)
	if errors.Is(err, common.ErrNotFound) {
		// UpdateOne re-reads with the same filter, which no longer matches once removed_at is set.
		return nil
	}
	return err
}

// MarkRead advances a participant's last_seen_at (used by the mark_read chat frame).
func (s *Service) MarkRead(ctx context.Context, tenantID, conversationID, userID string) error {
	convID, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return fmt.Errorf("invalid conversation id: %w", err)
	}
	_, err = s.participants.UpdateOne(ctx, bson.M{
		"tenant_id": tenantID, "conversation_id": convID, "user_id": userID,
	}, bson.M{"$set": bson.M{"last_seen_at": time.Now()}}, nil)
	return err
}

// UpdatePresence records a user's online state (update_presence chat frame).
func (s *Service) UpdatePresence(ctx context.Context, tenantID, userID string, online bool) error {
	_, err := s.presence.UpdateOne(ctx, bson.M{"tenant_id": tenantID, "user_id": userID}, bson.M{
		"$set": bson.M{"online": online, "last_seen": time.Now()},
	}, options.Update().SetUpsert(true))
	return err
}
