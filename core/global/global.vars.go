package global

import (
	"github.com/Wadijet/notifyhub/config"
	"github.com/Wadijet/notifyhub/core/registry"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCollectionName chứa tên các collection trong MongoDB của notifyhub.
type MongoCollectionName struct {
	Credentials    string // (tenant, channel) -> secrets
	Templates      string // (tenant, name, channel) -> rendered-template source
	DeliveryRecords string // một record cho mỗi (handler decision, channel, recipient)
	DeadLetters    string // reserved: dead-lettering itself happens in the AMQP topology (declareTopology's per-topic DLQ), not this collection

	ChatConversations string
	ChatParticipants  string
	ChatMessages      string
	ChatReactions     string
	UserPresence      string

	DeviceTokens string // push device-token registry
	AuditLog     string // append-only log các thao tác trên admin REST surface
}

// Các biến toàn cục của tiến trình.
var (
	MongoDB_Session *mongo.Client
	AppConfig       *config.Configuration
	ColNames        = MongoCollectionName{
		Credentials:       "credentials",
		Templates:         "templates",
		DeliveryRecords:   "delivery_records",
		DeadLetters:       "dead_letters",
		ChatConversations: "chat_conversations",
		ChatParticipants:  "chat_participants",
		ChatMessages:      "chat_messages",
		ChatReactions:     "chat_reactions",
		UserPresence:      "user_presence",
		DeviceTokens:      "device_tokens",
		AuditLog:          "audit_log",
	}
)

// RegistryCollections giữ các *mongo.Collection đã mở, theo tên collection.
var RegistryCollections = registry.NewRegistry[*mongo.Collection]()
