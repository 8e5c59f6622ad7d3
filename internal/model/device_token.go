package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeviceToken registers one push-capable device for a tenant's user (§4.6, §C).
type DeviceToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TenantID  string             `bson:"tenant_id" json:"tenant_id" index:"compound:tenant_token_unique"`
	UserID    string             `bson:"user_id" json:"user_id" index:"single:1"`
	Token     string             `bson:"token" json:"token" index:"compound:tenant_token_unique"`
	Platform  string             `bson:"platform" json:"platform"` // android, ios, web
	Active    bool               `bson:"active" json:"active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// AuditLog is an append-only record of admin-surface mutations (§C).
type AuditLog struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	TenantID  string                 `bson:"tenant_id" json:"tenant_id" index:"single:1"`
	Actor     string                 `bson:"actor" json:"actor"`
	Action    string                 `bson:"action" json:"action"`
	Target    string                 `bson:"target" json:"target"`
	Details   map[string]interface{} `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
}
