package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Template is keyed by (tenant, name, channel) with declared placeholders (§3, §4.3).
type Template struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TenantID     string             `bson:"tenant_id" json:"tenant_id" index:"compound:tenant_name_channel_unique"`
	Name         string             `bson:"name" json:"name" index:"compound:tenant_name_channel_unique"`
	Channel      Channel            `bson:"channel" json:"channel" index:"compound:tenant_name_channel_unique"`
	Subject      string             `bson:"subject,omitempty" json:"subject,omitempty"`
	Body         string             `bson:"body" json:"body"`
	Data         map[string]string  `bson:"data,omitempty" json:"data,omitempty"`
	Placeholders []string           `bson:"placeholders" json:"placeholders"`
	Version      int                `bson:"version" json:"version"`
	Active       bool               `bson:"active" json:"active"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
	DeletedAt    *time.Time         `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// RenderedContent is the concrete {subject, body, data} triple produced by the renderer.
type RenderedContent struct {
	Subject string
	Body    string
	Data    map[string]string
}
