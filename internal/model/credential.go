package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Channel là một lớp vận chuyển thông báo (§2, Glossary).
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
	ChannelInApp Channel = "in_app"
)

// Credential lưu secrets cho một cặp (tenant, channel) — §3.
// Các field nhạy cảm trong Secrets được mã hoá khi lưu; cache chỉ trả bản giải mã trong bộ nhớ.
type Credential struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	TenantID   string                 `bson:"tenant_id" json:"tenant_id" index:"compound:tenant_channel_unique"`
	Channel    Channel                `bson:"channel" json:"channel" index:"compound:tenant_channel_unique"`
	Secrets    map[string]string      `bson:"secrets" json:"-"` // sensitive fields stored encrypted at rest
	Custom     bool                   `bson:"custom" json:"custom"`
	Active     bool                   `bson:"active" json:"active"`
	CircuitOpenUntil *time.Time       `bson:"circuit_open_until,omitempty" json:"circuit_open_until,omitempty"`
	ConsecutiveAuthFailures int       `bson:"consecutive_auth_failures" json:"consecutive_auth_failures"`
	CreatedAt  time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time              `bson:"updated_at" json:"updated_at"`
	DeletedAt  *time.Time             `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// TenantBranding is the per-tenant visual identity (§3), fetched from the identity service.
type TenantBranding struct {
	TenantID       string `json:"tenant_id"`
	Name           string `json:"name"`
	LogoURL        string `json:"logo_url"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	EmailFrom      string `json:"email_from"`
	About          string `json:"about"`
}

// DefaultBranding trả về branding mặc định khi tenant chưa cấu hình, theo §4.3.
func DefaultBranding(tenantID string) TenantBranding {
	short := tenantID
	if len(short) > 8 {
		short = short[:8]
	}
	return TenantBranding{
		TenantID:       tenantID,
		Name:           "Tenant " + short,
		PrimaryColor:   "#2D6CDF",
		SecondaryColor: "#F5F7FA",
		EmailFrom:      "no-reply@notifyhub.local",
	}
}
