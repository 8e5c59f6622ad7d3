package model

import "time"

// Event là envelope bất biến đọc được từ event log (§3, §4.1).
type Event struct {
	EventType string                 `json:"event_type"`
	TenantID  string                 `json:"tenant_id"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// EventID trả về metadata.event_id nếu có, dùng để khoá idempotency khi tạo DeliveryRecord.
func (e Event) EventID() (string, bool) {
	if e.Metadata == nil {
		return "", false
	}
	id, ok := e.Metadata["event_id"]
	return id, ok && id != ""
}

// Valid kiểm tra các trường bắt buộc của envelope theo §4.1 bước 1.
func (e Event) Valid() bool {
	return e.EventType != "" && e.TenantID != "" && !e.Timestamp.IsZero()
}
