package hub

// Frame kinds (§4.7 subset).
const (
	FrameConnectionEstablished = "connection_established"
	FrameNotification          = "notification"
	FrameBroadcast             = "broadcast"
	FrameUnreadCount           = "unread_count"
	FrameError                 = "error"

	FrameJoinConversation = "join_conversation"
	FrameSendMessage      = "send_message"
	FrameStartTyping      = "start_typing"
	FrameStopTyping       = "stop_typing"
	FrameAddReaction      = "add_reaction"
	FrameRemoveReaction   = "remove_reaction"
	FrameMarkRead         = "mark_read"
	FrameUpdatePresence   = "update_presence"

	FrameNewMessage      = "new_message"
	FrameMessageUpdated  = "message_updated"
	FrameMessageDeleted  = "message_deleted"
	FrameReactionAdded   = "reaction_added"
	FrameReactionRemoved = "reaction_removed"
	FrameTypingIndicator = "typing_indicator"
)

// Frame is the envelope exchanged over every WebSocket connection (§4.7). Payload shape
// depends on Type; client frames set ConversationID/Payload, server frames set Payload.
type Frame struct {
	Type           string         `json:"type"`
	ConversationID string         `json:"conversation_id,omitempty"`
	Payload        map[string]any `json:"payload,omitempty"`
}
