package hub

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Wadijet/notifyhub/core/logger"
	"github.com/Wadijet/notifyhub/internal/chat"
	"github.com/Wadijet/notifyhub/internal/model"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server runs the Hub's own net/http listener (§4.7, §6): a separate listener from the
// fasthttp-backed Fiber admin REST surface, since gorilla/websocket upgrades a net/http
// connection directly and no Fiber v3 websocket adapter exists in the dependency pack.
type Server struct {
	hub         *Hub
	chat        *chat.Service
	jwtSecret   string
	idleTimeout time.Duration
}

// idleTimeout should be roughly 2x the client's expected ~30s ping interval (§4.7 Heartbeat).
func NewServer(h *Hub, chatSvc *chat.Service, jwtSecret string, idleTimeout time.Duration) *Server {
	return &Server{hub: h, chat: chatSvc, jwtSecret: jwtSecret, idleTimeout: idleTimeout}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/notifications/", s.handleNotifications)
	mux.HandleFunc("/ws/chat/", s.handleChat)
	return mux
}

// ListenAndServe starts the Hub's listener and blocks until ctx is cancelled or it fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Routes()}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		return err
	}
}

func pathTenant(r *http.Request, prefix string) string {
	trimmed := strings.TrimPrefix(r.URL.Path, prefix)
	trimmed = strings.Trim(trimmed, "/")
	parts := strings.SplitN(trimmed, "/", 2)
	return parts[0]
}

func (s *Server) upgradeAndAuthenticate(w http.ResponseWriter, r *http.Request, prefix string) (*Client, bool) {
	tenantID := pathTenant(r, prefix)
	token := r.URL.Query().Get("token")

	userID, tenantID, err := authenticate(token, tenantID, s.jwtSecret)
	if err != nil {
		http.Error(w, "unauthorized: "+err.Error(), http.StatusUnauthorized)
		return nil, false
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, false
	}
	client := newClient(conn, tenantID, userID)
	return client, true
}

// handleNotifications serves /ws/notifications/{tenant}/?token=...: connection joins the
// tenant group and receives connection_established, notification, broadcast, unread_count
// frames; it does not accept client->server frames beyond heartbeat pings (§4.7).
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	client, ok := s.upgradeAndAuthenticate(w, r, "/ws/notifications/")
	if !ok {
		return
	}
	s.hub.register(client)
	defer s.hub.unregister(client)

	client.Enqueue(Frame{Type: FrameConnectionEstablished})
	go client.writePump()
	s.heartbeatLoop(client, nil)
}

// handleChat serves /ws/chat/{tenant}/?token=...: in addition to the notification Hub
// membership, accepts the chat client->server frames and dispatches them to the chat
// service, broadcasting the resulting server->client frames to the conversation's room.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	client, ok := s.upgradeAndAuthenticate(w, r, "/ws/chat/")
	if !ok {
		return
	}
	s.hub.register(client)
	defer s.hub.unregister(client)

	client.Enqueue(Frame{Type: FrameConnectionEstablished})
	go client.writePump()
	s.heartbeatLoop(client, s.readChatFrames)
}

// heartbeatLoop resets the read deadline on every pong and reads until the connection
// closes or sits idle beyond idleTimeout (§4.7 Heartbeat, §5).
func (s *Server) heartbeatLoop(c *Client, onMessage func(*Client, []byte)) {
	c.conn.SetReadDeadline(time.Now().Add(s.idleTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(s.idleTimeout))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(s.idleTimeout))
		if onMessage != nil {
			onMessage(c, raw)
		}
	}
}

func (s *Server) readChatFrames(c *Client, raw []byte) {
	var in Frame
	if err := json.Unmarshal(raw, &in); err != nil {
		c.Enqueue(Frame{Type: FrameError, Payload: map[string]any{"error": "malformed frame"}})
		return
	}

	ctx := context.Background()
	log := logger.WithTenant(c.TenantID).WithField("userID", c.UserID)

	switch in.Type {
	case FrameJoinConversation:
		c.joinConversation(in.ConversationID)

	case FrameSendMessage:
		s.dispatchSendMessage(ctx, c, in, log)

	case FrameStartTyping, FrameStopTyping:
		frameType := FrameTypingIndicator
		s.hub.BroadcastConversation(c.TenantID, in.ConversationID, Frame{
			Type:           frameType,
			ConversationID: in.ConversationID,
			Payload:        map[string]any{"user_id": c.UserID, "typing": in.Type == FrameStartTyping},
		})

	case FrameAddReaction:
		s.dispatchReaction(ctx, c, in, true, log)

	case FrameRemoveReaction:
		s.dispatchReaction(ctx, c, in, false, log)

	case FrameMarkRead:
		if err := s.chat.MarkRead(ctx, c.TenantID, in.ConversationID, c.UserID); err != nil {
			log.WithError(err).Warn("mark_read failed")
		}

	case FrameUpdatePresence:
		online, _ := in.Payload["online"].(bool)
		if err := s.chat.UpdatePresence(ctx, c.TenantID, c.UserID, online); err != nil {
			log.WithError(err).Warn("update_presence failed")
		}

	default:
		c.Enqueue(Frame{Type: FrameError, Payload: map[string]any{"error": "unknown frame type"}})
	}
}

func (s *Server) dispatchSendMessage(ctx context.Context, c *Client, in Frame, log *logrus.Entry) {
	content, _ := in.Payload["content"].(string)
	msgType, _ := in.Payload["message_type"].(string)
	if msgType == "" {
		msgType = string(model.MessageText)
	}
	clientMsgID, _ := in.Payload["client_msg_id"].(string)

	var replyTo *primitive.ObjectID
	if raw, ok := in.Payload["reply_to"].(string); ok && raw != "" {
		if id, err := primitive.ObjectIDFromHex(raw); err == nil {
			replyTo = &id
		}
	}

	msg, err := s.chat.CreateMessage(ctx, c.TenantID, in.ConversationID, c.UserID, model.MessageType(msgType), content, replyTo, clientMsgID)
	if err != nil {
		c.Enqueue(Frame{Type: FrameError, Payload: map[string]any{"error": err.Error()}})
		log.WithError(err).Warn("send_message failed")
		return
	}
	s.hub.BroadcastConversation(c.TenantID, in.ConversationID, Frame{
		Type:           FrameNewMessage,
		ConversationID: in.ConversationID,
		Payload:        map[string]any{"message": msg},
	})
}

func (s *Server) dispatchReaction(ctx context.Context, c *Client, in Frame, add bool, log *logrus.Entry) {
	messageID, _ := in.Payload["message_id"].(string)
	emoji, _ := in.Payload["emoji"].(string)

	if add {
		reaction, err := s.chat.AddReaction(ctx, c.TenantID, messageID, c.UserID, emoji)
		if err != nil {
			c.Enqueue(Frame{Type: FrameError, Payload: map[string]any{"error": err.Error()}})
			log.WithError(err).Warn("add_reaction failed")
			return
		}
		s.hub.BroadcastConversation(c.TenantID, in.ConversationID, Frame{
			Type:           FrameReactionAdded,
			ConversationID: in.ConversationID,
			Payload:        map[string]any{"reaction": reaction},
		})
		return
	}

	if err := s.chat.RemoveReaction(ctx, c.TenantID, messageID, c.UserID, emoji); err != nil {
		c.Enqueue(Frame{Type: FrameError, Payload: map[string]any{"error": err.Error()}})
		log.WithError(err).Warn("remove_reaction failed")
		return
	}
	s.hub.BroadcastConversation(c.TenantID, in.ConversationID, Frame{
		Type:           FrameReactionRemoved,
		ConversationID: in.ConversationID,
		Payload:        map[string]any{"message_id": messageID, "user_id": c.UserID, "emoji": emoji},
	})
}
