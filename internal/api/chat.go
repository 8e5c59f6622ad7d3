package api

import (
	"github.com/gofiber/fiber/v3"
	"github.com/go-playground/validator/v10"

	"github.com/Wadijet/notifyhub/core/common"
	"github.com/Wadijet/notifyhub/internal/chat"
	"github.com/Wadijet/notifyhub/internal/model"
)

// ChatHandler implements the chat REST endpoints enumerated by the chat data model (§6):
// conversation and participant management, plus read-only history listing. Posting, editing,
// reacting and presence all happen over the chat WebSocket frames (internal/hub), not here.
type ChatHandler struct {
	svc *chat.Service
	v   *validator.Validate
}

func NewChatHandler(svc *chat.Service, v *validator.Validate) *ChatHandler {
	return &ChatHandler{svc: svc, v: v}
}

type conversationCreateRequest struct {
	Type    model.ConversationType            `json:"type" validate:"required"`
	Title   string                            `json:"title,omitempty"`
	Members map[string]model.ParticipantRole `json:"members" validate:"required"`
}

func (h *ChatHandler) CreateConversation(c fiber.Ctx) error {
	var req conversationCreateRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	if err := h.v.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}
	if _, ok := req.Members[userID(c)]; !ok {
		if req.Members == nil {
			req.Members = map[string]model.ParticipantRole{}
		}
		req.Members[userID(c)] = model.RoleAdmin
	}

	conv, err := h.svc.CreateConversation(c.Context(), tenantID(c), req.Type, req.Title, req.Members)
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, common.StatusCreated, conv)
}

func (h *ChatHandler) ListConversations(c fiber.Ctx) error {
	convs, err := h.svc.Conversations(c.Context(), tenantID(c), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, common.StatusOK, convs)
}

func (h *ChatHandler) ListMessages(c fiber.Ctx) error {
	msgs, err := h.svc.Messages(c.Context(), tenantID(c), c.Params("id"), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, common.StatusOK, msgs)
}

type participantRequest struct {
	UserID string                  `json:"user_id" validate:"required"`
	Role   model.ParticipantRole   `json:"role" validate:"required"`
}

func (h *ChatHandler) AddParticipant(c fiber.Ctx) error {
	var req participantRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	if err := h.v.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}
	p, err := h.svc.AddParticipant(c.Context(), tenantID(c), c.Params("id"), req.UserID, req.Role)
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, common.StatusOK, p)
}

func (h *ChatHandler) RemoveParticipant(c fiber.Ctx) error {
	if err := h.svc.RemoveParticipant(c.Context(), tenantID(c), c.Params("id"), c.Params("user")); err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, common.StatusOK, fiber.Map{"removed": true})
}
