package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Wadijet/notifyhub/core/common"
	"github.com/Wadijet/notifyhub/core/service"
	"github.com/Wadijet/notifyhub/internal/model"
)

// DeviceHandler implements POST /devices (§6): device-token registration for push, upserting
// on (tenant, token) so re-registering the same device just refreshes it.
type DeviceHandler struct {
	svc *service.BaseServiceMongoImpl[model.DeviceToken]
	v   *validator.Validate
}

func NewDeviceHandler(svc *service.BaseServiceMongoImpl[model.DeviceToken], v *validator.Validate) *DeviceHandler {
	return &DeviceHandler{svc: svc, v: v}
}

type deviceRegisterRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=android ios web"`
}

func (h *DeviceHandler) Register(c fiber.Ctx) error {
	var req deviceRegisterRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	if err := h.v.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	tenant := tenantID(c)
	now := time.Now()
	existing, err := h.svc.FindOne(c.Context(), bson.M{"tenant_id": tenant, "token": req.Token}, nil)
	if err == nil {
		updated, err := h.svc.UpdateOne(c.Context(), bson.M{"_id": existing.ID}, bson.M{"$set": bson.M{
			"user_id": req.UserID, "platform": req.Platform, "active": true, "updated_at": now,
		}}, nil)
		if err != nil {
			return respondError(c, err)
		}
		return respondSuccess(c, common.StatusOK, updated)
	}
	if !errors.Is(err, common.ErrNotFound) {
		return respondError(c, err)
	}

	created, err := h.svc.InsertOne(c.Context(), model.DeviceToken{
		TenantID:  tenant,
		UserID:    req.UserID,
		Token:     req.Token,
		Platform:  req.Platform,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondSuccess(c, common.StatusCreated, created)
}
