// Package api implements the administrative REST surface (§6): credential, template,
// direct-send, device-token and chat endpoints on top of Fiber v3, following the teacher's
// handler/response conventions.
package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Wadijet/notifyhub/core/common"
)

// jsonResponse sets the UTF-8 JSON content type before writing the body, matching the
// teacher's JSONResponse helper.
func jsonResponse(c fiber.Ctx, status int, body fiber.Map) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(status).JSON(body)
}

func respondSuccess(c fiber.Ctx, status int, data interface{}) error {
	return jsonResponse(c, status, fiber.Map{
		"code":    status,
		"message": common.MsgSuccess,
		"data":    data,
		"status":  "success",
	})
}

// respondError normalizes any error into the {code, message, status: "error"} envelope,
// unwrapping *common.Error for its declared status code and falling back to 500.
func respondError(c fiber.Ctx, err error) error {
	var custom *common.Error
	if errors.As(err, &custom) {
		return jsonResponse(c, custom.StatusCode, fiber.Map{
			"code":    custom.Code.Code,
			"message": custom.Message,
			"details": custom.Details,
			"status":  "error",
		})
	}
	return jsonResponse(c, common.StatusInternalServerError, fiber.Map{
		"code":    common.ErrCodeInternalServer.Code,
		"message": err.Error(),
		"status":  "error",
	})
}

func badRequest(c fiber.Ctx, message string) error {
	return jsonResponse(c, common.StatusBadRequest, fiber.Map{
		"code":    common.ErrCodeValidationFormat.Code,
		"message": message,
		"status":  "error",
	})
}
