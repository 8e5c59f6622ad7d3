package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/Wadijet/notifyhub/core/common"
)

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return out
}

func TestRespondSuccessEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c fiber.Ctx) error {
		return respondSuccess(c, common.StatusCreated, fiber.Map{"id": "abc"})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("got status %d, want 201", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["status"] != "success" {
		t.Errorf("got status field %v, want \"success\"", body["status"])
	}
	data, ok := body["data"].(map[string]interface{})
	if !ok || data["id"] != "abc" {
		t.Errorf("got data %v", body["data"])
	}
}

func TestRespondErrorUnwrapsCustomError(t *testing.T) {
	app := fiber.New()
	app.Get("/fail", func(c fiber.Ctx) error {
		return respondError(c, common.ErrNotFound)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["status"] != "error" {
		t.Errorf("got status field %v, want \"error\"", body["status"])
	}
}

func TestRespondErrorFallsBackTo500ForPlainError(t *testing.T) {
	app := fiber.New()
	app.Get("/fail", func(c fiber.Ctx) error {
		return respondError(c, errPlain("boom"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", resp.StatusCode)
	}
}

func TestBadRequestEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/bad", func(c fiber.Ctx) error {
		return badRequest(c, "missing field foo")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/bad", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["message"] != "missing field foo" {
		t.Errorf("got message %v", body["message"])
	}
}

type errPlain string

func (e errPlain) Error() string { return string(e) }
