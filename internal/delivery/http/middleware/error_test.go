package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"

	"talentmatch/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

func errorTestApp(t *testing.T, h fiber.Handler) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())
	app.Get("/boom", h)
	return app
}

func getBoom(t *testing.T, app *fiber.App) (int, response.SemanticResponse, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var body response.SemanticResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
	return resp.StatusCode, body, string(raw)
}

func TestErrorMiddlewareKeepsExplicitServiceUnavailable(t *testing.T) {
	app := errorTestApp(t, func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusServiceUnavailable, "Skill catalog unavailable", nil, errors.New("redis and postgres down"))
	})

	status, body, raw := getBoom(t, app)
	if status != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503 on the wire, got %d", status)
	}
	if body.Status != fiber.StatusServiceUnavailable || body.Message != "Skill catalog unavailable" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if strings.Contains(raw, "redis and postgres down") {
		t.Fatalf("cause leaked to the client: %s", raw)
	}
}

func TestErrorMiddlewareKeepsExplicitBadGateway(t *testing.T) {
	app := errorTestApp(t, func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusBadGateway, "Offer fetch failed", nil, errors.New("timeout"))
	})

	status, body, _ := getBoom(t, app)
	if status != fiber.StatusBadGateway || body.Message != "Offer fetch failed" {
		t.Fatalf("expected 502 with handler message, got %d %+v", status, body)
	}
}

func TestErrorMiddlewareGenericInternalError(t *testing.T) {
	app := errorTestApp(t, func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusInternalServerError, "", nil, errors.New("nil pointer in repo"))
	})

	status, body, raw := getBoom(t, app)
	if status != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body.Message != response.MessageInternalServerError {
		t.Fatalf("unexpected message: %+v", body)
	}
	if strings.Contains(raw, "nil pointer") {
		t.Fatalf("cause leaked to the client: %s", raw)
	}
}

func TestErrorMiddlewareDropsPayloadOnServerErrors(t *testing.T) {
	app := errorTestApp(t, func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusServiceUnavailable, "Skill catalog unavailable", map[string]string{"dsn": "postgres://secret"}, nil)
	})

	status, _, raw := getBoom(t, app)
	if status != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", status)
	}
	if strings.Contains(raw, "secret") {
		t.Fatalf("5xx payload leaked to the client: %s", raw)
	}
}

func TestErrorMiddlewareClientErrorKeepsData(t *testing.T) {
	app := errorTestApp(t, func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusConflict, "Skill already exists", map[string]string{"slug": "go"}, nil)
	})

	status, body, raw := getBoom(t, app)
	if status != fiber.StatusConflict || body.Message != "Skill already exists" {
		t.Fatalf("unexpected response: %d %+v", status, body)
	}
	if !strings.Contains(raw, `"slug":"go"`) {
		t.Fatalf("expected 4xx data in envelope, got %s", raw)
	}
}

func TestErrorMiddlewareRecoversPanics(t *testing.T) {
	app := errorTestApp(t, func(c fiber.Ctx) error {
		panic("boom")
	})

	status, body, _ := getBoom(t, app)
	if status != fiber.StatusInternalServerError || body.Message != response.MessageInternalServerError {
		t.Fatalf("expected generic 500 after panic, got %d %+v", status, body)
	}
}
