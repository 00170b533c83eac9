package main

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/halcyonchat/halcyon-backend/internal/auth"
	"github.com/halcyonchat/halcyon-backend/internal/handlers"
	"github.com/halcyonchat/halcyon-backend/internal/ws"
)

// newTestApp wires the real route table with empty handlers. The cases below
// only exercise middleware outcomes (auth guard, limiter), which resolve
// before any handler touches a service.
func newTestApp() *fiber.App {
	app := fiber.New()
	authenticator := auth.NewAuthenticator("test-secret", time.Hour)
	h := apiHandlers{
		auth:    handlers.NewAuthHandler(nil),
		user:    handlers.NewUserHandler(nil),
		avatar:  handlers.NewAvatarHandler(nil, nil),
		message: handlers.NewMessageHandler(nil),
		ws:      handlers.NewWebSocketHandler(nil, ws.NewHub()),
	}
	registerRoutes(app, authenticator, h)
	return app
}

func TestHealthIsPublic(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("GET /health without token = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	app := newTestApp()

	for _, path := range []string{"/auth/me", "/users", "/conversations", "/ws"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("GET %s without token = %d, want %d", path, resp.StatusCode, fiber.StatusUnauthorized)
		}
	}
}

func TestProfileReadsAreNotRateLimited(t *testing.T) {
	app := newTestApp()

	// Well past the credential-endpoint budget; every response must be the
	// auth guard's 401, never a 429.
	for i := 0; i < 30; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/auth/me", nil))
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("GET /auth/me request %d = %d, want %d", i, resp.StatusCode, fiber.StatusUnauthorized)
		}
	}
}

func TestCredentialEndpointsAreRateLimited(t *testing.T) {
	app := newTestApp()

	limited := false
	for i := 0; i < 30; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/auth/login", nil))
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		if resp.StatusCode == fiber.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("repeated login attempts were never rate limited")
	}
}
