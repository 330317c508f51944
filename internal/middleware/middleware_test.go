package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/brandkit/api/internal/auth"
)

func whoAmI(c *fiber.Ctx) error {
	return c.SendString(GetUserID(c) + "|" + GetUserEmail(c))
}

func TestAuthenticate(t *testing.T) {
	const secret = "test-secret"
	token, err := auth.IssueLegacyToken("user-1", "a@b.c", secret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	app := fiber.New()
	app.Get("/me", NewAuthMiddleware(auth.NewAuthenticator(nil, secret)).Authenticate(), whoAmI)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "valid token", header: "Bearer " + token, status: 200, body: "user-1|a@b.c"},
		{name: "missing header", header: "", status: 401},
		{name: "wrong scheme", header: "Basic " + token, status: 401},
		{name: "garbage token", header: "Bearer not-a-jwt", status: 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.body != "" {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tt.body {
					t.Errorf("body = %q, want %q", body, tt.body)
				}
			}
		})
	}
}

func TestGatewayAuthMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/me", GatewayAuthMiddleware(), whoAmI)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("X-User-Id", "user-9")
	req.Header.Set("X-User-Email", "x@y.z")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 || string(body) != "user-9|x@y.z" {
		t.Errorf("got %d %q", resp.StatusCode, body)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/me", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("status without headers = %d, want 401", resp.StatusCode)
	}
}

func TestRateLimiterWithoutRedisPassesThrough(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userId", "user-1")
		return c.Next()
	})
	app.Get("/", NewRateLimiter(nil, nil).GenerateLimit(1), func(c *fiber.Ctx) error {
		return c.SendStatus(204)
	})

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != 204 {
			t.Fatalf("request %d status = %d, want 204", i, resp.StatusCode)
		}
	}
}
