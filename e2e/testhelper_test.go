package e2e

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/brandkit/api/internal/auth"
	"github.com/brandkit/api/internal/client"
	"github.com/brandkit/api/internal/config"
	"github.com/brandkit/api/internal/fonts"
	"github.com/brandkit/api/internal/handler"
	"github.com/brandkit/api/internal/middleware"
	"github.com/brandkit/api/internal/service"
	"github.com/brandkit/api/internal/store"
)

const (
	testJWTSecret = "test-secret-for-e2e"
	testUserID    = "test-user-123"
)

// testApp holds all components needed for testing
type testApp struct {
	app        *fiber.App
	identities *store.MemoryIdentityStore
	storage    *recordingStorage
}

type appOptions struct {
	completer client.TextCompleter
	renderer  client.ImageRenderer
	gate      service.EligibilityGate
}

type appOption func(*appOptions)

func withCompleter(c client.TextCompleter) appOption {
	return func(o *appOptions) { o.completer = c }
}

func withRenderer(r client.ImageRenderer) appOption {
	return func(o *appOptions) { o.renderer = r }
}

func withGate(g service.EligibilityGate) appOption {
	return func(o *appOptions) { o.gate = g }
}

// setupApp wires the same routes as the server. Providers default to
// their mock mode and identities live in memory.
func setupApp(t *testing.T, opts ...appOption) *testApp {
	t.Helper()

	var o appOptions
	for _, opt := range opts {
		opt(&o)
	}

	catalog, err := fonts.Default()
	if err != nil {
		t.Fatalf("load font catalog: %v", err)
	}

	identities := store.NewMemoryIdentityStore()
	storage := &recordingStorage{}
	generation := service.NewGenerationService(service.GenerationDeps{
		Fonts:      catalog,
		Strategy:   service.NewStrategyService(o.completer),
		Images:     service.NewImageService(o.renderer),
		Assets:     service.NewAssetService(storage),
		Identities: identities,
		Gate:       o.gate,
		Timeouts:   service.Timeouts{Strategy: 5 * time.Second, Image: 5 * time.Second},
	})

	validate := validator.New()
	authn := auth.NewAuthenticator(nil, testJWTSecret)
	routes := &handler.Routes{
		Generate: handler.NewGenerateHandler(generation, validate),
		Brands:   handler.NewBrandHandler(identities),
		Fonts:    handler.NewFontsHandler(catalog),
		Auth:     handler.NewAuthHandler(authn),
		Health: handler.NewHealthHandler(map[string]bool{
			"text":     false,
			"image":    false,
			"storage":  true,
			"database": false,
			"auth":     true,
		}),
	}

	app := fiber.New()
	authMiddleware := middleware.NewAuthMiddleware(authn)
	routes.Register(app, authMiddleware.Authenticate(), authMiddleware.AuthenticateWebSocket(),
		middleware.NewRateLimiter(nil, nil), config.RateLimitConfig{GeneratePerHour: 10000, JobsPerHour: 10000})

	return &testApp{app: app, identities: identities, storage: storage}
}

// recordingStorage keeps uploaded logos in memory
type recordingStorage struct {
	mu      sync.Mutex
	uploads map[string][]byte
}

func (s *recordingStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploads == nil {
		s.uploads = make(map[string][]byte)
	}
	s.uploads[key] = data
	return s.GetPublicURL(key), nil
}

func (s *recordingStorage) GetPublicURL(key string) string {
	return "https://cdn.e2e.test/" + key
}

func (s *recordingStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

// scriptedCompleter answers every strategy request with a fixed body
type scriptedCompleter struct {
	response string
}

func (s scriptedCompleter) Complete(ctx context.Context, req client.CompletionRequest) (string, error) {
	return s.response, nil
}

func (s scriptedCompleter) IsConfigured() bool { return true }

// failingRenderer simulates an image model outage
type failingRenderer struct{}

func (failingRenderer) Render(ctx context.Context, req client.ImageRequest) (*client.Image, error) {
	return nil, io.ErrUnexpectedEOF
}

func (failingRenderer) IsConfigured() bool { return true }

// denyGate rejects every user
type denyGate struct{}

func (denyGate) Check(ctx context.Context, userID string) (bool, error) { return false, nil }

// generateToken creates a legacy HMAC JWT token for test requests.
func generateToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.IssueLegacyToken(userID, userID+"@example.com", testJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return token
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.Test(req, -1)
}

// doAuthRequest performs a request as testUserID.
func doAuthRequest(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, error) {
	t.Helper()
	return doRequestAs(t, app, testUserID, method, path, body)
}

// doRequestAs performs a request as userID.
func doRequestAs(t *testing.T, app *fiber.App, userID, method, path, body string) (*http.Response, error) {
	t.Helper()
	return doRequest(app, method, path, body, map[string]string{
		"Authorization": "Bearer " + generateToken(t, userID),
	})
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

// parseJSON parses response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}
