package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/brandkit/api/internal/client"
	"github.com/brandkit/api/internal/model"
)

// fakeCompleter returns a canned model answer
type fakeCompleter struct {
	mu       sync.Mutex
	response string
	err      error
	block    bool
	calls    int
	last     client.CompletionRequest
}

func (f *fakeCompleter) Complete(ctx context.Context, req client.CompletionRequest) (string, error) {
	f.mu.Lock()
	f.calls++
	f.last = req
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.response, f.err
}

func (f *fakeCompleter) IsConfigured() bool { return true }

func (f *fakeCompleter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeRenderer returns fixed image bytes
type fakeRenderer struct {
	mu    sync.Mutex
	image *client.Image
	err   error
	calls int
	last  client.ImageRequest
}

func (f *fakeRenderer) Render(ctx context.Context, req client.ImageRequest) (*client.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	return f.image, f.err
}

func (f *fakeRenderer) IsConfigured() bool { return true }

func (f *fakeRenderer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeStorage records uploads
type fakeStorage struct {
	mu      sync.Mutex
	err     error
	uploads map[string][]byte
}

func (f *fakeStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if f.uploads == nil {
		f.uploads = make(map[string][]byte)
	}
	f.uploads[key] = data
	return f.GetPublicURL(key), nil
}

func (f *fakeStorage) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (f *fakeStorage) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

// panicCompleter fails the test if the pipeline reaches the text model
type panicCompleter struct{ t *testing.T }

func (p panicCompleter) Complete(ctx context.Context, req client.CompletionRequest) (string, error) {
	p.t.Fatal("text model must not be called")
	return "", nil
}

func (p panicCompleter) IsConfigured() bool { return true }

// panicRenderer fails the test if the pipeline reaches the image model
type panicRenderer struct{ t *testing.T }

func (p panicRenderer) Render(ctx context.Context, req client.ImageRequest) (*client.Image, error) {
	p.t.Fatal("image model must not be called")
	return nil, nil
}

func (p panicRenderer) IsConfigured() bool { return true }

// fakeGate returns a fixed eligibility decision
type fakeGate struct {
	allowed bool
	err     error
}

func (g fakeGate) Check(ctx context.Context, userID string) (bool, error) {
	return g.allowed, g.err
}

// failingIdentityStore rejects every write
type failingIdentityStore struct{}

func (failingIdentityStore) Create(ctx context.Context, b *model.BrandIdentity) (*model.BrandIdentity, error) {
	return nil, errors.New("connection refused")
}

func (failingIdentityStore) FindOwned(ctx context.Context, userID, id string) (*model.BrandIdentity, error) {
	return nil, errors.New("connection refused")
}

func (failingIdentityStore) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*model.BrandIdentity, error) {
	return nil, errors.New("connection refused")
}
