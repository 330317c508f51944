package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brandkit/api/internal/model"
)

// MemoryIdentityStore keeps identities in process memory. Used when no
// database is configured and in tests.
type MemoryIdentityStore struct {
	mu    sync.RWMutex
	items map[string]*model.BrandIdentity
	now   func() time.Time
}

// NewMemoryIdentityStore creates an empty MemoryIdentityStore
func NewMemoryIdentityStore() *MemoryIdentityStore {
	return &MemoryIdentityStore{
		items: make(map[string]*model.BrandIdentity),
		now:   time.Now,
	}
}

// Create stores a copy of b with a fresh id and creation time
func (s *MemoryIdentityStore) Create(ctx context.Context, b *model.BrandIdentity) (*model.BrandIdentity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored := clone(b)
	stored.ID = uuid.New().String()
	stored.CreatedAt = s.now().UTC()

	s.mu.Lock()
	s.items[stored.ID] = stored
	s.mu.Unlock()

	return clone(stored), nil
}

// FindOwned returns the identity with id if it belongs to userID
func (s *MemoryIdentityStore) FindOwned(ctx context.Context, userID, id string) (*model.BrandIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.items[id]
	if !ok || b.UserID != userID {
		return nil, ErrNotFound
	}
	return clone(b), nil
}

// ListForUser returns the user's identities, newest first
func (s *MemoryIdentityStore) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*model.BrandIdentity, error) {
	s.mu.RLock()
	owned := make([]*model.BrandIdentity, 0)
	for _, b := range s.items {
		if b.UserID == userID {
			owned = append(owned, clone(b))
		}
	}
	s.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID < owned[j].ID
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	if offset >= len(owned) {
		return []*model.BrandIdentity{}, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], nil
}

// Count returns the number of stored identities
func (s *MemoryIdentityStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func clone(b *model.BrandIdentity) *model.BrandIdentity {
	c := *b
	c.Colors.Palette = append([]string(nil), b.Colors.Palette...)
	return &c
}
