// Package store persists brand identities and user credit state.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/brandkit/api/internal/model"
)

// ErrNotFound is returned when an identity does not exist or is owned by
// another user. The two cases are indistinguishable.
var ErrNotFound = errors.New("brand identity not found")

// IdentityStore persists brand identities scoped by owner
type IdentityStore interface {
	Create(ctx context.Context, b *model.BrandIdentity) (*model.BrandIdentity, error)
	FindOwned(ctx context.Context, userID, id string) (*model.BrandIdentity, error)
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]*model.BrandIdentity, error)
}

// PostgresIdentityStore implements IdentityStore on PostgreSQL
type PostgresIdentityStore struct {
	db *sql.DB
}

// NewPostgresIdentityStore creates a new PostgresIdentityStore
func NewPostgresIdentityStore(db *sql.DB) *PostgresIdentityStore {
	return &PostgresIdentityStore{db: db}
}

const identityColumns = `id, user_id, brand_name, colors, fonts, logo_url, prompt, rationale, created_at`

func scanIdentity(scanner interface{ Scan(...any) error }) (*model.BrandIdentity, error) {
	var (
		b             model.BrandIdentity
		colors, fonts []byte
	)
	err := scanner.Scan(&b.ID, &b.UserID, &b.BrandName, &colors, &fonts, &b.LogoURL, &b.Prompt, &b.Rationale, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(colors, &b.Colors); err != nil {
		return nil, fmt.Errorf("decode colors: %w", err)
	}
	if err := json.Unmarshal(fonts, &b.Fonts); err != nil {
		return nil, fmt.Errorf("decode fonts: %w", err)
	}
	return &b, nil
}

// Create inserts an identity in a single statement and returns the stored row
func (s *PostgresIdentityStore) Create(ctx context.Context, b *model.BrandIdentity) (*model.BrandIdentity, error) {
	colors, err := json.Marshal(b.Colors)
	if err != nil {
		return nil, fmt.Errorf("encode colors: %w", err)
	}
	fonts, err := json.Marshal(b.Fonts)
	if err != nil {
		return nil, fmt.Errorf("encode fonts: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO brand_identities (user_id, brand_name, colors, fonts, logo_url, prompt, rationale)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+identityColumns,
		b.UserID, b.BrandName, colors, fonts, b.LogoURL, b.Prompt, b.Rationale,
	)
	created, err := scanIdentity(row)
	if err != nil {
		return nil, fmt.Errorf("create brand identity: %w", err)
	}
	return created, nil
}

// FindOwned returns the identity with id if it belongs to userID
func (s *PostgresIdentityStore) FindOwned(ctx context.Context, userID, id string) (*model.BrandIdentity, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM brand_identities WHERE id = $1 AND user_id = $2`, id, userID)
	b, err := scanIdentity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find brand identity: %w", err)
	}
	return b, nil
}

// ListForUser returns the user's identities, newest first
func (s *PostgresIdentityStore) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*model.BrandIdentity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+identityColumns+`
		FROM brand_identities
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list brand identities: %w", err)
	}
	defer rows.Close()

	items := []*model.BrandIdentity{}
	for rows.Next() {
		b, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan brand identity: %w", err)
		}
		items = append(items, b)
	}
	return items, rows.Err()
}
