package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/brandkit/api/internal/middleware"
	"github.com/brandkit/api/internal/model"
	"github.com/brandkit/api/internal/store"
	"github.com/brandkit/api/pkg/response"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type BrandHandler struct {
	identities store.IdentityStore
}

func NewBrandHandler(identities store.IdentityStore) *BrandHandler {
	return &BrandHandler{
		identities: identities,
	}
}

// Get handles GET /api/brands/:id. Identities owned by other users are
// reported as not found.
func (h *BrandHandler) Get(c *fiber.Ctx) error {
	identity, err := h.identities.FindOwned(c.UserContext(), middleware.GetUserID(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Brand not found")
		}
		return response.ServiceError(c, "Failed to load brand identity")
	}

	return response.OK(c, identity.ToResponse())
}

// List handles GET /api/brands?limit=&offset=
func (h *BrandHandler) List(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit", defaultPageSize)
	if err != nil || limit < 1 || limit > maxPageSize {
		return response.ValidationError(c, "Invalid pagination", "limit")
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		return response.ValidationError(c, "Invalid pagination", "offset")
	}

	identities, err := h.identities.ListForUser(c.UserContext(), middleware.GetUserID(c), limit, offset)
	if err != nil {
		return response.ServiceError(c, "Failed to list brand identities")
	}

	brands := make([]*model.BrandResponse, 0, len(identities))
	for _, identity := range identities {
		brands = append(brands, identity.ToResponse())
	}

	return response.OK(c, model.BrandListResponse{
		Brands: brands,
		Limit:  limit,
		Offset: offset,
	})
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
