package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	engerrors "github.com/hrygo/tastefeed/server/internal/errors"
	"github.com/hrygo/tastefeed/store"
)

type createItemRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	ImageURL    string   `json:"image_url"`
	ExternalID  string   `json:"external_id"`
	Tags        []string `json:"tags"`
}

// CreateItem ingests a new catalog item. Embedding generation is a
// best-effort follow-up: the item is created either way and the background
// runner backfills missing vectors.
func (s *APIV1Service) CreateItem(c echo.Context) error {
	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return toHTTPError(c, engerrors.InvalidArgument("malformed request body"))
	}
	if req.Name == "" {
		return toHTTPError(c, engerrors.InvalidArgument("name is required"))
	}
	if req.Price < 0 {
		return toHTTPError(c, engerrors.InvalidArgument("price must not be negative"))
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	ctx := c.Request().Context()
	item, err := s.Store.CreateItem(ctx, &store.Item{
		UID:         shortuuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Currency:    currency,
		ImageURL:    req.ImageURL,
		ExternalID:  req.ExternalID,
		Tags:        req.Tags,
	})
	if err != nil {
		return toHTTPError(c, engerrors.StoreUnavailable("failed to create item", err))
	}

	if s.Embedder != nil {
		if err := s.Embedder.EmbedItem(ctx, item); err != nil {
			// The runner will retry; the create still succeeds.
			slog.Warn("failed to embed item on create",
				"item_id", item.ID,
				"error", err)
		}
	}

	return c.JSON(http.StatusCreated, toItemPayload(item))
}

type listItemsResponse struct {
	Items []*itemPayload `json:"items"`
}

// ListItems lists catalog items, optionally filtered by category.
func (s *APIV1Service) ListItems(c echo.Context) error {
	find := &store.FindItem{}
	if category := c.QueryParam("category"); category != "" {
		find.Category = &category
	}
	if rawLimit := c.QueryParam("limit"); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil || limit <= 0 {
			return toHTTPError(c, engerrors.InvalidArgument("limit must be a positive integer"))
		}
		find.Limit = &limit
	}

	items, err := s.Store.ListItems(c.Request().Context(), find)
	if err != nil {
		return toHTTPError(c, engerrors.StoreUnavailable("failed to list items", err))
	}

	payloads := make([]*itemPayload, 0, len(items))
	for _, item := range items {
		payloads = append(payloads, toItemPayload(item))
	}
	return c.JSON(http.StatusOK, listItemsResponse{Items: payloads})
}

// GetItem returns a single item by id.
func (s *APIV1Service) GetItem(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return toHTTPError(c, engerrors.InvalidArgument("item id must be a positive integer"))
	}

	item, err := s.Store.GetItem(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(c, engerrors.StoreUnavailable("failed to get item", err))
	}
	if item == nil {
		return toHTTPError(c, engerrors.NotFound("item not found"))
	}
	return c.JSON(http.StatusOK, toItemPayload(item))
}

// DeleteItem removes an item from the catalog.
func (s *APIV1Service) DeleteItem(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return toHTTPError(c, engerrors.InvalidArgument("item id must be a positive integer"))
	}

	if err := s.Store.DeleteItem(c.Request().Context(), id); err != nil {
		return toHTTPError(c, engerrors.NotFound("item not found"))
	}
	return c.NoContent(http.StatusNoContent)
}

// parseID parses a positive int32 identifier.
func parseID(raw string) (int32, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, engerrors.InvalidArgument("id must be positive")
	}
	return int32(id), nil
}
