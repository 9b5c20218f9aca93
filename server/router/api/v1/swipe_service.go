package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	engerrors "github.com/hrygo/tastefeed/server/internal/errors"
	"github.com/hrygo/tastefeed/server/internal/observability"
	"github.com/hrygo/tastefeed/store"
)

type registerSwipeRequest struct {
	UserID int32 `json:"user_id"`
	ItemID int32 `json:"item_id"`
	Liked  *bool `json:"liked"`
}

type registerSwipeResponse struct {
	Status string `json:"status"`
	// ProfileRefreshed reports the advisory second phase; false means the
	// swipe is recorded but the taste vector will catch up later.
	ProfileRefreshed bool `json:"profile_refreshed"`
}

// RegisterSwipe records a swipe and refreshes the user's taste profile.
func (s *APIV1Service) RegisterSwipe(c echo.Context) error {
	var req registerSwipeRequest
	if err := c.Bind(&req); err != nil {
		return toHTTPError(c, engerrors.InvalidArgument("malformed request body"))
	}
	if req.Liked == nil {
		return toHTTPError(c, engerrors.InvalidArgument("liked field is required"))
	}

	reqCtx := observability.NewRequestContext(slog.Default(), "register_swipe", req.UserID)
	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)

	result, err := s.Engine.RegisterFeedback(ctx, req.UserID, req.ItemID, *req.Liked)
	if err != nil {
		reqCtx.Error("swipe registration failed", err)
		return toHTTPError(c, err)
	}

	reqCtx.Info("swipe registered",
		slog.Int64(observability.LogFieldItemID, int64(req.ItemID)),
		slog.Bool("liked", *req.Liked),
		slog.Bool("profile_refreshed", result.ProfileRefreshed),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))

	return c.JSON(http.StatusOK, registerSwipeResponse{
		Status:           "ok",
		ProfileRefreshed: result.ProfileRefreshed,
	})
}

type nextItemResponse struct {
	Item    *itemPayload `json:"item"`
	Message string       `json:"message,omitempty"`
}

// NextItem serves the single best unseen item for the user.
func (s *APIV1Service) NextItem(c echo.Context) error {
	userID, err := parseID(c.QueryParam("user_id"))
	if err != nil {
		return toHTTPError(c, engerrors.InvalidArgument("user_id query parameter is required"))
	}

	reqCtx := observability.NewRequestContext(slog.Default(), "next_item", userID)
	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)

	item, err := s.Engine.NextBest(ctx, userID)
	if err != nil {
		reqCtx.Error("recommendation failed", err)
		return toHTTPError(c, err)
	}
	if item == nil {
		// A normal terminal state, not an error.
		return c.JSON(http.StatusOK, nextItemResponse{
			Item:    nil,
			Message: "no more items available",
		})
	}

	reqCtx.Info("recommendation served",
		slog.Int64(observability.LogFieldItemID, int64(item.ID)),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))

	return c.JSON(http.StatusOK, nextItemResponse{Item: toItemPayload(item)})
}

// itemPayload is the wire form of an item; the raw embedding stays internal.
type itemPayload struct {
	ID          int32    `json:"id"`
	UID         string   `json:"uid"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	ImageURL    string   `json:"image_url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func toItemPayload(item *store.Item) *itemPayload {
	return &itemPayload{
		ID:          item.ID,
		UID:         item.UID,
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		Price:       item.Price,
		Currency:    item.Currency,
		ImageURL:    item.ImageURL,
		Tags:        item.Tags,
	}
}
