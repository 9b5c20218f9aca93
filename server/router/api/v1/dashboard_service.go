package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	engerrors "github.com/hrygo/tastefeed/server/internal/errors"
	"github.com/hrygo/tastefeed/store"
)

type dashboardSummaryResponse struct {
	ItemCount    int64 `json:"item_count"`
	SwipeCount   int64 `json:"swipe_count"`
	LikeCount    int64 `json:"like_count"`
	DislikeCount int64 `json:"dislike_count"`
}

// DashboardSummary returns catalog and engagement totals.
func (s *APIV1Service) DashboardSummary(c echo.Context) error {
	ctx := c.Request().Context()

	itemCount, err := s.Store.CountItems(ctx)
	if err != nil {
		return toHTTPError(c, engerrors.StoreUnavailable("failed to count items", err))
	}
	swipeCount, err := s.Store.CountFeedback(ctx)
	if err != nil {
		return toHTTPError(c, engerrors.StoreUnavailable("failed to count feedback", err))
	}

	liked := true
	likes, err := s.Store.ListFeedback(ctx, &store.FindFeedback{Liked: &liked})
	if err != nil {
		return toHTTPError(c, engerrors.StoreUnavailable("failed to list feedback", err))
	}

	return c.JSON(http.StatusOK, dashboardSummaryResponse{
		ItemCount:    itemCount,
		SwipeCount:   swipeCount,
		LikeCount:    int64(len(likes)),
		DislikeCount: swipeCount - int64(len(likes)),
	})
}
