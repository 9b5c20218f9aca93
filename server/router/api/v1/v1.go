// Package v1 exposes the HTTP surface of the recommendation engine: swipe
// intake, feed serving, item ingestion, and dashboard metrics.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/tastefeed/internal/profile"
	"github.com/hrygo/tastefeed/server/ai"
	engerrors "github.com/hrygo/tastefeed/server/internal/errors"
	"github.com/hrygo/tastefeed/server/service/recommend"
	"github.com/hrygo/tastefeed/store"
)

type APIV1Service struct {
	Profile  *profile.Profile
	Store    *store.Store
	Engine   *recommend.Engine
	Embedder *ai.Embedder // nil when the embedding provider is disabled
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, engine *recommend.Engine, embedder *ai.Embedder) *APIV1Service {
	return &APIV1Service{
		Profile:  profile,
		Store:    store,
		Engine:   engine,
		Embedder: embedder,
	}
}

// RegisterRoutes registers all API v1 routes on the echo server.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")

	g.POST("/swipes", s.RegisterSwipe)
	g.GET("/feed/next", s.NextItem)

	g.POST("/items", s.CreateItem)
	g.GET("/items", s.ListItems)
	g.GET("/items/:id", s.GetItem)
	g.DELETE("/items/:id", s.DeleteItem)

	g.GET("/dashboard/summary", s.DashboardSummary)
}

// errorResponse is the uniform error payload.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// toHTTPError maps engine error codes onto HTTP statuses.
func toHTTPError(c echo.Context, err error) error {
	code := engerrors.GetCodeFromError(err, engerrors.ErrCodeStoreUnavailable)
	status := http.StatusInternalServerError
	switch code {
	case engerrors.ErrCodeInvalidArgument:
		status = http.StatusBadRequest
	case engerrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case engerrors.ErrCodeStoreUnavailable:
		status = http.StatusServiceUnavailable
	case engerrors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	}
	return c.JSON(status, errorResponse{
		Error:   string(code),
		Message: err.Error(),
	})
}
