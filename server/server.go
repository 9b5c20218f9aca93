package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/tastefeed/internal/profile"
	"github.com/hrygo/tastefeed/server/ai"
	"github.com/hrygo/tastefeed/server/middleware"
	apiv1 "github.com/hrygo/tastefeed/server/router/api/v1"
	"github.com/hrygo/tastefeed/server/runner/embedding"
	"github.com/hrygo/tastefeed/server/service/recommend"
	"github.com/hrygo/tastefeed/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	engine     *recommend.Engine
	provider   *ai.Provider
	embedder   *ai.Embedder
}

func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	s := &Server{
		Profile: profile,
		Store:   store,
		engine:  recommend.NewEngine(store, profile),
	}

	echoServer := echo.New()
	echoServer.Debug = true
	echoServer.HideBanner = true
	echoServer.HidePort = true

	echoServer.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			slog.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status))
			return nil
		},
	}))
	echoServer.Use(echomw.Recover())
	echoServer.Use(echomw.CORS())
	echoServer.Use(middleware.NewSwipeLimiter(20, 40).Middleware())

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(200, "Service ready.")
	})

	if profile.IsAIEnabled() {
		aiConfig := ai.NewConfigFromProfile(profile)
		if err := aiConfig.Validate(); err != nil {
			slog.Warn("embedding provider misconfigured, continuing without it", slog.String("error", err.Error()))
		} else {
			provider, err := ai.NewProvider(aiConfig)
			if err != nil {
				return nil, errors.Wrap(err, "failed to create embedding provider")
			}
			s.provider = provider
			s.embedder = ai.NewEmbedder(provider, store)
		}
	}

	apiv1.NewAPIV1Service(profile, store, s.engine, s.embedder).RegisterRoutes(echoServer)

	s.echoServer = echoServer
	return s, nil
}

func (s *Server) Start(ctx context.Context) error {
	if s.embedder != nil {
		go func() {
			if err := s.provider.Ping(ctx); err != nil {
				slog.Warn("embedding backfill may stall", slog.String("error", err.Error()))
			}
		}()
		go embedding.NewRunner(s.Store, s.embedder).Run(ctx)
	}

	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", slog.String("address", address))
	return s.echoServer.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", slog.String("error", err.Error()))
	}

	slog.Info("tastefeed stopped properly")
}
