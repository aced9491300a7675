// Package server exposes plan generation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/scorecard/internal/assessment"
	"github.com/abhisek/scorecard/internal/auth"
	"github.com/abhisek/scorecard/internal/plan"
	"github.com/abhisek/scorecard/internal/store"
)

// Planner generates improvement plans. *plan.Service satisfies it.
type Planner interface {
	GeneratePlan(ctx context.Context, snap assessment.Snapshot) plan.Result
}

// History lists recorded plan outcomes. store.EventRepo satisfies it.
type History interface {
	QueryPlanEvents(ctx context.Context, opts store.QueryOpts) ([]store.PlanEvent, error)
}

// TokenValidator checks bearer tokens. *auth.JWTService satisfies it.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Server holds the HTTP dependencies.
type Server struct {
	planner Planner
	history History
	tokens  TokenValidator
	logger  *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAuth requires a valid bearer token on every /api route.
func WithAuth(tokens TokenValidator) Option {
	return func(s *Server) { s.tokens = tokens }
}

// New creates a Server. history may be nil, in which case /api/plans
// responds 404.
func New(planner Planner, history History, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{planner: planner, history: history, logger: logger.Named("http")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	api := router.Group("/api")
	if s.tokens != nil {
		api.Use(authMiddleware(s.tokens))
	}
	{
		api.GET("/demo", s.handleDemo)
		api.POST("/plan", s.handlePlan)
		if s.history != nil {
			api.GET("/plans", s.handleHistory)
		}
	}

	return router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
