// Package api provides the HTTP search endpoint.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/iksnae/cursor-search/internal"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server exposes the search engine over HTTP
type Server struct {
	echo   *echo.Echo
	engine *internal.Engine
}

// SearchResponse is the response body for GET /api/search
type SearchResponse struct {
	Results []internal.SearchResult `json:"results"`
	Error   string                  `json:"error,omitempty"`
}

// ErrorResponse is the response body for client errors
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewServer creates an HTTP server around the given engine
func NewServer(engine *internal.Engine) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{echo: e, engine: engine}
	e.GET("/health", s.handleHealth)
	e.GET("/api/search", s.handleSearch)
	return s
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleSearch runs one search request. A missing query is a client error;
// scope defaults to "all". Orchestration failure returns a server error with
// an empty result list.
func (s *Server) handleSearch(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: internal.ErrMissingQuery.Error()})
	}

	scope, err := internal.ParseScope(c.QueryParam("scope"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	results, err := s.engine.Search(query, scope)
	if errors.Is(err, internal.ErrMissingQuery) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	if err != nil {
		internal.LogError("search failed: %v", err)
		return c.JSON(http.StatusInternalServerError, SearchResponse{
			Results: []internal.SearchResult{},
			Error:   err.Error(),
		})
	}
	if results == nil {
		results = []internal.SearchResult{}
	}

	return c.JSON(http.StatusOK, SearchResponse{Results: results})
}

// Handler returns the underlying http.Handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server on the given address
func (s *Server) Start(addr string) error {
	internal.LogInfo("starting http server on %s", addr)
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
