/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and wires the
plan generator, the plan store and the dashboard socket hub into the router.
*/
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Brilu-22/FCalApp3/internal/config"
	"github.com/Brilu-22/FCalApp3/internal/planner"
	"github.com/Brilu-22/FCalApp3/internal/store"
)

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	cfg config.Config

	// repo persists plans and dashboards.
	repo store.Repository

	// planner turns plan requests into generated plan text.
	planner *planner.Service

	// hub pushes dashboard refresh notifications to connected clients.
	hub *Hub

	startTime time.Time
}

// NewServer builds a configured *http.Server with production-ready network
// timeouts.
func NewServer(cfg config.Config, repo store.Repository, svc *planner.Service) *http.Server {
	app := &Server{
		cfg:       cfg,
		repo:      repo,
		planner:   svc,
		hub:       NewHub(),
		startTime: time.Now(),
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      app.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 15*time.Second,
	}
}
