package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/Brilu-22/FCalApp3/internal/auth"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Platform"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.Use(LoggerMiddleware)

	api := e.Group("/api")
	api.GET("/health", s.healthHandler)
	api.POST("/generate_ai_plan", s.generatePlanHandler)

	user := api.Group("/user/:user_id")
	user.Use(auth.JwtMiddleware(s.cfg.JWTSecret))
	user.POST("/plans", s.savePlanHandler)
	user.GET("/plans", s.listPlansHandler)
	user.GET("/plans/latest", s.latestPlanHandler)
	user.GET("/dashboard", s.dashboardHandler)
	user.GET("/dashboard/ws", s.dashboardSocketHandler)
	user.POST("/progress", s.updateProgressHandler)
	user.POST("/workout-complete", s.workoutCompleteHandler)

	return e
}

func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()

		c.Set("logger", &logger)

		return next(c)
	}
}
