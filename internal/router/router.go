// Package router wires HTTP routes to their handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/CkHanchey/pnrgov/internal/handler"
	"github.com/CkHanchey/pnrgov/internal/middleware"
)

// Handlers groups everything the router needs to register the API surface.
type Handlers struct {
	Auth        *handler.AuthHandler
	Reservation *handler.ReservationHandler
	Sample      *handler.SampleHandler
	Edifact     *handler.EdifactHandler
	JWTSecret   string
}

// Register mounts the full route tree on e.  The health check and auth
// endpoints are open; everything else under /v1 requires a Bearer token.
func Register(e *echo.Echo, h Handlers) {
	e.GET("/healthz", handler.Health)

	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(h.JWTSecret))

	v1.GET("/me", h.Auth.Me)

	v1.POST("/reservations", h.Reservation.Create)
	v1.GET("/reservations", h.Reservation.List)
	// /all before /:id so the literal segment is not swallowed by the param route.
	v1.DELETE("/reservations/all", h.Reservation.DeleteAll)
	v1.GET("/reservations/by-locator/:locator", h.Reservation.GetByLocator)
	v1.GET("/reservations/:id", h.Reservation.Get)
	v1.PUT("/reservations/:id", h.Reservation.Update)
	v1.DELETE("/reservations/:id", h.Reservation.Delete)

	v1.POST("/sample/generate", h.Sample.Generate)
	v1.POST("/sample/generate-multiple", h.Sample.GenerateMultiple)

	v1.GET("/edifact/generate/:id", h.Edifact.Generate)
	v1.GET("/edifact/download/:id", h.Edifact.Download)
	v1.POST("/edifact/generate", h.Edifact.GenerateRandom)
	v1.POST("/edifact/manifest/generate", h.Edifact.ManifestGenerate)
	v1.POST("/edifact/manifest/download", h.Edifact.ManifestDownload)
	v1.POST("/edifact/bulk/generate", h.Edifact.BulkGenerate)
}
