// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/appointment-scheduler/internal/auth"
	"github.com/iliyamo/appointment-scheduler/internal/handler"
	"github.com/iliyamo/appointment-scheduler/internal/middleware"
	"github.com/iliyamo/appointment-scheduler/internal/repository"
)

// RegisterRoutes registers routes that do not require authentication or any
// application dependency. Currently it exposes only a health check used by
// load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints under /api/auth.
// Login is the only route fronted by the rate limiter: it is where
// credential stuffing happens. /me requires a valid access token; /refresh
// and /logout do their own cookie handling inside the handler.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, mgr *auth.Manager, limiter echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/login", a.Login, limiter)
	g.GET("/me", a.Me, middleware.JWTAuth(mgr))
	g.GET("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
}

// RegisterAPI registers the scheduling endpoints. Public browse routes
// (hospitals, doctors) sit behind the Redis response cache; booking routes
// require a valid access token, and the patient listing additionally
// requires a superuser account.
func RegisterAPI(
	e *echo.Echo,
	hospitals *handler.HospitalHandler,
	people *handler.PersonHandler,
	appointments *handler.AppointmentHandler,
	users *repository.UserRepo,
	mgr *auth.Manager,
	cache echo.MiddlewareFunc,
) {
	pub := e.Group("/api", cache)
	pub.GET("/hospitals", hospitals.List)
	pub.GET("/hospitals/:id", hospitals.Get)
	pub.GET("/hospitals/:id/doctors", hospitals.ListDoctors)
	pub.GET("/doctors", people.ListDoctors)

	authed := e.Group("/api", middleware.JWTAuth(mgr))
	authed.GET("/patients", people.ListPatients, middleware.RequireSuperuser(users))
	authed.POST("/appointments", appointments.Create)
	authed.GET("/doctors/:id/appointments", appointments.ListByDoctor)
	authed.DELETE("/appointments/:id", appointments.Cancel)
}
