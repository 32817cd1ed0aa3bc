package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/kchestnov/plutarch/internal/handler"    // handlers that implement the endpoints
	"github.com/kchestnov/plutarch/internal/middleware" // JWT authentication and role enforcement
)

// RegisterRoutes registers routes that require no authentication. Currently
// that is only the health check used by the front end and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the token endpoint. The front end trades the
// operator key plus a member user name for a short-lived access token here;
// no session state is kept on the server.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/v1/auth/token", a.Token)
}

// RegisterGame wires the engine operations under /v1, protected by JWT and
// role middleware. Member tokens may register, withdraw and read the
// roster; the session close and reference-data management require an admin
// token. The roster read sits behind the Redis response cache when one is
// configured (cacheMW is the no-op middleware otherwise).
func RegisterGame(e *echo.Echo, g *handler.GameHandler, a *handler.AdminHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	member := auth.Group("", middleware.RequireRole("member", "admin"))
	member.POST("/sessions/:date/registrations", g.Register)
	member.DELETE("/sessions/:date/registrations/me", g.Leave)
	member.GET("/sessions/:date/roster", g.Roster, cacheMW)

	admin := auth.Group("", middleware.RequireRole("admin"))
	admin.POST("/sessions/:date/settle", g.Settle)
	admin.POST("/members", a.CreateMember)
	admin.GET("/members/:user_name", a.GetMember)
	admin.POST("/sessions", a.CreateSession)
}
