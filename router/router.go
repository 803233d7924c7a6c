package router

import (
	"go-auth-api/handler"
	"go-auth-api/model"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "go-auth-api/docs"
)

// NewRouter builds the route table. Every route runs its rate-limit
// class first, then authentication where required, then role checks.
func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	authenticate handler.Middleware,
	authLimiter *handler.RateLimiter,
	refreshLimiter *handler.RateLimiter,
	apiLimiter *handler.RateLimiter,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	adminOnly := handler.RequireRoles(model.RoleAdmin)

	// Auth endpoints. Register/login and refresh carry their own tight
	// rate-limit classes. Logout only needs an access token and rides
	// the general api class.
	mux.Handle("POST /api/auth/register",
		chain(handler.ErrorHandlingMiddleware(authHandler.Register), authLimiter.Middleware))
	mux.Handle("POST /api/auth/login",
		chain(handler.ErrorHandlingMiddleware(authHandler.Login), authLimiter.Middleware))
	mux.Handle("POST /api/auth/refresh",
		chain(handler.ErrorHandlingMiddleware(authHandler.Refresh), refreshLimiter.Middleware))
	mux.Handle("POST /api/auth/logout",
		chain(handler.ErrorHandlingMiddleware(authHandler.Logout), apiLimiter.Middleware, authenticate))

	// User management. Reads are open to any authenticated user, writes
	// are admin-only.
	mux.Handle("GET /api/users",
		chain(handler.ErrorHandlingMiddleware(userHandler.ListUsers), apiLimiter.Middleware, authenticate))
	mux.Handle("GET /api/users/{id}",
		chain(handler.ErrorHandlingMiddleware(userHandler.GetUser), apiLimiter.Middleware, authenticate))
	mux.Handle("POST /api/users",
		chain(handler.ErrorHandlingMiddleware(userHandler.CreateUser), apiLimiter.Middleware, authenticate, adminOnly))
	mux.Handle("PATCH /api/users/{id}",
		chain(handler.ErrorHandlingMiddleware(userHandler.UpdateUser), apiLimiter.Middleware, authenticate, adminOnly))
	mux.Handle("PATCH /api/users/{id}/role",
		chain(handler.ErrorHandlingMiddleware(userHandler.UpdateUserRole), apiLimiter.Middleware, authenticate, adminOnly))
	mux.Handle("DELETE /api/users/{id}",
		chain(handler.ErrorHandlingMiddleware(userHandler.DeleteUser), apiLimiter.Middleware, authenticate, adminOnly))

	return mux
}

// chain wraps h so that the first middleware listed is the first to see
// the request.
func chain(h http.Handler, middlewares ...handler.Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
