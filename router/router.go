package router

import (
	"go-booking-api/config"
	"go-booking-api/handler"
	"go-booking-api/service"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "go-booking-api/docs"
)

func NewRouter(
	cfg *config.Config,
	tokens *service.TokenService,
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	slotHandler *handler.SlotHandler,
) http.Handler {
	mux := http.NewServeMux()

	authRequired := handler.AuthMiddleware(tokens)
	// Slow down credential guessing on the two password endpoints.
	loginLimiter := handler.NewRateLimiter(5, 10)

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /swagger/", httpSwagger.Handler())

	mux.Handle("POST /api/v1/auth/signup", loginLimiter.Limit(handler.ErrorHandlingMiddleware(authHandler.Signup)))
	mux.Handle("POST /api/v1/auth/login", loginLimiter.Limit(handler.ErrorHandlingMiddleware(authHandler.Login)))
	mux.Handle("POST /api/v1/auth/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
	mux.Handle("POST /api/v1/auth/logout", handler.ErrorHandlingMiddleware(authHandler.Logout))
	mux.Handle("GET /api/v1/auth/me", authRequired(handler.ErrorHandlingMiddleware(authHandler.Me)))
	mux.Handle("GET /api/v1/auth/google", handler.ErrorHandlingMiddleware(authHandler.GoogleLogin))
	mux.Handle("GET /api/v1/auth/google/callback", handler.ErrorHandlingMiddleware(authHandler.GoogleCallback))

	mux.Handle("GET /api/v1/slots/available", handler.ErrorHandlingMiddleware(slotHandler.Available))

	mux.Handle("POST /api/v1/appointments", authRequired(handler.ErrorHandlingMiddleware(appointmentHandler.Book)))
	mux.Handle("GET /api/v1/appointments", authRequired(handler.ErrorHandlingMiddleware(appointmentHandler.ListMine)))
	mux.Handle("GET /api/v1/appointments/admin", authRequired(handler.ErrorHandlingMiddleware(appointmentHandler.ListAll)))
	mux.Handle("DELETE /api/v1/appointments/{appointmentId}", authRequired(handler.ErrorHandlingMiddleware(appointmentHandler.Cancel)))

	return handler.CORSMiddleware(cfg)(mux)
}
