package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Saipreetham0/ksp-project-sub001/config"
	"github.com/Saipreetham0/ksp-project-sub001/middleware"
)

// UserRoutes registers the public and authenticated user-facing endpoints.
func UserRoutes(api *mux.Router, c Controllers, cfg *config.Config) {
	// Login/register/OTP: 60 per IP per 5 minutes keeps brute force out
	// without bothering normal use.
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute, cfg.TrustedProxies)
	// General API traffic per IP.
	apiLimiter := middleware.NewIPRateLimiter(300, time.Minute, cfg.TrustedProxies)

	// Register & Login
	api.Handle("/register", loginLimiter.Middleware(http.HandlerFunc(c.Auth.Register))).Methods(http.MethodPost)
	api.Handle("/login", loginLimiter.Middleware(http.HandlerFunc(c.Auth.Login))).Methods(http.MethodPost)
	api.Handle("/logout", apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(c.Auth.Logout)))).Methods(http.MethodPost)

	// Phone verification
	api.Handle("/auth/otp/send", loginLimiter.Middleware(http.HandlerFunc(c.Auth.SendOTP))).Methods(http.MethodPost)
	api.Handle("/auth/otp/resend", loginLimiter.Middleware(http.HandlerFunc(c.Auth.ResendOTP))).Methods(http.MethodPost)
	api.Handle("/auth/otp/verify", loginLimiter.Middleware(http.HandlerFunc(c.Auth.VerifyOTP))).Methods(http.MethodPost)

	// Public: project catalogue and store feed
	api.Handle("/projects", apiLimiter.Middleware(http.HandlerFunc(c.Projects.List))).Methods(http.MethodGet)
	api.Handle("/projects/{id}", apiLimiter.Middleware(http.HandlerFunc(c.Projects.Get))).Methods(http.MethodGet)
	api.Handle("/store/products", apiLimiter.Middleware(http.HandlerFunc(c.Store.ListProducts))).Methods(http.MethodGet)

	// Payments
	api.Handle("/payments/order", apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(c.Orders.CreateOrder)))).Methods(http.MethodPost)
	api.Handle("/payments/verify", apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(c.Orders.VerifyPayment)))).Methods(http.MethodPost)
	api.Handle("/payments", apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(c.Orders.ListPayments)))).Methods(http.MethodGet)

	// Notifications inbox
	api.Handle("/notifications", apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(c.Notifications.List)))).Methods(http.MethodGet)
	api.Handle("/notifications/read-all", apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(c.Notifications.MarkAllRead)))).Methods(http.MethodPut)
	api.Handle("/notifications/{id}/read", apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(c.Notifications.MarkRead)))).Methods(http.MethodPut)
}
