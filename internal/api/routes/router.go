package routes

import (
	"net/http"

	"github.com/medilink-plus/coordination-api/internal/api/handlers"
	"github.com/medilink-plus/coordination-api/internal/api/middleware"
	"github.com/medilink-plus/coordination-api/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	authHandler         *handlers.AuthHandler
	reservationHandler  *handlers.ReservationHandler
	hospitalHandler     *handlers.HospitalHandler
	interpreterHandler  *handlers.InterpreterHandler
	feeHandler          *handlers.FeeHandler
	promotionHandler    *handlers.PromotionHandler
	notificationHandler *handlers.NotificationHandler

	auth            func(http.Handler) http.Handler
	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	authHandler *handlers.AuthHandler,
	reservationHandler *handlers.ReservationHandler,
	hospitalHandler *handlers.HospitalHandler,
	interpreterHandler *handlers.InterpreterHandler,
	feeHandler *handlers.FeeHandler,
	promotionHandler *handlers.PromotionHandler,
	notificationHandler *handlers.NotificationHandler,
	auth func(http.Handler) http.Handler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		authHandler:         authHandler,
		reservationHandler:  reservationHandler,
		hospitalHandler:     hospitalHandler,
		interpreterHandler:  interpreterHandler,
		feeHandler:          feeHandler,
		promotionHandler:    promotionHandler,
		notificationHandler: notificationHandler,

		auth:            auth,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// protected wraps a handler with bearer-token authentication
func (r *Router) protected(h http.HandlerFunc) http.Handler {
	return r.auth(h)
}

// adminOnly wraps a handler with authentication plus the admin role check
func (r *Router) adminOnly(h http.HandlerFunc) http.Handler {
	return r.auth(middleware.RequireAdmin(h))
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Auth endpoints
	r.mux.HandleFunc("POST /api/auth/login", r.authHandler.Login)

	// Reservation endpoints (authenticated; literal segments registered
	// before the {id} wildcard)
	r.mux.Handle("POST /api/reservations", r.protected(r.reservationHandler.CreateReservation))
	r.mux.Handle("GET /api/reservations", r.protected(r.reservationHandler.ListReservations))
	r.mux.Handle("GET /api/reservations/stats", r.protected(r.reservationHandler.GetStats))
	r.mux.Handle("GET /api/reservations/conflict", r.protected(r.reservationHandler.CheckConflict))
	r.mux.Handle("GET /api/reservations/{id}", r.protected(r.reservationHandler.GetReservation))
	r.mux.Handle("PATCH /api/reservations/{id}", r.protected(r.reservationHandler.UpdateReservation))
	r.mux.Handle("POST /api/reservations/{id}/cancel", r.protected(r.reservationHandler.CancelReservation))
	r.mux.Handle("POST /api/reservations/{id}/status", r.protected(r.reservationHandler.ChangeStatus))
	r.mux.Handle("POST /api/reservations/{id}/interpreter", r.adminOnly(r.reservationHandler.AssignInterpreter))

	// Hospital catalog endpoints
	r.mux.HandleFunc("GET /api/hospitals", r.hospitalHandler.ListHospitals)
	r.mux.HandleFunc("GET /api/hospitals/search", r.hospitalHandler.SearchHospitals)
	r.mux.HandleFunc("GET /api/hospitals/{id}", r.hospitalHandler.GetHospital)
	r.mux.Handle("POST /api/hospitals", r.adminOnly(r.hospitalHandler.CreateHospital))
	r.mux.Handle("PUT /api/hospitals/{id}", r.adminOnly(r.hospitalHandler.UpdateHospital))
	r.mux.Handle("DELETE /api/hospitals/{id}", r.adminOnly(r.hospitalHandler.DeleteHospital))

	// Interpreter catalog endpoints
	r.mux.HandleFunc("GET /api/interpreters", r.interpreterHandler.ListInterpreters)
	r.mux.HandleFunc("GET /api/interpreters/{id}", r.interpreterHandler.GetInterpreter)
	r.mux.Handle("POST /api/interpreters", r.adminOnly(r.interpreterHandler.CreateInterpreter))
	r.mux.Handle("PUT /api/interpreters/{id}", r.adminOnly(r.interpreterHandler.UpdateInterpreter))
	r.mux.Handle("DELETE /api/interpreters/{id}", r.adminOnly(r.interpreterHandler.DeleteInterpreter))

	// Fee schedule endpoints
	r.mux.HandleFunc("GET /api/fees", r.feeHandler.ListFees)
	r.mux.Handle("POST /api/fees", r.adminOnly(r.feeHandler.CreateFee))
	r.mux.Handle("PUT /api/fees/{id}", r.adminOnly(r.feeHandler.UpdateFee))
	r.mux.Handle("DELETE /api/fees/{id}", r.adminOnly(r.feeHandler.DeleteFee))

	// Promotion endpoints
	r.mux.HandleFunc("GET /api/promotions", r.promotionHandler.ListPromotions)
	r.mux.Handle("POST /api/promotions", r.adminOnly(r.promotionHandler.CreatePromotion))
	r.mux.Handle("PUT /api/promotions/{id}", r.adminOnly(r.promotionHandler.UpdatePromotion))
	r.mux.Handle("DELETE /api/promotions/{id}", r.adminOnly(r.promotionHandler.DeletePromotion))

	// Notification endpoints
	if r.notificationHandler != nil {
		r.mux.Handle("GET /api/notifications", r.protected(r.notificationHandler.ListNotifications))
		r.mux.Handle("POST /api/notifications/{id}/read", r.protected(r.notificationHandler.MarkNotificationRead))
	}

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.Logging(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.Observability(r.metrics)(handler)

	// Apply HTTP performance optimizations (compression, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORS(handler)

	return handler
}
