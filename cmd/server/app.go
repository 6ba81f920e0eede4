package main

import (
	"net/http"
	"time"

	"github.com/diewo77/go-society/auth"
	"github.com/diewo77/go-society/gate"
	"github.com/diewo77/go-society/internal/logging"
	"github.com/diewo77/go-society/internal/policy"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	routerCfg *RouterConfig
}

// NewApp creates a new application with all routes configured.
func NewApp(routerCfg *RouterConfig) *App {
	app := &App{
		mux:       http.NewServeMux(),
		routerCfg: routerCfg,
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := withRequestLog(auth.Middleware(a.mux))
	handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	// Public
	ah := a.routerCfg.AuthHandler
	a.mux.HandleFunc("GET /healthz", a.routerCfg.HealthHandler.Healthz)
	a.mux.HandleFunc("POST /api/login", ah.Login)
	a.mux.HandleFunc("POST /api/logout", ah.Logout)

	// Availability
	bh := a.routerCfg.BuildingHandler
	a.mux.Handle("GET /api/buildings/units",
		a.protect(policy.ResourceBuilding, gate.ActionList, bh.Units))
	a.mux.Handle("GET /api/buildings/parking",
		a.protect(policy.ResourceBuilding, gate.ActionList, bh.Parking))
	a.mux.Handle("GET /api/buildings/{id}/parking/selectable",
		a.protect(policy.ResourceParkingSlot, gate.ActionList, bh.SelectableSlots))

	// Tenants and allocation
	th := a.routerCfg.TenantHandler
	a.mux.Handle("GET /api/tenants",
		a.protect(policy.ResourceTenant, gate.ActionList, th.Search))
	a.mux.Handle("GET /api/tenants/details",
		a.protect(policy.ResourceTenant, gate.ActionList, th.Details))
	a.mux.Handle("POST /api/tenants/allocations",
		a.protect(policy.ResourceTenant, gate.ActionAllocate, th.Allocate))
	a.mux.Handle("POST /api/units/{id}/release",
		a.protect(policy.ResourceUnit, gate.ActionRelease, th.ReleaseUnit))
	a.mux.Handle("POST /api/onboarding/steps/{step}",
		a.protect(policy.ResourceTenant, gate.ActionAllocate, a.routerCfg.OnboardingHandler.ValidateStep))

	// Parking
	ph := a.routerCfg.ParkingHandler
	a.mux.Handle("PATCH /api/parking-slots/{id}",
		a.protect(policy.ResourceParkingSlot, gate.ActionUpdate, ph.Update))
	a.mux.Handle("POST /api/parking-slots/swap",
		a.protect(policy.ResourceParkingSlot, gate.ActionUpdate, ph.Swap))

	// Payments
	a.mux.Handle("GET /api/payments",
		a.protect(policy.ResourcePayment, gate.ActionList, a.routerCfg.PaymentHandler.List))
}

// protect requires a session and the resourceType:action capability. The
// handler's service repeats the check against the concrete record.
func (a *App) protect(resourceType string, action gate.Action, h http.HandlerFunc) http.Handler {
	return auth.RequireAuth(a.routerCfg.AuthGate.RequirePermission(resourceType, action)(h))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withRequestLog tags every request with an X-Request-ID and logs its
// outcome.
func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logging.Logger.WithFields(logrus.Fields{
			"request_id": reqID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
		}).Info("request")
	})
}
