package main

import (
	"github.com/diewo77/go-society/internal/config"
	"github.com/diewo77/go-society/internal/handlers"
	"github.com/diewo77/go-society/internal/policy"
	"github.com/diewo77/go-society/internal/services"
	"gorm.io/gorm"
)

// RouterConfig holds the authorization gate, services and handlers the
// route table is built from.
type RouterConfig struct {
	AuthGate *policy.AuthGate

	AuthHandler       *handlers.AuthHandler
	HealthHandler     *handlers.HealthHandler
	BuildingHandler   *handlers.BuildingHandler
	TenantHandler     *handlers.TenantHandler
	ParkingHandler    *handlers.ParkingHandler
	PaymentHandler    *handlers.PaymentHandler
	OnboardingHandler *handlers.OnboardingHandler

	// PaymentService also runs the overdue sweep.
	PaymentService *services.PaymentService
}

func NewRouterConfig(db *gorm.DB, app config.AppConfig) *RouterConfig {
	authGate := policy.NewAuthGate(db, app.AuthCacheTTL)

	allocation := services.NewAllocationService(db, authGate, app.AllocationMaxRetries)
	payments := services.NewPaymentService(db, authGate)

	return &RouterConfig{
		AuthGate:          authGate,
		AuthHandler:       handlers.NewAuthHandler(db),
		HealthHandler:     handlers.NewHealthHandler(db),
		BuildingHandler:   handlers.NewBuildingHandler(services.NewAvailabilityService(db, authGate)),
		TenantHandler:     handlers.NewTenantHandler(services.NewTenantService(db, authGate), allocation),
		ParkingHandler:    handlers.NewParkingHandler(services.NewParkingService(db, authGate, app.AllocationMaxRetries)),
		PaymentHandler:    handlers.NewPaymentHandler(payments),
		OnboardingHandler: handlers.NewOnboardingHandler(),
		PaymentService:    payments,
	}
}
