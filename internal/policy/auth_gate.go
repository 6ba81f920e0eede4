package policy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/diewo77/go-society/auth"
	"github.com/diewo77/go-society/gate"
	"github.com/diewo77/go-society/httpx"
	"github.com/diewo77/go-society/internal/apperr"
	"gorm.io/gorm"
)

// AuthGate is the single authorization point of the application.
type AuthGate struct {
	Gate          *gate.Gate[uint]
	CacheResolver *gate.CachedResolver[uint]
}

// NewAuthGate builds the gate with role profiles cached for cacheTTL and the
// society policy registered on every society-owned resource type.
func NewAuthGate(db *gorm.DB, cacheTTL time.Duration) *AuthGate {
	cached := gate.NewCachedResolver[uint](NewRoleProfileResolver(db), cacheTTL)
	g := gate.New[uint](cached)

	society := SocietyPolicy(db)
	for _, resourceType := range []string{ResourceBuilding, ResourceUnit, ResourceParkingSlot, ResourcePayment} {
		g.Register(resourceType, society)
	}
	return &AuthGate{Gate: g, CacheResolver: cached}
}

// Check authorizes userID and translates gate errors into apperr values:
// no user is Unauthorized, a denied user is Forbidden.
func (ag *AuthGate) Check(ctx context.Context, userID uint, action gate.Action, resourceType string, resource any) error {
	err := ag.Gate.Authorize(ctx, userID, action, resourceType, resource)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gate.ErrUnauthenticated):
		return apperr.Unauthorized("authentication required")
	default:
		return apperr.Forbidden(fmt.Sprintf("not allowed to %s %s", action, resourceType), err)
	}
}

// Authorize checks the user stored in ctx.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error {
	userID, _ := auth.UserIDFromContext(ctx)
	return ag.Check(ctx, userID, action, resourceType, resource)
}

// RequirePermission returns middleware answering 401 without a user and 403
// when the user's profile lacks resourceType:action.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := ag.Authorize(r.Context(), action, resourceType, nil); err != nil {
				httpx.Error(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
