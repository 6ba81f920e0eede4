package policy

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diewo77/go-society/auth"
	"github.com/diewo77/go-society/gate"
	"github.com/diewo77/go-society/internal/apperr"
	"github.com/diewo77/go-society/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	owner, otherOwner, staff, tenant models.User
	unit, foreignUnit                models.Unit
}

func setupTestDB(t *testing.T) (*gorm.DB, fixture) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Society{}, &models.Building{}, &models.Unit{}))

	var f fixture
	f.owner = models.User{Email: "owner@example.com", Password: "x", Role: models.RoleOwner}
	f.otherOwner = models.User{Email: "other@example.com", Password: "x", Role: models.RoleOwner}
	f.tenant = models.User{Email: "tenant@example.com", Password: "x", Role: models.RoleTenant}
	require.NoError(t, db.Create(&f.owner).Error)
	require.NoError(t, db.Create(&f.otherOwner).Error)
	require.NoError(t, db.Create(&f.tenant).Error)

	mine := models.Society{Name: "Green Park", CreatedByID: f.owner.ID}
	theirs := models.Society{Name: "Blue Hills", CreatedByID: f.otherOwner.ID}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&theirs).Error)

	f.staff = models.User{Email: "guard@example.com", Password: "x", Role: models.RoleStaff, SocietyID: &mine.ID}
	require.NoError(t, db.Create(&f.staff).Error)

	b1 := models.Building{SocietyID: mine.ID, Name: "A", Society: &mine}
	b2 := models.Building{SocietyID: theirs.ID, Name: "B", Society: &theirs}
	require.NoError(t, db.Omit("Society").Create(&b1).Error)
	require.NoError(t, db.Omit("Society").Create(&b2).Error)
	f.unit = models.Unit{ID: 1, BuildingID: b1.ID, Building: &b1, Name: "A-101"}
	f.foreignUnit = models.Unit{ID: 2, BuildingID: b2.ID, Building: &b2, Name: "B-101"}
	return db, f
}

func TestAuthGate_OwnerOwnsTheirSociety(t *testing.T) {
	db, f := setupTestDB(t)
	ag := NewAuthGate(db, time.Minute)
	ctx := context.Background()

	require.NoError(t, ag.Check(ctx, f.owner.ID, gate.ActionAllocate, ResourceUnit, &f.unit))
	require.NoError(t, ag.Check(ctx, f.owner.ID, gate.ActionAllocate, ResourceTenant, nil))

	err := ag.Check(ctx, f.owner.ID, gate.ActionAllocate, ResourceUnit, &f.foreignUnit)
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindUnauthorized, e.Kind)
	assert.Equal(t, apperr.CodeForbidden, e.Code)
	assert.Equal(t, http.StatusForbidden, e.StatusCode())
}

func TestAuthGate_StaffIsReadOnlyInTheirSociety(t *testing.T) {
	db, f := setupTestDB(t)
	ag := NewAuthGate(db, time.Minute)
	ctx := context.Background()

	assert.NoError(t, ag.Check(ctx, f.staff.ID, gate.ActionList, ResourceBuilding, nil))
	assert.NoError(t, ag.Check(ctx, f.staff.ID, gate.ActionView, ResourceUnit, &f.unit))
	assert.Error(t, ag.Check(ctx, f.staff.ID, gate.ActionView, ResourceUnit, &f.foreignUnit))
	assert.Error(t, ag.Check(ctx, f.staff.ID, gate.ActionAllocate, ResourceUnit, &f.unit))
	assert.Error(t, ag.Check(ctx, f.staff.ID, gate.ActionList, ResourceTenant, nil))
}

func TestAuthGate_TenantAndUnknownUsers(t *testing.T) {
	db, f := setupTestDB(t)
	ag := NewAuthGate(db, time.Minute)
	ctx := context.Background()

	assert.True(t, apperr.Is(ag.Check(ctx, f.tenant.ID, gate.ActionList, ResourceTenant, nil), apperr.KindUnauthorized))
	assert.True(t, apperr.Is(ag.Check(ctx, 9999, gate.ActionList, ResourceBuilding, nil), apperr.KindUnauthorized))

	err := ag.Check(ctx, 0, gate.ActionList, ResourceBuilding, nil)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeUnauthorized, e.Code)
}

func TestAuthGate_RequirePermission(t *testing.T) {
	db, f := setupTestDB(t)
	ag := NewAuthGate(db, time.Minute)
	h := ag.RequirePermission(ResourceTenant, gate.ActionList)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		userID uint
		want   int
	}{
		{"anonymous", 0, http.StatusUnauthorized},
		{"owner", f.owner.ID, http.StatusNoContent},
		{"staff", f.staff.ID, http.StatusForbidden},
		{"tenant", f.tenant.ID, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tenants", nil)
			if tc.userID != 0 {
				req = req.WithContext(auth.WithUserID(req.Context(), tc.userID))
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestProfileForRole(t *testing.T) {
	owner := ProfileForRole(models.RoleOwner)
	require.NotNil(t, owner)
	assert.True(t, owner.HasPermission(gate.NewPermission(ResourceParkingSlot, gate.ActionUpdate)))
	assert.False(t, ProfileForRole(models.RoleStaff).HasPermission(gate.NewPermission(ResourceParkingSlot, gate.ActionUpdate)))
	assert.Nil(t, ProfileForRole("janitor"))
}
