package services

import (
	"context"
	"time"

	"github.com/diewo77/go-society/gate"
	"github.com/diewo77/go-society/httpx"
	"github.com/diewo77/go-society/internal/apperr"
	"github.com/diewo77/go-society/internal/dtos"
	"github.com/diewo77/go-society/internal/models"
	"github.com/diewo77/go-society/internal/policy"
	"github.com/diewo77/go-society/internal/repositories"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	tenantSearchLimit   = 10
	tenantDetailDefault = 10
	tenantDetailMax     = 100
)

// TenantSummary is one candidate in the tenant picker.
type TenantSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// TenantDetailRow joins an occupied unit with its tenant, building and
// active agreement.
type TenantDetailRow struct {
	UnitID        uint                  `json:"unitId"`
	UnitName      string                `json:"unitName"`
	UnitType      models.UnitType       `json:"unitType"`
	Floor         int                   `json:"floor"`
	BuildingID    uint                  `json:"buildingId"`
	BuildingName  string                `json:"buildingName"`
	TenantID      uint                  `json:"tenantId"`
	TenantName    string                `json:"tenantName"`
	TenantEmail   string                `json:"tenantEmail"`
	TenantPhone   string                `json:"tenantPhone"`
	AgreementID   *uint                 `json:"agreementId"`
	AgreementType *models.AgreementType `json:"agreementType"`
	StartDate     *time.Time            `json:"startDate"`
	EndDate       *time.Time            `json:"endDate"`
	MonthlyRent   *decimal.Decimal      `json:"monthlyRent"`
}

type TenantService struct {
	db    *gorm.DB
	authz Authorizer
}

func NewTenantService(db *gorm.DB, authz Authorizer) *TenantService {
	return &TenantService{db: db, authz: authz}
}

// SearchTenants matches query case-insensitively against name, email and
// phone of tenant accounts and returns at most ten, ordered by name.
func (s *TenantService) SearchTenants(ctx context.Context, userID uint, query string) ([]TenantSummary, error) {
	if err := s.authz.Check(ctx, userID, gate.ActionList, policy.ResourceTenant, nil); err != nil {
		return nil, err
	}
	pattern := containsPattern(query)
	out := []TenantSummary{}
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Select("id", "name", "email", "phone").
		Where("role = ?", models.RoleTenant).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR LOWER(phone) LIKE ? ESCAPE '\'`, pattern, pattern, pattern).
		Order("name, id").
		Limit(tenantSearchLimit).
		Scan(&out).Error
	if err != nil {
		return nil, apperr.Wrap(err, "failed to search tenants")
	}
	return out, nil
}

// TenantDetailList pages through the occupied units of the caller's
// societies.
func (s *TenantService) TenantDetailList(ctx context.Context, userID uint, f dtos.TenantDetailFilter) (*httpx.Page[TenantDetailRow], error) {
	if err := s.authz.Check(ctx, userID, gate.ActionList, policy.ResourceTenant, nil); err != nil {
		return nil, err
	}
	if f.Type != "" && !f.Type.Valid() {
		return nil, apperr.Validation(map[string]string{"type": "oneof"})
	}
	societyIDs, err := visibleSocieties(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if f.BuildingID != 0 {
		building, err := repositories.LoadBuilding(s.db.WithContext(ctx), f.BuildingID)
		if err != nil {
			return nil, err
		}
		if err := s.authz.Check(ctx, userID, gate.ActionList, policy.ResourceBuilding, building); err != nil {
			return nil, err
		}
	}

	query := func() *gorm.DB {
		q := s.db.WithContext(ctx).Table("units").
			Joins("JOIN buildings ON buildings.id = units.building_id").
			Joins("JOIN users ON users.id = units.allocated_user_id AND users.deleted_at IS NULL").
			Joins("LEFT JOIN agreements ON agreements.unit_id = units.id AND agreements.status = ?", models.AgreementActive).
			Where("units.status = ? AND buildings.society_id IN ?", models.StatusOccupied, societyIDs)
		if f.Search != "" {
			p := containsPattern(f.Search)
			q = q.Where(`LOWER(users.name) LIKE ? ESCAPE '\' OR LOWER(users.email) LIKE ? ESCAPE '\' OR LOWER(users.phone) LIKE ? ESCAPE '\' OR LOWER(units.name) LIKE ? ESCAPE '\'`, p, p, p, p)
		}
		if f.BuildingID != 0 {
			q = q.Where("units.building_id = ?", f.BuildingID)
		}
		if f.Floor != nil {
			q = q.Where("units.floor = ?", *f.Floor)
		}
		if f.Type != "" {
			q = q.Where("units.type = ?", f.Type)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, apperr.Wrap(err, "failed to count tenants")
	}
	page, limit, paginate := repositories.Paginate(f.Page, f.Limit, tenantDetailDefault, tenantDetailMax)
	rows := []TenantDetailRow{}
	err = query().
		Select(`units.id AS unit_id, units.name AS unit_name, units.type AS unit_type, units.floor AS floor,
			buildings.id AS building_id, buildings.name AS building_name,
			users.id AS tenant_id, users.name AS tenant_name, users.email AS tenant_email, users.phone AS tenant_phone,
			agreements.id AS agreement_id, agreements.agreement_type AS agreement_type,
			agreements.start_date AS start_date, agreements.end_date AS end_date, agreements.monthly_rent AS monthly_rent`).
		Order("buildings.id, units.id").
		Scopes(paginate).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list tenants")
	}
	return &httpx.Page[TenantDetailRow]{Items: rows, Total: total, Page: page, Limit: limit}, nil
}
