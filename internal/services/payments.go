package services

import (
	"context"
	"time"

	"github.com/diewo77/go-society/gate"
	"github.com/diewo77/go-society/httpx"
	"github.com/diewo77/go-society/internal/apperr"
	"github.com/diewo77/go-society/internal/dtos"
	"github.com/diewo77/go-society/internal/logging"
	"github.com/diewo77/go-society/internal/models"
	"github.com/diewo77/go-society/internal/policy"
	"github.com/diewo77/go-society/internal/repositories"
	"gorm.io/gorm"
)

type PaymentService struct {
	db    *gorm.DB
	authz Authorizer
}

func NewPaymentService(db *gorm.DB, authz Authorizer) *PaymentService {
	return &PaymentService{db: db, authz: authz}
}

// ListPayments pages through the payments of the caller's societies, oldest
// due date first.
func (s *PaymentService) ListPayments(ctx context.Context, userID uint, f dtos.PaymentFilter) (*httpx.Page[models.Payment], error) {
	if err := s.authz.Check(ctx, userID, gate.ActionList, policy.ResourcePayment, nil); err != nil {
		return nil, err
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Validation(map[string]string{"status": "oneof"})
	}
	societyIDs, err := visibleSocieties(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Model(&models.Payment{}).Where("society_id IN ?", societyIDs)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.TenantID != 0 {
		q = q.Where("tenant_id = ?", f.TenantID)
	}
	if f.UnitID != 0 {
		q = q.Where("unit_id = ?", f.UnitID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, apperr.Wrap(err, "failed to count payments")
	}
	page, limit, paginate := repositories.Paginate(f.Page, f.Limit, 20, 100)
	items := []models.Payment{}
	if err := q.Session(&gorm.Session{}).Order("due_date, id").Scopes(paginate).Find(&items).Error; err != nil {
		return nil, apperr.Wrap(err, "failed to list payments")
	}
	return &httpx.Page[models.Payment]{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// MarkOverdue flips PENDING payments due before now to OVERDUE and returns
// how many changed.
func (s *PaymentService) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("status = ? AND due_date < ?", models.PaymentPending, now).
		Update("status", models.PaymentOverdue)
	if res.Error != nil {
		return 0, apperr.Wrap(res.Error, "overdue sweep failed")
	}
	if res.RowsAffected > 0 {
		logging.Logger.WithField("count", res.RowsAffected).Info("payments marked overdue")
	}
	return res.RowsAffected, nil
}
