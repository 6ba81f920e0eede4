package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentRent        PaymentType = "RENT"
	PaymentDeposit     PaymentType = "DEPOSIT"
	PaymentMaintenance PaymentType = "MAINTENANCE"
	PaymentOther       PaymentType = "OTHER"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentOverdue PaymentStatus = "OVERDUE"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentOverdue:
		return true
	}
	return false
}

// Payment is an obligation owed by a tenant for a unit. Payments outlive the
// tenancy and are never deleted by allocation or release.
type Payment struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Type        PaymentType     `gorm:"size:20;not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	DueDate     time.Time       `gorm:"not null;index" json:"dueDate"`
	Status      PaymentStatus   `gorm:"size:10;not null;index" json:"status"`
	TenantID    uint            `gorm:"index;not null" json:"tenantId"`
	UnitID      uint            `gorm:"index;not null" json:"unitId"`
	SocietyID   uint            `gorm:"index;not null" json:"societyId"`
	AgreementID *uint           `gorm:"index" json:"agreementId,omitempty"`
	Method      *string         `gorm:"size:30" json:"method,omitempty"`
	PaidDate    *time.Time      `json:"paidDate,omitempty"`
	ReferenceID *string         `gorm:"size:100" json:"referenceId,omitempty"`
}
