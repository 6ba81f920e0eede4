package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AgreementType string

const (
	AgreementRent AgreementType = "RENT"
	AgreementBuy  AgreementType = "BUY"
)

func (t AgreementType) Valid() bool { return t == AgreementRent || t == AgreementBuy }

// UnmarshalText accepts "rent" as well as "RENT".
func (t *AgreementType) UnmarshalText(b []byte) error {
	*t = AgreementType(strings.ToUpper(strings.TrimSpace(string(b))))
	return nil
}

type AgreementStatus string

const (
	AgreementActive AgreementStatus = "ACTIVE"
	AgreementClosed AgreementStatus = "CLOSED"
)

// Agreement binds a tenant to a unit. A unit keeps its historical agreements;
// at most one of them is ACTIVE, enforced by a partial unique index.
type Agreement struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	UnitID        uint             `gorm:"not null;index:idx_agreements_active_unit,unique,where:status = 'ACTIVE'" json:"unitId"`
	TenantID      uint             `gorm:"index;not null" json:"tenantId"`
	Tenant        *User            `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	AgreementType AgreementType    `gorm:"size:10;not null" json:"agreementType"`
	Status        AgreementStatus  `gorm:"size:10;not null;index" json:"status"`
	StartDate     time.Time        `gorm:"not null" json:"startDate"`
	EndDate       *time.Time       `json:"endDate,omitempty"`
	MonthlyRent   *decimal.Decimal `gorm:"type:numeric(12,2)" json:"monthlyRent,omitempty"`
	DepositAmount *decimal.Decimal `gorm:"type:numeric(12,2)" json:"depositAmount,omitempty"`
	Maintenance   *decimal.Decimal `gorm:"type:numeric(12,2)" json:"maintenance,omitempty"`
	Terms         string           `gorm:"type:text" json:"terms,omitempty"`
	AgreementFile string           `gorm:"size:500" json:"agreementFile,omitempty"`
	ClosedAt      *time.Time       `json:"closedAt,omitempty"`
}

// Charge is one initial payment obligation derived from an agreement.
type Charge struct {
	Type   PaymentType
	Amount decimal.Decimal
}

// Charges lists the payment obligations an agreement generates, one per
// charge component that is present, in RENT, DEPOSIT, MAINTENANCE order.
func (a *Agreement) Charges() []Charge {
	var out []Charge
	if a.MonthlyRent != nil {
		out = append(out, Charge{Type: PaymentRent, Amount: *a.MonthlyRent})
	}
	if a.DepositAmount != nil {
		out = append(out, Charge{Type: PaymentDeposit, Amount: *a.DepositAmount})
	}
	if a.Maintenance != nil {
		out = append(out, Charge{Type: PaymentMaintenance, Amount: *a.Maintenance})
	}
	return out
}
