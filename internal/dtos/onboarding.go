// Package dtos holds request and response shapes for the API. The tenant
// onboarding wizard is modeled as one explicit payload type per step.
package dtos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/diewo77/go-society/internal/models"
	"github.com/diewo77/go-society/validation"
	"github.com/shopspring/decimal"
)

type StepKind string

const (
	StepTenant    StepKind = "tenant"
	StepUnit      StepKind = "unit"
	StepAgreement StepKind = "agreement"
	StepParking   StepKind = "parking"
)

// OnboardingStep is implemented only by the step payloads in this package.
type OnboardingStep interface {
	Kind() StepKind
	Validate() validation.Violations
	onboardingStep()
}

// TenantStep picks an existing tenant account.
type TenantStep struct {
	TenantID uint `json:"tenantId" validate:"required"`
}

// UnitStep picks the building and the unit inside it.
type UnitStep struct {
	BuildingID uint `json:"buildingId" validate:"required"`
	UnitID     uint `json:"unitId" validate:"required"`
}

// AgreementStep carries the agreement terms.
type AgreementStep struct {
	AgreementType models.AgreementType `json:"agreementType" validate:"required,oneof=RENT BUY"`
	StartDate     Date                 `json:"startDate"`
	EndDate       *Date                `json:"endDate,omitempty"`
	MonthlyRent   *decimal.Decimal     `json:"monthlyRent,omitempty"`
	DepositAmount *decimal.Decimal     `json:"depositAmount,omitempty"`
	Maintenance   *decimal.Decimal     `json:"maintenance,omitempty"`
	Terms         string               `json:"terms,omitempty" validate:"max=20000"`
	AgreementFile string               `json:"agreementFile,omitempty" validate:"max=500"`
}

// ParkingClaim claims one existing slot for the tenant's vehicle.
type ParkingClaim struct {
	SlotID        uint               `json:"id" validate:"required"`
	VehicleType   models.VehicleType `json:"vehicleType" validate:"required,oneof=CAR BIKE SCOOTER BICYCLE OTHER"`
	VehicleNumber string             `json:"vehicleNumber" validate:"required,max=32"`
	VehicleModel  string             `json:"vehicleModel,omitempty" validate:"max=100"`
}

// ParkingStep may be empty but must be present.
type ParkingStep struct {
	ParkingSlots []ParkingClaim `json:"parkingSlots" validate:"required,dive"`
}

func (TenantStep) Kind() StepKind    { return StepTenant }
func (UnitStep) Kind() StepKind      { return StepUnit }
func (AgreementStep) Kind() StepKind { return StepAgreement }
func (ParkingStep) Kind() StepKind   { return StepParking }

func (TenantStep) onboardingStep()    {}
func (UnitStep) onboardingStep()      {}
func (AgreementStep) onboardingStep() {}
func (ParkingStep) onboardingStep()   {}

func (s TenantStep) Validate() validation.Violations { return validation.Struct(s) }

func (s UnitStep) Validate() validation.Violations { return validation.Struct(s) }

func (s AgreementStep) Validate() validation.Violations {
	v := validation.Struct(s)
	if s.AgreementType == models.AgreementRent && s.MonthlyRent == nil {
		v.Add("monthlyRent", "required_for_rent")
	}
	validation.NonNegative("monthlyRent", s.MonthlyRent, v)
	validation.NonNegative("depositAmount", s.DepositAmount, v)
	validation.NonNegative("maintenance", s.Maintenance, v)
	validation.RequiredDate("startDate", s.StartDate.Time, v)
	validation.NotBefore("endDate", s.EndDate.Ptr(), s.StartDate.Time, v)
	return v
}

func (s ParkingStep) Validate() validation.Violations {
	v := validation.Struct(s)
	seen := make(map[uint]bool, len(s.ParkingSlots))
	for i, c := range s.ParkingSlots {
		if c.SlotID == 0 {
			continue
		}
		if seen[c.SlotID] {
			v.Add("parkingSlots["+strconv.Itoa(i)+"].id", "duplicate")
		}
		seen[c.SlotID] = true
	}
	return v
}

// Agreement builds the ACTIVE agreement row for tenantID and unitID.
func (s AgreementStep) Agreement(tenantID, unitID uint) models.Agreement {
	return models.Agreement{
		UnitID:        unitID,
		TenantID:      tenantID,
		AgreementType: s.AgreementType,
		Status:        models.AgreementActive,
		StartDate:     s.StartDate.Time,
		EndDate:       s.EndDate.Ptr(),
		MonthlyRent:   s.MonthlyRent,
		DepositAmount: s.DepositAmount,
		Maintenance:   s.Maintenance,
		Terms:         s.Terms,
		AgreementFile: s.AgreementFile,
	}
}

// DecodeStep parses the payload of a single wizard step.
func DecodeStep(kind StepKind, raw json.RawMessage) (OnboardingStep, error) {
	var step OnboardingStep
	switch kind {
	case StepTenant:
		step = &TenantStep{}
	case StepUnit:
		step = &UnitStep{}
	case StepAgreement:
		step = &AgreementStep{}
	case StepParking:
		step = &ParkingStep{}
	default:
		return nil, fmt.Errorf("unknown onboarding step %q", kind)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(step); err != nil {
		return nil, err
	}
	return step, nil
}

// AllocationRequest is the createTenant payload: every wizard step, each
// required. ParkingSlots may be an empty list but not missing.
type AllocationRequest struct {
	Tenant       *TenantStep    `json:"tenant"`
	Unit         *UnitStep      `json:"unit"`
	Agreement    *AgreementStep `json:"agreement"`
	ParkingSlots []ParkingClaim `json:"parkingSlots"`
}

// Validate checks presence and shape only; nothing here touches storage.
func (r AllocationRequest) Validate() validation.Violations {
	v := make(validation.Violations)
	if r.Tenant == nil {
		v.Add("tenant", "required")
	} else {
		v.Merge("", r.Tenant.Validate())
	}
	if r.Unit == nil {
		v.Add("unit", "required")
	} else {
		v.Merge("", r.Unit.Validate())
	}
	if r.Agreement == nil {
		v.Add("agreement", "required")
	} else {
		v.Merge("", r.Agreement.Validate())
	}
	v.Merge("", ParkingStep{ParkingSlots: r.ParkingSlots}.Validate())
	return v
}
