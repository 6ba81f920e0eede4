package services

import (
	"context"
	"testing"

	"github.com/diewo77/go-society/internal/apperr"
	"github.com/diewo77/go-society/internal/dtos"
	"github.com/diewo77/go-society/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allocateWithP1(t *testing.T, w *world) {
	t.Helper()
	_, err := w.allocation().AllocateTenant(context.Background(), w.owner.ID, rentRequest(w.t1, w.u1, carClaim(w.p1, "MH01AB1234")))
	require.NoError(t, err)
}

func TestReleaseParkingSlot(t *testing.T) {
	w := newWorld(t)
	allocateWithP1(t, w)

	slot, err := w.parking().ReleaseParkingSlot(context.Background(), w.owner.ID, w.p1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, slot.Status)
	assert.Nil(t, slot.AssignedToID)
	assert.Nil(t, slot.VehicleNumber)
	assert.Nil(t, slot.VehicleModel)
	assert.Nil(t, slot.UnitID)

	buildings, err := NewAvailabilityService(w.db, w.authz).ListBuildingParking(context.Background(), w.owner.ID)
	require.NoError(t, err)
	require.Len(t, buildings, 1)
	var listed *models.ParkingSlot
	for i := range buildings[0].ParkingSlots {
		if buildings[0].ParkingSlots[i].ID == w.p1.ID {
			listed = &buildings[0].ParkingSlots[i]
		}
	}
	require.NotNil(t, listed)
	assert.Equal(t, models.StatusAvailable, listed.Status)
	assert.Nil(t, listed.AssignedTo)
	assertConsistent(t, w.db)
}

func TestReassignParkingSlot_Assign(t *testing.T) {
	w := newWorld(t)
	allocateWithP1(t, w)

	req := dtos.ReassignRequest{
		SlotID:        w.p2.ID,
		NewAssigneeID: &w.t1.ID,
		UnitID:        &w.u1.ID,
		Vehicle:       &dtos.VehicleInfo{VehicleType: models.VehicleCar, VehicleNumber: "MH01CD5678", VehicleModel: "Swift"},
	}
	slot, err := w.parking().ReassignParkingSlot(context.Background(), w.owner.ID, req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOccupied, slot.Status)
	require.NotNil(t, slot.AssignedTo)
	assert.Equal(t, w.t1.ID, slot.AssignedTo.ID)
	require.NotNil(t, slot.VehicleModel)
	assert.Equal(t, "Swift", *slot.VehicleModel)
	assertConsistent(t, w.db)
}

func TestReassignParkingSlot_Rules(t *testing.T) {
	w := newWorld(t)
	allocateWithP1(t, w)
	svc := w.parking()
	vehicle := &dtos.VehicleInfo{VehicleType: models.VehicleCar, VehicleNumber: "KA05XY0001"}

	// t2 is not allocated to u1.
	_, err := svc.ReassignParkingSlot(context.Background(), w.owner.ID, dtos.ReassignRequest{
		SlotID: w.p2.ID, NewAssigneeID: &w.t2.ID, UnitID: &w.u1.ID, Vehicle: vehicle,
	})
	e := requireKind(t, err, apperr.KindValidation, "")
	assert.Equal(t, "not_unit_tenant", e.Fields["assignedToId"])

	// Taking a slot held by someone else needs a release first.
	_, err = w.allocation().AllocateTenant(context.Background(), w.owner.ID, rentRequest(w.t2, w.u2))
	require.NoError(t, err)
	_, err = svc.ReassignParkingSlot(context.Background(), w.owner.ID, dtos.ReassignRequest{
		SlotID: w.p1.ID, NewAssigneeID: &w.t2.ID, UnitID: &w.u2.ID, Vehicle: vehicle,
	})
	requireKind(t, err, apperr.KindConflict, apperr.CodeSlotOccupied)

	_, err = svc.ReassignParkingSlot(context.Background(), w.owner.ID, dtos.ReassignRequest{
		SlotID: w.bike.ID, NewAssigneeID: &w.t2.ID, UnitID: &w.u2.ID, Vehicle: vehicle,
	})
	e = requireKind(t, err, apperr.KindValidation, "")
	assert.Equal(t, "vehicle_type_mismatch", e.Fields["vehicle.vehicleType"])

	_, err = svc.ReassignParkingSlot(context.Background(), w.owner.ID, dtos.ReassignRequest{SlotID: w.p2.ID, NewAssigneeID: &w.t2.ID})
	e = requireKind(t, err, apperr.KindValidation, "")
	assert.Equal(t, "required", e.Fields["unitId"])
	assert.Equal(t, "required", e.Fields["vehicle"])

	_, err = svc.ReleaseParkingSlot(context.Background(), w.otherOwner.ID, w.p1.ID)
	requireKind(t, err, apperr.KindUnauthorized, apperr.CodeForbidden)
	_, err = svc.ReleaseParkingSlot(context.Background(), w.staff.ID, w.p1.ID)
	requireKind(t, err, apperr.KindUnauthorized, apperr.CodeForbidden)
	_, err = svc.ReleaseParkingSlot(context.Background(), w.owner.ID, 999)
	requireKind(t, err, apperr.KindNotFound, "")

	assert.Equal(t, w.t1.ID, *mustReloadSlot(t, w.db, w.p1.ID).AssignedToID)
	assertConsistent(t, w.db)
}

func TestSwapParkingSlot(t *testing.T) {
	w := newWorld(t)
	allocateWithP1(t, w)

	res, err := w.parking().SwapParkingSlot(context.Background(), w.owner.ID, dtos.SwapRequest{FromSlotID: w.p1.ID, ToSlotID: w.p2.ID})
	require.NoError(t, err)

	assert.Equal(t, models.StatusAvailable, res.From.Status)
	assert.Nil(t, res.From.AssignedToID)
	assert.Nil(t, res.From.VehicleNumber)
	assert.Equal(t, models.StatusOccupied, res.To.Status)
	require.NotNil(t, res.To.AssignedToID)
	assert.Equal(t, w.t1.ID, *res.To.AssignedToID)
	require.NotNil(t, res.To.UnitID)
	assert.Equal(t, w.u1.ID, *res.To.UnitID)
	assert.Equal(t, "MH01AB1234", *res.To.VehicleNumber)

	// The tenant holds exactly one slot after the swap.
	assert.Equal(t, int64(1), count(t, w.db, &models.ParkingSlot{}, "assigned_to_id = ?", w.t1.ID))
	assertConsistent(t, w.db)
}

func TestSwapParkingSlot_Rejections(t *testing.T) {
	w := newWorld(t)
	allocateWithP1(t, w)
	_, err := w.allocation().AllocateTenant(context.Background(), w.owner.ID, rentRequest(w.t2, w.u2, carClaim(w.p2, "KA05XY0001")))
	require.NoError(t, err)
	svc := w.parking()

	_, err = svc.SwapParkingSlot(context.Background(), w.owner.ID, dtos.SwapRequest{FromSlotID: w.p1.ID, ToSlotID: w.p2.ID})
	requireKind(t, err, apperr.KindConflict, apperr.CodeSlotOccupied)

	_, err = svc.SwapParkingSlot(context.Background(), w.owner.ID, dtos.SwapRequest{FromSlotID: w.p1.ID, ToSlotID: w.bike.ID})
	e := requireKind(t, err, apperr.KindValidation, "")
	assert.Equal(t, "vehicle_type_mismatch", e.Fields["toSlotId"])

	_, err = svc.SwapParkingSlot(context.Background(), w.owner.ID, dtos.SwapRequest{FromSlotID: w.p1.ID, ToSlotID: w.foreignSlot.ID})
	e = requireKind(t, err, apperr.KindValidation, "")
	assert.Equal(t, "wrong_building", e.Fields["toSlotId"])

	_, err = svc.SwapParkingSlot(context.Background(), w.owner.ID, dtos.SwapRequest{FromSlotID: w.bike.ID, ToSlotID: w.p1.ID})
	e = requireKind(t, err, apperr.KindValidation, "")
	assert.Equal(t, "not_assigned", e.Fields["fromSlotId"])

	_, err = svc.SwapParkingSlot(context.Background(), w.owner.ID, dtos.SwapRequest{FromSlotID: w.p1.ID, ToSlotID: w.p1.ID})
	requireKind(t, err, apperr.KindValidation, "")

	// Both slots are untouched after the failed attempts.
	assert.Equal(t, w.t1.ID, *mustReloadSlot(t, w.db, w.p1.ID).AssignedToID)
	assert.Equal(t, w.t2.ID, *mustReloadSlot(t, w.db, w.p2.ID).AssignedToID)
	assertConsistent(t, w.db)
}

func TestSwapParkingSlot_TargetHeldBySameTenant(t *testing.T) {
	w := newWorld(t)
	_, err := w.allocation().AllocateTenant(context.Background(), w.owner.ID,
		rentRequest(w.t1, w.u1, carClaim(w.p1, "CAR-ONE"), carClaim(w.p2, "CAR-TWO")))
	require.NoError(t, err)

	_, err = w.parking().SwapParkingSlot(context.Background(), w.owner.ID, dtos.SwapRequest{FromSlotID: w.p1.ID, ToSlotID: w.p2.ID})
	requireKind(t, err, apperr.KindConflict, apperr.CodeSlotOccupied)

	p1 := mustReloadSlot(t, w.db, w.p1.ID)
	p2 := mustReloadSlot(t, w.db, w.p2.ID)
	assert.Equal(t, models.StatusOccupied, p1.Status)
	assert.Equal(t, "CAR-ONE", *p1.VehicleNumber)
	assert.Equal(t, models.StatusOccupied, p2.Status)
	assert.Equal(t, "CAR-TWO", *p2.VehicleNumber)
	assertConsistent(t, w.db)
}

func TestUpdateParkingSlot(t *testing.T) {
	w := newWorld(t)
	allocateWithP1(t, w)
	svc := w.parking()
	ctx := context.Background()

	maintenance := models.StatusUnderMaintenance
	slot, err := svc.UpdateParkingSlot(ctx, w.owner.ID, dtos.ParkingSlotPatch{ID: w.bike.ID, Status: &maintenance})
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderMaintenance, slot.Status)
	assert.Equal(t, w.bike.RowVersion+1, slot.RowVersion)

	available := models.StatusAvailable
	_, err = svc.UpdateParkingSlot(ctx, w.owner.ID, dtos.ParkingSlotPatch{ID: w.p1.ID, Status: &available})
	e := requireKind(t, err, apperr.KindValidation, "")
	assert.Equal(t, "release_required", e.Fields["status"])

	number := "MH01ZZ0001"
	slot, err = svc.UpdateParkingSlot(ctx, w.owner.ID, dtos.ParkingSlotPatch{ID: w.p1.ID, VehicleNumber: &number})
	require.NoError(t, err)
	assert.Equal(t, number, *slot.VehicleNumber)

	_, err = svc.UpdateParkingSlot(ctx, w.owner.ID, dtos.ParkingSlotPatch{ID: w.p2.ID, VehicleNumber: &number})
	e = requireKind(t, err, apperr.KindValidation, "")
	assert.Equal(t, "slot_not_assigned", e.Fields["vehicleNumber"])

	slot, err = svc.UpdateParkingSlot(ctx, w.owner.ID, dtos.ParkingSlotPatch{
		ID: w.p2.ID, AssignedToID: dtos.Some(w.t1.ID), UnitID: dtos.Some(w.u1.ID), VehicleNumber: &number,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOccupied, slot.Status)
	assert.Equal(t, models.VehicleCar, slot.VehicleType)

	slot, err = svc.UpdateParkingSlot(ctx, w.owner.ID, dtos.ParkingSlotPatch{
		ID: w.p2.ID, AssignedToID: dtos.Null[uint](), Status: &maintenance,
	})
	require.NoError(t, err)
	assert.Nil(t, slot.AssignedToID)
	assert.Equal(t, models.StatusUnderMaintenance, slot.Status)

	occupied := models.StatusOccupied
	_, err = svc.UpdateParkingSlot(ctx, w.owner.ID, dtos.ParkingSlotPatch{ID: w.p2.ID, Status: &occupied})
	requireKind(t, err, apperr.KindValidation, "")
	assertConsistent(t, w.db)
}

func TestUpdateParkingSlot_VehicleModel(t *testing.T) {
	w := newWorld(t)
	allocateWithP1(t, w)
	svc := w.parking()
	ctx := context.Background()

	model := "Swift"
	slot, err := svc.UpdateParkingSlot(ctx, w.owner.ID, dtos.ParkingSlotPatch{ID: w.p1.ID, VehicleModel: &model})
	require.NoError(t, err)
	require.NotNil(t, slot.VehicleModel)
	assert.Equal(t, "Swift", *slot.VehicleModel)

	empty := ""
	slot, err = svc.UpdateParkingSlot(ctx, w.owner.ID, dtos.ParkingSlotPatch{ID: w.p1.ID, VehicleModel: &empty})
	require.NoError(t, err)
	assert.Nil(t, slot.VehicleModel)
	assert.Nil(t, mustReloadSlot(t, w.db, w.p1.ID).VehicleModel)

	_, err = svc.UpdateParkingSlot(ctx, w.owner.ID, dtos.ParkingSlotPatch{ID: w.p2.ID, VehicleModel: &model})
	e := requireKind(t, err, apperr.KindValidation, "")
	assert.Equal(t, "slot_not_assigned", e.Fields["vehicleModel"])
	assert.NotContains(t, e.Fields, "vehicleNumber")
}
