package handlers

import (
	"net/http"

	"github.com/diewo77/go-society/httpx"
	"github.com/diewo77/go-society/internal/apperr"
	"github.com/diewo77/go-society/internal/models"
	"github.com/diewo77/go-society/internal/services"
)

type BuildingHandler struct {
	availability *services.AvailabilityService
}

func NewBuildingHandler(availability *services.AvailabilityService) *BuildingHandler {
	return &BuildingHandler{availability: availability}
}

// Units serves getBuildingDetail.
func (h *BuildingHandler) Units(w http.ResponseWriter, r *http.Request) {
	buildings, err := h.availability.ListBuildingUnits(r.Context(), currentUser(r))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, buildings)
}

// Parking serves getBuildingParkingDetail.
func (h *BuildingHandler) Parking(w http.ResponseWriter, r *http.Request) {
	buildings, err := h.availability.ListBuildingParking(r.Context(), currentUser(r))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, buildings)
}

// SelectableSlots lists the slots the wizard may offer for ?vehicleType=
// and ?tenantId=.
func (h *BuildingHandler) SelectableSlots(w http.ResponseWriter, r *http.Request) {
	buildingID, err := pathID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	v := map[string]string{}
	vt, ok := models.ParseVehicleType(r.URL.Query().Get("vehicleType"))
	if !ok {
		v["vehicleType"] = "oneof"
	}
	tenantID := queryUint(r, "tenantId", v)
	if len(v) > 0 {
		httpx.Error(w, r, apperr.Validation(v))
		return
	}
	slots, err := h.availability.SelectableParkingSlots(r.Context(), currentUser(r), buildingID, vt, tenantID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, slots)
}
