package handlers

import (
	"net/http"

	"github.com/diewo77/go-society/httpx"
	"github.com/diewo77/go-society/internal/dtos"
	"github.com/diewo77/go-society/internal/services"
)

type ParkingHandler struct {
	parking *services.ParkingService
}

func NewParkingHandler(parking *services.ParkingService) *ParkingHandler {
	return &ParkingHandler{parking: parking}
}

// Update serves ParkingSlots.update. The slot id always comes from the path.
func (h *ParkingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var patch dtos.ParkingSlotPatch
	if err := httpx.DecodeJSON(r, &patch); err != nil {
		httpx.Error(w, r, err)
		return
	}
	patch.ID = id
	slot, err := h.parking.UpdateParkingSlot(r.Context(), currentUser(r), patch)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, slot)
}

func (h *ParkingHandler) Swap(w http.ResponseWriter, r *http.Request) {
	var req dtos.SwapRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	res, err := h.parking.SwapParkingSlot(r.Context(), currentUser(r), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
