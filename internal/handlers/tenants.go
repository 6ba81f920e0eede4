package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/go-society/httpx"
	"github.com/diewo77/go-society/internal/apperr"
	"github.com/diewo77/go-society/internal/dtos"
	"github.com/diewo77/go-society/internal/models"
	"github.com/diewo77/go-society/internal/services"
)

type TenantHandler struct {
	tenants    *services.TenantService
	allocation *services.AllocationService
}

func NewTenantHandler(tenants *services.TenantService, allocation *services.AllocationService) *TenantHandler {
	return &TenantHandler{tenants: tenants, allocation: allocation}
}

// Search serves getTenantList.
func (h *TenantHandler) Search(w http.ResponseWriter, r *http.Request) {
	found, err := h.tenants.SearchTenants(r.Context(), currentUser(r), r.URL.Query().Get("query"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, found)
}

// Allocate serves createTenant: the whole wizard submitted at once.
func (h *TenantHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req dtos.AllocationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	res, err := h.allocation.AllocateTenant(r.Context(), currentUser(r), req)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, res)
}

// Details serves getTenentDetailList.
func (h *TenantHandler) Details(w http.ResponseWriter, r *http.Request) {
	v := map[string]string{}
	f := dtos.TenantDetailFilter{
		Search:     strings.TrimSpace(r.URL.Query().Get("search")),
		BuildingID: queryUint(r, "buildingId", v),
		Floor:      queryInt(r, "floor", v),
		Type:       models.UnitType(strings.ToUpper(r.URL.Query().Get("type"))),
		Page:       intOr(queryInt(r, "page", v), 1),
		Limit:      intOr(queryInt(r, "limit", v), 0),
	}
	if len(v) > 0 {
		httpx.Error(w, r, apperr.Validation(v))
		return
	}
	page, err := h.tenants.TenantDetailList(r.Context(), currentUser(r), f)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

// ReleaseUnit removes the tenant from a unit and frees their parking.
func (h *TenantHandler) ReleaseUnit(w http.ResponseWriter, r *http.Request) {
	unitID, err := pathID(r)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	res, err := h.allocation.ReleaseUnit(r.Context(), currentUser(r), unitID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}
