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

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	v := map[string]string{}
	f := dtos.PaymentFilter{
		Status:   models.PaymentStatus(strings.ToUpper(r.URL.Query().Get("status"))),
		TenantID: queryUint(r, "tenantId", v),
		UnitID:   queryUint(r, "unitId", v),
		Page:     intOr(queryInt(r, "page", v), 1),
		Limit:    intOr(queryInt(r, "limit", v), 0),
	}
	if len(v) > 0 {
		httpx.Error(w, r, apperr.Validation(v))
		return
	}
	page, err := h.payments.ListPayments(r.Context(), currentUser(r), f)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}
