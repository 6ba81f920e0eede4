package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/diewo77/go-society/httpx"
	"github.com/diewo77/go-society/internal/apperr"
	"github.com/diewo77/go-society/internal/dtos"
)

// OnboardingHandler lets the wizard check one step before moving on. It
// never touches storage; AllocateTenant re-checks everything.
type OnboardingHandler struct{}

func NewOnboardingHandler() *OnboardingHandler { return &OnboardingHandler{} }

func (h *OnboardingHandler) ValidateStep(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := httpx.DecodeJSON(r, &raw); err != nil {
		httpx.Error(w, r, err)
		return
	}
	step, err := dtos.DecodeStep(dtos.StepKind(r.PathValue("step")), raw)
	if err != nil {
		httpx.Error(w, r, &apperr.Error{
			Kind:    apperr.KindValidation,
			Code:    apperr.CodeInvalidPayload,
			Message: "invalid onboarding step",
			Err:     err,
		})
		return
	}
	if v := step.Validate(); !v.Empty() {
		httpx.Error(w, r, apperr.Validation(v))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"step": step.Kind(), "valid": true})
}
