package handlers

import (
	"errors"
	"net/http"

	"github.com/arbiterlabs/arbiter/internal/domain"
	"github.com/arbiterlabs/arbiter/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type DecisionHandler struct {
	decisions domain.DecisionStore
}

func NewDecisionHandler(decisions domain.DecisionStore) *DecisionHandler {
	return &DecisionHandler{decisions: decisions}
}

func (h *DecisionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	decisionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid decision id")
		return
	}

	record, result, err := h.decisions.GetByID(r.Context(), decisionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "decision not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load decision")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"record": record,
		"result": result,
	})
}
