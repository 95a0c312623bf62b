package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arbiterlabs/arbiter/internal/domain"
	"github.com/arbiterlabs/arbiter/internal/service"
	"github.com/google/uuid"
)

type FeedbackHandler struct {
	engine *service.Engine
}

func NewFeedbackHandler(engine *service.Engine) *FeedbackHandler {
	return &FeedbackHandler{engine: engine}
}

type createFeedbackRequest struct {
	DecisionID  string `json:"decision_id"`
	GroundTruth string `json:"ground_truth"`
}

type feedbackResponse struct {
	*domain.WeightUpdateEvent
	Replayed bool `json:"replayed"`
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	decisionID, err := uuid.Parse(req.DecisionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid decision_id")
		return
	}

	event, applied, err := h.engine.SubmitFeedback(r.Context(), decisionID, domain.Label(req.GroundTruth))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownLabel):
			writeError(w, http.StatusBadRequest, "unknown ground_truth label")
		case errors.Is(err, service.ErrUnknownDecision):
			writeError(w, http.StatusNotFound, "decision not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to apply feedback")
		}
		return
	}

	status := http.StatusCreated
	if !applied {
		status = http.StatusOK
	}
	writeJSON(w, status, feedbackResponse{
		WeightUpdateEvent: event,
		Replayed:          !applied,
	})
}
