package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/arbiterlabs/arbiter/internal/domain"
	"github.com/arbiterlabs/arbiter/internal/service"
)

type PredictionHandler struct {
	engine *service.Engine
}

func NewPredictionHandler(engine *service.Engine) *PredictionHandler {
	return &PredictionHandler{engine: engine}
}

type createPredictionRequest struct {
	Message string `json:"message"`
}

type voteResponse struct {
	AgentID      string  `json:"agent_id"`
	Label        string  `json:"label"`
	Confidence   float64 `json:"confidence"`
	WeightAtVote float64 `json:"weight_at_vote"`
}

type predictionResponse struct {
	DecisionID string                   `json:"decision_id"`
	Label      string                   `json:"label"`
	Confidence float64                  `json:"confidence"`
	Scores     map[domain.Label]float64 `json:"scores"`
	Majority   []string                 `json:"majority"`
	Minority   []string                 `json:"minority"`
	Votes      []voteResponse           `json:"votes"`
}

func (h *PredictionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	result, record, err := h.engine.Resolve(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, service.ErrNoAvailableAgents) {
			writeError(w, http.StatusServiceUnavailable, "no available agents")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to resolve prediction")
		return
	}

	votes := make([]voteResponse, 0, len(record.Votes))
	for _, v := range record.Votes {
		votes = append(votes, voteResponse{
			AgentID:      v.AgentID,
			Label:        string(v.Label),
			Confidence:   v.Confidence,
			WeightAtVote: v.WeightAtVote,
		})
	}

	writeJSON(w, http.StatusCreated, predictionResponse{
		DecisionID: result.DecisionID.String(),
		Label:      string(result.Label),
		Confidence: result.Confidence,
		Scores:     result.Scores,
		Majority:   result.Majority,
		Minority:   result.Minority,
		Votes:      votes,
	})
}
