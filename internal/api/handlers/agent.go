package handlers

import (
	"net/http"

	"github.com/arbiterlabs/arbiter/internal/domain"
	"github.com/arbiterlabs/arbiter/internal/service"
	"github.com/go-chi/chi/v5"
)

type AgentHandler struct {
	ledger *service.Ledger
}

func NewAgentHandler(ledger *service.Ledger) *AgentHandler {
	return &AgentHandler{ledger: ledger}
}

type agentResponse struct {
	domain.Agent
	Accuracy float64 `json:"accuracy"`
}

func toAgentResponse(a domain.Agent) agentResponse {
	return agentResponse{Agent: a, Accuracy: a.Accuracy()}
}

func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	agents := h.ledger.List()
	resp := make([]agentResponse, 0, len(agents))
	for _, a := range agents {
		resp = append(resp, toAgentResponse(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"agents": resp,
		"count":  len(resp),
	})
}

func (h *AgentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "agent id is required")
		return
	}

	agent, ok := h.ledger.Snapshot(id)
	if !ok {
		writeError(w, http.StatusNotFound, "agent not found")
		return
	}
	writeJSON(w, http.StatusOK, toAgentResponse(agent))
}
