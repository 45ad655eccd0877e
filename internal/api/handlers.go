package api

import (
	"encoding/json"
	"net/http"

	"ideascope/internal/agents"
	"ideascope/internal/services/analysis"
	"ideascope/pkg/errors"
	"ideascope/pkg/logger"
)

// AnalyzeRequest is the body of POST /ai-agents/analyze.
type AnalyzeRequest struct {
	agents.AgentInput
	Options AnalyzeOptions `json:"options"`
}

// AnalyzeOptions tunes one request.
type AnalyzeOptions struct {
	Depth        string `json:"depth,omitempty"` // quick | standard | deep
	ForceRefresh bool   `json:"forceRefresh,omitempty"`
}

// AnalysisHandler serves the agent analysis endpoints.
type AnalysisHandler struct {
	service      *analysis.Service
	orchestrator *agents.Orchestrator
	log          *logger.Logger
}

// NewAnalysisHandler creates the analysis handler.
func NewAnalysisHandler(service *analysis.Service, orchestrator *agents.Orchestrator) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		orchestrator: orchestrator,
		log:          logger.Get().With("component", "api"),
	}
}

// HandleAnalyze runs the full read-through analysis.
// POST /ai-agents/analyze
func (h *AnalysisHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	actx := &agents.AgentContext{Depth: req.Options.Depth}

	var result *analysis.Analysis
	var err error
	if req.Options.ForceRefresh {
		result, err = h.service.Regenerate(r.Context(), req.AgentInput, actx)
	} else {
		result, err = h.service.GetAnalysis(r.Context(), req.AgentInput, actx)
	}
	if err != nil {
		h.log.Errorf("analyze request failed: %v", err)
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleExecuteAgent runs one agent by name.
// POST /ai-agents/agents/{name}
func (h *AnalysisHandler) HandleExecuteAgent(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	actx := &agents.AgentContext{Depth: req.Options.Depth}
	result, err := h.orchestrator.ExecuteAgent(r.Context(), name, req.AgentInput, actx)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	status := http.StatusOK
	if !result.IsValid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

// HandleListAgents reports which agents are enabled.
// GET /ai-agents/agents
func (h *AnalysisHandler) HandleListAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"agents": h.orchestrator.EnabledAgents(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrUnknownAgent), errors.Is(err, errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrAgentDisabled):
		return http.StatusConflict
	case errors.Is(err, errors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, errors.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
