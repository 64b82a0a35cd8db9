package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carnance/crm-sync-backend/internal/infra/http/middleware"
	"github.com/carnance/crm-sync-backend/internal/usecase"
)

type MatchHandler struct {
	Match *usecase.MatchAgentUseCase
}

func NewMatchHandler(match *usecase.MatchAgentUseCase) *MatchHandler {
	return &MatchHandler{Match: match}
}

// HandleMatch serves POST /leads/{leadId}/match-agent.
func (h *MatchHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	output, err := h.Match.Execute(r.Context(), leadID)
	if err != nil {
		var domainErr *usecase.DomainError
		if errors.As(err, &domainErr) {
			switch domainErr.Code {
			case usecase.CodeNotFound:
				writeError(w, http.StatusNotFound, domainErr.Code, domainErr.Message)
			default: // LLM unavailable or unusable
				writeError(w, http.StatusBadGateway, domainErr.Code, domainErr.Message)
			}
			return
		}
		writeError(w, http.StatusInternalServerError, usecase.CodeStoreError, err.Error())
		return
	}

	middleware.RecordAgentMatch()
	writeJSON(w, http.StatusOK, output)
}
