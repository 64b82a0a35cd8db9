package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carnance/crm-sync-backend/internal/entity"
	"github.com/carnance/crm-sync-backend/internal/infra/http/middleware"
	"github.com/carnance/crm-sync-backend/internal/usecase"
)

type SyncHandler struct {
	Sync *usecase.SyncLeadsUseCase
}

func NewSyncHandler(sync *usecase.SyncLeadsUseCase) *SyncHandler {
	return &SyncHandler{Sync: sync}
}

type SyncAllResponse struct {
	Message string             `json:"message"`
	Results *entity.SyncReport `json:"results"`
}

type SyncOneResponse struct {
	Message string             `json:"message"`
	Outcome entity.SyncOutcome `json:"outcome"`
}

// HandleSyncAll serves POST /leads/sync?skip&limit.
func (h *SyncHandler) HandleSyncAll(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := parsePagination(w, r)
	if !ok {
		return
	}

	report, err := h.Sync.SyncAll(r.Context(), skip, limit)
	if err != nil {
		// Listing failed; there was nothing to iterate over.
		writeError(w, http.StatusInternalServerError, usecase.CodeStoreError, err.Error())
		return
	}

	for _, outcome := range report.Outcomes {
		recordOutcome(outcome)
	}

	writeJSON(w, http.StatusOK, SyncAllResponse{
		Message: "Lead sync completed",
		Results: report,
	})
}

// HandleSyncOne serves POST /leads/{leadId}/sync.
func (h *SyncHandler) HandleSyncOne(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	outcome, err := h.Sync.SyncOne(r.Context(), leadID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, usecase.CodeStoreError, err.Error())
		return
	}

	recordOutcome(outcome)

	if outcome.Code == entity.SyncCodeNotFound {
		writeError(w, http.StatusNotFound, usecase.CodeNotFound, "lead '"+leadID+"' not found")
		return
	}

	message := "Lead '" + leadID + "' synced successfully"
	if !outcome.Success {
		message = "Lead '" + leadID + "' sync failed"
	}

	writeJSON(w, http.StatusOK, SyncOneResponse{
		Message: message,
		Outcome: outcome,
	})
}

func recordOutcome(outcome entity.SyncOutcome) {
	if outcome.Success {
		middleware.RecordLeadSync("success")
		return
	}

	middleware.RecordLeadSync(outcome.Code)

	switch outcome.Code {
	case entity.SyncCodeCRMTimeout:
		middleware.RecordCRMError("timeout")
	case entity.SyncCodeCRMRejected:
		middleware.RecordCRMError("rejected")
	case entity.SyncCodeCRMUnreachable:
		middleware.RecordCRMError("unreachable")
	}
}
