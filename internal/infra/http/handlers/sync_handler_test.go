package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/carnance/crm-sync-backend/internal/entity"
	"github.com/carnance/crm-sync-backend/internal/infra/integration/twentycrm"
	"github.com/carnance/crm-sync-backend/internal/usecase"
)

// stubCRM accepts every person except the one configured to be rejected.
type stubCRM struct {
	rejectLeadID string
}

func (s *stubCRM) CreatePerson(ctx context.Context, payload twentycrm.PersonPayload, upsert bool) (*twentycrm.PersonResponse, error) {
	if payload.LeadID == s.rejectLeadID {
		return nil, &twentycrm.CRMError{Kind: twentycrm.ErrKindRejected, Status: 400, Body: "duplicate email"}
	}
	return &twentycrm.PersonResponse{ID: "person-" + payload.LeadID}, nil
}

func (s *stubCRM) CreateTask(ctx context.Context, payload twentycrm.TaskPayload) (*twentycrm.TaskResponse, error) {
	return &twentycrm.TaskResponse{ID: "task-1"}, nil
}

func newSyncRouter(repo entity.LeadRepositoryInterface, crm usecase.CRMGateway) *chi.Mux {
	handler := NewSyncHandler(usecase.NewSyncLeadsUseCase(repo, crm, nil, 2))

	r := chi.NewRouter()
	r.Post("/leads/sync", handler.HandleSyncAll)
	r.Post("/leads/{leadId}/sync", handler.HandleSyncOne)
	return r
}

func TestHandleSyncAll(t *testing.T) {
	router := newSyncRouter(seededRepo(3), &stubCRM{rejectLeadID: "L2"})

	rec := doRequest(t, router, http.MethodPost, "/leads/sync", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp SyncAllResponse
	assert.NoError(t, jsonDecode(rec, &resp))
	assert.Equal(t, "Lead sync completed", resp.Message)
	assert.Equal(t, 3, resp.Results.Total)
	assert.Equal(t, 2, resp.Results.Succeeded)
	assert.Equal(t, 1, resp.Results.Failed)

	assert.Len(t, resp.Results.Outcomes, 3)
	assert.Equal(t, "L1", resp.Results.Outcomes[0].LeadID)
	assert.Equal(t, "L2", resp.Results.Outcomes[1].LeadID)
	assert.Equal(t, "L3", resp.Results.Outcomes[2].LeadID)
	assert.Equal(t, entity.SyncCodeCRMRejected, resp.Results.Outcomes[1].Code)
}

func TestHandleSyncAllHonorsPagination(t *testing.T) {
	router := newSyncRouter(seededRepo(5), &stubCRM{})

	rec := doRequest(t, router, http.MethodPost, "/leads/sync?skip=4&limit=2", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp SyncAllResponse
	assert.NoError(t, jsonDecode(rec, &resp))
	assert.Equal(t, 1, resp.Results.Total)
	assert.Equal(t, "L5", resp.Results.Outcomes[0].LeadID)
}

func TestHandleSyncAllRejectsBadPagination(t *testing.T) {
	router := newSyncRouter(seededRepo(1), &stubCRM{})

	rec := doRequest(t, router, http.MethodPost, "/leads/sync?limit=5000", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSyncAllStoreFailure(t *testing.T) {
	router := newSyncRouter(&fakeLeadRepo{failAll: true}, &stubCRM{})

	rec := doRequest(t, router, http.MethodPost, "/leads/sync", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleSyncOne(t *testing.T) {
	router := newSyncRouter(seededRepo(1), &stubCRM{})

	rec := doRequest(t, router, http.MethodPost, "/leads/L1/sync", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp SyncOneResponse
	assert.NoError(t, jsonDecode(rec, &resp))
	assert.Contains(t, resp.Message, "synced successfully")
	assert.True(t, resp.Outcome.Success)
	assert.Equal(t, "person-L1", resp.Outcome.CRMResult.PersonID)
}

func TestHandleSyncOneCRMRejection(t *testing.T) {
	router := newSyncRouter(seededRepo(1), &stubCRM{rejectLeadID: "L1"})

	rec := doRequest(t, router, http.MethodPost, "/leads/L1/sync", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp SyncOneResponse
	assert.NoError(t, jsonDecode(rec, &resp))
	assert.Contains(t, resp.Message, "sync failed")
	assert.False(t, resp.Outcome.Success)
	assert.Equal(t, entity.SyncCodeCRMRejected, resp.Outcome.Code)
}

func TestHandleSyncOneNotFound(t *testing.T) {
	router := newSyncRouter(seededRepo(1), &stubCRM{})

	rec := doRequest(t, router, http.MethodPost, "/leads/ghost/sync", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	assert.NoError(t, jsonDecode(rec, &resp))
	assert.Equal(t, usecase.CodeNotFound, resp.Code)
}
