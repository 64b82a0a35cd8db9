package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/carnance/crm-sync-backend/internal/entity"
	"github.com/carnance/crm-sync-backend/internal/infra/integration/twentycrm"
	"github.com/carnance/crm-sync-backend/internal/infra/queue"
)

// DefaultSyncConcurrency bounds how many CRM upserts run at once during a
// batch, so a big backlog does not hammer the CRM endpoint.
const DefaultSyncConcurrency = 4

type SyncLeadsUseCase struct {
	Repo        entity.LeadRepositoryInterface
	CRM         CRMGateway
	Events      SyncEventPublisher // nil disables outcome events
	Concurrency int
}

func NewSyncLeadsUseCase(repo entity.LeadRepositoryInterface, crm CRMGateway, events SyncEventPublisher, concurrency int) *SyncLeadsUseCase {
	if concurrency <= 0 {
		concurrency = DefaultSyncConcurrency
	}
	return &SyncLeadsUseCase{
		Repo:        repo,
		CRM:         crm,
		Events:      events,
		Concurrency: concurrency,
	}
}

// SyncOne pushes a single lead to the CRM. NotFound, validation and CRM
// failures come back as outcomes, not errors; the error return is reserved
// for the store falling over.
func (uc *SyncLeadsUseCase) SyncOne(ctx context.Context, leadID string) (entity.SyncOutcome, error) {
	lead, err := uc.Repo.FindByLeadID(ctx, leadID)
	if errors.Is(err, entity.ErrLeadNotFound) {
		// Resolved before any CRM contact.
		return entity.SyncOutcome{
			LeadID: leadID,
			Code:   entity.SyncCodeNotFound,
			Error:  "lead not found",
		}, nil
	}
	if err != nil {
		return entity.SyncOutcome{}, &TechnicalError{
			Code:    CodeStoreError,
			Message: "fetching lead: " + err.Error(),
		}
	}

	outcome := uc.syncLead(ctx, lead)
	uc.publishOutcome(ctx, "", lead, outcome)
	return outcome, nil
}

// SyncAll lists leads and syncs each one. One lead's failure never aborts
// the rest; only a listing failure kills the call. Outcomes keep the store's
// listing order and every lead appears exactly once.
func (uc *SyncLeadsUseCase) SyncAll(ctx context.Context, skip, limit int) (*entity.SyncReport, error) {
	leads, err := uc.Repo.FindAll(ctx, skip, limit)
	if err != nil {
		return nil, &TechnicalError{
			Code:    CodeStoreError,
			Message: "listing leads: " + err.Error(),
		}
	}

	report := &entity.SyncReport{
		BatchID:   uuid.New().String(),
		Total:     len(leads),
		StartedAt: time.Now(),
		Outcomes:  make([]entity.SyncOutcome, len(leads)),
	}

	if len(leads) == 0 {
		log.Printf("⚠️ sync: no leads to sync (skip=%d limit=%d)", skip, limit)
		report.FinishedAt = time.Now()
		return report, nil
	}

	log.Printf("🔄 sync: batch %s starting, %d lead(s)", report.BatchID, len(leads))

	// Once a lead is dispatched its CRM call runs to completion even if the
	// caller hangs up; aborting mid-flight risks half-applied CRM writes.
	// Cancellation only stops new dispatches.
	syncCtx := context.WithoutCancel(ctx)

	g := new(errgroup.Group)
	g.SetLimit(uc.Concurrency)

	for i, lead := range leads {
		if ctx.Err() != nil {
			for j := i; j < len(leads); j++ {
				report.Outcomes[j] = entity.SyncOutcome{
					LeadID: leads[j].LeadID,
					Code:   entity.SyncCodeCRMUnreachable,
					Error:  "batch cancelled before dispatch",
				}
			}
			break
		}

		i, lead := i, lead
		g.Go(func() error {
			outcome := uc.syncLead(syncCtx, lead)
			report.Outcomes[i] = outcome
			uc.publishOutcome(syncCtx, report.BatchID, lead, outcome)
			return nil
		})
	}

	g.Wait()

	for _, outcome := range report.Outcomes {
		if outcome.Success {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	report.FinishedAt = time.Now()

	log.Printf("✅ sync: batch %s done, %d ok / %d failed of %d",
		report.BatchID, report.Succeeded, report.Failed, report.Total)

	return report, nil
}

// syncLead maps one lead and upserts it, then hangs a follow-up task on the
// resulting person. A task failure does not fail the sync: the person upsert
// already landed.
func (uc *SyncLeadsUseCase) syncLead(ctx context.Context, lead *entity.Lead) entity.SyncOutcome {
	outcome := entity.SyncOutcome{LeadID: lead.LeadID}

	payload, err := twentycrm.MapLead(lead)
	if err != nil {
		outcome.Code = entity.SyncCodeValidationError
		outcome.Error = err.Error()
		return outcome
	}

	personResp, err := uc.CRM.CreatePerson(ctx, payload, true)
	if err != nil {
		outcome.Code, outcome.Error = classifyCRMFailure(err)
		log.Printf("❌ sync: %s - %s: %s", lead.LeadID, outcome.Code, outcome.Error)
		return outcome
	}

	personID := personResp.PersonID()
	result := &entity.CRMResult{
		PersonID:      personID,
		PersonCreated: true,
	}

	taskResp, err := uc.CRM.CreateTask(ctx, twentycrm.MapLeadTask(lead, personID))
	if err != nil {
		log.Printf("⚠️ sync: person synced but task creation failed for %s: %v", lead.LeadID, err)
		result.TaskError = err.Error()
	} else {
		result.TaskID = taskResp.ID
	}

	outcome.Success = true
	outcome.CRMResult = result
	log.Printf("✅ sync: %s - %s", lead.LeadID, lead.DisplayName())
	return outcome
}

func (uc *SyncLeadsUseCase) publishOutcome(ctx context.Context, batchID string, lead *entity.Lead, outcome entity.SyncOutcome) {
	if uc.Events == nil {
		return
	}

	err := uc.Events.PublishOutcome(ctx, queue.SyncEventPayload{
		BatchID:  batchID,
		LeadID:   outcome.LeadID,
		LeadName: lead.DisplayName(),
		Success:  outcome.Success,
		Code:     outcome.Code,
		Error:    outcome.Error,
		SyncedAt: time.Now(),
	})
	if err != nil {
		// Best effort only; the sync result stands either way.
		log.Printf("⚠️ sync: could not publish outcome event for %s: %v", outcome.LeadID, err)
	}
}

func classifyCRMFailure(err error) (code, message string) {
	if crmErr, ok := twentycrm.AsCRMError(err); ok {
		switch crmErr.Kind {
		case twentycrm.ErrKindTimeout:
			return entity.SyncCodeCRMTimeout, crmErr.Error()
		case twentycrm.ErrKindRejected:
			return entity.SyncCodeCRMRejected, crmErr.Error()
		default:
			return entity.SyncCodeCRMUnreachable, crmErr.Error()
		}
	}
	return entity.SyncCodeCRMUnreachable, err.Error()
}
