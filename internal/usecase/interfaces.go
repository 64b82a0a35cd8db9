package usecase

import (
	"context"

	"github.com/carnance/crm-sync-backend/internal/infra/integration/openai"
	"github.com/carnance/crm-sync-backend/internal/infra/integration/twentycrm"
	"github.com/carnance/crm-sync-backend/internal/infra/queue"
)

// CRMGateway is the slice of the Twenty client the sync use case needs.
type CRMGateway interface {
	CreatePerson(ctx context.Context, payload twentycrm.PersonPayload, upsert bool) (*twentycrm.PersonResponse, error)
	CreateTask(ctx context.Context, payload twentycrm.TaskPayload) (*twentycrm.TaskResponse, error)
}

// SyncEventPublisher re-exports the queue contract so tests can mock it.
type SyncEventPublisher interface {
	PublishOutcome(ctx context.Context, payload queue.SyncEventPayload) error
}

// ChatService is the slice of the LLM client the matching use case needs.
type ChatService interface {
	ChatCompletion(ctx context.Context, messages []openai.Message) (*openai.ChatResponse, error)
	Model() string
}
