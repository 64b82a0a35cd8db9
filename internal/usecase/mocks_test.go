package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/carnance/crm-sync-backend/internal/entity"
	"github.com/carnance/crm-sync-backend/internal/infra/integration/openai"
	"github.com/carnance/crm-sync-backend/internal/infra/integration/twentycrm"
	"github.com/carnance/crm-sync-backend/internal/infra/queue"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindAll(ctx context.Context, skip, limit int) ([]*entity.Lead, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByLeadID(ctx context.Context, leadID string) (*entity.Lead, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

// MockCRMGateway
type MockCRMGateway struct {
	mock.Mock
}

func (m *MockCRMGateway) CreatePerson(ctx context.Context, payload twentycrm.PersonPayload, upsert bool) (*twentycrm.PersonResponse, error) {
	args := m.Called(ctx, payload, upsert)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*twentycrm.PersonResponse), args.Error(1)
}

func (m *MockCRMGateway) CreateTask(ctx context.Context, payload twentycrm.TaskPayload) (*twentycrm.TaskResponse, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*twentycrm.TaskResponse), args.Error(1)
}

// MockEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOutcome(ctx context.Context, payload queue.SyncEventPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockChatService
type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) ChatCompletion(ctx context.Context, messages []openai.Message) (*openai.ChatResponse, error) {
	args := m.Called(ctx, messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openai.ChatResponse), args.Error(1)
}

func (m *MockChatService) Model() string {
	args := m.Called()
	return args.String(0)
}
