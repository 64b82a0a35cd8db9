package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carnance/crm-sync-backend/internal/entity"
	"github.com/carnance/crm-sync-backend/internal/infra/integration/openai"
)

var testAgents = []entity.SalesAgent{
	{ID: "agent-1", Name: "Marie Dubois", Specialization: "SUV", Territory: "ON"},
	{ID: "agent-2", Name: "Jean Leclerc", Specialization: "Truck", Territory: "QC"},
}

func chatResponseWith(content string) *openai.ChatResponse {
	return &openai.ChatResponse{
		Choices: []openai.Choice{
			{Message: openai.Message{Role: "assistant", Content: content}},
		},
	}
}

func TestMatchAgentSuccess(t *testing.T) {
	lead := &entity.Lead{LeadID: "L1", FullName: "Ryan Beuglet", VehicleType: "SUV"}

	mockRepo := new(MockLeadRepository)
	mockChat := new(MockChatService)

	mockRepo.On("FindByLeadID", mock.Anything, "L1").Return(lead, nil)
	mockChat.On("ChatCompletion", mock.Anything, mock.MatchedBy(func(messages []openai.Message) bool {
		return len(messages) == 2 && messages[0].Role == "system" && messages[1].Role == "user"
	})).Return(chatResponseWith(`{"selected_agent_id":"agent-1","selected_agent_name":"Marie Dubois","confidence_score":87,"reasoning":"SUV specialist in territory","alternative_agent_ids":["agent-2"]}`), nil)
	mockChat.On("Model").Return("gpt-3.5-turbo")

	uc := NewMatchAgentUseCase(mockRepo, mockChat, testAgents)
	output, err := uc.Execute(context.Background(), "L1")

	assert.NoError(t, err)
	assert.Equal(t, "L1", output.LeadID)
	assert.Equal(t, "agent-1", output.SelectedAgentID)
	assert.Equal(t, "Marie Dubois", output.SelectedAgentName)
	assert.Equal(t, 87, output.ConfidenceScore)
	assert.Equal(t, []string{"agent-2"}, output.AlternativeAgentIDs)
	assert.Equal(t, "gpt-3.5-turbo", output.Model)
}

func TestMatchAgentToleratesCodeFencedVerdict(t *testing.T) {
	lead := &entity.Lead{LeadID: "L1"}

	mockRepo := new(MockLeadRepository)
	mockChat := new(MockChatService)

	mockRepo.On("FindByLeadID", mock.Anything, "L1").Return(lead, nil)
	mockChat.On("ChatCompletion", mock.Anything, mock.Anything).Return(chatResponseWith(
		"```json\n{\"selected_agent_id\":\"agent-2\",\"selected_agent_name\":\"Jean Leclerc\",\"confidence_score\":60,\"reasoning\":\"closest fit\"}\n```",
	), nil)
	mockChat.On("Model").Return("gpt-3.5-turbo")

	uc := NewMatchAgentUseCase(mockRepo, mockChat, testAgents)
	output, err := uc.Execute(context.Background(), "L1")

	assert.NoError(t, err)
	assert.Equal(t, "agent-2", output.SelectedAgentID)
}

func TestMatchAgentLeadNotFound(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockChat := new(MockChatService)

	mockRepo.On("FindByLeadID", mock.Anything, "ghost").Return(nil, entity.ErrLeadNotFound)

	uc := NewMatchAgentUseCase(mockRepo, mockChat, testAgents)
	output, err := uc.Execute(context.Background(), "ghost")

	assert.Nil(t, output)
	assert.True(t, IsDomainError(err))
	assert.Equal(t, CodeNotFound, err.(*DomainError).Code)

	mockChat.AssertNotCalled(t, "ChatCompletion", mock.Anything, mock.Anything)
}

func TestMatchAgentWithoutChatService(t *testing.T) {
	mockRepo := new(MockLeadRepository)

	uc := NewMatchAgentUseCase(mockRepo, nil, testAgents)
	output, err := uc.Execute(context.Background(), "L1")

	assert.Nil(t, output)
	assert.True(t, IsDomainError(err))
	assert.Equal(t, CodeLLMError, err.(*DomainError).Code)
}

func TestMatchAgentWithEmptyRoster(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockChat := new(MockChatService)

	uc := NewMatchAgentUseCase(mockRepo, mockChat, nil)
	output, err := uc.Execute(context.Background(), "L1")

	assert.Nil(t, output)
	assert.Equal(t, CodeLLMError, err.(*DomainError).Code)
}

func TestMatchAgentLLMFailure(t *testing.T) {
	lead := &entity.Lead{LeadID: "L1"}

	mockRepo := new(MockLeadRepository)
	mockChat := new(MockChatService)

	mockRepo.On("FindByLeadID", mock.Anything, "L1").Return(lead, nil)
	mockChat.On("ChatCompletion", mock.Anything, mock.Anything).Return(nil, errors.New("rate limited"))

	uc := NewMatchAgentUseCase(mockRepo, mockChat, testAgents)
	output, err := uc.Execute(context.Background(), "L1")

	assert.Nil(t, output)
	assert.True(t, IsDomainError(err))
	assert.Equal(t, CodeLLMError, err.(*DomainError).Code)
}

func TestMatchAgentGarbledVerdict(t *testing.T) {
	lead := &entity.Lead{LeadID: "L1"}

	mockRepo := new(MockLeadRepository)
	mockChat := new(MockChatService)

	mockRepo.On("FindByLeadID", mock.Anything, "L1").Return(lead, nil)
	mockChat.On("ChatCompletion", mock.Anything, mock.Anything).
		Return(chatResponseWith("I think agent-1 would be best for this lead."), nil)

	uc := NewMatchAgentUseCase(mockRepo, mockChat, testAgents)
	output, err := uc.Execute(context.Background(), "L1")

	assert.Nil(t, output)
	assert.Equal(t, CodeLLMError, err.(*DomainError).Code)
}
