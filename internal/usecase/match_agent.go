package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/carnance/crm-sync-backend/internal/entity"
	"github.com/carnance/crm-sync-backend/internal/infra/integration/openai"
)

const matchAgentSystemPrompt = `You are a sales routing assistant for an automotive financing company.
Given a lead and a roster of sales agents, pick the single best agent for the lead.
Weigh vehicle type fit, territory, specialization, workload and success rate.
Respond with JSON only, no prose, in this exact shape:
{"selected_agent_id": "...", "selected_agent_name": "...", "confidence_score": 0-100, "reasoning": "...", "alternative_agent_ids": ["..."]}`

type MatchAgentOutput struct {
	LeadID              string   `json:"lead_id"`
	SelectedAgentID     string   `json:"selected_agent_id"`
	SelectedAgentName   string   `json:"selected_agent_name"`
	ConfidenceScore     int      `json:"confidence_score"`
	Reasoning           string   `json:"reasoning"`
	AlternativeAgentIDs []string `json:"alternative_agent_ids,omitempty"`
	Model               string   `json:"model"`
}

type MatchAgentUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Chat   ChatService
	Agents []entity.SalesAgent
}

func NewMatchAgentUseCase(repo entity.LeadRepositoryInterface, chat ChatService, agents []entity.SalesAgent) *MatchAgentUseCase {
	return &MatchAgentUseCase{
		Repo:   repo,
		Chat:   chat,
		Agents: agents,
	}
}

// Execute asks the LLM to route a lead to the best-fitting agent from the
// configured roster. Purely advisory: nothing is written anywhere.
func (uc *MatchAgentUseCase) Execute(ctx context.Context, leadID string) (*MatchAgentOutput, error) {
	if uc.Chat == nil {
		return nil, &DomainError{Code: CodeLLMError, Message: "llm is not configured"}
	}
	if len(uc.Agents) == 0 {
		return nil, &DomainError{Code: CodeLLMError, Message: "no sales agents configured"}
	}

	lead, err := uc.Repo.FindByLeadID(ctx, leadID)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return nil, &DomainError{
			Code:    CodeNotFound,
			Message: "lead '" + leadID + "' not found",
		}
	}
	if err != nil {
		return nil, &TechnicalError{
			Code:    CodeStoreError,
			Message: "fetching lead: " + err.Error(),
		}
	}

	prompt, err := buildMatchPrompt(lead, uc.Agents)
	if err != nil {
		return nil, &TechnicalError{Code: CodeLLMError, Message: err.Error()}
	}

	resp, err := uc.Chat.ChatCompletion(ctx, []openai.Message{
		{Role: "system", Content: matchAgentSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		log.Printf("❌ match: llm call failed for %s: %v", leadID, err)
		return nil, &DomainError{
			Code:    CodeLLMError,
			Message: "agent matching unavailable: " + err.Error(),
		}
	}

	output, err := parseMatchVerdict(resp.Content())
	if err != nil {
		return nil, &DomainError{
			Code:    CodeLLMError,
			Message: "could not parse llm verdict: " + err.Error(),
		}
	}

	output.LeadID = lead.LeadID
	output.Model = uc.Chat.Model()
	log.Printf("🤝 match: %s -> %s (confidence %d)", lead.LeadID, output.SelectedAgentName, output.ConfidenceScore)
	return output, nil
}

func buildMatchPrompt(lead *entity.Lead, agents []entity.SalesAgent) (string, error) {
	leadJSON, err := json.MarshalIndent(lead, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling lead: %w", err)
	}
	agentsJSON, err := json.MarshalIndent(agents, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling agents: %w", err)
	}

	return fmt.Sprintf("Lead:\n%s\n\nAvailable agents:\n%s", leadJSON, agentsJSON), nil
}

// parseMatchVerdict tolerates models that wrap their JSON in a code fence.
func parseMatchVerdict(content string) (*MatchAgentOutput, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var output MatchAgentOutput
	if err := json.Unmarshal([]byte(content), &output); err != nil {
		return nil, err
	}
	if output.SelectedAgentID == "" {
		return nil, fmt.Errorf("verdict missing selected_agent_id")
	}
	return &output, nil
}
