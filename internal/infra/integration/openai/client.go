package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
	Stream      bool
}

// Client talks to any OpenAI-compatible chat-completions endpoint.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1000
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg: cfg,
		// No Timeout on the http.Client itself: streaming responses stay
		// open longer than any single-shot deadline. Per-call deadlines come
		// from the request context instead.
		http: &http.Client{},
	}
}

func (c *Client) Model() string { return c.cfg.Model }

// ChatCompletion sends one chat request and waits for the full response.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message) (*ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.do(ctx, c.buildRequest(messages, false))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading llm response: %w", err)
	}

	var result ChatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding llm response: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("llm api error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("llm api error: empty choices")
	}

	return &result, nil
}

// SimplePrompt wraps a single user prompt (plus optional system prompt) and
// returns the response text.
func (c *Client) SimplePrompt(ctx context.Context, systemPrompt, prompt string) (string, error) {
	var messages []Message
	if systemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, Message{Role: "user", Content: prompt})

	resp, err := c.ChatCompletion(ctx, messages)
	if err != nil {
		return "", err
	}
	return resp.Content(), nil
}

// ChatCompletionStream streams response text fragments. The returned channel
// is closed when the model finishes, the stream errors, or ctx is cancelled;
// cancellation closes the underlying connection promptly. Single consumer,
// not restartable.
func (c *Client) ChatCompletionStream(ctx context.Context, messages []Message) (<-chan string, error) {
	resp, err := c.do(ctx, c.buildRequest(messages, true))
	if err != nil {
		return nil, err
	}

	out := make(chan string)

	go func() {
		defer close(out)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}

			data := strings.TrimPrefix(line, "data: ")
			if strings.TrimSpace(data) == "[DONE]" {
				return
			}

			var chunk streamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				log.Printf("⚠️ openai: skipping malformed stream chunk: %v", err)
				continue
			}
			if len(chunk.Choices) == 0 {
				continue
			}

			if content := chunk.Choices[0].Delta.Content; content != "" {
				select {
				case out <- content:
				case <-ctx.Done():
					return
				}
			}
		}
		// scanner errors (including a cancelled body) just end the stream
	}()

	return out, nil
}

func (c *Client) buildRequest(messages []Message, stream bool) ChatRequest {
	return ChatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Stream:      stream,
	}
}

func (c *Client) do(ctx context.Context, chatReq ChatRequest) (*http.Response, error) {
	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("marshalling llm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building llm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("llm api answered %d: %s", resp.StatusCode, string(respBody))
	}

	return resp, nil
}
