package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GroqClient calls the Groq OpenAI-compatible chat completions API.
type GroqClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

type groqChatRequest struct {
	Model          string              `json:"model"`
	Messages       []Message           `json:"messages"`
	Temperature    float64             `json:"temperature"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	ResponseFormat *groqResponseFormat `json:"response_format,omitempty"`
}

type groqResponseFormat struct {
	Type string `json:"type"`
}

type groqChatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewGroqClient создает клиент Groq с заданными параметрами.
func NewGroqClient(apiKey, baseURL, model string, timeout time.Duration, maxTokens int) *GroqClient {
	trimmedURL := strings.TrimRight(baseURL, "/")
	return &GroqClient{
		apiKey:    apiKey,
		baseURL:   trimmedURL,
		model:     model,
		maxTokens: maxTokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Chat отправляет сообщения в Groq и возвращает текст ответа, сырой ответ и заголовки.
func (c *GroqClient) Chat(ctx context.Context, req Request) (Completion, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return Completion{}, errors.New("groq api key is missing")
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = resolveMaxTokens(c.maxTokens)
	}

	reqBody := groqChatRequest{
		Model:       resolveModel(req.Model, c.model),
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	}
	if req.JSON {
		reqBody.ResponseFormat = &groqResponseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Completion{}, err
	}

	endpoint := fmt.Sprintf("%s/chat/completions", c.baseURL)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Completion{}, err
	}

	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return Completion{}, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return Completion{}, err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		apiErr := &APIError{Provider: "groq", StatusCode: response.StatusCode, Header: response.Header}
		var parsed groqChatResponse
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
			apiErr.Message = parsed.Error.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return Completion{Raw: body, Header: response.Header}, apiErr
	}

	var parsed groqChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Completion{Raw: body, Header: response.Header}, err
	}

	if len(parsed.Choices) == 0 {
		return Completion{Raw: body, Header: response.Header}, errors.New("groq response missing choices")
	}

	return Completion{Text: parsed.Choices[0].Message.Content, Raw: body, Header: response.Header}, nil
}
