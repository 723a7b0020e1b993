package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openai.com"

// Client talks to an OpenAI-compatible chat-completion endpoint and turns a
// link into a one-sentence summary plus a small set of tags.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = "gpt-4o"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a server-side credential is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

// WithKey returns a copy of the client using a caller-supplied credential.
// This serves clients that hold their own key instead of relying on the
// server-side one.
func (c *Client) WithKey(apiKey string) *Client {
	copied := *c
	copied.apiKey = apiKey
	return &copied
}

// Request identifies the link to analyze. Type and Platform are hints, the
// adapter does not validate them.
type Request struct {
	URL      string `json:"url"`
	Context  string `json:"context,omitempty"`
	Type     string `json:"type,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// Analysis is the constrained reply the model is asked for. Extra keys in
// the model output are ignored.
type Analysis struct {
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the chat-completion request and returns the upstream
// status and raw body. The analyze proxy relays these untouched; Analyze
// parses them. A transport failure is an external-service error with
// status 0.
func (c *Client) Complete(ctx context.Context, req Request) (int, []byte, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(req)},
		},
		MaxTokens:   300,
		Temperature: 0.3,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return 0, nil, newExternalServiceError(0, "chat completion request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, newExternalServiceError(resp.StatusCode, "read chat response", err)
	}
	return resp.StatusCode, raw, nil
}

// Analyze runs the round trip and parses the constrained JSON reply. No
// automatic retry on failure.
func (c *Client) Analyze(ctx context.Context, req Request) (*Analysis, error) {
	status, raw, err := c.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, newExternalServiceError(status, "chat completion rejected", nil)
	}

	var reply chatResponse
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, newMalformedResponseError("chat response is not valid JSON", err)
	}
	if len(reply.Choices) == 0 {
		return nil, newMalformedResponseError("chat response has no choices", nil)
	}

	content := StripFences(reply.Choices[0].Message.Content)

	var out Analysis
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, newMalformedResponseError("model reply is not the expected JSON object", err)
	}
	return &out, nil
}

// StripFences removes surrounding ```json / ``` code-fence markers the
// model sometimes adds despite instructions.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
