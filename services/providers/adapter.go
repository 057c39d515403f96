package providers

import (
	"encoding/json"
	"fmt"
)

// Style selects the request/response shape spoken by a provider
type Style int

const (
	// StyleOpenAI is the chat completion shape (OpenAI, Azure OpenAI)
	StyleOpenAI Style = iota + 1

	// StyleGenerate is the single-prompt generation shape (Cohere)
	StyleGenerate
)

// Temperature is sent with every request regardless of provider. Zero keeps
// completions deterministic for callers that parse structured output.
const Temperature float64 = 0

// String returns the style name
func (s Style) String() string {
	switch s {
	case StyleOpenAI:
		return "openai"
	case StyleGenerate:
		return "generate"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

// BuildRequestBody converts a prompt into the provider request payload.
// Defaults are copied first; the style's fixed fields override them.
func BuildRequestBody(prompt string, style Style, defaults map[string]any) (map[string]any, error) {
	body := make(map[string]any, len(defaults)+5)
	for k, v := range defaults {
		body[k] = v
	}

	switch style {
	case StyleOpenAI:
		body["messages"] = []chatMessage{{Role: "user", Content: prompt}}
		body["n"] = 1
	case StyleGenerate:
		body["prompt"] = prompt
		body["k"] = 0
		body["stop_sequences"] = []string{}
		body["return_likelihoods"] = "NONE"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStyle, style)
	}
	body["temperature"] = Temperature

	return body, nil
}

// ExtractCompletion pulls the completion text out of a provider response body.
// A missing path is an error for every style.
func ExtractCompletion(style Style, body []byte) (string, error) {
	switch style {
	case StyleOpenAI:
		var resp chatResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
		}
		msg := resp.Choices[0].Message
		if msg == nil || msg.Content == nil {
			return "", fmt.Errorf("%w: choices[0].message.content missing", ErrMalformedResponse)
		}
		return *msg.Content, nil

	case StyleGenerate:
		var resp generateResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		if len(resp.Generations) == 0 {
			return "", fmt.Errorf("%w: no generations", ErrMalformedResponse)
		}
		if resp.Generations[0].Text == nil {
			return "", fmt.Errorf("%w: generations[0].text missing", ErrMalformedResponse)
		}
		return *resp.Generations[0].Text, nil

	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownStyle, style)
	}
}

// Provider wire types

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Index        int                  `json:"index"`
	Message      *chatResponseMessage `json:"message"`
	FinishReason string               `json:"finish_reason"`
}

type chatResponseMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type generateResponse struct {
	ID          string       `json:"id"`
	Generations []generation `json:"generations"`
}

type generation struct {
	ID   string  `json:"id"`
	Text *string `json:"text"`
}
