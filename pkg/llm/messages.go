package llm

import (
	"fmt"
	"strings"
)

// Wire types of the Anthropic Messages API, shared by Bedrock (which wraps the same body) and the direct API.

const bedrockAnthropicVersion = "bedrock-2023-05-31"

type (
	messagesRequest struct {
		// AnthropicVersion is only sent to Bedrock; the direct API takes it as a header.
		AnthropicVersion string    `json:"anthropic_version,omitempty"`
		Model            string    `json:"model,omitempty"`
		MaxTokens        int       `json:"max_tokens"`
		Messages         []message `json:"messages"`
	}

	message struct {
		Role    string         `json:"role"`
		Content []contentBlock `json:"content"`
	}

	contentBlock struct {
		Type string `json:"type"`
		Text string `json:"text,omitempty"`
	}

	messagesResponse struct {
		Content    []contentBlock `json:"content"`
		StopReason string         `json:"stop_reason,omitempty"`
		Error      *apiError      `json:"error,omitempty"`
	}

	apiError struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
)

func newMessagesRequest(req Request) messagesRequest {
	return messagesRequest{
		MaxTokens: req.MaxTokens,
		Messages: []message{
			{
				Role:    "user",
				Content: []contentBlock{{Type: "text", Text: req.Prompt}},
			},
		},
	}
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// text joins the text blocks of the reply. A reply with no text at all is [ErrEmptyCompletion].
func (r messagesResponse) text() (string, error) {
	var parts []string
	for _, block := range r.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", ErrEmptyCompletion
	}
	return strings.Join(parts, "\n"), nil
}
