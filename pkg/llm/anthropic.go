package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/httpclient"
	"github.com/klothoplatform/archdiagram/pkg/closenicely"
	"github.com/klothoplatform/archdiagram/pkg/logging"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultAnthropicURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion    = "2023-06-01"

	// DefaultAnthropicModel is the direct-API name of [DefaultModelID].
	DefaultAnthropicModel = "claude-3-5-sonnet-20240620"
)

type (
	Doer interface {
		Do(req *http.Request) (*http.Response, error)
	}

	// Anthropic calls the Messages API directly instead of going through Bedrock.
	Anthropic struct {
		URL    string
		APIKey string
		Client Doer
	}

	AnthropicOptions struct {
		URL        string
		APIKey     string
		Timeout    time.Duration
		RetryCount int
	}
)

func NewAnthropic(opts AnthropicOptions) *Anthropic {
	if opts.URL == "" {
		opts.URL = DefaultAnthropicURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	client := httpclient.NewClient(
		httpclient.WithHTTPTimeout(opts.Timeout),
		httpclient.WithRetryCount(opts.RetryCount),
		httpclient.WithRetrier(heimdall.NewRetrier(heimdall.NewConstantBackoff(500*time.Millisecond, 250*time.Millisecond))),
	)
	return &Anthropic{URL: opts.URL, APIKey: opts.APIKey, Client: client}
}

func (a *Anthropic) Complete(ctx context.Context, req Request) (string, error) {
	req = req.withDefaults()
	if req.ModelID == DefaultModelID {
		req.ModelID = DefaultAnthropicModel
	}
	log := logging.GetLogger(ctx).Named("llm.anthropic")

	body := newMessagesRequest(req)
	body.Model = req.ModelID
	payload, err := json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(err, "could not encode anthropic request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.URL, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "could not create anthropic request")
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("x-api-key", a.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	log.Debug("Sending message", zap.String("model", req.ModelID), zap.Int("max_tokens", req.MaxTokens), logging.PromptField(req.Prompt))
	res, err := a.Client.Do(httpReq)
	if err != nil {
		return "", &TransportError{Provider: "anthropic", Cause: err}
	}
	defer closenicely.OrDebug(res.Body)

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &TransportError{Provider: "anthropic", StatusCode: res.StatusCode, Cause: err}
	}

	var resp messagesResponse
	decodeErr := json.Unmarshal(raw, &resp)
	if res.StatusCode != http.StatusOK {
		cause := errors.Errorf("unexpected response: %s", http.StatusText(res.StatusCode))
		if decodeErr == nil && resp.Error != nil {
			cause = resp.Error
		}
		return "", &TransportError{Provider: "anthropic", StatusCode: res.StatusCode, Cause: cause}
	}
	if decodeErr != nil {
		return "", errors.Wrap(decodeErr, "could not decode anthropic response body")
	}
	text, err := resp.text()
	if err != nil {
		return "", err
	}
	log.Debug("Received completion", zap.Int("chars", len(text)), zap.String("stop_reason", resp.StopReason))
	return text, nil
}
