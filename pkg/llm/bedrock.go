package llm

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/klothoplatform/archdiagram/pkg/logging"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type (
	// InvokeModelAPI is the part of the Bedrock runtime client that [Bedrock] uses.
	InvokeModelAPI interface {
		InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
	}

	Bedrock struct {
		Client InvokeModelAPI
	}

	BedrockOptions struct {
		Region          string
		AccessKeyID     string
		SecretAccessKey string
		SessionToken    string
	}
)

// NewBedrock builds a Bedrock runtime client for the given region. Static credentials are used when both key fields
// are set; otherwise the SDK's default chain (environment, shared config, instance role) applies.
func NewBedrock(ctx context.Context, opts BedrockOptions) (*Bedrock, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, opts.SessionToken),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "could not load AWS configuration")
	}
	return &Bedrock{Client: bedrockruntime.NewFromConfig(cfg)}, nil
}

func (b *Bedrock) Complete(ctx context.Context, req Request) (string, error) {
	req = req.withDefaults()
	log := logging.GetLogger(ctx).Named("llm.bedrock")

	body := newMessagesRequest(req)
	body.AnthropicVersion = bedrockAnthropicVersion
	payload, err := json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(err, "could not encode bedrock request")
	}

	log.Debug("Invoking model", zap.String("model", req.ModelID), zap.Int("max_tokens", req.MaxTokens), logging.PromptField(req.Prompt))
	out, err := b.Client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(req.ModelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        payload,
	})
	if err != nil {
		return "", &TransportError{Provider: "bedrock", Cause: err}
	}

	var resp messagesResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", errors.Wrap(err, "could not decode bedrock response body")
	}
	if resp.Error != nil {
		return "", &TransportError{Provider: "bedrock", Cause: resp.Error}
	}
	text, err := resp.text()
	if err != nil {
		return "", err
	}
	log.Debug("Received completion", zap.Int("chars", len(text)), zap.String("stop_reason", resp.StopReason))
	return text, nil
}
