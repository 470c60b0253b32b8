package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/manualqa/manualqa/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Captioner implements ai.Captioner using OpenAI-compatible vision chat APIs.
type Captioner struct {
	client    llms.Model
	maxTokens int
	logger    *slog.Logger
}

// newCaptioner is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCaptioner(config *ai.Config) (*Captioner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.VisionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Captioner{
		client:    client,
		maxTokens: config.CaptionMaxTokens,
		logger:    slog.Default().With("component", "openai-captioner"),
	}, nil
}

// NewCaptioner creates a new image captioner using the provided configuration.
// The configuration must name a VisionModel.
//
// Returns ai.Captioner interface to enforce abstraction.
func NewCaptioner(config *ai.Config) (ai.Captioner, error) {
	return newCaptioner(config)
}

// DescribeImage sends the image to the vision model together with the manual
// figure prompt and returns the generated description. An empty string with a
// nil error means the model produced no usable description.
func (c *Captioner) DescribeImage(ctx context.Context, mimeType string, image []byte) (string, error) {
	c.logger.Debug("describing image", "mimeType", mimeType, "bytes", len(image))

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(captionPrompt),
				llms.BinaryPart(mimeType, image),
			},
		},
	}

	response, err := c.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0),
		llms.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		c.logger.Error("failed to generate image description", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		c.logger.Debug("no choices returned from vision model")
		return "", nil
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
