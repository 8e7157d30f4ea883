package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"legal-literacy-portal/pkg/logger"
)

// ErrEmptyResponse is returned when the model answers without any content
var ErrEmptyResponse = errors.New("model returned no content")

// LLMClient summarizes documents and reads text out of images through an OpenAI compatible API
type LLMClient struct {
	client *openai.Client
	config LLMConfig
	logger *logger.Logger
}

// LLMConfig holds LLM client configuration
type LLMConfig struct {
	APIKey      string
	BaseURL     string // empty uses the public OpenAI endpoint
	Model       string
	VisionModel string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// NewLLMClient creates a new LLM client
func NewLLMClient(cfg LLMConfig, log *logger.Logger) *LLMClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = cfg.Model
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &LLMClient{
		client: openai.NewClientWithConfig(oc),
		config: cfg,
		logger: log.WithComponent("llm-client"),
	}
}

const summarySystemPrompt = `You explain legal documents to people without legal training.
Write a short summary in plain English of at most five sentences.
Say who the parties are, what each must do, the money involved, and any deadlines.
Do not give legal advice and do not invent facts that are not in the document.`

const ocrSystemPrompt = `You transcribe documents. Return only the text visible in the image, in reading order.
Do not summarise or comment. If there is no readable text, return an empty answer.`

// Summarize returns a plain language summary of a legal document
func (c *LLMClient) Summarize(ctx context.Context, text string) (string, error) {
	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.config.Model,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Summarise this document:\n\n" + text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	content, err := firstChoice(resp)
	if err != nil {
		return "", err
	}

	c.logger.Debug().
		Int("text_length", len(text)).
		Int("tokens", resp.Usage.TotalTokens).
		Dur("duration", time.Since(start)).
		Msg("summary generated")

	return content, nil
}

// ExtractImageText reads the text out of a scanned page or photo
func (c *LLMClient) ExtractImageText(ctx context.Context, image []byte) (string, error) {
	mediaType := http.DetectContentType(image)
	if !strings.HasPrefix(mediaType, "image/") {
		return "", fmt.Errorf("unsupported image content type %q", mediaType)
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(image))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.config.VisionModel,
		MaxTokens: 4096,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: ocrSystemPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: "Transcribe this document."},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURL,
						Detail: openai.ImageURLDetailHigh,
					}},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create vision completion: %w", err)
	}

	content, err := firstChoice(resp)
	if err != nil {
		return "", err
	}

	c.logger.Debug().
		Str("media_type", mediaType).
		Int("image_bytes", len(image)).
		Int("text_length", len(content)).
		Msg("image text extracted")

	return content, nil
}

func firstChoice(resp openai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
