package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	defaultQuoteModelName = "gemini-1.5-flash-latest"

	quoteSystemInstruction = "You write short, warm motivational quotes about drinking water, moving and looking after yourself. " +
		"Return a single sentence of at most 20 words. No hashtags, no emoji, no surrounding quotation marks."
)

// LLMService generates motivational quotes with Gemini. It satisfies QuoteProvider.
type LLMService struct {
	client    *genai.Client
	modelName string
	logger    *zap.Logger
}

func NewLLMService(ctx context.Context, apiKey string, logger *zap.Logger) (*LLMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &LLMService{
		client:    client,
		modelName: defaultQuoteModelName,
		logger:    logger.Named("llm"),
	}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			s.logger.Warn("error closing GenAI client", zap.Error(err))
		} else {
			s.logger.Info("GenAI client closed")
		}
	}
}

func (s *LLMService) FetchQuote(ctx context.Context) string {
	quote, err := s.generateQuote(ctx)
	if err != nil {
		s.logger.Warn("quote generation failed", zap.Error(err))
		return FallbackQuotes[fallbackBadPayload]
	}
	return quote
}

func (s *LLMService) generateQuote(ctx context.Context) (string, error) {
	model := s.client.GenerativeModel(s.modelName)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(quoteSystemInstruction)},
	}

	temp := float32(0.9)
	maxTokens := int32(60)

	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
		Temperature:     &temp,
	}

	resp, err := model.GenerateContent(ctx, genai.Text("Give me today's quote."))
	if err != nil {
		return "", fmt.Errorf("gemini quote request failed: %w", err)
	}

	quote := responseText(resp)
	if quote == "" {
		return "", fmt.Errorf("LLM generated an empty quote")
	}
	return quote, nil
}

// responseText joins the text parts of the first candidate, trimmed of quotes and whitespace.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	return strings.Trim(text.String(), "\"'\n\r\t ")
}
