package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// Client defines the interface for the LLM gateway. Each method renders its
// prompt, performs one round trip and returns a schema-validated result.
type Client interface {
	GenerateRecommendations(ctx context.Context, in RecommendInput) (RecommendationResponse, error)
	FindSimilarGames(ctx context.Context, in SimilarInput) (RecommendationResponse, error)
	SummarizeReviewTrend(ctx context.Context, in ReviewTrendInput) (ReviewTrendSummary, error)
}

// systemPrompt frames every request; the task itself lives in the templates.
const systemPrompt = "You are a game discovery assistant. You always answer with a single valid JSON object and nothing else."

// OpenAIOptions tunes the chat completion request.
type OpenAIOptions struct {
	ModelName   string
	Temperature float32
	JSONMode    bool
	Templates   Templates
}

// OpenAIClient implements the llm.Client interface for the OpenAI API.
type OpenAIClient struct {
	client      *openai.Client
	modelName   string
	temperature float32
	jsonMode    bool
	templates   Templates
}

// NewOpenAIClient creates a new OpenAI client wrapper.
// It requires a configured go-openai client; an empty model name defaults to gpt-4o.
func NewOpenAIClient(client *openai.Client, opts OpenAIOptions) (*OpenAIClient, error) {
	if client == nil {
		return nil, ErrLLMClientNil
	}
	if opts.ModelName == "" {
		log.Warn().Msg("modelName is empty for OpenAIClient, defaulting to gpt-4o")
		opts.ModelName = openai.GPT4o
	}
	return &OpenAIClient{
		client:      client,
		modelName:   opts.ModelName,
		temperature: opts.Temperature,
		jsonMode:    opts.JSONMode,
		templates:   opts.Templates,
	}, nil
}

// GenerateRecommendations implements llm.Client.
func (o *OpenAIClient) GenerateRecommendations(ctx context.Context, in RecommendInput) (RecommendationResponse, error) {
	prompt, err := ConstructRecommendPrompt(o.templates.Recommend, in)
	if err != nil {
		return RecommendationResponse{}, err
	}
	raw, err := o.complete(ctx, prompt)
	if err != nil {
		return RecommendationResponse{}, err
	}
	resp, err := ParseRecommendations(raw)
	if err != nil {
		return RecommendationResponse{}, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	return resp, nil
}

// FindSimilarGames implements llm.Client.
func (o *OpenAIClient) FindSimilarGames(ctx context.Context, in SimilarInput) (RecommendationResponse, error) {
	prompt, err := ConstructSimilarPrompt(o.templates.Similar, in)
	if err != nil {
		return RecommendationResponse{}, err
	}
	raw, err := o.complete(ctx, prompt)
	if err != nil {
		return RecommendationResponse{}, err
	}
	resp, err := ParseRecommendations(raw)
	if err != nil {
		return RecommendationResponse{}, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	return resp, nil
}

// SummarizeReviewTrend implements llm.Client.
func (o *OpenAIClient) SummarizeReviewTrend(ctx context.Context, in ReviewTrendInput) (ReviewTrendSummary, error) {
	prompt, err := ConstructReviewTrendPrompt(o.templates.ReviewTrend, in)
	if err != nil {
		return ReviewTrendSummary{}, err
	}
	raw, err := o.complete(ctx, prompt)
	if err != nil {
		return ReviewTrendSummary{}, err
	}
	resp, err := ParseReviewTrendSummary(raw)
	if err != nil {
		return ReviewTrendSummary{}, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	return resp, nil
}

// complete sends one chat completion and returns the first choice's content.
func (o *OpenAIClient) complete(ctx context.Context, prompt string) (string, error) {
	if o.client == nil {
		return "", ErrLLMClientNil
	}
	if prompt == "" {
		return "", ErrLLMPromptEmpty
	}
	log.Debug().Str("full_prompt", prompt).Msg("Constructed full prompt for LLM")

	req := openai.ChatCompletionRequest{
		Model:       o.modelName,
		Temperature: o.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if o.jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	log.Debug().Str("model", o.modelName).Bool("json_mode", o.jsonMode).Msg("Sending request to OpenAI API")
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg("OpenAI API call failed")
		return "", fmt.Errorf("%w: %w", ErrLLMCompletion, err)
	}

	if len(resp.Choices) == 0 {
		log.Error().Msg("Received an empty response (no choices) from OpenAI")
		return "", ErrLLMEmptyResponse
	}
	rawResponse := resp.Choices[0].Message.Content
	log.Debug().Str("raw_response", rawResponse).Msg("Extracted raw response content")
	return rawResponse, nil
}
