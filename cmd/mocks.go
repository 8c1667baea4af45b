package cmd

// This file contains mock implementations used across different test files
// within the cmd package, but which need to be accessible from outside
// _test.go files (e.g., for integration tests).

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/karolswdev/gamescout/internal/llm"
)

// MockLLMClient is a mock implementation of the llm.Client interface.
// Exported for use in integration tests.
type MockLLMClient struct {
	mock.Mock
}

var _ llm.Client = (*MockLLMClient)(nil)

// GenerateRecommendations matches llm.Client interface
func (m *MockLLMClient) GenerateRecommendations(ctx context.Context, in llm.RecommendInput) (llm.RecommendationResponse, error) {
	args := m.Called(ctx, in)
	resp, _ := args.Get(0).(llm.RecommendationResponse)
	return resp, args.Error(1)
}

// FindSimilarGames matches llm.Client interface
func (m *MockLLMClient) FindSimilarGames(ctx context.Context, in llm.SimilarInput) (llm.RecommendationResponse, error) {
	args := m.Called(ctx, in)
	resp, _ := args.Get(0).(llm.RecommendationResponse)
	return resp, args.Error(1)
}

// SummarizeReviewTrend matches llm.Client interface
func (m *MockLLMClient) SummarizeReviewTrend(ctx context.Context, in llm.ReviewTrendInput) (llm.ReviewTrendSummary, error) {
	args := m.Called(ctx, in)
	resp, _ := args.Get(0).(llm.ReviewTrendSummary)
	return resp, args.Error(1)
}
