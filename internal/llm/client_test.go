package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karolswdev/gamescout/internal/game"
)

// chatCompletionBody wraps content in an OpenAI chat completion response body.
func chatCompletionBody(t *testing.T, content string) string {
	t.Helper()
	resp := openai.ChatCompletionResponse{
		ID:      "chatcmpl-123",
		Object:  "chat.completion",
		Created: 1677652288,
		Model:   "gpt-4o",
		Choices: []openai.ChatCompletionChoice{{
			Index:        0,
			Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
			FinishReason: openai.FinishReasonStop,
		}},
	}
	b, err := json.Marshal(resp)
	require.NoError(t, err)
	return string(b)
}

const threeGamesJSON = `{"recommendations":[
 {"title":"Stardew Valley","genre":"シミュレーション","summary":"農場生活","price":"¥1,480","recentReviewTrend":"非常に好評","communityActivity":9},
 {"title":"Terraria","genre":"アクション","summary":"2Dサンドボックス","price":"¥980","recentReviewTrend":"好評","communityActivity":8,"storeUrls":[{"platform":"Steam","url":"https://store.steampowered.com/app/105600"}]},
 {"title":"Core Keeper","genre":"アドベンチャー","summary":"地下探索","price":"¥1,800","communityActivity":7.5}
]}`

// newTestClient points an OpenAIClient at a mock server.
func newTestClient(t *testing.T, handler http.HandlerFunc, opts OpenAIOptions) *OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("dummy-api-key")
	cfg.BaseURL = server.URL + "/v1"
	client, err := NewOpenAIClient(openai.NewClientWithConfig(cfg), opts)
	require.NoError(t, err, "Failed to create OpenAIClient for test")
	return client
}

func TestNewOpenAIClient(t *testing.T) {
	t.Run("Nil_OpenAI_Client", func(t *testing.T) {
		_, err := NewOpenAIClient(nil, OpenAIOptions{ModelName: "test-model"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrLLMClientNil)
	})

	t.Run("Empty_ModelName_Defaults", func(t *testing.T) {
		llmClient, err := NewOpenAIClient(openai.NewClient("dummy-key"), OpenAIOptions{})
		require.NoError(t, err)
		assert.Equal(t, openai.GPT4o, llmClient.modelName)
	})

	t.Run("Valid_Input", func(t *testing.T) {
		dummyClient := openai.NewClient("dummy-key")
		llmClient, err := NewOpenAIClient(dummyClient, OpenAIOptions{ModelName: "custom-model", JSONMode: true, Temperature: 0.2})
		require.NoError(t, err)
		assert.Equal(t, "custom-model", llmClient.modelName)
		assert.True(t, llmClient.jsonMode)
		assert.Equal(t, float32(0.2), llmClient.temperature)
		assert.Equal(t, dummyClient, llmClient.client)
	})
}

func TestOpenAIClient_GenerateRecommendations(t *testing.T) {
	testCases := []struct {
		name           string
		content        string
		rawBody        string
		statusCode     int
		expectError    error
		expectedTitles []string
	}{
		{
			name:           "Success",
			content:        threeGamesJSON,
			statusCode:     http.StatusOK,
			expectedTitles: []string{"Stardew Valley", "Terraria", "Core Keeper"},
		},
		{
			name:           "Success_Fenced",
			content:        "```json\n" + threeGamesJSON + "\n```",
			statusCode:     http.StatusOK,
			expectedTitles: []string{"Stardew Valley", "Terraria", "Core Keeper"},
		},
		{
			name:        "API_Error_Response",
			rawBody:     `{"error": {"message": "Invalid API key.", "type": "invalid_request_error", "code": "invalid_api_key"}}`,
			statusCode:  http.StatusUnauthorized,
			expectError: ErrLLMCompletion,
		},
		{
			name:        "Empty_Choices",
			rawBody:     `{"id": "chatcmpl-456", "object": "chat.completion", "created": 1677652290, "model": "gpt-4o", "choices": []}`,
			statusCode:  http.StatusOK,
			expectError: ErrLLMEmptyResponse,
		},
		{
			name:        "Malformed_JSON_In_Content",
			content:     `{"recommendations": [ {"title": "x" }`,
			statusCode:  http.StatusOK,
			expectError: ErrLLMResponseJSONUnmarshal,
		},
		{
			name:        "Schema_Violation_In_Content",
			content:     `{"recommendations":[{"title":"Bad","genre":"RPG","summary":"s","price":"$1","communityActivity":42}]}`,
			statusCode:  http.StatusOK,
			expectError: ErrLLMResponseInvalid,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/chat/completions" {
					http.Error(w, "Not Found", http.StatusNotFound)
					return
				}
				body := tc.rawBody
				if body == "" {
					body = chatCompletionBody(t, tc.content)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.statusCode)
				fmt.Fprintln(w, body)
			}, OpenAIOptions{ModelName: "test-model"})

			resp, err := client.GenerateRecommendations(context.Background(), RecommendInput{Query: "のんびりできるゲーム"})

			if tc.expectError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			require.NoError(t, err)
			titles := make([]string, 0, len(resp.Recommendations))
			for _, g := range resp.Recommendations {
				titles = append(titles, g.Title)
			}
			assert.Equal(t, tc.expectedTitles, titles)
		})
	}
}

func TestOpenAIClient_RequestShape(t *testing.T) {
	var captured openai.ChatCompletionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, chatCompletionBody(t, threeGamesJSON))
	}, OpenAIOptions{ModelName: "test-model", JSONMode: true})

	ref := game.Game{Title: "Hades", Genre: "Roguelike", Summary: "Escape the underworld", Price: "$24.99", CommunityActivity: game.Activity(9)}
	_, err := client.FindSimilarGames(context.Background(), SimilarInput{Game: ref, Query: "もっと協力プレイ", OriginalQuery: "アクション"})
	require.NoError(t, err)

	assert.Equal(t, "test-model", captured.Model)
	require.NotNil(t, captured.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, captured.ResponseFormat.Type)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, captured.Messages[0].Role)
	userPrompt := captured.Messages[1].Content
	assert.Contains(t, userPrompt, `"title": "Hades"`)
	assert.Contains(t, userPrompt, "もっと協力プレイ")
	assert.Contains(t, userPrompt, "アクション")
}

func TestOpenAIClient_SummarizeReviewTrend(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintln(w, chatCompletionBody(t, `{"summary": "Players love the recent patch."}`))
		}, OpenAIOptions{})

		resp, err := client.SummarizeReviewTrend(context.Background(), ReviewTrendInput{RecentReviewTrend: "Very Positive after 1.2"})
		require.NoError(t, err)
		assert.Equal(t, "Players love the recent patch.", resp.Summary)
	})

	t.Run("Missing_Summary", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintln(w, chatCompletionBody(t, `{"text": "wrong key"}`))
		}, OpenAIOptions{})

		_, err := client.SummarizeReviewTrend(context.Background(), ReviewTrendInput{RecentReviewTrend: "Mixed"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrLLMResponseMissingField)
	})
}
