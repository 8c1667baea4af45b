package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

// DefaultRecommendTemplate is the built-in prompt for top-level recommendations.
const DefaultRecommendTemplate = `You are an AI game recommendation engine. Analyze the user's query and provide personalized game recommendations.
Recommend exactly 3 games.

The recommendations should include the game title, genre, a brief overview, the price, the recent review trend and a "Development Health Score" reported as communityActivity.
The "Development Health Score" should be based on the recent review trend and community activity. A positive trend and high community activity should result in a high score (e.g., 8-10). A negative trend and low community activity should result in a low score (e.g., 1-3).
Where you know them, include store links for the platforms the game is sold on.

User Query: {{.Query}}

Respond in Japanese.`

// DefaultSimilarTemplate is the built-in prompt for "find similar" refinements.
const DefaultSimilarTemplate = `あなたは、ユーザーの文脈を深く理解する、優秀なゲーム推薦AIです。
{{if .OriginalQuery}}
ユーザーは最初に「{{.OriginalQuery}}」という広いテーマで検索しました。この最初の検索テーマを最も重要なコンテキストとして常に念頭に置いてください。
{{end}}
ユーザーは今、特定のゲーム（以下の'game'オブジェクト）に似ていて、かつ「{{.Query}}」という新しい条件を満たすゲームを探しています。

あなたのタスクは、以下の条件をすべて満たすゲームを3つ推薦することです:
1. 提供された'game'オブジェクトのゲームと類似していること。
2. 新しい条件「{{.Query}}」を満たしていること。
{{- if .OriginalQuery}}
3. 最初の検索テーマ「{{.OriginalQuery}}」の文脈に沿っていること。（例：最初のテーマが「スマホゲーム」なら、推薦もスマホゲームを優先する）
{{- end}}

推薦には元のゲーム自体を含めないでください。

以下が、類似検索の元となるゲームの情報です。このオブジェクト全体を解釈して、推薦を生成してください。
Game Object: {{.GameJSON}}`

// DefaultReviewTrendTemplate is the built-in prompt for review-trend summaries.
const DefaultReviewTrendTemplate = `Summarize the following recent review trend in one or two short sentences: {{.RecentReviewTrend}}`

// Templates holds the prompt template sources. Empty fields fall back to the
// built-in defaults.
type Templates struct {
	Recommend   string
	Similar     string
	ReviewTrend string
}

// PromptData holds the variables available in the prompt templates.
type PromptData struct {
	Query             string
	OriginalQuery     string
	GameJSON          string
	RecentReviewTrend string
}

// RenderPrompt executes the template src with data. If src is empty,
// fallback is used instead.
func RenderPrompt(name, src, fallback string, data PromptData) (string, error) {
	if strings.TrimSpace(src) == "" {
		src = fallback
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrLLMPromptTemplate, name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrLLMPromptTemplate, name, err)
	}
	return buf.String(), nil
}

// recommendationsContract is appended to both recommendation prompts so the
// reply is machine-parseable.
const recommendationsContract = `Respond with a JSON object in the following format ONLY:
{
  "recommendations": [
    {
      "title": "<game title>",
      "genre": "<genre>",
      "summary": "<brief overview>",
      "price": "<price as displayed in stores>",
      "recentReviewTrend": "<recent review trend, e.g. positive, mixed, negative>",
      "communityActivity": <number from 0 to 10>,
      "storeUrls": [{"platform": "<store or platform name>", "url": "<absolute https URL>"}]
    }
  ]
}
Ensure the output is a single, valid JSON object and nothing else.`

const reviewTrendContract = `Respond with a JSON object in the following format ONLY:
{"summary": "<short summary>"}
Ensure the output is a single, valid JSON object and nothing else.`

// ConstructRecommendPrompt builds the prompt for a top-level query.
func ConstructRecommendPrompt(tmpl string, in RecommendInput) (string, error) {
	body, err := RenderPrompt("recommend", tmpl, DefaultRecommendTemplate, PromptData{Query: in.Query})
	if err != nil {
		return "", err
	}
	return withContract(body, recommendationsContract), nil
}

// ConstructSimilarPrompt builds the prompt for a refinement relative to a
// reference game. The whole game object is embedded as JSON.
func ConstructSimilarPrompt(tmpl string, in SimilarInput) (string, error) {
	gameJSON, err := json.MarshalIndent(in.Game, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: similar: %w", ErrLLMPromptTemplate, err)
	}
	body, err := RenderPrompt("similar", tmpl, DefaultSimilarTemplate, PromptData{
		Query:         in.Query,
		OriginalQuery: in.OriginalQuery,
		GameJSON:      string(gameJSON),
	})
	if err != nil {
		return "", err
	}
	return withContract(body, recommendationsContract), nil
}

// ConstructReviewTrendPrompt builds the prompt for summarizing a review trend.
func ConstructReviewTrendPrompt(tmpl string, in ReviewTrendInput) (string, error) {
	body, err := RenderPrompt("review_trend", tmpl, DefaultReviewTrendTemplate, PromptData{RecentReviewTrend: in.RecentReviewTrend})
	if err != nil {
		return "", err
	}
	return withContract(body, reviewTrendContract), nil
}

func withContract(body, contract string) string {
	var promptBuilder strings.Builder
	promptBuilder.WriteString(strings.TrimSpace(body))
	promptBuilder.WriteString("\n\n")
	promptBuilder.WriteString(contract)
	return promptBuilder.String()
}
