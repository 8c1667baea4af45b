package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/karolswdev/gamescout/internal/game"
)

// jsonRegex finds a JSON object possibly enclosed in markdown code fences:
// ``` (optional json specifier) ... ```. \x60 is a backtick.
var jsonRegex = regexp.MustCompile(`(?s)\x60{3}(?:[jJ][sS][oO][nN])?\s*(\{.*\})\s*\x60{3}`)

// extractJSON pulls the JSON object out of a raw LLM reply, either from a
// fenced block or from the trimmed reply itself.
func extractJSON(rawResponse string) (string, error) {
	if match := jsonRegex.FindStringSubmatch(rawResponse); len(match) == 2 {
		log.Debug().Str("extracted_json", match[1]).Msg("Extracted JSON using regex from code fences")
		return strings.TrimSpace(match[1]), nil
	}

	trimmed := strings.TrimSpace(rawResponse)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		log.Debug().Msg("Using trimmed response as JSON (no valid fences found)")
		return trimmed, nil
	}

	log.Error().Str("raw_response", rawResponse).Msg("Could not find JSON object within code fences or as a standalone object")
	return "", ErrLLMResponseJSONFind
}

// ParseRecommendations turns a raw LLM reply into a validated
// RecommendationResponse. The "recommendations" key must be present and every
// game must pass game.Validate; a single bad game rejects the whole payload.
func ParseRecommendations(rawResponse string) (RecommendationResponse, error) {
	log.Debug().Str("raw_response", rawResponse).Msg("Attempting to parse recommendations")

	jsonStr, err := extractJSON(rawResponse)
	if err != nil {
		return RecommendationResponse{}, err
	}

	var envelope struct {
		Recommendations *[]game.Game `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &envelope); err != nil {
		log.Error().Err(err).Str("json_string", jsonStr).Msg("Failed to unmarshal recommendations JSON")
		return RecommendationResponse{}, fmt.Errorf("%w: %w", ErrLLMResponseJSONUnmarshal, err)
	}
	if envelope.Recommendations == nil {
		log.Error().Str("json_string", jsonStr).Msg("Parsed LLM response is missing 'recommendations'")
		return RecommendationResponse{}, fmt.Errorf("%w: recommendations", ErrLLMResponseMissingField)
	}

	resp := RecommendationResponse{Recommendations: *envelope.Recommendations}
	if err := ValidateRecommendations(resp); err != nil {
		return RecommendationResponse{}, err
	}

	log.Info().Int("count", len(resp.Recommendations)).Msg("Recommendations parsed and validated successfully")
	return resp, nil
}

// ValidateRecommendations applies the game schema to an already-decoded
// response. Gateways that return structured output use it directly.
func ValidateRecommendations(resp RecommendationResponse) error {
	if err := game.ValidateAll(resp.Recommendations); err != nil {
		log.Error().Err(err).Msg("Recommendations failed schema validation")
		return fmt.Errorf("%w: %w", ErrLLMResponseInvalid, err)
	}
	return nil
}

// ParseReviewTrendSummary turns a raw LLM reply into a ReviewTrendSummary.
func ParseReviewTrendSummary(rawResponse string) (ReviewTrendSummary, error) {
	jsonStr, err := extractJSON(rawResponse)
	if err != nil {
		return ReviewTrendSummary{}, err
	}

	var resp ReviewTrendSummary
	if err := json.Unmarshal([]byte(jsonStr), &resp); err != nil {
		log.Error().Err(err).Str("json_string", jsonStr).Msg("Failed to unmarshal review summary JSON")
		return ReviewTrendSummary{}, fmt.Errorf("%w: %w", ErrLLMResponseJSONUnmarshal, err)
	}
	if strings.TrimSpace(resp.Summary) == "" {
		return ReviewTrendSummary{}, fmt.Errorf("%w: summary", ErrLLMResponseMissingField)
	}
	return resp, nil
}
