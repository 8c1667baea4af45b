package flowclient

import "encoding/json"

// Flow names exposed by the flow server. Each is served at {base}/{name}.
const (
	RecommendFlow   = "generateGameRecommendationsFlow"
	SimilarFlow     = "findSimilarGamesFlow"
	ReviewTrendFlow = "summarizeReviewTrendsFlow"
)

// FlowRequest wraps a flow input the way the flow server expects it.
type FlowRequest struct {
	Data any `json:"data"`
}

// FlowResponse is the success envelope. Result is decoded by the caller into
// the flow's output type.
type FlowResponse struct {
	Result json.RawMessage `json:"result"`
}

// FlowError is the body of a failed flow call.
type FlowError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse defines the JSON structure used by the flow server to return
// error messages when a request fails.
type ErrorResponse struct {
	Error *FlowError `json:"error"`
}
