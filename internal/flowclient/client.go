package flowclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/karolswdev/gamescout/internal/config"
	"github.com/karolswdev/gamescout/internal/llm"
)

// Client calls recommendation flows hosted on a remote flow server. It
// implements llm.Client; prompting happens on the server, and results are
// validated here with the same schema rules as the direct provider.
type Client struct {
	BaseURL    *url.URL
	HTTPClient *http.Client
}

var _ llm.Client = (*Client)(nil)

// New creates a flow Client from the llm.flows section of cfg. It returns an
// error if the URL is missing or invalid.
func New(cfg *config.AppConfig) (*Client, error) {
	if cfg.LLM.Flows.BaseURL == "" {
		return nil, ErrFlowsURLMissing
	}
	baseURL, err := url.Parse(cfg.LLM.Flows.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFlowsURLParse, err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("%w: %q is not an absolute URL", ErrFlowsURLParse, cfg.LLM.Flows.BaseURL)
	}

	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			// Generation is slow; callers bound it further with ctx.
			Timeout: 90 * time.Second,
		},
	}, nil
}

// GenerateRecommendations implements llm.Client.
func (c *Client) GenerateRecommendations(ctx context.Context, in llm.RecommendInput) (llm.RecommendationResponse, error) {
	var out llm.RecommendationResponse
	if err := c.invoke(ctx, RecommendFlow, in, &out); err != nil {
		return llm.RecommendationResponse{}, err
	}
	if err := validateRecommendations(out); err != nil {
		return llm.RecommendationResponse{}, err
	}
	return out, nil
}

// FindSimilarGames implements llm.Client.
func (c *Client) FindSimilarGames(ctx context.Context, in llm.SimilarInput) (llm.RecommendationResponse, error) {
	var out llm.RecommendationResponse
	if err := c.invoke(ctx, SimilarFlow, in, &out); err != nil {
		return llm.RecommendationResponse{}, err
	}
	if err := validateRecommendations(out); err != nil {
		return llm.RecommendationResponse{}, err
	}
	return out, nil
}

// SummarizeReviewTrend implements llm.Client.
func (c *Client) SummarizeReviewTrend(ctx context.Context, in llm.ReviewTrendInput) (llm.ReviewTrendSummary, error) {
	var out llm.ReviewTrendSummary
	if err := c.invoke(ctx, ReviewTrendFlow, in, &out); err != nil {
		return llm.ReviewTrendSummary{}, err
	}
	if out.Summary == "" {
		return llm.ReviewTrendSummary{}, fmt.Errorf("%w: summary", llm.ErrLLMResponseMissingField)
	}
	return out, nil
}

func validateRecommendations(out llm.RecommendationResponse) error {
	if out.Recommendations == nil {
		return fmt.Errorf("%w: recommendations", llm.ErrLLMResponseMissingField)
	}
	return llm.ValidateRecommendations(out)
}

// invoke POSTs {"data": input} to {base}/{flow} and decodes the "result"
// member of a 200 response into out.
func (c *Client) invoke(ctx context.Context, flow string, input any, out any) error {
	jsonData, err := json.Marshal(FlowRequest{Data: input})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestMarshal, err)
	}

	endpointURL := c.BaseURL.JoinPath(flow)

	log.Debug().RawJSON("request_body", jsonData).Str("url", endpointURL.String()).Str("flow", flow).Msg("Sending flow request")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL.String(), bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestCreate, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequestExecute, err)
	}
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResponseDecode, err)
	}
	log.Debug().Int("status_code", resp.StatusCode).Str("flow", flow).Bytes("response_body", respBodyBytes).Msg("Received flow response")

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if decodeErr := json.Unmarshal(respBodyBytes, &errResp); decodeErr == nil && errResp.Error != nil && errResp.Error.Message != "" {
			return fmt.Errorf("%w: %s: %s (status %d)", ErrFlowError, errResp.Error.Status, errResp.Error.Message, resp.StatusCode)
		}
		return fmt.Errorf("%w (status %d)", ErrFlowErrorUnparseable, resp.StatusCode)
	}

	var envelope FlowResponse
	if err := json.Unmarshal(respBodyBytes, &envelope); err != nil {
		return fmt.Errorf("%w: %w", ErrResponseDecode, err)
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return ErrResponseMissingResult
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("%w: %w", ErrResponseDecode, err)
	}
	return nil
}
