package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/karolswdev/gamescout/internal/actions"
	"github.com/karolswdev/gamescout/internal/llm"
)

func TestReviewCmd(t *testing.T) {
	testCases := []struct {
		name     string
		format   string
		expected string
	}{
		{name: "Text", format: "", expected: "Players praise the new patch.\n"},
		{name: "JSON", format: outputJSON, expected: "{\n  \"summary\": \"Players praise the new patch.\"\n}\n"},
		{name: "YAML", format: outputYAML, expected: "summary: Players praise the new patch.\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := new(MockLLMClient)
			m.On("SummarizeReviewTrend", mock.Anything, llm.ReviewTrendInput{RecentReviewTrend: "Very Positive since 1.2"}).
				Return(llm.ReviewTrendSummary{Summary: "Players praise the new patch."}, nil)
			cmd, out, _ := newOutputCmd(tc.format)

			err := reviewRunE(newTestActions(m), cmd, []string{"Very", "Positive", "since", "1.2"})

			require.NoError(t, err)
			assert.Equal(t, tc.expected, out.String())
			m.AssertExpectations(t)
		})
	}
}

func TestReviewCmd_Failure(t *testing.T) {
	m := new(MockLLMClient)
	m.On("SummarizeReviewTrend", mock.Anything, mock.Anything).
		Return(llm.ReviewTrendSummary{}, errors.New("boom"))
	cmd, out, errOut := newOutputCmd("")

	err := reviewRunE(newTestActions(m), cmd, []string{"Mixed"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrActionFailed)
	assert.Contains(t, errOut.String(), actions.MessagesFor("en").SummaryFailed)
	assert.Empty(t, out.String())
}
