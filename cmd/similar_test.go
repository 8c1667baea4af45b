package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/karolswdev/gamescout/internal/actions"
	"github.com/karolswdev/gamescout/internal/game"
	"github.com/karolswdev/gamescout/internal/llm"
)

func setupSimilarFlags(cmd *cobra.Command, gamePath, query, originalQuery string) {
	cmd.Flags().StringP("game", "g", "", "")
	cmd.Flags().StringP("query", "q", "", "")
	cmd.Flags().String("original-query", "", "")
	_ = cmd.Flags().Set("game", gamePath)
	if query != "" {
		_ = cmd.Flags().Set("query", query)
	}
	if originalQuery != "" {
		_ = cmd.Flags().Set("original-query", originalQuery)
	}
}

func writeGameFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestSimilarCmd_JSONGameFile(t *testing.T) {
	data, err := json.Marshal(testHades)
	require.NoError(t, err)
	path := writeGameFile(t, "hades.json", data)

	m := new(MockLLMClient)
	m.On("FindSimilarGames", mock.Anything, llm.SimilarInput{Game: testHades, Query: "more co-op", OriginalQuery: "roguelike"}).
		Return(llm.RecommendationResponse{Recommendations: []game.Game{testDeadCells}}, nil)
	cmd, out, _ := newOutputCmd("")
	setupSimilarFlags(cmd, path, "more co-op", "roguelike")

	err = similarRunE(newTestActions(m), cmd, nil)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "1. Dead Cells [Action] $24.99")
	m.AssertExpectations(t)
}

func TestSimilarCmd_YAMLFromStdin(t *testing.T) {
	yamlGame := `title: Celeste
genre: Platformer
summary: Climb the mountain.
price: $19.99
recentReviewTrend: Mixed
communityActivity: 7
`
	m := new(MockLLMClient)
	m.On("FindSimilarGames", mock.Anything, llm.SimilarInput{Game: testCeleste, Query: "shorter"}).
		Return(llm.RecommendationResponse{Recommendations: []game.Game{testHades}}, nil)
	cmd, out, _ := newOutputCmd("")
	cmd.SetIn(strings.NewReader(yamlGame))
	setupSimilarFlags(cmd, "-", "", "")

	err := similarRunE(newTestActions(m), cmd, []string{"shorter"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Hades")
	m.AssertExpectations(t)
}

func TestSimilarCmd_InvalidGameRejectedBeforeCall(t *testing.T) {
	path := writeGameFile(t, "bad.json", []byte(`{"title":"No Genre","communityActivity":99}`))

	m := new(MockLLMClient)
	cmd, _, errOut := newOutputCmd("")
	setupSimilarFlags(cmd, path, "anything", "")

	err := similarRunE(newTestActions(m), cmd, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrActionFailed)
	assert.Contains(t, errOut.String(), actions.MessagesFor("en").InvalidGame)
	m.AssertNotCalled(t, "FindSimilarGames", mock.Anything, mock.Anything)
}

func TestSimilarCmd_MissingFile(t *testing.T) {
	m := new(MockLLMClient)
	cmd, _, errOut := newOutputCmd("")
	setupSimilarFlags(cmd, filepath.Join(t.TempDir(), "nope.json"), "x", "")

	err := similarRunE(newTestActions(m), cmd, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGameFileRead)
	assert.Contains(t, errOut.String(), "could not open game file")
}

func TestSimilarCmd_UnparseableFile(t *testing.T) {
	path := writeGameFile(t, "broken.yaml", []byte("title: [unclosed"))

	m := new(MockLLMClient)
	cmd, _, _ := newOutputCmd("")
	setupSimilarFlags(cmd, path, "x", "")

	err := similarRunE(newTestActions(m), cmd, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGameFileRead)
}
