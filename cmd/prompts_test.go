package cmd

import (
	"bytes"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karolswdev/gamescout/internal/config"
	"github.com/karolswdev/gamescout/internal/llm"
)

func TestPromptsShow(t *testing.T) {
	t.Run("OverrideAndDefaults", func(t *testing.T) {
		mockProvider := new(MockConfigProvider)
		mockProvider.On("LoadPromptTemplates").Return(config.PromptTemplates{Recommend: "Games like {{.Query}}\n"}, nil)
		var out bytes.Buffer

		require.NoError(t, promptsShowRunE(mockProvider, &out, nil))

		output := out.String()
		assert.Contains(t, output, "--- recommend ("+config.RecommendPromptFileName+") ---\nGames like {{.Query}}\n")
		assert.Contains(t, output, "--- similar (built-in) ---")
		assert.Contains(t, output, "--- review (built-in) ---\n"+llm.DefaultReviewTrendTemplate)
	})

	t.Run("Named", func(t *testing.T) {
		mockProvider := new(MockConfigProvider)
		mockProvider.On("LoadPromptTemplates").Return(config.PromptTemplates{}, nil)
		var out bytes.Buffer

		require.NoError(t, promptsShowRunE(mockProvider, &out, []string{"review"}))
		assert.NotContains(t, out.String(), "recommend")
		assert.Contains(t, out.String(), "--- review (built-in) ---")
	})

	t.Run("UnknownName", func(t *testing.T) {
		mockProvider := new(MockConfigProvider)
		mockProvider.On("LoadPromptTemplates").Return(config.PromptTemplates{}, nil)

		err := promptsShowRunE(mockProvider, &bytes.Buffer{}, []string{"system"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownPrompt)
	})

	t.Run("LoadError", func(t *testing.T) {
		mockProvider := new(MockConfigProvider)
		mockProvider.On("LoadPromptTemplates").Return(config.PromptTemplates{}, config.ErrPromptRead)

		err := promptsShowRunE(mockProvider, &bytes.Buffer{}, nil)
		assert.ErrorIs(t, err, config.ErrPromptRead)
	})
}

func TestPromptsPath(t *testing.T) {
	mockProvider := new(MockConfigProvider)
	dir := filepath.Join("home", "user", ".gamescout")
	mockProvider.On("EnsureConfigDir").Return(dir, nil)
	var out bytes.Buffer

	require.NoError(t, promptsPathRunE(mockProvider, &out))
	assert.Contains(t, out.String(), filepath.Join(dir, config.SimilarPromptFileName))
	assert.Contains(t, out.String(), filepath.Join(dir, config.ReviewPromptFileName))
}

func TestPromptsEdit(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "my-editor")
	dir := t.TempDir()

	t.Run("LaunchesEditorOnPromptFile", func(t *testing.T) {
		mockProvider := new(MockConfigProvider)
		mockProvider.On("CreateDefaultConfigFiles", "").Return(nil)
		mockProvider.On("EnsureConfigDir").Return(dir, nil)

		var launched *exec.Cmd
		err := promptsEditRunE(mockProvider, "similar", func(c *exec.Cmd) error {
			launched = c
			return nil
		})

		require.NoError(t, err)
		require.NotNil(t, launched)
		assert.Equal(t, []string{"my-editor", filepath.Join(dir, config.SimilarPromptFileName)}, launched.Args)
		mockProvider.AssertExpectations(t)
	})

	t.Run("EditorFails", func(t *testing.T) {
		mockProvider := new(MockConfigProvider)
		mockProvider.On("CreateDefaultConfigFiles", "").Return(nil)
		mockProvider.On("EnsureConfigDir").Return(dir, nil)
		editorErr := errors.New("exit status 1")

		err := promptsEditRunE(mockProvider, "recommend", func(*exec.Cmd) error { return editorErr })
		require.Error(t, err)
		assert.ErrorIs(t, err, editorErr)
		assert.Contains(t, err.Error(), "my-editor")
	})

	t.Run("UnknownPrompt", func(t *testing.T) {
		mockProvider := new(MockConfigProvider)
		err := promptsEditRunE(mockProvider, "context", func(*exec.Cmd) error { return nil })
		assert.ErrorIs(t, err, ErrUnknownPrompt)
		mockProvider.AssertNotCalled(t, "CreateDefaultConfigFiles", "")
	})
}

func TestResolveEditor(t *testing.T) {
	t.Setenv("VISUAL", "code -w")
	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "code -w", resolveEditor())

	t.Setenv("VISUAL", "")
	assert.Equal(t, "nano", resolveEditor())
}
