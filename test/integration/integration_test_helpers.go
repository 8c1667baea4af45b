//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
	keyring "github.com/zalando/go-keyring"

	"github.com/karolswdev/gamescout/cmd"
	"github.com/karolswdev/gamescout/internal/config"
	"github.com/karolswdev/gamescout/internal/flowclient"
)

// mockServer starts an httptest server that is closed when the test ends.
func mockServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// chatCompletionHandler answers every chat completion with content and counts
// the calls it served.
func chatCompletionHandler(t *testing.T, content string, calls *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat/completions", r.URL.Path)

		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)
		*calls++

		resp := openai.ChatCompletionResponse{
			ID:    "chatcmpl-test",
			Model: req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
				FinishReason: openai.FinishReasonStop,
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

// flowHandler serves the named flows with the given results, wrapped in the
// flow server's {"result": ...} envelope.
func flowHandler(t *testing.T, results map[string]any, seen map[string]json.RawMessage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		flow := filepath.Base(r.URL.Path)
		result, ok := results[flow]
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintf(w, `{"error":{"status":"NOT_FOUND","message":"no flow %s"}}`, flow)
			return
		}

		var req flowclient.FlowRequest
		var raw json.RawMessage
		req.Data = &raw
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if seen != nil {
			seen[flow] = raw
		}

		body, err := json.Marshal(result)
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(flowclient.FlowResponse{Result: body}))
	}
}

// setupTestEnvironment writes config.yaml into a temporary config directory,
// points GAMESCOUT_CONFIG_DIR at it and swaps the OS keychain for an
// in-memory one.
func setupTestEnvironment(t *testing.T, configYAML string) string {
	t.Helper()
	keyring.MockInit()
	t.Setenv(config.EnvAPIKeyName, "")

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, config.DefaultConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte(configYAML), 0600), "Failed to write temp config file")
	t.Setenv(config.ConfigDirEnvVar, tempDir)
	return tempDir
}

func openAIConfigYAML(baseURL string) string {
	return fmt.Sprintf(`
llm:
  provider: "openai"
  timeout: "10s"
  openai:
    model_name: "test-model"
    base_url: "%s"
ui:
  language: "en"
`, baseURL)
}

func flowsConfigYAML(baseURL string) string {
	return fmt.Sprintf(`
llm:
  provider: "flows"
  timeout: "10s"
  flows:
    base_url: "%s"
ui:
  language: "en"
`, baseURL)
}

// executeScoutCommand runs the scout root command in-process with args and
// returns what it wrote to stdout and stderr. GAMESCOUT_CONFIG_DIR must
// already point at the test's config directory.
func executeScoutCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return executeScoutCommandContext(t, context.Background(), args...)
}

// executeScoutCommandContext is executeScoutCommand with a caller-controlled
// context, for long-running commands such as serve.
func executeScoutCommandContext(t *testing.T, ctx context.Context, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	originalLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(originalLevel) })

	var outBuf, errBuf bytes.Buffer
	rootCmd := cmd.NewRootCmd()
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs(args)

	execErr := rootCmd.ExecuteContext(ctx)
	return outBuf.String(), errBuf.String(), execErr
}
