package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/karolswdev/gamescout/internal/actions"
	"github.com/karolswdev/gamescout/internal/branch"
	"github.com/karolswdev/gamescout/internal/game"
	"github.com/karolswdev/gamescout/internal/session"
)

type mockActions struct {
	mock.Mock
}

func (m *mockActions) GetGameRecommendations(ctx context.Context, query string) actions.Result {
	return m.Called(ctx, query).Get(0).(actions.Result)
}

func (m *mockActions) FindSimilarGames(ctx context.Context, req actions.FindSimilarRequest) actions.Result {
	return m.Called(ctx, req).Get(0).(actions.Result)
}

func (m *mockActions) SummarizeReviewTrend(ctx context.Context, trend string) actions.SummaryResult {
	return m.Called(ctx, trend).Get(0).(actions.SummaryResult)
}

var (
	stardew = game.Game{Title: "Stardew Valley", Genre: "シミュレーション", Summary: "農場生活。", Price: "¥1,480", RecentReviewTrend: "非常に好評", CommunityActivity: game.Activity(9),
		StoreURLs: []game.StoreURL{{Platform: "Steam", URL: "https://store.steampowered.com/app/413150"}}}
	terraria = game.Game{Title: "Terraria", Genre: "アクション", Summary: "掘って戦う。", Price: "¥980", RecentReviewTrend: "賛否両論", CommunityActivity: game.Activity(12)}
	spiritf  = game.Game{Title: "Spiritfarer", Genre: "アドベンチャー", Summary: "魂を運ぶ。", Price: "¥3,090", CommunityActivity: game.Activity(7)}
)

func newTestServer(t *testing.T, act *mockActions) (*httptest.Server, *http.Client) {
	t.Helper()
	srv, err := NewServer(act, session.NewStore(act, time.Hour), Options{Language: "ja"})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return ts, &http.Client{Jar: jar}
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) (int, string) {
	t.Helper()
	resp, err := client.PostForm(target, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func sessionSnapshot(t *testing.T, client *http.Client, base string) branch.Snapshot {
	t.Helper()
	resp, err := client.Get(base + "/api/session")
	require.NoError(t, err)
	defer resp.Body.Close()
	var snap branch.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	return snap
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestIndex_Welcome(t *testing.T) {
	ts, client := newTestServer(t, new(mockActions))

	resp, err := client.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "どんなゲームをお探しですか？")
	assert.Nil(t, sessionCookie(resp), "viewing the page starts no session")
}

func TestSearch_StartsSessionCookie(t *testing.T) {
	act := new(mockActions)
	act.On("GetGameRecommendations", mock.Anything, "宇宙").Return(actions.Result{Recommendations: []game.Game{spiritf}}).Once()
	ts, _ := newTestServer(t, act)

	noRedirect := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := noRedirect.PostForm(ts.URL+"/search", url.Values{"query": {"宇宙"}})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	c := sessionCookie(resp)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
}

func TestReadOnlyRoutes_DoNotCreateSessions(t *testing.T) {
	act := new(mockActions)
	store := session.NewStore(act, time.Hour)
	srv, err := NewServer(act, store, Options{Language: "ja"})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	for i := 0; i < 5; i++ {
		for _, path := range []string{"/", "/api/session"} {
			resp, err := http.Get(ts.URL + path)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		}
		status, _ := postForm(t, http.DefaultClient, ts.URL+"/branches/0/select", url.Values{"title": {"x"}})
		assert.Equal(t, http.StatusBadRequest, status)
	}
	assert.Zero(t, store.Len())

	resp, err := http.Get(ts.URL + "/api/session")
	require.NoError(t, err)
	defer resp.Body.Close()
	var snap map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, []any{}, snap["branches"])
}

func TestIndex_RegionalLanguageTag(t *testing.T) {
	act := new(mockActions)
	srv, err := NewServer(act, session.NewStore(act, time.Hour), Options{Language: "en-US"})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Contains(t, string(body), `<html lang="en-US">`)
	assert.Contains(t, string(body), "What kind of game are you looking for?")
	assert.NotContains(t, string(body), "どんなゲームをお探しですか？")
}

func TestDrillDownFlow(t *testing.T) {
	act := new(mockActions)
	act.On("GetGameRecommendations", mock.Anything, "のんびり").Return(actions.Result{Recommendations: []game.Game{stardew, terraria}}).Once()
	act.On("FindSimilarGames", mock.Anything, actions.FindSimilarRequest{Game: stardew, Query: "もっと短く", OriginalQuery: "のんびり"}).
		Return(actions.Result{Recommendations: []game.Game{spiritf}}).Once()
	ts, client := newTestServer(t, act)

	status, page := postForm(t, client, ts.URL+"/search", url.Values{"query": {"のんびり"}})
	require.Equal(t, http.StatusOK, status, "303 is followed back to the page")
	assert.Contains(t, page, "あなたへのおすすめゲームはこちらです！")
	assert.Contains(t, page, "Stardew Valley")
	assert.Contains(t, page, "badge-positive")
	assert.Contains(t, page, "badge-mixed")
	assert.Contains(t, page, "10/10", "score is clamped for display")
	assert.Contains(t, page, "https://store.steampowered.com/app/413150")

	status, page = postForm(t, client, ts.URL+"/branches/0/select", url.Values{"title": {"Stardew Valley"}})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "「Stardew Valley」に関して、さらに絞り込む条件は？")
	assert.Contains(t, page, "card faded", "the sibling card fades")

	status, page = postForm(t, client, ts.URL+"/branches/0/refine", url.Values{"query": {"もっと短く"}})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, page, "「Stardew Valley」に似たゲーム")
	assert.Contains(t, page, "Spiritfarer")

	snap := sessionSnapshot(t, client, ts.URL)
	require.Len(t, snap.Branches, 2)
	assert.Equal(t, "Stardew Valley", snap.Branches[1].Parent.Title)
	act.AssertExpectations(t)
}

func TestSearch_FailureShowsMessage(t *testing.T) {
	act := new(mockActions)
	act.On("GetGameRecommendations", mock.Anything, "x").Return(actions.Result{Error: "AIからの応答の取得中にエラーが発生しました。"}).Once()
	ts, client := newTestServer(t, act)

	_, page := postForm(t, client, ts.URL+"/search", url.Values{"query": {"x"}})
	assert.Contains(t, page, `class="error"`)
	assert.Contains(t, page, "AIからの応答の取得中にエラーが発生しました。")
	assert.Empty(t, sessionSnapshot(t, client, ts.URL).Branches)
}

func TestSearch_EmptyQueryMakesNoCall(t *testing.T) {
	act := new(mockActions)
	ts, client := newTestServer(t, act)

	status, _ := postForm(t, client, ts.URL+"/search", url.Values{"query": {"  "}})
	assert.Equal(t, http.StatusOK, status)
	act.AssertNotCalled(t, "GetGameRecommendations", mock.Anything, mock.Anything)
}

func TestBranchRoutes_BadRequests(t *testing.T) {
	act := new(mockActions)
	ts, client := newTestServer(t, act)

	status, _ := postForm(t, client, ts.URL+"/branches/abc/select", url.Values{"title": {"x"}})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = postForm(t, client, ts.URL+"/branches/0/select", url.Values{"title": {"x"}})
	assert.Equal(t, http.StatusBadRequest, status, "no branch 0 before any search")

	status, _ = postForm(t, client, ts.URL+"/branches/3/refine", url.Values{"query": {"x"}})
	assert.Equal(t, http.StatusBadRequest, status)
	act.AssertNotCalled(t, "FindSimilarGames", mock.Anything, mock.Anything)
}

func postJSON(t *testing.T, target, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(target, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestAPI(t *testing.T) {
	act := new(mockActions)
	act.On("GetGameRecommendations", mock.Anything, "宇宙").Return(actions.Result{Recommendations: []game.Game{spiritf}}).Once()
	act.On("GetGameRecommendations", mock.Anything, "").Return(actions.Result{Error: "質問を入力してください。"}).Once()
	act.On("FindSimilarGames", mock.Anything, actions.FindSimilarRequest{Game: spiritf, Query: "co-op"}).
		Return(actions.Result{}).Once()
	act.On("SummarizeReviewTrend", mock.Anything, "好評").Return(actions.SummaryResult{Summary: "評判は良い。"}).Once()
	ts, _ := newTestServer(t, act)

	t.Run("Recommendations", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/api/recommendations", `{"query":"宇宙"}`)
		assert.Equal(t, http.StatusOK, status)
		recs := body["recommendations"].([]any)
		require.Len(t, recs, 1)
		assert.Equal(t, "Spiritfarer", recs[0].(map[string]any)["title"])
		assert.NotContains(t, body, "error")
	})

	t.Run("RecommendationsError", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/api/recommendations", `{"query":""}`)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "質問を入力してください。", body["error"])
		assert.NotContains(t, body, "recommendations")
	})

	t.Run("Similar", func(t *testing.T) {
		payload, err := json.Marshal(actions.FindSimilarRequest{Game: spiritf, Query: "co-op"})
		require.NoError(t, err)
		status, body := postJSON(t, ts.URL+"/api/similar", string(payload))
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, []any{}, body["recommendations"])
	})

	t.Run("ReviewSummary", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/api/review-summary", `{"recentReviewTrend":"好評"}`)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "評判は良い。", body["summary"])
	})

	t.Run("MalformedBody", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/api/recommendations", `{"query":`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "malformed request body", body["error"])
	})

	t.Run("WrongContentType", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/recommendations", "text/plain", strings.NewReader(`{"query":"x"}`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	})

	act.AssertExpectations(t)
}

func TestHealthzAndMetrics(t *testing.T) {
	ts, client := newTestServer(t, new(mockActions))

	resp, err := client.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	resp, err = client.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}
