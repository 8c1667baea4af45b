package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/karolswdev/gamescout/internal/actions"
	"github.com/karolswdev/gamescout/internal/branch"
	"github.com/karolswdev/gamescout/internal/game"
	"github.com/karolswdev/gamescout/internal/session"
)

const maxBodyBytes = 1 << 20

// controller resolves the caller's session, creating one if needed, and
// refreshes the cookie.
func (s *Server) controller(w http.ResponseWriter, r *http.Request) *branch.Controller {
	var current string
	if c, err := r.Cookie(session.CookieName); err == nil {
		current = c.Value
	}
	id, ctrl := s.sessions.Get(current)
	s.setSessionCookie(w, id.String())
	return ctrl
}

// existingController resolves the caller's session without creating one.
// Read-only routes use it so cookie-less clients leave no state behind.
func (s *Server) existingController(w http.ResponseWriter, r *http.Request) (*branch.Controller, bool) {
	c, err := r.Cookie(session.CookieName)
	if err != nil {
		return nil, false
	}
	ctrl, ok := s.sessions.Lookup(c.Value)
	if ok {
		s.setSessionCookie(w, c.Value)
	}
	return ctrl, ok
}

// currentSnapshot is the caller's tree, or an empty one without a session.
func (s *Server) currentSnapshot(w http.ResponseWriter, r *http.Request) branch.Snapshot {
	if ctrl, ok := s.existingController(w, r); ok {
		return ctrl.Snapshot()
	}
	return branch.Snapshot{Branches: []branch.Branch{}}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := newPageView(s.lang, s.currentSnapshot(w, r))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, view); err != nil {
		log.Error().Err(err).Msg("Failed to render page")
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctrl := s.controller(w, r)
	query := r.PostFormValue("query")

	if err := ctrl.Search(r.Context(), query); err != nil && !errors.Is(err, branch.ErrEmptyQuery) {
		// The message is already on the tree; the page shows it.
		log.Warn().Err(err).Msg("Search did not produce a branch")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	level, ok := levelParam(w, r)
	if !ok {
		return
	}
	ctrl, ok := s.existingController(w, r)
	if !ok {
		http.Error(w, "no active search", http.StatusBadRequest)
		return
	}

	if err := ctrl.Select(level, r.PostFormValue("title")); err != nil {
		log.Warn().Err(err).Int("level", level).Msg("Select rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/#branch-"+strconv.Itoa(level), http.StatusSeeOther)
}

func (s *Server) handleRefine(w http.ResponseWriter, r *http.Request) {
	level, ok := levelParam(w, r)
	if !ok {
		return
	}
	ctrl, ok := s.existingController(w, r)
	if !ok {
		http.Error(w, "no active search", http.StatusBadRequest)
		return
	}

	err := ctrl.Refine(r.Context(), level, r.PostFormValue("query"))
	switch {
	case err == nil:
		http.Redirect(w, r, "/#branch-"+strconv.Itoa(level+1), http.StatusSeeOther)
		return
	case errors.Is(err, branch.ErrLevelOutOfRange), errors.Is(err, branch.ErrNoSelection):
		log.Warn().Err(err).Int("level", level).Msg("Refine rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, branch.ErrEmptyQuery), errors.Is(err, branch.ErrStale):
	default:
		log.Warn().Err(err).Int("level", level).Msg("Refine did not produce a branch")
	}
	http.Redirect(w, r, "/#branch-"+strconv.Itoa(level), http.StatusSeeOther)
}

func levelParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	level, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil || level < 0 {
		http.Error(w, "invalid branch level", http.StatusBadRequest)
		return 0, false
	}
	return level, true
}

type recommendationsRequest struct {
	Query string `json:"query"`
}

type reviewSummaryRequest struct {
	RecentReviewTrend string `json:"recentReviewTrend"`
}

func (s *Server) handleAPIRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.actions.GetGameRecommendations(r.Context(), req.Query))
}

func (s *Server) handleAPISimilar(w http.ResponseWriter, r *http.Request) {
	var req actions.FindSimilarRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.actions.FindSimilarGames(r.Context(), req))
}

func (s *Server) handleAPIReviewSummary(w http.ResponseWriter, r *http.Request) {
	var req reviewSummaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.actions.SummarizeReviewTrend(r.Context(), req.RecentReviewTrend))
}

func (s *Server) handleAPISession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.currentSnapshot(w, r))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected malformed JSON body")
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// cardView is one game card as rendered.
type cardView struct {
	Game     game.Game
	Selected bool
	Faded    bool
}

type branchView struct {
	branch.Branch
	Cards []cardView
	Focus *game.Game
}

type pageView struct {
	Lang      string
	Text      uiText
	Query     string
	Searching bool
	Error     string
	Branches  []branchView
}

func newPageView(lang string, snap branch.Snapshot) pageView {
	view := pageView{
		Lang:      lang,
		Text:      textFor(lang),
		Query:     snap.OriginalQuery,
		Searching: snap.Searching,
		Error:     snap.SearchError,
		Branches:  make([]branchView, 0, len(snap.Branches)),
	}
	for _, b := range snap.Branches {
		bv := branchView{Branch: b, Cards: make([]cardView, 0, len(b.Games))}
		sel, hasSel := b.SelectedGame()
		if hasSel {
			bv.Focus = &sel
		}
		for _, g := range b.Games {
			selected := hasSel && g.SameAs(sel)
			bv.Cards = append(bv.Cards, cardView{Game: g, Selected: selected, Faded: hasSel && !selected})
		}
		view.Branches = append(view.Branches, bv)
	}
	return view
}
