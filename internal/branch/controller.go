// Package branch holds the drill-down tree: an ordered sequence of
// recommendation branches where branch N+1 refines a game selected in branch N.
package branch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/karolswdev/gamescout/internal/actions"
	"github.com/karolswdev/gamescout/internal/game"
)

// Source is implemented by actions.Actions.
type Source interface {
	GetGameRecommendations(ctx context.Context, query string) actions.Result
	FindSimilarGames(ctx context.Context, req actions.FindSimilarRequest) actions.Result
}

// Branch is one row of recommendations. Level 0 has no parent; level N>0 was
// produced from a game selected in level N-1.
type Branch struct {
	Games    []game.Game `json:"games"`
	Parent   *game.Game  `json:"parentGame,omitempty"`
	Level    int         `json:"level"`
	Selected string      `json:"selectedTitle,omitempty"`
	Error    string      `json:"error,omitempty"`
	Finding  bool        `json:"isFinding"`
}

// SelectedGame returns the selected game, if any.
func (b Branch) SelectedGame() (game.Game, bool) {
	if b.Selected == "" {
		return game.Game{}, false
	}
	for _, g := range b.Games {
		if g.Title == b.Selected {
			return g, true
		}
	}
	return game.Game{}, false
}

// Snapshot is a point-in-time copy of the controller state.
type Snapshot struct {
	OriginalQuery string   `json:"originalQuery,omitempty"`
	Branches      []Branch `json:"branches"`
	Searching     bool     `json:"isSearching"`
	SearchError   string   `json:"searchError,omitempty"`
}

type branchState struct {
	Branch
	inflight int
}

// Controller owns one user's branch sequence. It is safe for concurrent use;
// requests run outside the lock and their results are applied under it.
type Controller struct {
	src Source

	mu            sync.Mutex
	branches      []*branchState
	originalQuery string
	epoch         uint64
	searching     int
	searchError   string
}

// NewController returns a Controller with an empty sequence.
func NewController(src Source) *Controller {
	return &Controller{src: src}
}

// Search starts a new drill-down. The sequence is cleared before the request;
// on success it holds a single level-0 branch, on failure it stays empty and
// the message is kept as the search error.
func (c *Controller) Search(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}

	c.mu.Lock()
	c.epoch++
	epoch := c.epoch
	c.branches = nil
	c.originalQuery = query
	c.searchError = ""
	c.searching++
	c.mu.Unlock()

	res := c.src.GetGameRecommendations(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.searching--
	if c.epoch != epoch {
		log.Debug().Str("query", query).Msg("Discarding result of superseded search")
		return ErrStale
	}
	if res.Failed() {
		c.searchError = res.Error
		return fmt.Errorf("%w: %s", ErrRequestFailed, res.Error)
	}
	c.branches = []*branchState{{Branch: Branch{Games: cloneGames(res.Recommendations), Level: 0}}}
	log.Debug().Str("query", query).Int("games", len(res.Recommendations)).Msg("Search produced level 0 branch")
	return nil
}

// Select toggles the selection in branch level: selecting the selected title
// clears it, any other title replaces it.
func (c *Controller) Select(level int, title string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, err := c.branchAt(level)
	if err != nil {
		return err
	}
	if b.Selected == title {
		b.Selected = ""
		return nil
	}
	if !containsTitle(b.Games, title) {
		return fmt.Errorf("%w: %q at level %d", ErrUnknownGame, title, level)
	}
	b.Selected = title
	return nil
}

// Refine asks for games similar to the game selected in branch level.
func (c *Controller) Refine(ctx context.Context, level int, query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}

	c.mu.Lock()
	b, err := c.branchAt(level)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	parent, ok := b.SelectedGame()
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: level %d", ErrNoSelection, level)
	}

	return c.RefineWith(ctx, level, parent, query)
}

// RefineWith asks for games similar to parent from branch level. On success
// every branch after level is dropped and the result is appended as level+1.
// On failure only branch level's error text changes.
func (c *Controller) RefineWith(ctx context.Context, level int, parent game.Game, query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}

	c.mu.Lock()
	b, err := c.branchAt(level)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	b.inflight++
	b.Finding = true
	b.Error = ""
	originalQuery := c.originalQuery
	c.mu.Unlock()

	res := c.src.FindSimilarGames(ctx, actions.FindSimilarRequest{
		Game:          parent,
		Query:         query,
		OriginalQuery: originalQuery,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	b.inflight--
	b.Finding = b.inflight > 0

	// b may have been dropped by a newer search or a refinement further up.
	if level >= len(c.branches) || c.branches[level] != b {
		log.Debug().Int("level", level).Str("parent", parent.Title).Msg("Discarding result for replaced branch")
		return ErrStale
	}
	if res.Failed() {
		b.Error = res.Error
		return fmt.Errorf("%w: %s", ErrRequestFailed, res.Error)
	}

	p := parent
	next := &branchState{Branch: Branch{Games: cloneGames(res.Recommendations), Parent: &p, Level: level + 1}}
	c.branches = append(c.branches[:level+1:level+1], next)
	log.Debug().Int("level", level+1).Str("parent", parent.Title).Int("games", len(res.Recommendations)).Msg("Refinement appended branch")
	return nil
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		OriginalQuery: c.originalQuery,
		Branches:      make([]Branch, 0, len(c.branches)),
		Searching:     c.searching > 0,
		SearchError:   c.searchError,
	}
	for _, b := range c.branches {
		cp := b.Branch
		cp.Games = cloneGames(b.Games)
		if b.Parent != nil {
			p := cloneGames([]game.Game{*b.Parent})[0]
			cp.Parent = &p
		}
		snap.Branches = append(snap.Branches, cp)
	}
	return snap
}

// Len returns the number of branches.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.branches)
}

func (c *Controller) branchAt(level int) (*branchState, error) {
	if level < 0 || level >= len(c.branches) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrLevelOutOfRange, level, len(c.branches))
	}
	return c.branches[level], nil
}

func containsTitle(games []game.Game, title string) bool {
	for _, g := range games {
		if g.Title == title {
			return true
		}
	}
	return false
}

func cloneGames(games []game.Game) []game.Game {
	out := make([]game.Game, len(games))
	for i, g := range games {
		if g.StoreURLs != nil {
			g.StoreURLs = append([]game.StoreURL(nil), g.StoreURLs...)
		}
		if g.CommunityActivity != nil {
			g.CommunityActivity = game.Activity(*g.CommunityActivity)
		}
		out[i] = g
	}
	return out
}
