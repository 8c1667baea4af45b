package branch

import "errors"

// ErrEmptyQuery indicates a blank search or refinement query. No request is made.
var ErrEmptyQuery = errors.New("query is empty")

// ErrLevelOutOfRange indicates the level names no branch in the current sequence.
var ErrLevelOutOfRange = errors.New("branch level out of range")

// ErrNoSelection indicates a refinement was requested on a branch with no selected game.
var ErrNoSelection = errors.New("no game selected in branch")

// ErrUnknownGame indicates the title does not match any game in the branch.
var ErrUnknownGame = errors.New("game not found in branch")

// ErrStale indicates a result arrived for a branch that no longer exists,
// because a newer search or refinement replaced it. The result is discarded.
var ErrStale = errors.New("result discarded: branch was replaced")

// ErrRequestFailed indicates the recommendation request failed. The
// user-facing message is wrapped and also stored on the tree.
var ErrRequestFailed = errors.New("recommendation request failed")
