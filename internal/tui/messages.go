package tui

// stateChangedMsg is sent whenever the controller mutates state, including
// completions of the concurrent Configure-step fetches.
type stateChangedMsg struct{}

// teamsRequestedMsg signals that the initial teams load finished (success or
// failure lands in the controller snapshot either way).
type teamsRequestedMsg struct{}

// submitFinishedMsg signals that a generation attempt returned.
type submitFinishedMsg struct{}
