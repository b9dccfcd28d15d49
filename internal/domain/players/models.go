package players

// Player is the normalized player shape, scoped to a team.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
}
