package games

// Game is the normalized game shape. Two flavors are consumed: the single
// "last game" and the ordered "recent games" list (most-recent-first).
type Game struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Opponent string `json:"opponent"`
	Type     string `json:"type"`
}

// RecentGamesCount bounds the recent-games history fetch.
const RecentGamesCount = 5
