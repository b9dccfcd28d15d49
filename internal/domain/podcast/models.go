package podcast

import "fmt"

// Request is the generation payload, built incrementally across wizard steps.
// Only Team and Language are mandatory at submission time; the remaining
// fields default from the team's last game when left unset.
type Request struct {
	Team      string   `json:"team"`
	Players   []string `json:"players"`
	Timeframe string   `json:"timeframe"`
	GameType  string   `json:"game_type"`
	Language  string   `json:"language"`
	Opponent  string   `json:"opponent"`
}

// Defaults used when a new request is started.
const (
	DefaultTimeframe = "Last game"
	DefaultGameType  = "Regular Season"
)

// NewRequest returns a request seeded with the standard defaults.
func NewRequest(language string) Request {
	if language == "" {
		language = DefaultLanguage
	}
	return Request{
		Players:   []string{},
		Timeframe: DefaultTimeframe,
		GameType:  DefaultGameType,
		Language:  language,
	}
}

// Response describes the playable artifact returned by the generation
// service. URL is always populated after normalization; AudioURL is kept as
// the wire alias.
type Response struct {
	URL      string  `json:"url"`
	AudioURL string  `json:"audio_url,omitempty"`
	Title    string  `json:"title,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Message  string  `json:"message,omitempty"`
}

// DefaultTitle is the title synthesized when the service omits one.
func DefaultTitle(team string) string {
	return fmt.Sprintf("Podcast: %s", team)
}
