package teams

// Team is the normalized team shape exposed by the gateway.
// Kept in its own package to keep domain models modular and reusable across
// the gateway, wizard, and views.
type Team struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// Key returns the identity key used to scope dependent fetches.
// Teams are interchangeable with their display name in request payloads.
func (t Team) Key() string {
	return t.Name
}
