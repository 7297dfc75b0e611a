package model

// CampusEvent is an event delivered by the remote events endpoint.
// The wire body carries no id; ID is assigned on decode.
type CampusEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// Event is a listing entry shown on the events tab.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Reminded    bool   `json:"reminded"`
}
