package model

// ClubStatus is the lifecycle state of a club listing.
type ClubStatus string

const (
	ClubActive          ClubStatus = "active"
	ClubPendingApproval ClubStatus = "pending_approval"
)

// Club is a student organization listing.
type Club struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Icon        string     `json:"icon"`
	Members     int        `json:"members"`
	Category    string     `json:"category"`
	MeetingTime string     `json:"meetingTime,omitempty"`
	Location    string     `json:"location,omitempty"`
	Advisor     string     `json:"advisor,omitempty"`
	Description string     `json:"description,omitempty"`
	Status      ClubStatus `json:"status"`
	Joined      bool       `json:"joined"`
}

// ClubDraft is the user input for creating a club.
type ClubDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	MeetingTime string `json:"meetingTime"`
	Location    string `json:"location"`
	Advisor     string `json:"advisor"`
	Icon        string `json:"icon"`
}

// Building is a campus building with a floor plan document.
type Building struct {
	Name string `json:"name"`
	// FloorPlan is the document name without extension.
	FloorPlan string `json:"floorPlan"`
}
