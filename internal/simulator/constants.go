package simulator

import "time"

// Path constants.
const (
	// walkRadiusDegrees is roughly 200m at the campus latitude.
	walkRadiusDegrees = 0.0018
	pollInterval      = 25 * time.Millisecond
)

// Expected locate outcomes.
const (
	OutcomePermissionRequested = "permission_requested"
	OutcomeAlertShown          = "alert_shown"
	OutcomeCameraMoved         = "camera_moved"
	OutcomeUpdatesStarted      = "updates_started"
)
