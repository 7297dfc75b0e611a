// Package emergency describes the emergency assistance screen.
package emergency

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/campnav/pkg/logger"
	"github.com/okian/campnav/pkg/metrics"
)

// PublicSafetyPhone is the campus public safety number.
const PublicSafetyPhone = "+15855551234"

// ComingSoon is the answer to an emergency alert request.
const ComingSoon = "Emergency alert functionality coming soon!"

// ErrUnknownOption is returned for an alert kind that is not offered.
var ErrUnknownOption = errors.New("unknown emergency option")

// Option is one emergency action.
type Option struct {
	Title       string `json:"title"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Info is everything the emergency screen shows.
type Info struct {
	Phone   string   `json:"phone"`
	Options []Option `json:"options"`
}

// Ack answers an alert request.
type Ack struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Options returns the offered emergency actions.
func Options() []Option {
	return []Option{
		{Title: "Medical Emergency", Icon: "cross.fill", Description: "Request medical assistance"},
		{Title: "Safety Concern", Icon: "person.fill.viewfinder", Description: "Report a safety threat"},
		{Title: "Other Emergency", Icon: "questionmark.circle.fill", Description: "Get help for other situations"},
	}
}

// GetInfo returns the emergency screen content.
func GetInfo() Info {
	return Info{Phone: PublicSafetyPhone, Options: Options()}
}

// RaiseAlert acknowledges an alert request. No alert is dispatched yet.
func RaiseAlert(ctx context.Context, log logger.Logger, kind string) (Ack, error) {
	found := false
	for _, o := range Options() {
		if o.Title == kind {
			found = true
			break
		}
	}
	if !found {
		return Ack{}, fmt.Errorf("%w: %q", ErrUnknownOption, kind)
	}
	metrics.RecordEmergencyRequest(kind)
	if log != nil {
		log.Warn(ctx, "emergency alert requested", logger.String("kind", kind))
	}
	return Ack{Kind: kind, Message: ComingSoon}, nil
}
