// Package directory holds the club and event listings and their filters.
//
// Clubs created or joined here live only in memory for the life of the
// process.
package directory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/campnav/internal/domain/model"
	"github.com/okian/campnav/pkg/logger"
	"github.com/okian/campnav/pkg/metrics"
)

// Directory is a mutex-guarded in-memory club list with the sample events.
type Directory struct {
	log logger.Logger

	mu     sync.RWMutex
	clubs  []model.Club
	events []model.Event
}

// New creates a directory seeded with the sample clubs and events.
func New(log logger.Logger) *Directory {
	if log == nil {
		log = logger.Nop()
	}
	return &Directory{
		log:    log,
		clubs:  SampleClubs(),
		events: SampleEvents(),
	}
}

// Clubs returns the clubs matching category and search.
func (d *Directory) Clubs(category, search string) []model.Club {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return FilterClubs(d.clubs, category, search)
}

// Events returns the events matching category.
func (d *Directory) Events(category string) []model.Event {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return FilterEvents(d.events, category)
}

// CreateClub adds a club pending approval with its creator as the only
// member.
func (d *Directory) CreateClub(ctx context.Context, draft model.ClubDraft) (model.Club, error) {
	name := strings.TrimSpace(draft.Name)
	desc := strings.TrimSpace(draft.Description)
	if name == "" || desc == "" {
		return model.Club{}, fmt.Errorf("%w: name and description are required", ErrInvalidClub)
	}
	if !slices.Contains(CreateCategories(), draft.Category) {
		return model.Club{}, fmt.Errorf("%w: unknown category %q", ErrInvalidClub, draft.Category)
	}
	icon := draft.Icon
	if icon == "" {
		icon = DefaultClubIcon
	}
	if !slices.Contains(ClubIcons(), icon) {
		return model.Club{}, fmt.Errorf("%w: unknown icon %q", ErrInvalidClub, icon)
	}

	club := model.Club{
		ID:          uuid.NewString(),
		Name:        name,
		Icon:        icon,
		Members:     1,
		Category:    draft.Category,
		MeetingTime: strings.TrimSpace(draft.MeetingTime),
		Location:    strings.TrimSpace(draft.Location),
		Advisor:     strings.TrimSpace(draft.Advisor),
		Description: desc,
		Status:      model.ClubPendingApproval,
	}

	d.mu.Lock()
	d.clubs = append(d.clubs, club)
	d.mu.Unlock()

	metrics.RecordClubCreated()
	d.log.Info(ctx, "club submitted for approval",
		logger.String("club_id", club.ID),
		logger.String("category", club.Category),
	)
	return club, nil
}

// ToggleJoin flips the joined flag of a club and returns the club.
func (d *Directory) ToggleJoin(ctx context.Context, id string) (model.Club, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.clubs {
		if d.clubs[i].ID != id {
			continue
		}
		d.clubs[i].Joined = !d.clubs[i].Joined
		metrics.RecordClubJoin(d.clubs[i].Joined)
		d.log.Debug(ctx, "club join toggled",
			logger.String("club_id", id),
			logger.Bool("joined", d.clubs[i].Joined),
		)
		return d.clubs[i], nil
	}
	return model.Club{}, fmt.Errorf("%w: %s", ErrClubNotFound, id)
}

// RemindersComingSoon is shown whenever a reminder is toggled; nothing is
// scheduled yet.
const RemindersComingSoon = "Reminders coming soon!"

// Reminder is the answer to a reminder toggle.
type Reminder struct {
	Event   model.Event `json:"event"`
	Message string      `json:"message"`
}

// ToggleReminder flips the reminded flag of an event.
func (d *Directory) ToggleReminder(ctx context.Context, id string) (Reminder, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := slices.IndexFunc(d.events, func(e model.Event) bool { return e.ID == id })
	if i < 0 {
		return Reminder{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}
	d.events[i].Reminded = !d.events[i].Reminded
	metrics.RecordEventReminder(d.events[i].Reminded)
	d.log.Debug(ctx, "event reminder toggled",
		logger.String("event_id", id),
		logger.Bool("reminded", d.events[i].Reminded),
	)
	return Reminder{Event: d.events[i], Message: RemindersComingSoon}, nil
}
