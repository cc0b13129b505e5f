package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"club-system/config"
	"club-system/internal/status"
	"club-system/models"
	"club-system/utils"
)

const eventsCollection = "events"

const shareCodeLength = 6

// EventService is the event directory: CRUD over the events
// collection plus the active/expired listing partition. Roster
// membership is not stored here; it lives with the RosterService.
type EventService struct {
	app       core.App
	pastLimit int
}

func NewEventService(app core.App, cfg *config.Config) *EventService {
	return &EventService{
		app:       app,
		pastLimit: cfg.PastEventsLimit,
	}
}

// FindEvent resolves an event id to its record.
func (s *EventService) FindEvent(ctx context.Context, id string) (*models.Event, error) {
	record, err := s.findRecord(id)
	if err != nil {
		return nil, err
	}
	return eventFromRecord(record), nil
}

// Create validates and stores a new event. The full flag always
// starts false; capacity admits the first registrations.
func (s *EventService) Create(ctx context.Context, ev *models.Event) (*models.Event, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	collection, err := s.app.FindCollectionByNameOrId(eventsCollection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}

	record := core.NewRecord(collection)
	record.Set("title", ev.Title)
	record.Set("type", string(ev.Type))
	record.Set("date", ev.Date)
	record.Set("capacity", ev.Capacity)
	record.Set("hidden", ev.Hidden)
	record.Set("full", false)

	if err := s.app.Save(record); err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}
	return eventFromRecord(record), nil
}

// Update applies organizer edits to title, type, date, capacity and
// visibility. Capacity changes take effect on the next roster
// operation, which re-reads it before the atomic write.
func (s *EventService) Update(ctx context.Context, id string, ev *models.Event) (*models.Event, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	record, err := s.findRecord(id)
	if err != nil {
		return nil, err
	}

	record.Set("title", ev.Title)
	record.Set("type", string(ev.Type))
	record.Set("date", ev.Date)
	record.Set("capacity", ev.Capacity)
	record.Set("hidden", ev.Hidden)

	if err := s.app.Save(record); err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}
	return eventFromRecord(record), nil
}

// Delete removes the event record. Roster state cleanup hangs off the
// record delete hook so it also covers deletes made through the
// PocketBase dashboard.
func (s *EventService) Delete(ctx context.Context, id string) error {
	record, err := s.findRecord(id)
	if err != nil {
		return err
	}
	if err := s.app.Delete(record); err != nil {
		return fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}
	return nil
}

// ToggleHidden flips event visibility and returns the new value.
func (s *EventService) ToggleHidden(ctx context.Context, id string) (bool, error) {
	record, err := s.findRecord(id)
	if err != nil {
		return false, err
	}

	hidden := !record.GetBool("hidden")
	record.Set("hidden", hidden)
	if err := s.app.Save(record); err != nil {
		return false, fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}
	return hidden, nil
}

// MarkFull mirrors the roster engine's recomputed full flag onto the
// event record, for list filtering. No-op when already in sync.
func (s *EventService) MarkFull(ctx context.Context, id string, full bool) error {
	record, err := s.findRecord(id)
	if err != nil {
		return err
	}
	if record.GetBool("full") == full {
		return nil
	}
	record.Set("full", full)
	if err := s.app.Save(record); err != nil {
		return fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}
	return nil
}

// EnsureShareCode returns the event's share code, minting one on first
// request. Minting twice returns the same code.
func (s *EventService) EnsureShareCode(ctx context.Context, id string) (string, error) {
	record, err := s.findRecord(id)
	if err != nil {
		return "", err
	}

	if code := record.GetString("share_code"); code != "" {
		return code, nil
	}

	code, err := utils.GenerateCode(shareCodeLength)
	if err != nil {
		return "", err
	}
	record.Set("share_code", code)
	if err := s.app.Save(record); err != nil {
		return "", fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}
	return code, nil
}

// EventListing partitions events by date: upcoming (including today)
// sorted soonest first, expired sorted most recent first and capped.
type EventListing struct {
	Active  []models.Event `json:"active"`
	Expired []models.Event `json:"expired"`
}

// List returns the event listing. Hidden events are only included for
// organizers.
func (s *EventService) List(ctx context.Context, includeHidden bool) (*EventListing, error) {
	records, err := s.app.FindAllRecords(eventsCollection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}

	events := make([]models.Event, 0, len(records))
	for _, record := range records {
		events = append(events, *eventFromRecord(record))
	}

	return partitionEvents(events, time.Now().UTC(), includeHidden, s.pastLimit), nil
}

func (s *EventService) findRecord(id string) (*core.Record, error) {
	record, err := s.app.FindRecordById(eventsCollection, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, status.ErrEventNotFound
	case err != nil:
		return nil, fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}
	return record, nil
}

func eventFromRecord(record *core.Record) *models.Event {
	return &models.Event{
		ID:        record.Id,
		Title:     record.GetString("title"),
		Type:      models.EventType(record.GetString("type")),
		Date:      record.GetString("date"),
		Capacity:  record.GetInt("capacity"),
		Hidden:    record.GetBool("hidden"),
		Full:      record.GetBool("full"),
		ShareCode: record.GetString("share_code"),
	}
}

// partitionEvents splits events into upcoming and expired by date.
// Events with unparsable dates are dropped rather than misfiled.
func partitionEvents(events []models.Event, today time.Time, includeHidden bool, pastLimit int) *EventListing {
	listing := &EventListing{
		Active:  []models.Event{},
		Expired: []models.Event{},
	}

	dates := make(map[string]time.Time, len(events))
	for _, ev := range events {
		if ev.Hidden && !includeHidden {
			continue
		}
		d, err := models.ParseEventDate(ev.Date)
		if err != nil {
			continue
		}
		dates[ev.ID] = d
		if ev.Expired(today) {
			listing.Expired = append(listing.Expired, ev)
		} else {
			listing.Active = append(listing.Active, ev)
		}
	}

	sort.SliceStable(listing.Active, func(i, j int) bool {
		return dates[listing.Active[i].ID].Before(dates[listing.Active[j].ID])
	})
	sort.SliceStable(listing.Expired, func(i, j int) bool {
		return dates[listing.Expired[j].ID].Before(dates[listing.Expired[i].ID])
	})

	if pastLimit > 0 && len(listing.Expired) > pastLimit {
		listing.Expired = listing.Expired[:pastLimit]
	}
	return listing
}
