package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"club-system/models"
)

func listingFixture() []models.Event {
	return []models.Event{
		{ID: "e1", Title: "Casual Friday", Type: models.EventCasual, Date: "2026-09-04", Capacity: 8},
		{ID: "e2", Title: "Pre Release", Type: models.EventPreRelease, Date: "2026-09-02", Capacity: 16},
		{ID: "e3", Title: "Old Cup", Type: models.EventLeagueCup, Date: "2026-08-20", Capacity: 24},
		{ID: "e4", Title: "Older Challenge", Type: models.EventLeagueChallenge, Date: "2026-08-10", Capacity: 16},
		{ID: "e5", Title: "Secret Session", Type: models.EventCasualTrade, Date: "2026-09-10", Capacity: 8, Hidden: true},
	}
}

func TestPartitionEventsSplitsOnToday(t *testing.T) {
	today := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)

	listing := partitionEvents(listingFixture(), today, false, 10)

	require.Len(t, listing.Active, 2)
	assert.Equal(t, "e2", listing.Active[0].ID) // soonest first
	assert.Equal(t, "e1", listing.Active[1].ID)

	require.Len(t, listing.Expired, 2)
	assert.Equal(t, "e3", listing.Expired[0].ID) // most recent first
	assert.Equal(t, "e4", listing.Expired[1].ID)
}

func TestPartitionEventsTodayStaysActive(t *testing.T) {
	// Late in the evening of the event day the event is still on.
	today := time.Date(2026, 9, 2, 23, 50, 0, 0, time.UTC)

	listing := partitionEvents(listingFixture(), today, false, 10)

	ids := make([]string, 0, len(listing.Active))
	for _, ev := range listing.Active {
		ids = append(ids, ev.ID)
	}
	assert.Contains(t, ids, "e2")
}

func TestPartitionEventsHiddenFilter(t *testing.T) {
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	public := partitionEvents(listingFixture(), today, false, 10)
	for _, ev := range append(public.Active, public.Expired...) {
		assert.False(t, ev.Hidden)
	}

	organizer := partitionEvents(listingFixture(), today, true, 10)
	ids := make([]string, 0)
	for _, ev := range organizer.Active {
		ids = append(ids, ev.ID)
	}
	assert.Contains(t, ids, "e5")
}

func TestPartitionEventsPastLimit(t *testing.T) {
	today := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	listing := partitionEvents(listingFixture(), today, true, 2)

	assert.Empty(t, listing.Active)
	require.Len(t, listing.Expired, 2)
	// The cap keeps the most recent past events.
	assert.Equal(t, "e5", listing.Expired[0].ID)
	assert.Equal(t, "e1", listing.Expired[1].ID)
}

func TestPartitionEventsLegacyDateFormat(t *testing.T) {
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	events := []models.Event{
		{ID: "legacy", Title: "Legacy Casual", Type: models.EventCasual, Date: "05-09-2026", Capacity: 8},
		{ID: "broken", Title: "Broken", Type: models.EventCasual, Date: "sometime soon", Capacity: 8},
	}

	listing := partitionEvents(events, today, false, 10)

	require.Len(t, listing.Active, 1)
	assert.Equal(t, "legacy", listing.Active[0].ID)
	assert.Empty(t, listing.Expired)
}
