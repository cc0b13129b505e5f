package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() Event {
	return Event{
		Title:    "Friday League Challenge",
		Type:     EventLeagueChallenge,
		Date:     "2026-10-03",
		Capacity: 16,
	}
}

func TestEventType_Valid(t *testing.T) {
	for _, typ := range []EventType{EventCasual, EventCasualTrade, EventPreRelease, EventLeagueChallenge, EventLeagueCup} {
		assert.True(t, typ.Valid(), "expected %q to be valid", typ)
	}
	assert.False(t, EventType("tournament").Valid())
	assert.False(t, EventType("").Valid())
}

func TestEventType_Label(t *testing.T) {
	assert.Equal(t, "Casual & Trade Day", EventCasualTrade.Label())
	assert.Equal(t, "Pre-Release", EventPreRelease.Label())
	assert.Equal(t, "League Cup", EventLeagueCup.Label())
	// Unknown types fall back to the raw value instead of an empty label.
	assert.Equal(t, "mystery", EventType("mystery").Label())
}

func TestEvent_Validate(t *testing.T) {
	ev := validEvent()
	require.NoError(t, ev.Validate())

	tests := []struct {
		name   string
		mutate func(*Event)
	}{
		{"missing title", func(e *Event) { e.Title = "  " }},
		{"unknown type", func(e *Event) { e.Type = "bracket" }},
		{"missing date", func(e *Event) { e.Date = "" }},
		{"malformed date", func(e *Event) { e.Date = "next friday" }},
		{"zero capacity", func(e *Event) { e.Capacity = 0 }},
		{"negative capacity", func(e *Event) { e.Capacity = -3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := validEvent()
			tt.mutate(&ev)
			assert.Error(t, ev.Validate())
		})
	}
}

func TestParseEventDate(t *testing.T) {
	d, err := ParseEventDate("2026-10-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC), d)

	// Older records store DD-MM-YYYY.
	d, err = ParseEventDate("03-10-2026")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseEventDate("2026/10/03")
	assert.Error(t, err)
}

func TestEvent_Expired(t *testing.T) {
	today := time.Date(2026, 10, 3, 15, 30, 0, 0, time.UTC)

	ev := validEvent()
	ev.Date = "2026-10-03"
	assert.False(t, ev.Expired(today), "event on its own day is still active")

	ev.Date = "2026-10-02"
	assert.True(t, ev.Expired(today))

	ev.Date = "2026-10-04"
	assert.False(t, ev.Expired(today))
}

func validPlayer() Player {
	return Player{
		PlayerID:  "1234567",
		FirstName: "Ash",
		LastName:  "Ketchum",
		BirthYear: "1996",
		Contact:   "ash@example.com",
	}
}

func TestPlayer_Validate(t *testing.T) {
	p := validPlayer()
	require.NoError(t, p.Validate())

	tests := []struct {
		name   string
		mutate func(*Player)
	}{
		{"missing player id", func(p *Player) { p.PlayerID = "" }},
		{"missing first name", func(p *Player) { p.FirstName = " " }},
		{"missing last name", func(p *Player) { p.LastName = "" }},
		{"short birth year", func(p *Player) { p.BirthYear = "96" }},
		{"non numeric birth year", func(p *Player) { p.BirthYear = "19x6" }},
		{"missing contact", func(p *Player) { p.Contact = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPlayer()
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestPlayer_PublicName(t *testing.T) {
	p := validPlayer()
	assert.Equal(t, "Ash K.", p.PublicName())

	p.LastName = "Øvre"
	assert.Equal(t, "Ash Ø.", p.PublicName())

	p.LastName = ""
	assert.Equal(t, "Ash", p.PublicName())
}
