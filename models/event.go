package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type EventType string

const (
	EventCasual          EventType = "casual"
	EventCasualTrade     EventType = "casualTrade"
	EventPreRelease      EventType = "preRelease"
	EventLeagueChallenge EventType = "leagueChallenge"
	EventLeagueCup       EventType = "leagueCup"
)

func (t EventType) Valid() bool {
	switch t {
	case EventCasual, EventCasualTrade, EventPreRelease, EventLeagueChallenge, EventLeagueCup:
		return true
	}
	return false
}

// Label returns the display name shown in event listings.
func (t EventType) Label() string {
	switch t {
	case EventCasual:
		return "Casual"
	case EventCasualTrade:
		return "Casual & Trade Day"
	case EventPreRelease:
		return "Pre-Release"
	case EventLeagueChallenge:
		return "League Challenge"
	case EventLeagueCup:
		return "League Cup"
	default:
		return string(t)
	}
}

type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      EventType `json:"type"`
	Date      string    `json:"date"` // calendar date, no time component
	Capacity  int       `json:"capacity"`
	Hidden    bool      `json:"hidden"`
	Full      bool      `json:"full"`
	ShareCode string    `json:"share_code,omitempty"`
}

func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("event title is required")
	}
	if !e.Type.Valid() {
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if _, err := ParseEventDate(e.Date); err != nil {
		return err
	}
	if e.Capacity < 1 {
		return errors.New("event capacity must be at least 1")
	}
	return nil
}

// ParseEventDate accepts dates stored as YYYY-MM-DD as well as the
// DD-MM-YYYY form found in older records.
func ParseEventDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("event date is required")
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid event date %q", s)
	}
	layout := "2006-01-02"
	if len(parts[0]) != 4 {
		layout = "02-01-2006"
	}
	d, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid event date %q: %w", s, err)
	}
	return d, nil
}

// Expired reports whether the event date lies before today. Both sides
// are compared at midnight so an event stays active for its whole day.
func (e *Event) Expired(today time.Time) bool {
	d, err := ParseEventDate(e.Date)
	if err != nil {
		return false
	}
	y, m, day := today.Date()
	midnight := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return d.Before(midnight)
}
