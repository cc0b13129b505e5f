package models

import (
	"errors"
	"fmt"
	"strings"
)

// Player is an identity record. Roster membership lives on the event
// side; the player record itself never references events.
type Player struct {
	ID        string `json:"id"`        // record store id
	PlayerID  string `json:"player_id"` // external league id, user supplied
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthYear string `json:"birth_year"`
	Contact   string `json:"contact"` // email and/or phone
}

func (p *Player) Validate() error {
	if strings.TrimSpace(p.PlayerID) == "" {
		return errors.New("player id is required")
	}
	if strings.TrimSpace(p.FirstName) == "" {
		return errors.New("first name is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		return errors.New("last name is required")
	}
	year := strings.TrimSpace(p.BirthYear)
	if len(year) != 4 {
		return errors.New("birth year must be 4 digits")
	}
	for _, r := range year {
		if r < '0' || r > '9' {
			return fmt.Errorf("invalid birth year %q", p.BirthYear)
		}
	}
	if strings.TrimSpace(p.Contact) == "" {
		return errors.New("contact info is required")
	}
	return nil
}

// PublicName is the redacted form shown to unauthenticated viewers,
// e.g. "Ash K.".
func (p *Player) PublicName() string {
	last := strings.TrimSpace(p.LastName)
	if last == "" {
		return p.FirstName
	}
	return fmt.Sprintf("%s %c.", p.FirstName, []rune(last)[0])
}
