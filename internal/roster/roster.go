// Package roster holds the domain core for event rosters: the two
// ordered membership lists, the capacity rules that move players
// between them, and the interpretation of atomic script replies.
//
// State machine per (event, player): Unregistered, Active, Waitlisted.
// Admit branches on capacity, Promote is capacity-guarded, Demote is
// unconditional, Remove is idempotent. A vacated active slot never
// auto-promotes the head of the waitlist; promotion is always an
// explicit organizer action.
package roster

import (
	"fmt"
	"time"

	"club-system/internal/status"
)

// List identifies which membership list holds a player.
type List string

const (
	ListActive   List = "active"
	ListWaitlist List = "waitlist"
	ListNone     List = "none"
)

// Entry is one roster membership: a player external id plus the
// server-assigned join timestamp that orders the list.
type Entry struct {
	PlayerID string    `json:"player_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// Snapshot is a point-in-time read of both lists of one event. Reads
// are for display only; mutation decisions happen inside the store's
// atomic scripts, never on a snapshot.
type Snapshot struct {
	EventID  string  `json:"event_id"`
	Capacity int     `json:"capacity"`
	Full     bool    `json:"full"`
	Active   []Entry `json:"active"`
	Waitlist []Entry `json:"waitlist"`
}

// Contains reports which list holds the given player id.
func (s *Snapshot) Contains(playerID string) List {
	for _, e := range s.Active {
		if e.PlayerID == playerID {
			return ListActive
		}
	}
	for _, e := range s.Waitlist {
		if e.PlayerID == playerID {
			return ListWaitlist
		}
	}
	return ListNone
}

// IsFull derives the full flag from the active count, independent of
// the stored flag.
func (s *Snapshot) IsFull() bool {
	return len(s.Active) >= s.Capacity
}

// Validate checks the invariants every stored roster must satisfy:
// active count within capacity, no player on both lists, both lists
// ordered by join timestamp ascending, and the full flag agreeing
// with the active count.
func (s *Snapshot) Validate() error {
	if len(s.Active) > s.Capacity {
		return fmt.Errorf("active roster %d exceeds capacity %d", len(s.Active), s.Capacity)
	}
	seen := make(map[string]List, len(s.Active)+len(s.Waitlist))
	for _, e := range s.Active {
		if _, dup := seen[e.PlayerID]; dup {
			return fmt.Errorf("player %s appears twice", e.PlayerID)
		}
		seen[e.PlayerID] = ListActive
	}
	for _, e := range s.Waitlist {
		if list, dup := seen[e.PlayerID]; dup {
			return fmt.Errorf("player %s on both %s and %s", e.PlayerID, list, ListWaitlist)
		}
		seen[e.PlayerID] = ListWaitlist
	}
	for name, entries := range map[List][]Entry{ListActive: s.Active, ListWaitlist: s.Waitlist} {
		for i := 1; i < len(entries); i++ {
			if entries[i].JoinedAt.Before(entries[i-1].JoinedAt) {
				return fmt.Errorf("%s list out of join order at %s", name, entries[i].PlayerID)
			}
		}
	}
	if s.Full != s.IsFull() {
		return fmt.Errorf("full flag %v disagrees with active count %d/%d", s.Full, len(s.Active), s.Capacity)
	}
	return nil
}

// Outcome is the verdict of one atomic roster script.
type Outcome string

const (
	OutcomeActive     Outcome = "active"   // admitted onto the active roster
	OutcomeWaitlisted Outcome = "waitlist" // admitted onto the waitlist
	OutcomeAlready    Outcome = "already"  // already on one of the lists
	OutcomePromoted   Outcome = "promoted"
	OutcomeDemoted    Outcome = "demoted"
	OutcomeFull       Outcome = "full"    // promotion refused, roster at capacity
	OutcomeAbsent     Outcome = "absent"  // player not on the expected list
	OutcomeRemoved    Outcome = "removed" // removed, or was never registered
)

// Reply is a decoded script result: the verdict plus the full flag as
// recomputed inside the same atomic step.
type Reply struct {
	Outcome Outcome
	Full    bool
}

// ParseReply decodes the {verdict, full} array returned by the roster
// scripts.
func ParseReply(raw any) (Reply, error) {
	arr, ok := raw.([]any)
	if !ok || len(arr) != 2 {
		return Reply{}, fmt.Errorf("unexpected roster script reply %v", raw)
	}
	verdict, ok := arr[0].(string)
	if !ok {
		return Reply{}, fmt.Errorf("unexpected roster script verdict %v", arr[0])
	}
	full, ok := arr[1].(string)
	if !ok {
		return Reply{}, fmt.Errorf("unexpected roster script flag %v", arr[1])
	}
	return Reply{Outcome: Outcome(verdict), Full: full == "1"}, nil
}

// Landed maps an admission outcome to the list the player ended up in.
func (o Outcome) Landed() List {
	switch o {
	case OutcomeActive, OutcomePromoted:
		return ListActive
	case OutcomeWaitlisted, OutcomeDemoted:
		return ListWaitlist
	default:
		return ListNone
	}
}

// Err maps refusal outcomes to their sentinel errors. OutcomeAbsent is
// operation-dependent (not-on-waitlist for promote, not-on-roster for
// demote) and is mapped by the caller. Successful outcomes map to nil.
func (o Outcome) Err() error {
	switch o {
	case OutcomeAlready:
		return status.ErrAlreadyRegistered
	case OutcomeFull:
		return status.ErrEventFull
	default:
		return nil
	}
}
