package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"club-system/internal/status"
)

func entry(id string, sec int) Entry {
	return Entry{PlayerID: id, JoinedAt: time.Date(2026, 9, 1, 12, 0, sec, 0, time.UTC)}
}

func TestSnapshot_Contains(t *testing.T) {
	snap := Snapshot{
		EventID:  "evt1",
		Capacity: 2,
		Full:     true,
		Active:   []Entry{entry("p1", 0), entry("p2", 1)},
		Waitlist: []Entry{entry("p3", 2)},
	}

	assert.Equal(t, ListActive, snap.Contains("p1"))
	assert.Equal(t, ListWaitlist, snap.Contains("p3"))
	assert.Equal(t, ListNone, snap.Contains("p9"))
}

func TestSnapshot_Validate(t *testing.T) {
	valid := func() Snapshot {
		return Snapshot{
			EventID:  "evt1",
			Capacity: 2,
			Full:     true,
			Active:   []Entry{entry("p1", 0), entry("p2", 1)},
			Waitlist: []Entry{entry("p3", 2)},
		}
	}
	require.NoError(t, (&Snapshot{Capacity: 4}).Validate())
	v := valid()
	require.NoError(t, v.Validate())

	over := valid()
	over.Active = append(over.Active, entry("p4", 3))
	assert.Error(t, over.Validate(), "active roster above capacity")

	both := valid()
	both.Waitlist = append(both.Waitlist, entry("p1", 3))
	assert.Error(t, both.Validate(), "player on both lists")

	dup := valid()
	dup.Active[1] = entry("p1", 1)
	assert.Error(t, dup.Validate(), "player twice on one list")

	unordered := valid()
	unordered.Waitlist = []Entry{entry("p3", 9), entry("p4", 2)}
	assert.Error(t, unordered.Validate(), "waitlist out of join order")

	stale := valid()
	stale.Full = false
	assert.Error(t, stale.Validate(), "full flag disagrees with count")
}

func TestSnapshot_IsFull(t *testing.T) {
	snap := Snapshot{Capacity: 2, Active: []Entry{entry("p1", 0)}}
	assert.False(t, snap.IsFull())
	snap.Active = append(snap.Active, entry("p2", 1))
	assert.True(t, snap.IsFull())
	// Capacity lowered below the current count still reads as full.
	snap.Capacity = 1
	assert.True(t, snap.IsFull())
}

func TestParseReply(t *testing.T) {
	reply, err := ParseReply([]any{"active", "1"})
	require.NoError(t, err)
	assert.Equal(t, Reply{Outcome: OutcomeActive, Full: true}, reply)

	reply, err = ParseReply([]any{"waitlist", "0"})
	require.NoError(t, err)
	assert.Equal(t, Reply{Outcome: OutcomeWaitlisted, Full: false}, reply)

	_, err = ParseReply("oops")
	assert.Error(t, err)

	_, err = ParseReply([]any{"active"})
	assert.Error(t, err)

	_, err = ParseReply([]any{int64(1), "0"})
	assert.Error(t, err)
}

func TestOutcome_Landed(t *testing.T) {
	assert.Equal(t, ListActive, OutcomeActive.Landed())
	assert.Equal(t, ListActive, OutcomePromoted.Landed())
	assert.Equal(t, ListWaitlist, OutcomeWaitlisted.Landed())
	assert.Equal(t, ListWaitlist, OutcomeDemoted.Landed())
	assert.Equal(t, ListNone, OutcomeRemoved.Landed())
	assert.Equal(t, ListNone, OutcomeAlready.Landed())
}

func TestOutcome_Err(t *testing.T) {
	assert.ErrorIs(t, OutcomeAlready.Err(), status.ErrAlreadyRegistered)
	assert.ErrorIs(t, OutcomeFull.Err(), status.ErrEventFull)
	assert.NoError(t, OutcomeActive.Err())
	assert.NoError(t, OutcomeRemoved.Err())
}
