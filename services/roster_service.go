package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	"club-system/internal/roster"
	"club-system/internal/status"
	"club-system/models"
	"club-system/monitoring"
)

// EventSource is what the roster engine needs from the event
// directory: a fresh capacity read immediately before each atomic
// write, and a place to mirror the recomputed full flag.
type EventSource interface {
	FindEvent(ctx context.Context, id string) (*models.Event, error)
	MarkFull(ctx context.Context, id string, full bool) error
}

// PlayerSink persists player identity records on admission.
type PlayerSink interface {
	UpsertPlayer(ctx context.Context, p *models.Player) (*models.Player, error)
}

// RosterService owns the active/waitlist state machine for events.
// All membership decisions run inside single Lua scripts against
// Redis, so concurrent registrations from independent sessions cannot
// race past the capacity or duplicate checks.
type RosterService struct {
	Redis    *redis.Client
	events   EventSource
	players  PlayerSink
	notifier *Notifier
	monitor  *monitoring.Monitor
	clock    clockwork.Clock
}

func NewRosterService(redisClient *redis.Client, events EventSource, players PlayerSink, notifier *Notifier, monitor *monitoring.Monitor) *RosterService {
	return &RosterService{
		Redis:    redisClient,
		events:   events,
		players:  players,
		notifier: notifier,
		monitor:  monitor,
		clock:    clockwork.NewRealClock(),
	}
}

// JoinRequest carries a registration: the external player id plus the
// identity fields that refresh the player record.
type JoinRequest struct {
	PlayerID  string `json:"player_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthYear string `json:"birth_year"`
	Contact   string `json:"contact"`
}

func (r JoinRequest) player() *models.Player {
	return &models.Player{
		PlayerID:  r.PlayerID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		BirthYear: r.BirthYear,
		Contact:   r.Contact,
	}
}

// Admit registers a player for an event and reports which list they
// landed in. Below capacity the player goes on the active roster, at
// capacity on the waitlist; a player already on either list gets
// status.ErrAlreadyRegistered. The identity record is upserted on
// success so repeat registrations refresh player info.
func (s *RosterService) Admit(ctx context.Context, eventID string, req JoinRequest) (roster.List, error) {
	player := req.player()
	if err := player.Validate(); err != nil {
		return roster.ListNone, err
	}

	ev, err := s.events.FindEvent(ctx, eventID)
	if err != nil {
		return roster.ListNone, err
	}

	reply, err := s.runScript(ctx, admitScript, ev, player.PlayerID)
	if err != nil {
		s.track("admit", eventID, "error")
		return roster.ListNone, err
	}
	if outcomeErr := reply.Outcome.Err(); outcomeErr != nil {
		s.track("admit", eventID, string(reply.Outcome))
		return roster.ListNone, outcomeErr
	}

	if _, err := s.players.UpsertPlayer(ctx, player); err != nil {
		// The roster write already landed; a failed identity refresh
		// must not undo the registration.
		slog.Warn("player upsert after admission failed", "event_id", eventID, "player_id", player.PlayerID, "error", err)
	}

	s.finish(ctx, ev, reply, "admit")
	return reply.Outcome.Landed(), nil
}

// Promote moves a waitlisted player onto the active roster. Capacity
// is re-checked inside the script at execution time; at capacity the
// operation is a no-op reporting status.ErrEventFull and the player
// stays waitlisted.
func (s *RosterService) Promote(ctx context.Context, eventID, playerID string) error {
	ev, err := s.events.FindEvent(ctx, eventID)
	if err != nil {
		return err
	}

	reply, err := s.runScript(ctx, promoteScript, ev, playerID)
	if err != nil {
		s.track("promote", eventID, "error")
		return err
	}
	switch reply.Outcome {
	case roster.OutcomeAbsent:
		s.track("promote", eventID, string(reply.Outcome))
		return status.ErrNotOnWaitlist
	case roster.OutcomeFull:
		s.track("promote", eventID, string(reply.Outcome))
		return status.ErrEventFull
	}

	s.finish(ctx, ev, reply, "promote")
	return nil
}

// Demote moves an active player onto the waitlist. The waitlist has
// no ceiling, so the move is unconditional; the freed slot is not
// auto-filled from the waitlist.
func (s *RosterService) Demote(ctx context.Context, eventID, playerID string) error {
	ev, err := s.events.FindEvent(ctx, eventID)
	if err != nil {
		return err
	}

	reply, err := s.runScript(ctx, demoteScript, ev, playerID)
	if err != nil {
		s.track("demote", eventID, "error")
		return err
	}
	if reply.Outcome == roster.OutcomeAbsent {
		s.track("demote", eventID, string(reply.Outcome))
		return status.ErrNotOnRoster
	}

	s.finish(ctx, ev, reply, "demote")
	return nil
}

// Remove deletes a player from whichever list holds them. A player
// absent from both lists is a success, so removal is idempotent.
func (s *RosterService) Remove(ctx context.Context, eventID, playerID string) error {
	ev, err := s.events.FindEvent(ctx, eventID)
	if err != nil {
		return err
	}

	raw, err := s.Redis.Eval(ctx, removeScript, rosterKeys(eventID), playerID, ev.Capacity).Result()
	if err != nil {
		s.track("remove", eventID, "error")
		return fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}
	reply, err := roster.ParseReply(raw)
	if err != nil {
		return err
	}

	s.finish(ctx, ev, reply, "remove")
	return nil
}

// Snapshot reads both lists and the stored full flag. Reads are for
// display only; they are never the basis for a later write decision.
func (s *RosterService) Snapshot(ctx context.Context, eventID string) (*roster.Snapshot, error) {
	ev, err := s.events.FindEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	snap := &roster.Snapshot{EventID: eventID, Capacity: ev.Capacity}

	active, err := s.Redis.ZRangeWithScores(ctx, activeKey(eventID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}
	waitlist, err := s.Redis.ZRangeWithScores(ctx, waitlistKey(eventID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}
	snap.Active = entriesFromZ(active)
	snap.Waitlist = entriesFromZ(waitlist)

	full, err := s.Redis.HGet(ctx, stateKey(eventID), "full").Result()
	switch {
	case err == redis.Nil:
		snap.Full = snap.IsFull()
	case err != nil:
		return nil, fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	default:
		snap.Full = full == "1"
	}

	if err := snap.Validate(); err != nil {
		slog.Warn("roster snapshot violates invariants", "event_id", eventID, "error", err)
	}
	return snap, nil
}

// PurgeEvent drops all roster state for a deleted event.
func (s *RosterService) PurgeEvent(ctx context.Context, eventID string) error {
	if err := s.Redis.Del(ctx, activeKey(eventID), waitlistKey(eventID), stateKey(eventID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RosterService) runScript(ctx context.Context, script string, ev *models.Event, playerID string) (roster.Reply, error) {
	ts := s.clock.Now().UnixMilli()
	raw, err := s.Redis.Eval(ctx, script, rosterKeys(ev.ID), playerID, ev.Capacity, ts).Result()
	if err != nil {
		return roster.Reply{}, fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}
	return roster.ParseReply(raw)
}

// finish runs the post-mutation follow-ups: mirror the full flag onto
// the event record, push the fresh snapshot to subscribers, count the
// operation. All best-effort; Redis already holds the authoritative
// state.
func (s *RosterService) finish(ctx context.Context, ev *models.Event, reply roster.Reply, op string) {
	if err := s.events.MarkFull(ctx, ev.ID, reply.Full); err != nil {
		slog.Warn("full flag mirror failed", "event_id", ev.ID, "error", err)
	}

	if s.notifier != nil {
		snap, err := s.Snapshot(ctx, ev.ID)
		if err != nil {
			slog.Warn("roster snapshot for publish failed", "event_id", ev.ID, "error", err)
		} else {
			s.notifier.PublishRoster(ctx, snap)
		}
	}

	s.track(op, ev.ID, "success")
}

func (s *RosterService) track(op, eventID, result string) {
	s.monitor.TrackRosterOperation(op, eventID, result)
}

func entriesFromZ(zs []redis.Z) []roster.Entry {
	entries := make([]roster.Entry, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, roster.Entry{
			PlayerID: member,
			JoinedAt: time.UnixMilli(int64(z.Score)),
		})
	}
	return entries
}
