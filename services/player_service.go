package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"club-system/config"
	"club-system/internal/status"
	"club-system/models"
)

const playersCollection = "players"

// lookupChunkSize is the record store's cap on "field in (...)"
// batches; larger id sets are chunked.
const lookupChunkSize = 10

// PlayerService is the player directory: identity records keyed by
// the user-supplied external player id, independent of any roster
// state.
type PlayerService struct {
	app         core.App
	searchLimit int
}

func NewPlayerService(app core.App, cfg *config.Config) *PlayerService {
	return &PlayerService{
		app:         app,
		searchLimit: cfg.PlayerSearchLimit,
	}
}

// UpsertPlayer creates the identity record on first registration and
// refreshes the identity fields on every later one.
func (s *PlayerService) UpsertPlayer(ctx context.Context, p *models.Player) (*models.Player, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	record, err := s.findByExternalID(p.PlayerID)
	if err != nil && !errors.Is(err, status.ErrPlayerNotFound) {
		return nil, err
	}

	if record == nil {
		collection, err := s.app.FindCollectionByNameOrId(playersCollection)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
		}
		record = core.NewRecord(collection)
		record.Set("player_id", p.PlayerID)
	}

	record.Set("first_name", p.FirstName)
	record.Set("last_name", p.LastName)
	record.Set("birth_year", p.BirthYear)
	record.Set("contact", p.Contact)

	if err := s.app.Save(record); err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}
	return playerFromRecord(record), nil
}

// FindByExternalID looks a player up by external id, e.g. to prefill
// the registration form.
func (s *PlayerService) FindByExternalID(ctx context.Context, playerID string) (*models.Player, error) {
	record, err := s.findByExternalID(playerID)
	if err != nil {
		return nil, err
	}
	return playerFromRecord(record), nil
}

// FindByExternalIDs resolves roster member ids to full identity
// records, preserving the given order. Ids without a record are
// skipped. Lookups go out in chunks of lookupChunkSize.
func (s *PlayerService) FindByExternalIDs(ctx context.Context, playerIDs []string) ([]models.Player, error) {
	byID := make(map[string]models.Player, len(playerIDs))

	for _, chunk := range chunkIDs(playerIDs, lookupChunkSize) {
		values := make([]any, len(chunk))
		for i, id := range chunk {
			values[i] = id
		}
		records, err := s.app.FindAllRecords(playersCollection, dbx.In("player_id", values...))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
		}
		for _, record := range records {
			p := playerFromRecord(record)
			byID[p.PlayerID] = *p
		}
	}

	players := make([]models.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if p, ok := byID[id]; ok {
			players = append(players, p)
		}
	}
	return players, nil
}

// List returns players matching the search query (substring match on
// name, external id or birth year), capped at the configured limit.
func (s *PlayerService) List(ctx context.Context, query string) ([]models.Player, error) {
	records, err := s.app.FindAllRecords(playersCollection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}

	players := make([]models.Player, 0, len(records))
	for _, record := range records {
		players = append(players, *playerFromRecord(record))
	}
	return filterPlayers(players, query, s.searchLimit), nil
}

// Delete removes a player identity record. Roster entries referencing
// the external id are left in place; they render by raw id until an
// organizer removes them.
func (s *PlayerService) Delete(ctx context.Context, playerID string) error {
	record, err := s.findByExternalID(playerID)
	if err != nil {
		return err
	}
	if err := s.app.Delete(record); err != nil {
		return fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *PlayerService) findByExternalID(playerID string) (*core.Record, error) {
	record, err := s.app.FindFirstRecordByFilter(
		playersCollection,
		"player_id = {:pid}",
		dbx.Params{"pid": playerID},
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, status.ErrPlayerNotFound
	case err != nil:
		return nil, fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}
	return record, nil
}

func playerFromRecord(record *core.Record) *models.Player {
	return &models.Player{
		ID:        record.Id,
		PlayerID:  record.GetString("player_id"),
		FirstName: record.GetString("first_name"),
		LastName:  record.GetString("last_name"),
		BirthYear: record.GetString("birth_year"),
		Contact:   record.GetString("contact"),
	}
}

func chunkIDs(ids []string, size int) [][]string {
	var chunks [][]string
	for len(ids) > 0 {
		n := size
		if len(ids) < n {
			n = len(ids)
		}
		chunks = append(chunks, ids[:n])
		ids = ids[n:]
	}
	return chunks
}

func filterPlayers(players []models.Player, query string, limit int) []models.Player {
	query = strings.ToLower(strings.TrimSpace(query))

	matched := make([]models.Player, 0, limit)
	for _, p := range players {
		if query != "" {
			fullName := strings.ToLower(p.FirstName + " " + p.LastName)
			if !strings.Contains(strings.ToLower(p.PlayerID), query) &&
				!strings.Contains(fullName, query) &&
				!strings.Contains(p.BirthYear, query) {
				continue
			}
		}
		matched = append(matched, p)
		if limit > 0 && len(matched) >= limit {
			break
		}
	}
	return matched
}
