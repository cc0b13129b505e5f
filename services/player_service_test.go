package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"club-system/models"
)

func TestChunkIDs(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		size int
		want [][]string
	}{
		{
			name: "empty",
			ids:  nil,
			size: 10,
			want: nil,
		},
		{
			name: "below chunk size",
			ids:  []string{"a", "b", "c"},
			size: 10,
			want: [][]string{{"a", "b", "c"}},
		},
		{
			name: "exact multiple",
			ids:  []string{"a", "b", "c", "d"},
			size: 2,
			want: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name: "remainder",
			ids:  []string{"a", "b", "c", "d", "e"},
			size: 2,
			want: [][]string{{"a", "b"}, {"c", "d"}, {"e"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chunkIDs(tt.ids, tt.size))
		})
	}
}

func TestChunkIDsCoversEveryID(t *testing.T) {
	ids := make([]string, 27)
	for i := range ids {
		ids[i] = string(rune('a' + i%26))
	}

	chunks := chunkIDs(ids, lookupChunkSize)

	total := 0
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), lookupChunkSize)
		total += len(chunk)
	}
	assert.Equal(t, len(ids), total)
}

func TestFilterPlayers(t *testing.T) {
	players := []models.Player{
		{PlayerID: "1234567", FirstName: "Ash", LastName: "Ketchum", BirthYear: "1996"},
		{PlayerID: "7654321", FirstName: "Misty", LastName: "Waterflower", BirthYear: "1997"},
		{PlayerID: "1112223", FirstName: "Brock", LastName: "Harrison", BirthYear: "1994"},
	}

	t.Run("matches name case-insensitively", func(t *testing.T) {
		got := filterPlayers(players, "ASH", 10)
		require.Len(t, got, 1)
		assert.Equal(t, "1234567", got[0].PlayerID)
	})

	t.Run("matches full name across fields", func(t *testing.T) {
		got := filterPlayers(players, "misty water", 10)
		require.Len(t, got, 1)
		assert.Equal(t, "7654321", got[0].PlayerID)
	})

	t.Run("matches id substring", func(t *testing.T) {
		got := filterPlayers(players, "11122", 10)
		require.Len(t, got, 1)
		assert.Equal(t, "Brock", got[0].FirstName)
	})

	t.Run("matches birth year", func(t *testing.T) {
		got := filterPlayers(players, "1997", 10)
		require.Len(t, got, 1)
		assert.Equal(t, "Misty", got[0].FirstName)
	})

	t.Run("empty query returns all up to limit", func(t *testing.T) {
		got := filterPlayers(players, "  ", 2)
		assert.Len(t, got, 2)
	})

	t.Run("no match", func(t *testing.T) {
		got := filterPlayers(players, "giovanni", 10)
		assert.Empty(t, got)
	})
}
