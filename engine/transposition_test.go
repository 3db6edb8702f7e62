package engine

import (
	"testing"

	"github.com/nekomata/shogicore/shogi"
)

func mustPos(t *testing.T, sfen string) *shogi.Position {
	t.Helper()
	pos, _, err := shogi.FromSfen(sfen)
	if err != nil {
		t.Fatalf("FromSfen(%q): %v", sfen, err)
	}
	return pos
}

func TestTranspositionStoreAndProbe(t *testing.T) {
	tt := NewTranspositionTable(1)
	pos := mustPos(t, shogi.StartposSfen)
	moves := shogi.LegalMoves(pos)
	if len(moves) == 0 {
		t.Fatal("expected legal moves from startpos")
	}
	best := moves[0]

	tt.Store(pos.PositionKey, 4, 100, TTExact, best)
	entry, ok := tt.Probe(pos.PositionKey)
	if !ok {
		t.Fatal("expected a probe hit after store")
	}
	if entry.Depth != 4 || entry.Score != 100 || entry.Flag != TTExact {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	got := unpackMove(entry.Move, pos)
	if got.From != best.From || got.To != best.To || got.Piece != best.Piece || got.Drop != best.Drop {
		t.Fatalf("unpacked move = %+v, want %+v", got, best)
	}
}

func TestTranspositionProbeMiss(t *testing.T) {
	tt := NewTranspositionTable(1)
	if _, ok := tt.Probe(0xdeadbeef); ok {
		t.Fatal("expected a probe miss on an empty table")
	}
}

func TestTranspositionReplacementPrefersOldGeneration(t *testing.T) {
	tt := NewTranspositionTable(1)
	// Fill one bucket (same key&mask) with 4 deep entries, age the table,
	// refresh one of them to the current generation by probing it, then
	// store a 5th key into the same bucket: the replacement must land on
	// an old-generation entry, never on the refreshed current-generation
	// one.
	bucketKeys := make([]uint64, 0, 5)
	base := uint64(7) // low bits fixed so every key maps to the same bucket
	for i := uint64(0); i < 4; i++ {
		key := base | (i+1)<<40
		bucketKeys = append(bucketKeys, key)
		tt.Store(key, 10, 0, TTExact, shogi.NoMove)
	}
	tt.NewSearch()
	if _, ok := tt.Probe(bucketKeys[0]); !ok {
		t.Fatal("expected the first stored key to be present")
	}
	newKey := base | (5)<<40
	tt.Store(newKey, 1, 0, TTExact, shogi.NoMove)

	if _, ok := tt.Probe(newKey); !ok {
		t.Fatal("expected the newly stored key to be present")
	}
	if _, ok := tt.Probe(bucketKeys[0]); !ok {
		t.Fatal("a current-generation entry was evicted while old-generation entries remained")
	}
}

func TestTranspositionClear(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(42, 5, 0, TTExact, shogi.NoMove)
	tt.Clear()
	if _, ok := tt.Probe(42); ok {
		t.Fatal("expected table to be empty after Clear")
	}
}

func TestInsertAndExtractMoves(t *testing.T) {
	tt := NewTranspositionTable(1)
	pos := mustPos(t, shogi.StartposSfen)
	moves := shogi.LegalMoves(pos)
	if len(moves) == 0 {
		t.Fatal("expected legal moves")
	}
	line := []shogi.Move{moves[0]}

	tt.InsertMoves(pos, line)
	extracted := tt.ExtractMoves(pos, nil)
	if len(extracted) == 0 {
		t.Fatal("expected ExtractMoves to recover at least the inserted move")
	}
	if extracted[0].From != line[0].From || extracted[0].To != line[0].To {
		t.Fatalf("extracted[0] = %+v, want %+v", extracted[0], line[0])
	}
}
