package shogi

import "testing"

// S5 from spec.md §8: playing P7g-7f then unmaking it restores the start
// position bitwise, including every derived key.
func TestMakeUnmakeRoundTrip(t *testing.T) {
	pos, _, err := FromSfen(StartposSfen)
	if err != nil {
		t.Fatalf("FromSfen: %v", err)
	}
	before := pos.ToSfen(1)
	beforeBoardKey, beforePositionKey := pos.BoardKey, pos.PositionKey
	beforeHandKeys := pos.HandKeySum

	from, _ := ParseSquare("7g")
	to, _ := ParseSquare("7f")
	p := pos.PieceOn[from]
	m := Move{From: from, To: to, Piece: p.Type(), Color: p.Color(), Captured: pos.PieceOn[to]}

	gives := pos.MoveGivesCheck(m)
	pos.MakeMove(m, gives)
	pos.UnmakeMove(m)

	if got := pos.ToSfen(1); got != before {
		t.Fatalf("SFEN mismatch after make/unmake:\n got  %s\n want %s", got, before)
	}
	if pos.BoardKey != beforeBoardKey {
		t.Fatalf("BoardKey mismatch: got %d, want %d", pos.BoardKey, beforeBoardKey)
	}
	if pos.PositionKey != beforePositionKey {
		t.Fatalf("PositionKey mismatch: got %d, want %d", pos.PositionKey, beforePositionKey)
	}
	if pos.HandKeySum != beforeHandKeys {
		t.Fatalf("HandKeySum mismatch: got %v, want %v", pos.HandKeySum, beforeHandKeys)
	}
}

// Invariant #6: after any legal move sequence, PositionKey matches a
// from-scratch recomputation.
func TestPositionKeyConsistency(t *testing.T) {
	pos, _, err := FromSfen(StartposSfen)
	if err != nil {
		t.Fatalf("FromSfen: %v", err)
	}
	for _, sq := range []struct{ from, to string }{
		{"7g", "7f"},
		{"3c", "3d"},
		{"2g", "2f"},
	} {
		from, _ := ParseSquare(sq.from)
		to, _ := ParseSquare(sq.to)
		p := pos.PieceOn[from]
		m := Move{From: from, To: to, Piece: p.Type(), Color: p.Color(), Captured: pos.PieceOn[to]}
		gives := pos.MoveGivesCheck(m)
		pos.MakeMove(m, gives)
	}
	if pos.PositionKey != pos.ComputePositionKey() {
		t.Fatalf("PositionKey = %d, recomputed = %d", pos.PositionKey, pos.ComputePositionKey())
	}
}

// MakeDropAndKingRecapture/UnmakeDropAndKingRecapture fuses a checking
// drop with the opponent's king recapturing it into one update; round
// tripping it must restore the board, hands, and keys exactly, the same
// guarantee MakeMove/UnmakeMove give per ply.
func TestMakeDropAndKingRecaptureRoundTrip(t *testing.T) {
	const sfen = "K8/9/9/9/4k4/9/9/9/9 b P 1"
	pos, _, err := FromSfen(sfen)
	if err != nil {
		t.Fatalf("FromSfen: %v", err)
	}
	before := pos.ToSfen(1)
	beforeBoardKey, beforePositionKey := pos.BoardKey, pos.PositionKey
	beforeHandKeys := pos.HandKeySum
	beforeHands := pos.Hands

	dropSq, _ := ParseSquare("5f")
	kingFrom, _ := ParseSquare("5e")
	drop := Move{Drop: true, To: dropSq, Piece: Pawn, Color: Black}
	kingRecapture := Move{From: kingFrom, To: dropSq, Piece: King, Color: White, Captured: NewPiece(Black, Pawn, false)}

	pos.MakeDropAndKingRecapture(drop, kingRecapture)
	if got := pos.PieceOn[dropSq]; got.Type() != King || got.Color() != White {
		t.Fatalf("expected White king on %v after recapture, got %v", dropSq, got)
	}
	if pos.PieceOn[kingFrom] != NoPiece {
		t.Fatalf("expected %v empty after the king moved away", kingFrom)
	}
	if pos.KingSquare[White] != dropSq {
		t.Fatalf("KingSquare[White] not updated: got %v, want %v", pos.KingSquare[White], dropSq)
	}
	if pos.Hands[White].Count(Pawn) != 1 {
		t.Fatal("expected White's hand to gain the recaptured pawn")
	}
	if pos.Hands[Black].Count(Pawn) != 0 {
		t.Fatal("expected Black's hand to lose the dropped pawn")
	}

	pos.UnmakeDropAndKingRecapture(drop, kingRecapture)
	if got := pos.ToSfen(1); got != before {
		t.Fatalf("SFEN mismatch after round trip:\n got  %s\n want %s", got, before)
	}
	if pos.BoardKey != beforeBoardKey || pos.PositionKey != beforePositionKey {
		t.Fatal("key mismatch after round trip")
	}
	if pos.HandKeySum != beforeHandKeys {
		t.Fatal("HandKeySum mismatch after round trip")
	}
	if pos.Hands != beforeHands {
		t.Fatal("Hands mismatch after round trip")
	}
}

// Invariant #7: MakeNullMove/UnmakeNullMove is an identity when not in check.
func TestNullMoveSymmetry(t *testing.T) {
	pos, _, err := FromSfen(StartposSfen)
	if err != nil {
		t.Fatalf("FromSfen: %v", err)
	}
	before := pos.ToSfen(1)
	beforeKey := pos.PositionKey
	pos.MakeNullMove()
	pos.UnmakeNullMove()
	if pos.ToSfen(1) != before {
		t.Fatalf("null move is not an identity on the board")
	}
	if pos.PositionKey != beforeKey {
		t.Fatalf("PositionKey mismatch after null move roundtrip")
	}
}
