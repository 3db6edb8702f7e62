package shogi

import "testing"

// Invariant #9 (spec.md §8): no generator output drops a pawn on a file
// already holding that side's own unpromoted pawn.
func TestNoNifu(t *testing.T) {
	// Black has an unpromoted pawn on file 5 (5f) and a pawn in hand;
	// dropping onto file 5 must never appear.
	const sfen = "9/9/9/9/9/4P4/9/9/4K4 b P 1"
	pos, _, err := FromSfen(sfen)
	if err != nil {
		t.Fatalf("FromSfen: %v", err)
	}
	for _, m := range LegalMoves(pos) {
		if m.Drop && m.Piece == Pawn && m.To.File() == File(4) {
			t.Fatalf("nifu: generated pawn drop onto file already holding a pawn: %v", m)
		}
	}
}

// Invariant #8: AllMoves (pseudo-legal), once filtered by MoveIsLegal,
// equals LegalMoves exactly — the generator's completeness property.
func TestMoveGeneratorCompleteness(t *testing.T) {
	positions := []string{
		StartposSfen,
		"l6nl/5+P1gk/2np1S3/p1p4Pp/3P2Sp1/1PPb2P1P/P5GS1/R8/LN4bKL w RGgsn5p 1",
	}
	for _, sfen := range positions {
		pos, _, err := FromSfen(sfen)
		if err != nil {
			t.Fatalf("FromSfen(%q): %v", sfen, err)
		}
		pseudo := AllMoves(pos, nil)
		var filtered []Move
		for _, m := range pseudo {
			if pos.MoveIsLegal(m) {
				filtered = append(filtered, m)
			}
		}
		legal := LegalMoves(pos)
		if len(filtered) != len(legal) {
			t.Fatalf("%q: filtered AllMoves has %d moves, LegalMoves has %d", sfen, len(filtered), len(legal))
		}
	}
}

// Invariant #10: a non-promoting pawn/lance/knight move onto a square it
// could never move from again must not be generated at all; only its
// promoting twin may appear.
func TestForcedPromotion(t *testing.T) {
	// Black pawn on 5b pushing to 5a (Black's furthest rank) must be
	// forced to promote: an unpromoted pawn there would have no legal
	// move left, so only the promoted variant may appear.
	const sfen = "9/4P4/9/9/9/9/9/9/4K4 b - 1"
	pos, _, err := FromSfen(sfen)
	if err != nil {
		t.Fatalf("FromSfen: %v", err)
	}
	to, err := ParseSquare("5a")
	if err != nil {
		t.Fatal(err)
	}
	var sawPlain, sawPromo bool
	for _, m := range LegalMoves(pos) {
		if m.Drop || m.To != to || m.Piece != Pawn {
			continue
		}
		if m.Promotion {
			sawPromo = true
		} else {
			sawPlain = true
		}
	}
	if !sawPromo {
		t.Fatal("expected promoting pawn push to 5a")
	}
	if sawPlain {
		t.Fatal("non-promoting pawn push onto the last rank must not be generated")
	}
}

// Silver keeps full mobility: both promoting and non-promoting variants
// into the zone must be generated (spec.md §9 Open Question).
func TestSilverOptionalPromotion(t *testing.T) {
	const sfen = "9/9/4S4/9/9/9/9/9/4K4 b - 1"
	pos, _, err := FromSfen(sfen)
	if err != nil {
		t.Fatalf("FromSfen: %v", err)
	}
	to, err := ParseSquare("5b")
	if err != nil {
		t.Fatal(err)
	}
	var sawPlain, sawPromo bool
	for _, m := range LegalMoves(pos) {
		if m.Drop || m.To != to || m.Piece != Silver {
			continue
		}
		if m.Promotion {
			sawPromo = true
		} else {
			sawPlain = true
		}
	}
	if !sawPromo || !sawPlain {
		t.Fatalf("expected both silver variants into the zone: plain=%v promo=%v", sawPlain, sawPromo)
	}
}
