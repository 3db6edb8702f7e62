package shogi

import "testing"

// Invariant #1 (spec.md §8): Set/Reset/Test/PopCount/ForEach round trip
// for every square, individually and in combination.
func TestBitboardSetResetTestRoundTrip(t *testing.T) {
	var b Bitboard
	for sq := Square(0); sq < 81; sq++ {
		if b.Test(sq) {
			t.Fatalf("square %d set before any Set call", sq)
		}
	}

	squares := []Square{0, 1, 8, 9, 40, 62, 63, 64, 80}
	for _, sq := range squares {
		b = b.Set(sq)
	}
	if got, want := b.PopCount(), len(squares); got != want {
		t.Fatalf("PopCount() = %d, want %d", got, want)
	}
	for _, sq := range squares {
		if !b.Test(sq) {
			t.Fatalf("square %d not set after Set", sq)
		}
	}

	var seen []Square
	b.ForEach(func(sq Square) { seen = append(seen, sq) })
	if len(seen) != len(squares) {
		t.Fatalf("ForEach visited %d squares, want %d", len(seen), len(squares))
	}
	for i := 1; i < len(seen); i++ {
		if seen[i-1] >= seen[i] {
			t.Fatalf("ForEach did not visit in increasing order: %v", seen)
		}
	}

	for _, sq := range squares {
		b = b.Reset(sq)
		if b.Test(sq) {
			t.Fatalf("square %d still set after Reset", sq)
		}
	}
	if !b.Empty() {
		t.Fatalf("expected empty board after resetting every set square, got %+v", b)
	}
}

// Confirms the Lo/Hi lane split at square 63 (spec.md §3's two-lane
// layout) doesn't leak bits across the boundary.
func TestBitboardLaneBoundary(t *testing.T) {
	lo := bitOf(62)
	if lo.Hi != 0 || lo.Lo == 0 {
		t.Fatalf("square 62 should land in the Lo lane, got %+v", lo)
	}
	hi := bitOf(63)
	if hi.Lo != 0 || hi.Hi == 0 {
		t.Fatalf("square 63 should land in the Hi lane, got %+v", hi)
	}
}

func TestBitboardBooleanOps(t *testing.T) {
	a := bitOf(5).Or(bitOf(70))
	b := bitOf(5).Or(bitOf(9))

	if and := a.And(b); and.PopCount() != 1 || !and.Test(5) {
		t.Fatalf("And = %+v, want only square 5 set", and)
	}
	if or := a.Or(b); or.PopCount() != 3 {
		t.Fatalf("Or PopCount = %d, want 3", or.PopCount())
	}
	if xor := a.Xor(b); xor.PopCount() != 2 || xor.Test(5) {
		t.Fatalf("Xor = %+v, want squares 9 and 70 only", xor)
	}
	if andNot := a.AndNot(b); !andNot.Test(70) || andNot.Test(5) {
		t.Fatalf("AndNot = %+v, want only square 70 set", andNot)
	}
}

func TestBitboardNotStaysWithinBoard(t *testing.T) {
	full := EmptyBB.Not()
	if full.PopCount() != 81 {
		t.Fatalf("Not(Empty) has %d squares set, want 81", full.PopCount())
	}
	for sq := Square(0); sq < 81; sq++ {
		if !full.Test(sq) {
			t.Fatalf("square %d missing from the full board", sq)
		}
	}
}

func TestBitboardPopLSBOrder(t *testing.T) {
	b := bitOf(40).Or(bitOf(3)).Or(bitOf(80))
	var order []Square
	for b.Any() {
		order = append(order, b.PopLSB())
	}
	want := []Square{3, 40, 80}
	if len(order) != len(want) {
		t.Fatalf("PopLSB order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("PopLSB order = %v, want %v", order, want)
		}
	}
}

func TestFileFillCoversWholeFile(t *testing.T) {
	b := bitOf(NewSquare(3, 4))
	filled := b.FileFill()
	if got := filled.PopCount(); got != 9 {
		t.Fatalf("FileFill PopCount = %d, want 9", got)
	}
	for r := Rank(0); r < RankNB; r++ {
		if !filled.Test(NewSquare(3, r)) {
			t.Fatalf("FileFill missed file 3 rank %d", r)
		}
	}
}
