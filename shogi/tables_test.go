package shogi

import "testing"

// Invariant #2 (spec.md §8): betweenBB[a][b] is the open interval strictly
// between a and b on a shared queen line, and lineBB[a][b] is the full
// line through both including both endpoints; the two must agree on
// squares shared by both boards.
func TestBetweenAndLineConsistency(t *testing.T) {
	a := NewSquare(4, 8)
	b := NewSquare(4, 4)
	between := betweenBB[a][b]
	line := lineBB[a][b]

	if between.Test(a) || between.Test(b) {
		t.Fatalf("betweenBB must exclude both endpoints, got %+v", between)
	}
	if !line.Test(a) || !line.Test(b) {
		t.Fatalf("lineBB must include both endpoints, got %+v", line)
	}
	if !between.And(line.Not()).Empty() {
		t.Fatalf("every between square must also lie on the line")
	}
	if got, want := between.PopCount(), 3; got != want {
		t.Fatalf("betweenBB(8,4) popcount = %d, want %d (ranks 5,6,7)", got, want)
	}

	for r := Rank(5); r <= 7; r++ {
		if !between.Test(NewSquare(4, r)) {
			t.Fatalf("expected rank %d on file 4 to be strictly between", r)
		}
	}
}

func TestBetweenEmptyForNonAlignedSquares(t *testing.T) {
	a := NewSquare(0, 0)
	b := NewSquare(1, 5) // not on any shared rank/file/diagonal
	if between := betweenBB[a][b]; between.Any() {
		t.Fatalf("betweenBB for non-aligned squares should be empty, got %+v", between)
	}
}

func TestLineBBSymmetric(t *testing.T) {
	a := NewSquare(2, 2)
	b := NewSquare(6, 6)
	if !lineBB[a][b].Equal(lineBB[b][a]) {
		t.Fatalf("lineBB must be symmetric: lineBB[a][b] = %+v, lineBB[b][a] = %+v", lineBB[a][b], lineBB[b][a])
	}
}
