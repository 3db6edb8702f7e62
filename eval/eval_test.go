package eval

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

// With every weight table zero-initialized (no trained parameters were
// retrieved alongside this spec — see DESIGN.md), material included, no
// feature contributes anything, so every position currently evaluates to
// exactly zero regardless of imbalance.
func TestEvaluateZeroWeights(t *testing.T) {
	pos := mustPos(t, shogi.StartposSfen)
	if got := Evaluate(pos); got != 0 {
		t.Fatalf("Evaluate(startpos) = %d, want 0 with untrained weights", got)
	}

	const sfen = "l6nl/5+P1gk/2np1S3/p1p4Pp/3P2Sp1/1PPb2P1P/P5GS1/R8/LN4bKL w RGgsn5p 1"
	pos2 := mustPos(t, sfen)
	if got := Evaluate(pos2); got != 0 {
		t.Fatalf("Evaluate(mid-game) = %d, want 0 with untrained weights", got)
	}
}

// EvalState.Refresh returns the same score as a direct Evaluate call on
// the start position. Refresh itself recomputes in full, so no
// incremental path is exercised here.
func TestEvalStateMatchesFullEvaluate(t *testing.T) {
	pos := mustPos(t, shogi.StartposSfen)
	var st EvalState
	got := st.Refresh(pos)
	want := Evaluate(pos)
	if got != want {
		t.Fatalf("EvalState.Refresh = %d, Evaluate = %d", got, want)
	}
}

func TestScoreArithmetic(t *testing.T) {
	a := Score{A: 1, B: 2, C: 3, D: 4}
	b := Score{A: 10, B: 20, C: 30, D: 40}
	if sum := a.Add(b); sum != (Score{11, 22, 33, 44}) {
		t.Fatalf("Add = %+v", sum)
	}
	if diff := b.Sub(a); diff != (Score{9, 18, 27, 36}) {
		t.Fatalf("Sub = %+v", diff)
	}
	if neg := a.NegateBoard(); neg != (Score{-1, -2, -3, 4}) {
		t.Fatalf("NegateBoard = %+v, want progress lane untouched", neg)
	}
}
