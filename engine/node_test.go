package engine

import (
	"testing"

	"github.com/nekomata/shogicore/shogi"
)

func TestNodePushPopRestoresPosition(t *testing.T) {
	pos := mustPos(t, shogi.StartposSfen)
	n := NewNode(pos)
	before := pos.ToSfen(1)

	moves := shogi.LegalMoves(pos)
	if len(moves) == 0 {
		t.Fatal("expected legal moves from startpos")
	}
	n.Push(moves[0])
	if n.Ply() != 1 {
		t.Fatalf("Ply() = %d, want 1", n.Ply())
	}
	if pos.ToSfen(1) == before {
		t.Fatal("expected position to change after Push")
	}
	n.Pop()
	if n.Ply() != 0 {
		t.Fatalf("Ply() = %d, want 0 after Pop", n.Ply())
	}
	if got := pos.ToSfen(1); got != before {
		t.Fatalf("position not restored after Pop:\n got  %s\n want %s", got, before)
	}
}

func TestNodePVTracking(t *testing.T) {
	pos := mustPos(t, shogi.StartposSfen)
	n := NewNode(pos)
	moves := shogi.LegalMoves(pos)
	// Mirrors a negamax recursion: ply 2 is a leaf (empty tail), ply 1
	// records its best move with that empty tail, ply 0 records its own
	// best move with ply 1's one-move tail appended.
	n.ClearPV(0)
	n.ClearPV(1)
	n.ClearPV(2)
	n.UpdatePV(1, moves[0])
	n.UpdatePV(0, moves[1])

	pv := n.PV()
	if len(pv) != 2 {
		t.Fatalf("len(PV()) = %d, want 2", len(pv))
	}
	if pv[0].From != moves[1].From || pv[0].To != moves[1].To {
		t.Fatalf("PV()[0] = %+v, want %+v", pv[0], moves[1])
	}
	if pv[1].From != moves[0].From || pv[1].To != moves[0].To {
		t.Fatalf("PV()[1] = %+v, want %+v", pv[1], moves[0])
	}
}

func TestNodeEvalMemo(t *testing.T) {
	pos := mustPos(t, shogi.StartposSfen)
	n := NewNode(pos)
	if _, ok := n.CachedEval(0); ok {
		t.Fatal("expected no cached eval before SetEval")
	}
	n.SetEval(0, 37)
	got, ok := n.CachedEval(0)
	if !ok || got != 37 {
		t.Fatalf("CachedEval(0) = (%d, %v), want (37, true)", got, ok)
	}

	moves := shogi.LegalMoves(pos)
	n.Push(moves[0])
	if _, ok := n.CachedEval(1); ok {
		t.Fatal("expected ply 1's eval memo to start invalid")
	}
}

func TestNodeIsDraw(t *testing.T) {
	pos := mustPos(t, shogi.StartposSfen)
	n := NewNode(pos)
	if n.IsDraw() {
		t.Fatal("fresh start position must not be a draw")
	}
}
