package engine

import "github.com/nekomata/shogicore/shogi"

// MaxPly bounds every per-ply array the searcher keeps, grounded on the
// teacher's search.go MaxPly constant.
const MaxPly = 128

// Infinity and MateScore give the search's score range; MateScore is
// reduced by ply so a closer mate always outscores a farther one,
// exactly as the teacher's negamax does.
const (
	Infinity  = 30000
	MateScore = 29000
)

// Node wraps a *shogi.Position with the per-ply bookkeeping a search
// driver needs: a triangular PV table, a played-move stack mirroring the
// position's own undo stack (so ExtractMoves/ponder lookups don't need
// to re-walk shogi.Position internals), and a per-ply evaluation memo
// (component L, spec.md §4.L). It generalizes the teacher's Searcher
// struct (internal/engine/search.go), which keeps the same three pieces
// inline rather than as a separate reusable type.
type Node struct {
	pos *shogi.Position

	pvLength [MaxPly]int
	pvMoves  [MaxPly][MaxPly]shogi.Move

	evalValid [MaxPly]bool
	evalScore [MaxPly]int32

	played []shogi.Move
}

// NewNode wraps pos for a fresh search.
func NewNode(pos *shogi.Position) *Node {
	return &Node{pos: pos, played: make([]shogi.Move, 0, MaxPly)}
}

// Position returns the wrapped position.
func (n *Node) Position() *shogi.Position { return n.pos }

// Ply returns the number of moves made since NewNode.
func (n *Node) Ply() int { return len(n.played) }

// Push plays m and records it on both the position's own undo stack and
// the node's played-move stack; it invalidates any stale eval memo for
// the new ply.
func (n *Node) Push(m shogi.Move) {
	gives := n.pos.MoveGivesCheck(m)
	n.pos.MakeMove(m, gives)
	n.played = append(n.played, m)
	ply := len(n.played)
	if ply < MaxPly {
		n.evalValid[ply] = false
	}
}

// Pop undoes the most recently pushed move.
func (n *Node) Pop() {
	last := len(n.played) - 1
	m := n.played[last]
	n.played = n.played[:last]
	n.pos.UnmakeMove(m)
}

// PlayedMoves returns the moves pushed so far, root to current.
func (n *Node) PlayedMoves() []shogi.Move {
	out := make([]shogi.Move, len(n.played))
	copy(out, n.played)
	return out
}

// ClearPV truncates the PV recorded from ply onward, done at the start
// of every negamax call before searching ply's children.
func (n *Node) ClearPV(ply int) {
	if ply < MaxPly {
		n.pvLength[ply] = ply
	}
}

// UpdatePV records move as ply's chosen move and appends ply+1's PV tail
// (the teacher's inline triangular-table update, lifted into a method).
func (n *Node) UpdatePV(ply int, move shogi.Move) {
	if ply >= MaxPly {
		return
	}
	n.pvMoves[ply][ply] = move
	for next := ply + 1; next < n.pvLength[ply+1] && next < MaxPly; next++ {
		n.pvMoves[ply][next] = n.pvMoves[ply+1][next]
	}
	if ply+1 < MaxPly {
		n.pvLength[ply] = n.pvLength[ply+1]
	} else {
		n.pvLength[ply] = ply + 1
	}
}

// PV returns the principal variation recorded from the root.
func (n *Node) PV() []shogi.Move {
	length := n.pvLength[0]
	out := make([]shogi.Move, length)
	copy(out, n.pvMoves[0][:length])
	return out
}

// CachedEval returns ply's memoized static evaluation, if one was set by
// SetEval since the last Push onto that ply; Pop leaves memos untouched
// (spec.md §4.L's "eval
// memoization per ply" — avoids recomputing Evaluate when null-move or
// futility pruning re-reads the same ply's static score).
func (n *Node) CachedEval(ply int) (int32, bool) {
	if ply < 0 || ply >= MaxPly {
		return 0, false
	}
	return n.evalScore[ply], n.evalValid[ply]
}

// SetEval memoizes ply's static evaluation.
func (n *Node) SetEval(ply int, score int32) {
	if ply >= 0 && ply < MaxPly {
		n.evalScore[ply] = score
		n.evalValid[ply] = true
	}
}

// IsDraw reports whether the current position is a sennichite draw —
// repeated with no dominance either way and no perpetual check — per
// spec.md §7. Perpetual-check and dominance outcomes are decisive, not
// drawn, so the search driver calls DetectRepetition directly when it
// needs to distinguish them; IsDraw exists for the common draw-score
// check a plain negamax makes every node.
func (n *Node) IsDraw() bool {
	return n.pos.DetectRepetition() == shogi.RepDraw
}
