package shogi

import "sort"

// boardCheckOrder and dropCheckOrder bias mate-in-1 search toward cheaper
// pieces first, approximating the proof-piece-minimizing intent of
// spec.md §4.H's {Pawn,Lance,Silver,Gold,Bishop,Rook,Horse,Dragon} order
// without needing that order's precomputed adjacent_check_candidates
// table (see DESIGN.md): a pawn mate costs less proof material than a
// rook mate, so trying pawns first tends to find the cheaper proof first.
var boardCheckOrder = []PieceType{Pawn, Lance, Silver, Gold, Bishop, Rook}
var dropCheckOrder = []PieceType{Pawn, Lance, Knight, Silver, Gold, Bishop, Rook}

func kindRank(order []PieceType, pt PieceType) int {
	for i, p := range order {
		if p == pt {
			return i
		}
	}
	return len(order)
}

func sortByKindOrder(moves []Move, order []PieceType) {
	sort.SliceStable(moves, func(i, j int) bool {
		return kindRank(order, moves[i].Piece) < kindRank(order, moves[j].Piece)
	})
}

// rankedMateCandidates orders Checks the way spec.md §4.H tries them:
// board moves by kind, then knight checks, then drops by kind.
func rankedMateCandidates(pos *Position) []Move {
	all := Checks(pos, nil)
	var boardMoves, knightMoves, drops []Move
	for _, m := range all {
		switch {
		case m.Drop:
			drops = append(drops, m)
		case m.Piece == Knight:
			knightMoves = append(knightMoves, m)
		default:
			boardMoves = append(boardMoves, m)
		}
	}
	sortByKindOrder(boardMoves, boardCheckOrder)
	sortByKindOrder(drops, dropCheckOrder)
	out := make([]Move, 0, len(all))
	out = append(out, boardMoves...)
	out = append(out, knightMoves...)
	out = append(out, drops...)
	return out
}

// IsMateInOnePly reports whether pos (not in check, opponent to move next)
// has a move that checkmates in one reply, returning the first such move
// found in proof-piece-cheapest-first order (spec.md §4.H).
//
// This implementation tries every check candidate and confirms mate by
// making the move and counting the opponent's legal replies, rather than
// the spec's precomputed 8/15-neighborhood flight-square tables: both are
// sound, and the table is a constant-factor search speedup this
// implementation forgoes for auditability (see DESIGN.md).
func IsMateInOnePly(pos *Position) (Move, bool) {
	for _, m := range rankedMateCandidates(pos) {
		if !pos.MoveGivesCheck(m) {
			continue
		}
		if !m.Drop && !pos.NonDropMoveIsLegal(m) {
			continue // Checks is pseudo-legal only; reject moves that expose our own king
		}
		pos.MakeMove(m, true)
		mate := len(LegalMoves(pos)) == 0
		pos.UnmakeMove(m)
		if mate {
			return m, true
		}
	}
	return NoMove, false
}

// MateInOneProof returns the mating move together with the proof-piece
// set it consumes (the dropped piece, if any; empty for a board move).
func MateInOneProof(pos *Position) (Move, ProofPieceSet, bool) {
	m, ok := IsMateInOnePly(pos)
	if !ok {
		return NoMove, nil, false
	}
	proof := ProofPieceSet{}
	if m.Drop {
		proof[m.Piece] = 1
	}
	return m, proof, true
}
