package shogi

// PsqIndex identifies one "piece instance" slot for evaluation lookups:
// 0..75 for hand pieces (color x kind x ordinal copy), 76.. for board
// pieces (piece x square, skipping placements where an unpromoted piece
// would have no legal move left: pawn/lance on the piece's own far rank,
// knight on the two far ranks). Exact numeric boundaries are derived programmatically
// rather than hardcoded to the spec's 0..2109 range — see DESIGN.md.
type PsqIndex int

const handIndexBase PsqIndex = 0

var (
	handIndexOffset [ColorNB][PieceTypeNB]PsqIndex
	handIndexSpan   PsqIndex

	boardIndexBase  PsqIndex
	boardIndexOf    [64][81]PsqIndex // [Piece][Square], -1 if unreachable
	boardIndexSpan  PsqIndex
)

func handKindMax(pt PieceType) int {
	switch pt {
	case Pawn:
		return 18
	case Bishop, Rook:
		return 2
	default:
		return 4
	}
}

// boardKinds enumerates the (kind, promoted) combinations that can stand
// on the board, excluding King (handled by the KP king-relative terms,
// not PsqList).
var boardKinds = []struct {
	Kind      PieceType
	Promoted  bool
}{
	{Pawn, false}, {Pawn, true},
	{Lance, false}, {Lance, true},
	{Knight, false}, {Knight, true},
	{Silver, false}, {Silver, true},
	{Gold, false},
	{Bishop, false}, {Bishop, true},
	{Rook, false}, {Rook, true},
}

// squareReachable reports whether an unpromoted pt could ever stand on sq
// for color c (i.e. is not stuck with zero legal moves there): pawn/lance
// cannot stand on their own far rank, knight cannot stand on its own two
// far ranks. Promoted pieces and all other kinds can stand anywhere.
func squareReachable(c Color, pt PieceType, promoted bool, sq Square) bool {
	if promoted {
		return true
	}
	switch pt {
	case Pawn, Lance:
		return sq.RelativeRank(c) != 0
	case Knight:
		rr := sq.RelativeRank(c)
		return rr != 0 && rr != 1
	default:
		return true
	}
}

func init() {
	idx := handIndexBase
	for c := Black; c < ColorNB; c++ {
		for _, pt := range HandKinds {
			handIndexOffset[c][pt] = idx
			idx += PsqIndex(handKindMax(pt))
		}
	}
	handIndexSpan = idx
	boardIndexBase = idx

	for i := range boardIndexOf {
		for j := range boardIndexOf[i] {
			boardIndexOf[i][j] = -1
		}
	}
	next := boardIndexBase
	for c := Black; c < ColorNB; c++ {
		for _, bk := range boardKinds {
			for sq := Square(0); sq < 81; sq++ {
				if !squareReachable(c, bk.Kind, bk.Promoted, sq) {
					continue
				}
				p := NewPiece(c, bk.Kind, bk.Promoted)
				boardIndexOf[p][sq] = next
				next++
			}
		}
	}
	boardIndexSpan = next
}

// HandPsqIndex returns the index for holding the ordinal-th (1-indexed)
// copy of pt in c's hand.
func HandPsqIndex(c Color, pt PieceType, ordinal int) PsqIndex {
	return handIndexOffset[c][pt] + PsqIndex(ordinal-1)
}

// BoardPsqIndex returns the index for piece p standing on sq, or -1 if
// that placement is unreachable (defect if queried).
func BoardPsqIndex(p Piece, sq Square) PsqIndex {
	return boardIndexOf[p][sq]
}

// PsqIndexSpan is the total number of distinct PsqIndex values in use.
func PsqIndexSpan() int { return int(boardIndexSpan) }

// mirrorSquare reflects sq across the board center, used to compute a
// piece instance's White-perspective index from its Black-perspective one.
func mirrorSquare(sq Square) Square {
	return NewSquare(File(8-int(sq.File())), Rank(8-int(sq.Rank())))
}

// PsqPair is the (black-perspective, white-perspective) index pair for one
// piece instance, enabling mirror-symmetric evaluation table lookups
// (spec.md §3).
type PsqPair struct {
	Black PsqIndex
	White PsqIndex
}

// BoardPsqPair computes the PsqPair for a board piece instance.
func BoardPsqPair(p Piece, sq Square) PsqPair {
	mirrored := NewPiece(p.Color().Opponent(), p.Type(), p.IsPromoted())
	return PsqPair{
		Black: BoardPsqIndex(p, sq),
		White: BoardPsqIndex(mirrored, mirrorSquare(sq)),
	}
}

// HandPsqPair computes the PsqPair for a hand piece instance.
func HandPsqPair(c Color, pt PieceType, ordinal int) PsqPair {
	return PsqPair{
		Black: HandPsqIndex(c, pt, ordinal),
		White: HandPsqIndex(c.Opponent(), pt, ordinal),
	}
}

// PsqListEntry identifies one live, non-king piece instance.
type PsqListEntry struct {
	Pair PsqPair
}

// PsqList is the ordered set of all non-king piece instances (on board or
// in hand), at most 38 entries (40 pieces minus the two kings). The
// original maintains this incrementally per move; this implementation
// rebuilds it from the position on demand (see DESIGN.md) since the
// incremental drop/capture/move splicing is the likeliest place for an
// unverifiable off-by-one to hide without a test run.
type PsqList struct {
	Entries []PsqListEntry
}

// Rebuild recomputes the list from scratch for pos.
func (l *PsqList) Rebuild(pos *Position) {
	l.Entries = l.Entries[:0]
	for sq := Square(0); sq < 81; sq++ {
		p := pos.PieceOn[sq]
		if p == NoPiece || p.Type() == King {
			continue
		}
		l.Entries = append(l.Entries, PsqListEntry{Pair: BoardPsqPair(p, sq)})
	}
	for c := Black; c < ColorNB; c++ {
		for _, pt := range HandKinds {
			n := pos.Hands[c].Count(pt)
			for ord := 1; ord <= n; ord++ {
				l.Entries = append(l.Entries, PsqListEntry{Pair: HandPsqPair(c, pt, ord)})
			}
		}
	}
}

// PsqControlIndex packs {square, white control (clamped 0..3), black
// control (clamped 0..3), piece} into one 16-bit value (spec.md §3).
type PsqControlIndex uint16

func clampControl(n int) uint16 {
	if n > 3 {
		return 3
	}
	if n < 0 {
		return 0
	}
	return uint16(n)
}

// MakePsqControlIndex packs one square's control cell. Piece is six bits
// wide (bit 5 is its color), so it is re-coded into the five-bit field as
// kind, plus 8 when promoted, plus 16 for White (0 for an empty square).
func MakePsqControlIndex(sq Square, whiteCtrl, blackCtrl int, p Piece) PsqControlIndex {
	var code uint16
	if p != NoPiece && p != PieceWall {
		code = uint16(p.Type())
		if p.IsPromoted() {
			code += 8
		}
		if p.Color() == White {
			code += 16
		}
	}
	return PsqControlIndex(uint16(sq)<<9 | clampControl(whiteCtrl)<<7 | clampControl(blackCtrl)<<5 | code)
}

// PsqControlList holds one PsqControlIndex per square.
type PsqControlList [81]PsqControlIndex

// BuildPsqControlList packs the extended board's current control state.
func BuildPsqControlList(eb *ExtendedBoard, occ Bitboard) PsqControlList {
	var list PsqControlList
	for sq := Square(0); sq < 81; sq++ {
		white := eb.NumControls(occ, sq, White)
		black := eb.NumControls(occ, sq, Black)
		list[sq] = MakePsqControlIndex(sq, white, black, eb.Piece[sq])
	}
	return list
}

// ComputeDifference returns the bitboard of squares whose control index
// differs between a and b, letting the evaluator re-sum only what changed
// (spec.md §3 PsqControlList).
func ComputeDifference(a, b PsqControlList) Bitboard {
	var bb Bitboard
	for sq := Square(0); sq < 81; sq++ {
		if a[sq] != b[sq] {
			bb = bb.Set(Square(sq))
		}
	}
	return bb
}
