package shogi

// ExtendedBoard mirrors Position's board and answers "who attacks this
// square" queries (spec.md §4.D). The original engine maintains per-square
// attacker counts and long-attack directions incrementally, retracting and
// extending sliding rays on every PutPiece/RemovePiece. This implementation
// keeps the same public contract (NumControls, LongAttackDirs,
// neighborhood extractors) but recomputes a queried square's attackers
// on demand from the 81-entry piece array rather than maintaining
// per-square running counters — the incremental ray-retraction bookkeeping
// is the highest-risk part of the whole engine to get subtly wrong, and
// correctness was prioritized over that one constant-factor optimization.
// See DESIGN.md.
type ExtendedBoard struct {
	Piece [81]Piece
}

func NewExtendedBoard() *ExtendedBoard {
	eb := &ExtendedBoard{}
	for i := range eb.Piece {
		eb.Piece[i] = NoPiece
	}
	return eb
}

func (b *ExtendedBoard) PutPiece(p Piece, sq Square) {
	b.Piece[sq] = p
}

func (b *ExtendedBoard) RemovePiece(sq Square) Piece {
	p := b.Piece[sq]
	b.Piece[sq] = NoPiece
	return p
}

// MakeCaptureMove composes a remove-at-destination then move-from-source.
func (b *ExtendedBoard) MakeCaptureMove(from, to Square) Piece {
	captured := b.RemovePiece(to)
	p := b.RemovePiece(from)
	b.PutPiece(p, to)
	return captured
}

// MakeNonCaptureMove moves a piece onto an empty square.
func (b *ExtendedBoard) MakeNonCaptureMove(from, to Square) {
	p := b.RemovePiece(from)
	b.PutPiece(p, to)
}

// MakeDropMove places a hand piece onto an empty square.
func (b *ExtendedBoard) MakeDropMove(p Piece, to Square) {
	b.PutPiece(p, to)
}

// MakeDropAndKingRecapture fuses a drop with the immediate king
// recapture of the dropped piece, the two-ply update spec.md §4.D
// names for mate-in-3 search.
func (b *ExtendedBoard) MakeDropAndKingRecapture(dropped Piece, dropSq Square, kingFrom, kingTo Square) {
	b.MakeDropMove(dropped, dropSq)
	b.MakeCaptureMove(kingFrom, kingTo)
}

// AttackersTo returns the bitboard of by-colored pieces attacking sq given
// board occupancy occ.
func (b *ExtendedBoard) AttackersTo(occ Bitboard, sq Square, by Color) Bitboard {
	var attackers Bitboard
	for s := Square(0); s < 81; s++ {
		p := b.Piece[s]
		if p == NoPiece || p == PieceWall || p.Color() != by {
			continue
		}
		if Attacks(p, s, occ).Test(sq) {
			attackers = attackers.Set(s)
		}
	}
	return attackers
}

func (b *ExtendedBoard) NumControls(occ Bitboard, sq Square, by Color) int {
	return b.AttackersTo(occ, sq, by).PopCount()
}

// LongAttackDirs returns, from sq's point of view, the subset of the eight
// directions along which a by-colored slider attacks sq.
func (b *ExtendedBoard) LongAttackDirs(occ Bitboard, sq Square, by Color) DirectionSet {
	var dirs DirectionSet
	for s := Square(0); s < 81; s++ {
		p := b.Piece[s]
		if p == NoPiece || p == PieceWall || p.Color() != by {
			continue
		}
		if !IsSlider(p.Type(), p.IsPromoted()) {
			continue
		}
		if !Attacks(p, s, occ).Test(sq) {
			continue
		}
		if dir, ok := queenLine(sq, s); ok {
			dirs = dirs.With(dir)
		}
	}
	return dirs
}

// GetControlledSquares returns all squares with at least one by-colored
// attacker.
func (b *ExtendedBoard) GetControlledSquares(occ Bitboard, by Color) Bitboard {
	var bb Bitboard
	for sq := Square(0); sq < 81; sq++ {
		if b.NumControls(occ, sq, by) > 0 {
			bb = bb.Set(sq)
		}
	}
	return bb
}

// GetEightNeighborhoodPieces returns the pieces on the eight squares
// around sq, PieceWall for off-board neighbors, ordered by Direction
// (N, NE, E, SE, S, SW, W, NW).
func (b *ExtendedBoard) GetEightNeighborhoodPieces(sq Square) [8]Piece {
	var out [8]Piece
	for d := Direction(0); d < DirectionNB; d++ {
		if t := step(sq, d); t != SquareNone {
			out[d] = b.Piece[t]
		} else {
			out[d] = PieceWall
		}
	}
	return out
}

// GetEightNeighborhoodControls returns, for each of the eight directions
// around sq, by's attacker count on that neighboring square (0 if the
// neighbor is off-board).
func (b *ExtendedBoard) GetEightNeighborhoodControls(occ Bitboard, by Color, sq Square) [8]uint8 {
	var out [8]uint8
	for d := Direction(0); d < DirectionNB; d++ {
		if t := step(sq, d); t != SquareNone {
			out[d] = uint8(b.NumControls(occ, t, by))
		}
	}
	return out
}

// GetFifteenNeighborhoodPieces returns the pieces in the 3-rank x 5-file
// box centered on sq (rank-1..rank+1, file-2..file+2), row-major,
// PieceWall for any cell off the board.
func (b *ExtendedBoard) GetFifteenNeighborhoodPieces(sq Square) [15]Piece {
	var out [15]Piece
	f0, r0 := int(sq.File()), int(sq.Rank())
	i := 0
	for dr := -1; dr <= 1; dr++ {
		for df := -2; df <= 2; df++ {
			f, r := f0+df, r0+dr
			if f < 0 || f > 8 || r < 0 || r > 8 {
				out[i] = PieceWall
			} else {
				out[i] = b.Piece[NewSquare(File(f), Rank(r))]
			}
			i++
		}
	}
	return out
}

// GetFifteenNeighborhoodControls mirrors GetFifteenNeighborhoodPieces for
// by's attacker counts.
func (b *ExtendedBoard) GetFifteenNeighborhoodControls(occ Bitboard, by Color, sq Square) [15]uint8 {
	var out [15]uint8
	f0, r0 := int(sq.File()), int(sq.Rank())
	i := 0
	for dr := -1; dr <= 1; dr++ {
		for df := -2; df <= 2; df++ {
			f, r := f0+df, r0+dr
			if f >= 0 && f <= 8 && r >= 0 && r <= 8 {
				out[i] = uint8(b.NumControls(occ, NewSquare(File(f), Rank(r)), by))
			}
			i++
		}
	}
	return out
}
