package shogi

// movegen implements the staged pseudo-legal generators spec.md §4.G
// names (Captures, Quiets, Evasions, Checks, ..., AllMoves). Every
// generator appends onto a caller-owned slice and returns the extended
// slice, mirroring the teacher's allocation-avoiding append style.

func squareBB(sq Square) Bitboard { return squareBBTbl[sq] }

// fullBoardBB is every valid square, used as an "unrestricted" target mask.
func fullBoardBB() Bitboard { return Bitboard{}.Not() }

// appendBoardMove appends base and, where not dominated, its promoted
// variant. A pawn/lance/knight landing where it would have no legal move
// left must promote. Within the zone, silver and lance additionally keep
// the option not to promote (neither is strictly better unpromoted); for
// pawn, knight, bishop, and rook a non-promoting move into the zone is
// always inferior to promoting, so only the promoted variant is emitted
// even where the non-promotion would otherwise be legal.
func appendBoardMove(moves []Move, base Move) []Move {
	if !base.Piece.CanPromote() {
		return append(moves, base)
	}
	reachable := squareReachable(base.Color, base.Piece, false, base.To)
	if !reachable {
		mp := base
		mp.Promotion = true
		return append(moves, mp)
	}
	inZone := base.From.InPromotionZone(base.Color) || base.To.InPromotionZone(base.Color)
	if !inZone {
		return append(moves, base)
	}
	if base.Piece == Silver || base.Piece == Lance {
		moves = append(moves, base)
	}
	mp := base
	mp.Promotion = true
	return append(moves, mp)
}

// genBoardMovesFrom appends every pseudo-legal board move of the piece on
// from whose destination lies in mask.
func genBoardMovesFrom(pos *Position, from Square, mask Bitboard, moves []Move) []Move {
	p := pos.PieceOn[from]
	us := p.Color()
	occ := pos.Occupied()
	targets := Attacks(p, from, occ).AndNot(pos.ColorBB[us]).And(mask)
	targets.ForEach(func(to Square) {
		base := Move{From: from, To: to, Piece: p.UnpromotedType(), Color: us, Captured: pos.PieceOn[to]}
		if p.IsPromoted() {
			moves = append(moves, base)
			return
		}
		moves = appendBoardMove(moves, base)
	})
	return moves
}

// genDropsOf appends drops of every droppable hand kind onto empty squares
// in mask, honoring nifu and the no-legal-square restriction.
func genDropsOf(pos *Position, us Color, mask Bitboard, moves []Move) []Move {
	empty := pos.Occupied().Not().And(mask)
	for _, pt := range HandKinds {
		if !pos.Hands[us].Has(pt) {
			continue
		}
		empty.ForEach(func(to Square) {
			if !squareReachable(us, pt, false, to) {
				return
			}
			if pt == Pawn && pos.hasUnpromotedPawn(us, to.File()) {
				return
			}
			moves = append(moves, Move{From: SquareNone, To: to, Piece: pt, Color: us, Drop: true})
		})
	}
	return moves
}

// isCaptureBucketMove reports whether m belongs in the Captures stream:
// every capture, plus every promotion, with a non-capturing silver
// promotion as the sole carve-out that stays a Quiets move (a silver's
// unpromoted mobility is never strictly worse, so a quiet silver
// promotion doesn't carry the same urgency as the other quiet promotions).
func isCaptureBucketMove(m Move) bool {
	if m.IsCapture() {
		return true
	}
	return m.Promotion && m.Piece != Silver
}

// Captures appends pseudo-legal captures and promotions: every move that
// takes an enemy piece, plus every promoting move even onto an empty
// square, except a non-capturing silver promotion (which Quiets carries).
func Captures(pos *Position, moves []Move) []Move {
	us := pos.SideToMove
	them := us.Opponent()
	emptyZone := promotionZoneBB[us].AndNot(pos.Occupied())
	mask := pos.ColorBB[them].Or(emptyZone)
	fromZoneMask := pos.ColorBB[them].Or(pos.Occupied().Not())
	pos.ColorBB[us].ForEach(func(from Square) {
		m0 := mask
		if from.InPromotionZone(us) {
			m0 = fromZoneMask // a promotion may also leave the zone
		}
		for _, m := range genBoardMovesFrom(pos, from, m0, nil) {
			if isCaptureBucketMove(m) {
				moves = append(moves, m)
			}
		}
	})
	return moves
}

// Quiets appends pseudo-legal non-capturing, non-promoting board moves
// (plus a non-capturing silver promotion), and drops.
func Quiets(pos *Position, moves []Move) []Move {
	us := pos.SideToMove
	empty := pos.Occupied().Not()
	pos.ColorBB[us].ForEach(func(from Square) {
		for _, m := range genBoardMovesFrom(pos, from, empty, nil) {
			if !isCaptureBucketMove(m) {
				moves = append(moves, m)
			}
		}
	})
	return genDropsOf(pos, us, empty, moves)
}

// NonEvasions appends every pseudo-legal move when the side to move is not
// in check (captures and quiets combined).
func NonEvasions(pos *Position, moves []Move) []Move {
	moves = Captures(pos, moves)
	return Quiets(pos, moves)
}

// Evasions appends pseudo-legal moves when the side to move is in check:
// king moves, plus, against a single checker, captures of it and
// interpositions on the line between king and checker.
func Evasions(pos *Position, moves []Move) []Move {
	us := pos.SideToMove
	king := pos.KingSquare[us]
	moves = genBoardMovesFrom(pos, king, fullBoardBB().AndNot(pos.ColorBB[us]), moves)
	if pos.Checkers.PopCount() != 1 {
		return moves // double check: only the king can move
	}
	checker := pos.Checkers.LSB()
	blockSquares := betweenBB[checker][king].Set(checker)
	pos.ColorBB[us].ForEach(func(from Square) {
		if from == king {
			return
		}
		moves = genBoardMovesFrom(pos, from, blockSquares, moves)
	})
	return genDropsOf(pos, us, betweenBB[checker][king], moves)
}

// Checks appends pseudo-legal moves (board moves and drops) that give
// check, covering both direct attacks and discovered checks.
func Checks(pos *Position, moves []Move) []Move {
	us := pos.SideToMove
	them := us.Opponent()
	theirKing := pos.KingSquare[them]
	occ := pos.Occupied()

	pos.ColorBB[us].ForEach(func(from Square) {
		p := pos.PieceOn[from]
		discovered := pos.DiscoveredCheckCandidates.Test(from)
		targets := Attacks(p, from, occ).AndNot(pos.ColorBB[us])
		targets.ForEach(func(to Square) {
			base := Move{From: from, To: to, Piece: p.UnpromotedType(), Color: us, Captured: pos.PieceOn[to]}
			var cands []Move
			if p.IsPromoted() {
				cands = []Move{base}
			} else {
				cands = []Move{base}
				if base.Piece.CanPromote() && (from.InPromotionZone(us) || to.InPromotionZone(us)) {
					mp := base
					mp.Promotion = true
					cands = append(cands, mp)
				}
			}
			for _, m := range cands {
				if !p.IsPromoted() && !m.Promotion && !squareReachable(us, m.Piece, false, to) {
					continue // would strand the piece; only the promoted variant is legal
				}
				if discovered && !lineBB[from][theirKing].Test(to) {
					moves = append(moves, m)
					continue
				}
				if pos.MoveGivesCheck(m) {
					moves = append(moves, m)
				}
			}
		})
	})

	empty := pos.Occupied().Not()
	for _, pt := range HandKinds {
		if !pos.Hands[us].Has(pt) {
			continue
		}
		empty.ForEach(func(to Square) {
			if !squareReachable(us, pt, false, to) {
				return
			}
			if pt == Pawn && pos.hasUnpromotedPawn(us, to.File()) {
				return
			}
			m := Move{From: SquareNone, To: to, Piece: pt, Color: us, Drop: true}
			if pos.MoveGivesCheck(m) {
				moves = append(moves, m)
			}
		})
	}
	return moves
}

// QuietChecks appends Checks that do not capture.
func QuietChecks(pos *Position, moves []Move) []Move {
	for _, m := range Checks(pos, nil) {
		if !m.IsCapture() {
			moves = append(moves, m)
		}
	}
	return moves
}

// AdjacentChecks appends the subset of Checks delivered from a square
// adjacent to the opponent's king, the opening checks MateInThree tries
// (spec.md §4.H).
func AdjacentChecks(pos *Position, moves []Move) []Move {
	them := pos.SideToMove.Opponent()
	theirKing := pos.KingSquare[them]
	for _, m := range Checks(pos, nil) {
		if isAdjacent(m.To, theirKing) {
			moves = append(moves, m)
		}
	}
	return moves
}

func isAdjacent(a, b Square) bool {
	df := int(a.File()) - int(b.File())
	dr := int(a.Rank()) - int(b.Rank())
	if df < 0 {
		df = -df
	}
	if dr < 0 {
		dr = -dr
	}
	return df <= 1 && dr <= 1 && a != b
}

// Recaptures appends pseudo-legal captures landing on sq, used after the
// opponent's move lands a piece there (spec.md §4.G).
func Recaptures(pos *Position, sq Square, moves []Move) []Move {
	us := pos.SideToMove
	occ := pos.Occupied()
	pos.ColorBB[us].ForEach(func(from Square) {
		if !Attacks(pos.PieceOn[from], from, occ).Test(sq) {
			return
		}
		moves = genBoardMovesFrom(pos, from, squareBB(sq), moves)
	})
	return moves
}

// AllMoves appends every pseudo-legal move in the position: Evasions if
// the side to move is in check, NonEvasions otherwise.
func AllMoves(pos *Position, moves []Move) []Move {
	if pos.Checkers.Any() {
		return Evasions(pos, moves)
	}
	return NonEvasions(pos, moves)
}

// LegalMoves filters AllMoves down to moves that leave the mover's own
// king safe.
func LegalMoves(pos *Position) []Move {
	pseudo := AllMoves(pos, nil)
	legal := make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		if m.Drop || pos.NonDropMoveIsLegal(m) {
			legal = append(legal, m)
		}
	}
	return legal
}
