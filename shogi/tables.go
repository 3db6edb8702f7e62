package shogi

// Precomputed tables, built once by init() and read-only thereafter
// (spec.md §9 "Global state"). All are pure functions of the shogi rules.
var (
	squareBBTbl [81]Bitboard
	fileBB      [9]Bitboard
	rankBB      [9]Bitboard
	promotionZoneBB [ColorNB]Bitboard

	lineBB    [81][81]Bitboard
	betweenBB [81][81]Bitboard

	kingAttacksBB   [81]Bitboard
	goldAttacksBB   [ColorNB][81]Bitboard
	silverAttacksBB [ColorNB][81]Bitboard
	pawnAttacksBB   [ColorNB][81]Bitboard
	knightAttacksBB [ColorNB][81]Bitboard
)

// relative direction index, clockwise from forward: matches Direction's
// own N,NE,E,SE,S,SW,W,NW ordering, so "forward" for Black (index 0) is
// simply rotated by four positions for White.
func colorDir(c Color, rel Direction) Direction {
	if c == Black {
		return rel
	}
	return Direction((int(rel) + 4) % 8)
}

var goldRelDirs = []Direction{DirN, DirNE, DirNW, DirE, DirW, DirS}
var silverRelDirs = []Direction{DirN, DirNE, DirNW, DirSE, DirSW}
var kingRelDirs = []Direction{DirN, DirNE, DirE, DirSE, DirS, DirSW, DirW, DirNW}
var diagonalDirs = []Direction{DirNE, DirSE, DirSW, DirNW}
var orthogonalDirs = []Direction{DirN, DirE, DirS, DirW}

func stepUnion(c Color, sq Square, rels []Direction) Bitboard {
	var bb Bitboard
	for _, rel := range rels {
		if t := step(sq, colorDir(c, rel)); t != SquareNone {
			bb = bb.Set(t)
		}
	}
	return bb
}

func knightTargets(c Color, sq Square) Bitboard {
	var bb Bitboard
	f := int(sq.File())
	var r int
	if c == Black {
		r = int(sq.Rank()) - 2
	} else {
		r = int(sq.Rank()) + 2
	}
	if r < 0 || r > 8 {
		return bb
	}
	for _, df := range []int{-1, 1} {
		nf := f + df
		if nf >= 0 && nf <= 8 {
			bb = bb.Set(NewSquare(File(nf), Rank(r)))
		}
	}
	return bb
}

func rayAttacks(sq Square, dirs []Direction, occ Bitboard) Bitboard {
	var bb Bitboard
	for _, d := range dirs {
		s := sq
		for {
			t := step(s, d)
			if t == SquareNone {
				break
			}
			bb = bb.Set(t)
			if occ.Test(t) {
				break
			}
			s = t
		}
	}
	return bb
}

func lanceRayAttacks(c Color, sq Square, occ Bitboard) Bitboard {
	return rayAttacks(sq, []Direction{colorDir(c, DirN)}, occ)
}

func init() {
	initBasicTables()
	initLineBetween()
	initMagics()
}

func initBasicTables() {
	for f := File(0); f < FileNB; f++ {
		for r := Rank(0); r < RankNB; r++ {
			sq := NewSquare(f, r)
			squareBBTbl[sq] = bitOf(sq)
			fileBB[f] = fileBB[f].Set(sq)
			rankBB[r] = rankBB[r].Set(sq)
		}
	}
	for sq := Square(0); sq < 81; sq++ {
		if sq.InPromotionZone(Black) {
			promotionZoneBB[Black] = promotionZoneBB[Black].Set(sq)
		}
		if sq.InPromotionZone(White) {
			promotionZoneBB[White] = promotionZoneBB[White].Set(sq)
		}
		kingAttacksBB[sq] = stepUnion(Black, sq, kingRelDirs)
		for c := Black; c < ColorNB; c++ {
			goldAttacksBB[c][sq] = stepUnion(c, sq, goldRelDirs)
			silverAttacksBB[c][sq] = stepUnion(c, sq, silverRelDirs)
			pawnAttacksBB[c][sq] = stepUnion(c, sq, []Direction{DirN})
			knightAttacksBB[c][sq] = knightTargets(c, sq)
		}
	}
}

// queenLine reports whether a and b share a rook or bishop line, returning
// the direction from a to b if so.
func queenLine(a, b Square) (Direction, bool) {
	if a == b {
		return 0, false
	}
	df := int(b.File()) - int(a.File())
	dr := int(b.Rank()) - int(a.Rank())
	switch {
	case dr == 0 && df > 0:
		return DirE, true
	case dr == 0 && df < 0:
		return DirW, true
	case df == 0 && dr < 0:
		return DirN, true
	case df == 0 && dr > 0:
		return DirS, true
	case df == dr && df > 0:
		return DirSE, true
	case df == dr && df < 0:
		return DirNW, true
	case df == -dr && df > 0:
		return DirNE, true
	case df == -dr && df < 0:
		return DirSW, true
	}
	return 0, false
}

func initLineBetween() {
	for a := Square(0); a < 81; a++ {
		for b := Square(0); b < 81; b++ {
			dir, ok := queenLine(a, b)
			if !ok {
				continue
			}
			// Between: strictly between a and b (requires b reachable from a
			// by repeated steps in dir before leaving the board).
			var between Bitboard
			s := a
			reached := false
			for i := 0; i < 9; i++ {
				t := step(s, dir)
				if t == SquareNone {
					break
				}
				if t == b {
					reached = true
					break
				}
				between = between.Set(t)
				s = t
			}
			if !reached {
				continue
			}
			betweenBB[a][b] = between

			// Line: full line through a and b, both directions, endpoints included.
			var line Bitboard
			line = line.Set(a).Set(b)
			for _, d := range []Direction{dir, oppositeDir(dir)} {
				s := a
				for {
					t := step(s, d)
					if t == SquareNone {
						break
					}
					line = line.Set(t)
					s = t
				}
			}
			lineBB[a][b] = line
		}
	}
}

func oppositeDir(d Direction) Direction {
	return Direction((int(d) + 4) % 8)
}
