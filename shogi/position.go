package shogi

// StateInfo snapshots the derived (non-board) state needed to undo one
// ply (spec.md §3). Board/hand deltas are undone by literally reversing
// the move's own from/to/captured/drop fields, so StateInfo only needs to
// carry scalars and bitboards that depend on the whole position.
type StateInfo struct {
	Move                      Move
	Checkers                  Bitboard
	Pinned                    Bitboard
	DiscoveredCheckCandidates Bitboard
	ContinuousCheck           [ColorNB]int
	PliesFromNull             int
	BoardKey                  uint64
	HandKeySum                [ColorNB]uint64
	PositionKey               uint64
}

// plyRecord is one entry in the repetition history: the board+side key
// (hand excluded) plus both hands, so DetectRepetition can distinguish an
// exact repeat from a same-board dominance case (spec.md §7, §8.17).
type plyRecord struct {
	BoardKey uint64
	Hands    [ColorNB]Hand
	Checker  Color // color that just delivered check on this ply, ColorNB if none
}

// Position holds one shogi position: board, hands, side to move, and the
// incrementally maintained derived state search and evaluation read
// (spec.md §3, composing Hand + Bitboard + ExtendedBoard + PSQ).
type Position struct {
	PieceOn    [81]Piece
	ColorBB    [ColorNB]Bitboard
	Hands      [ColorNB]Hand
	SideToMove Color
	KingSquare [ColorNB]Square
	Ext        *ExtendedBoard

	BoardKey    uint64
	HandKeySum  [ColorNB]uint64
	PositionKey uint64

	Checkers                  Bitboard
	Pinned                    Bitboard
	DiscoveredCheckCandidates Bitboard
	ContinuousCheck           [ColorNB]int
	PliesFromNull             int

	LastMove Move

	History []StateInfo
	Plies   []plyRecord
}

// NewPosition returns an empty position (no pieces, Black to move). Use
// FromSfen for a playable position.
func NewPosition() *Position {
	pos := &Position{Ext: NewExtendedBoard()}
	for i := range pos.PieceOn {
		pos.PieceOn[i] = NoPiece
	}
	pos.KingSquare[Black] = SquareNone
	pos.KingSquare[White] = SquareNone
	return pos
}

func (pos *Position) Occupied() Bitboard {
	return pos.ColorBB[Black].Or(pos.ColorBB[White])
}

// --- low level board/hand mutators; all key bookkeeping happens here ---

func (pos *Position) placePiece(p Piece, sq Square) {
	pos.PieceOn[sq] = p
	pos.ColorBB[p.Color()] = pos.ColorBB[p.Color()].Set(sq)
	pos.Ext.PutPiece(p, sq)
	k := PieceKey(p, sq)
	pos.BoardKey += k
	pos.PositionKey += k
	if p.Type() == King {
		pos.KingSquare[p.Color()] = sq
	}
}

func (pos *Position) removePiece(sq Square) Piece {
	p := pos.PieceOn[sq]
	pos.PieceOn[sq] = NoPiece
	pos.ColorBB[p.Color()] = pos.ColorBB[p.Color()].Reset(sq)
	pos.Ext.RemovePiece(sq)
	k := PieceKey(p, sq)
	pos.BoardKey -= k
	pos.PositionKey -= k
	return p
}

// placePieceKeepExt and removePieceKeepExt mirror placePiece/removePiece
// without touching Ext, for callers that have already updated Ext through
// one of its own fused composites (e.g. MakeDropAndKingRecapture).
func (pos *Position) placePieceKeepExt(p Piece, sq Square) {
	pos.PieceOn[sq] = p
	pos.ColorBB[p.Color()] = pos.ColorBB[p.Color()].Set(sq)
	k := PieceKey(p, sq)
	pos.BoardKey += k
	pos.PositionKey += k
	if p.Type() == King {
		pos.KingSquare[p.Color()] = sq
	}
}

func (pos *Position) removePieceKeepExt(sq Square) Piece {
	p := pos.PieceOn[sq]
	pos.PieceOn[sq] = NoPiece
	pos.ColorBB[p.Color()] = pos.ColorBB[p.Color()].Reset(sq)
	k := PieceKey(p, sq)
	pos.BoardKey -= k
	pos.PositionKey -= k
	return p
}

func (pos *Position) addToHand(c Color, pt PieceType) {
	n := pos.Hands[c].Count(pt) + 1
	pos.Hands[c] = pos.Hands[c].Add(pt)
	k := HandKey(c, pt, n)
	pos.HandKeySum[c] += k
	pos.PositionKey += k
}

func (pos *Position) removeFromHand(c Color, pt PieceType) {
	n := pos.Hands[c].Count(pt)
	pos.Hands[c] = pos.Hands[c].Remove(pt)
	k := HandKey(c, pt, n)
	pos.HandKeySum[c] -= k
	pos.PositionKey -= k
}

// toggleSideToMove flips SideToMove and applies the matching side-to-move
// key delta to both BoardKey and PositionKey (added when it becomes
// White's move, subtracted when it becomes Black's).
func (pos *Position) toggleSideToMove() {
	if pos.SideToMove == Black {
		pos.BoardKey += SideToMoveKey()
		pos.PositionKey += SideToMoveKey()
	} else {
		pos.BoardKey -= SideToMoveKey()
		pos.PositionKey -= SideToMoveKey()
	}
	pos.SideToMove = pos.SideToMove.Opponent()
}

// --- attackers-to simulation over a hypothetical board, shared by check
// detection, legality, and MoveGivesCheck (spec.md §4.F) ---

func (pos *Position) attackersToAfter(occAfter Bitboard, overrides map[Square]Piece, sq Square, by Color) Bitboard {
	var attackers Bitboard
	for s := Square(0); s < 81; s++ {
		p, ok := overrides[s]
		if !ok {
			p = pos.Ext.Piece[s]
		}
		if p == NoPiece || p == PieceWall || p.Color() != by {
			continue
		}
		if Attacks(p, s, occAfter).Test(sq) {
			attackers = attackers.Set(s)
		}
	}
	return attackers
}

func sliderCoversDirection(p Piece, dir Direction) bool {
	switch p.Type() {
	case Lance:
		return !p.IsPromoted() && dir == colorDir(p.Color(), DirN)
	case Bishop:
		return isDiagonalDir(dir)
	case Rook:
		return isOrthogonalDir(dir)
	}
	return false
}

func isDiagonalDir(d Direction) bool {
	return d == DirNE || d == DirSE || d == DirSW || d == DirNW
}
func isOrthogonalDir(d Direction) bool {
	return d == DirN || d == DirE || d == DirS || d == DirW
}

func (pos *Position) computeCheckers() Bitboard {
	us := pos.SideToMove
	them := us.Opponent()
	return pos.Ext.AttackersTo(pos.Occupied(), pos.KingSquare[us], them)
}

// computePinned returns c's own pieces pinned against c's king.
func (pos *Position) computePinned(c Color) Bitboard {
	king := pos.KingSquare[c]
	them := c.Opponent()
	occ := pos.Occupied()
	var pinned Bitboard
	for sq := Square(0); sq < 81; sq++ {
		p := pos.PieceOn[sq]
		if p == NoPiece || p.Color() != them || !IsSlider(p.Type(), p.IsPromoted()) {
			continue
		}
		dir, ok := queenLine(sq, king)
		if !ok || !sliderCoversDirection(p, dir) {
			continue
		}
		between := betweenBB[sq][king]
		blockers := between.And(occ)
		if blockers.PopCount() == 1 && blockers.And(pos.ColorBB[c]).Any() {
			pinned = pinned.Or(blockers)
		}
	}
	return pinned
}

// computeDiscoveredCheckCandidates returns c's own pieces whose departure
// could expose c's slider attack on the opponent king.
func (pos *Position) computeDiscoveredCheckCandidates(c Color) Bitboard {
	them := c.Opponent()
	theirKing := pos.KingSquare[them]
	occ := pos.Occupied()
	var out Bitboard
	for sq := Square(0); sq < 81; sq++ {
		p := pos.PieceOn[sq]
		if p == NoPiece || p.Color() != c || !IsSlider(p.Type(), p.IsPromoted()) {
			continue
		}
		dir, ok := queenLine(sq, theirKing)
		if !ok || !sliderCoversDirection(p, dir) {
			continue
		}
		between := betweenBB[sq][theirKing]
		blockers := between.And(occ)
		if blockers.PopCount() == 1 && blockers.And(pos.ColorBB[c]).Any() {
			out = out.Or(blockers)
		}
	}
	return out
}

func (pos *Position) refreshDerivedState() {
	pos.Checkers = pos.computeCheckers()
	pos.Pinned = pos.computePinned(pos.SideToMove)
	pos.DiscoveredCheckCandidates = pos.computeDiscoveredCheckCandidates(pos.SideToMove)
}

// MoveGivesCheck reports whether m, if played now, would check the
// opponent, without mutating pos (spec.md §4.F).
func (pos *Position) MoveGivesCheck(m Move) bool {
	us := pos.SideToMove
	them := us.Opponent()
	theirKing := pos.KingSquare[them]
	overrides := map[Square]Piece{}
	occAfter := pos.Occupied()
	if m.Drop {
		p := NewPiece(us, m.Piece, false)
		overrides[m.To] = p
		occAfter = occAfter.Set(m.To)
	} else {
		moving := pos.PieceOn[m.From]
		if m.Promotion {
			moving = moving.Promote()
		}
		overrides[m.From] = NoPiece
		overrides[m.To] = moving
		occAfter = occAfter.Reset(m.From).Set(m.To)
	}
	return pos.attackersToAfter(occAfter, overrides, theirKing, us).Any()
}

// NonDropMoveIsLegal reports whether a pseudo-legal board move leaves the
// mover's own king safe: pinned-piece self-check, king moving into an
// attacked square, or a king stepping along a slider's ray it just
// vacated are all caught by simulating post-move attackers (spec.md §4.F).
func (pos *Position) NonDropMoveIsLegal(m Move) bool {
	us := pos.SideToMove
	them := us.Opponent()
	moving := pos.PieceOn[m.From]
	dest := moving
	if m.Promotion {
		dest = moving.Promote()
	}
	overrides := map[Square]Piece{m.From: NoPiece, m.To: dest}
	occAfter := pos.Occupied().Reset(m.From).Set(m.To)
	myKing := pos.KingSquare[us]
	if moving.Type() == King {
		myKing = m.To
	}
	return pos.attackersToAfter(occAfter, overrides, myKing, them).Empty()
}

// hasUnpromotedPawn reports whether c has an unpromoted pawn on file f.
func (pos *Position) hasUnpromotedPawn(c Color, f File) bool {
	for r := Rank(0); r < RankNB; r++ {
		sq := NewSquare(f, r)
		p := pos.PieceOn[sq]
		if p != NoPiece && p.Color() == c && p.Type() == Pawn && !p.IsPromoted() {
			return true
		}
	}
	return false
}

// MoveIsPseudoLegal checks side, drop rules, and move rules, ignoring
// whether the mover's own king ends up safe (spec.md §4.F).
func (pos *Position) MoveIsPseudoLegal(m Move) bool {
	us := pos.SideToMove
	if m.Drop {
		if m.Color != us || !pos.Hands[us].Has(m.Piece) {
			return false
		}
		if pos.PieceOn[m.To] != NoPiece {
			return false
		}
		if !squareReachable(us, m.Piece, false, m.To) {
			return false
		}
		if m.Piece == Pawn && pos.hasUnpromotedPawn(us, m.To.File()) {
			return false
		}
		if pos.Checkers.Any() {
			if pos.Checkers.PopCount() > 1 {
				return false
			}
			checkerSq := pos.Checkers.LSB()
			interposeSet := betweenBB[checkerSq][pos.KingSquare[us]]
			if !interposeSet.Test(m.To) {
				return false
			}
		}
		return true
	}

	moving := pos.PieceOn[m.From]
	if moving == NoPiece || moving.Color() != us {
		return false
	}
	target := pos.PieceOn[m.To]
	if target != NoPiece && target.Color() == us {
		return false
	}
	if target != m.Captured {
		return false
	}
	occ := pos.Occupied()
	if !Attacks(moving, m.From, occ).Test(m.To) {
		return false
	}
	if m.Promotion {
		if !moving.Type().CanPromote() || moving.IsPromoted() {
			return false
		}
		if !m.From.InPromotionZone(us) && !m.To.InPromotionZone(us) {
			return false
		}
	} else {
		if !squareReachable(us, moving.Type(), false, m.To) {
			return false
		}
	}
	if pos.Checkers.Any() && moving.Type() != King {
		if pos.Checkers.PopCount() > 1 {
			return false
		}
		checkerSq := pos.Checkers.LSB()
		allowed := betweenBB[checkerSq][pos.KingSquare[us]].Set(checkerSq)
		if !allowed.Test(m.To) {
			return false
		}
	}
	return true
}

// MoveIsLegal combines pseudo-legality with the own-king-safety check.
func (pos *Position) MoveIsLegal(m Move) bool {
	if !pos.MoveIsPseudoLegal(m) {
		return false
	}
	if m.Drop {
		return true
	}
	return pos.NonDropMoveIsLegal(m)
}

// MakeMove applies m (or, if m.IsNone(), a null move) and updates all
// derived state. givesCheck should be the result of MoveGivesCheck(m)
// called beforehand, so the cost of detecting check is paid once.
// Preconditions: m is legal (or, for the null move, the side to move is
// not currently in check). Violation is a caller defect (spec.md §7).
func (pos *Position) MakeMove(m Move, givesCheck bool) {
	pos.History = append(pos.History, StateInfo{
		Move:                      m,
		Checkers:                  pos.Checkers,
		Pinned:                    pos.Pinned,
		DiscoveredCheckCandidates: pos.DiscoveredCheckCandidates,
		ContinuousCheck:           pos.ContinuousCheck,
		PliesFromNull:             pos.PliesFromNull,
		BoardKey:                  pos.BoardKey,
		HandKeySum:                pos.HandKeySum,
		PositionKey:               pos.PositionKey,
	})

	us := pos.SideToMove
	checkerColor := ColorNB

	if !m.IsNone() {
		if m.Drop {
			p := NewPiece(us, m.Piece, false)
			pos.removeFromHand(us, m.Piece)
			pos.placePiece(p, m.To)
		} else {
			moving := pos.removePiece(m.From)
			if m.Captured != NoPiece {
				pos.addToHand(us, m.Captured.UnpromotedType())
			}
			if m.Promotion {
				moving = moving.Promote()
			}
			pos.placePiece(moving, m.To)
		}
		if givesCheck {
			pos.ContinuousCheck[us]++
			checkerColor = us
		} else {
			pos.ContinuousCheck[us] = 0
		}
		pos.PliesFromNull++
	} else {
		pos.PliesFromNull = 0
	}

	pos.toggleSideToMove()
	pos.refreshDerivedState()
	pos.LastMove = m

	pos.Plies = append(pos.Plies, plyRecord{
		BoardKey: pos.BoardKey,
		Hands:    pos.Hands,
		Checker:  checkerColor,
	})
}

// UnmakeMove reverses the most recent MakeMove(m, ...) call. Callers must
// unmake in reverse order of making (spec.md §5).
func (pos *Position) UnmakeMove(m Move) {
	n := len(pos.History)
	st := pos.History[n-1]
	pos.History = pos.History[:n-1]
	pos.Plies = pos.Plies[:len(pos.Plies)-1]

	pos.SideToMove = pos.SideToMove.Opponent()
	us := pos.SideToMove

	if !m.IsNone() {
		if m.Drop {
			pos.removePiece(m.To)
			pos.addToHand(us, m.Piece)
		} else {
			moved := pos.removePiece(m.To)
			if m.Promotion {
				moved = moved.Unpromote()
			}
			pos.placePiece(moved, m.From)
			if m.Captured != NoPiece {
				pos.placePiece(m.Captured, m.To)
				pos.removeFromHand(us, m.Captured.UnpromotedType())
			}
		}
	}

	pos.Checkers = st.Checkers
	pos.Pinned = st.Pinned
	pos.DiscoveredCheckCandidates = st.DiscoveredCheckCandidates
	pos.ContinuousCheck = st.ContinuousCheck
	pos.PliesFromNull = st.PliesFromNull
	pos.BoardKey = st.BoardKey
	pos.HandKeySum = st.HandKeySum
	pos.PositionKey = st.PositionKey
	if len(pos.History) > 0 {
		pos.LastMove = pos.History[len(pos.History)-1].Move
	} else {
		pos.LastMove = NoMove
	}
}

// MakeDropAndKingRecapture plays a checking drop immediately followed by
// the opponent's king capturing the dropped piece in one fused update —
// the atomic two-ply primitive mate-in-3 search uses for its
// single-evasion fast path (drop, the only legal reply is the king taking
// it back). Unlike MakeMove, which updates Ext through one PutPiece or
// RemovePiece call per ply, this drives Ext.MakeDropAndKingRecapture once
// for both plies, so that composite is exercised outside its own unit
// test; Position's bitboards/keys/hand are still kept in lockstep, just
// through the Ext-free placePieceKeepExt/removePieceKeepExt pair. Only
// one History/Plies frame is pushed for the whole two-ply jump. Call
// UnmakeDropAndKingRecapture with the same two moves, in the same order,
// to undo it.
func (pos *Position) MakeDropAndKingRecapture(drop, kingRecapture Move) {
	pos.History = append(pos.History, StateInfo{
		Move:                      drop,
		Checkers:                  pos.Checkers,
		Pinned:                    pos.Pinned,
		DiscoveredCheckCandidates: pos.DiscoveredCheckCandidates,
		ContinuousCheck:           pos.ContinuousCheck,
		PliesFromNull:             pos.PliesFromNull,
		BoardKey:                  pos.BoardKey,
		HandKeySum:                pos.HandKeySum,
		PositionKey:               pos.PositionKey,
	})

	us := pos.SideToMove
	them := us.Opponent()
	dropped := NewPiece(us, drop.Piece, false)
	king := pos.PieceOn[kingRecapture.From]

	// kingRecapture.To == drop.To: the dropped piece lands, then is
	// immediately captured, so its board-key contribution cancels and
	// only the king's displacement and the hand transfer are left to
	// account for at the Position level.
	pos.Ext.MakeDropAndKingRecapture(dropped, drop.To, kingRecapture.From, kingRecapture.To)

	pos.removeFromHand(us, drop.Piece)
	pos.removePieceKeepExt(kingRecapture.From)
	pos.addToHand(them, drop.Piece)
	pos.placePieceKeepExt(king, kingRecapture.To)

	pos.ContinuousCheck[us] = 0
	pos.ContinuousCheck[them] = 0
	pos.PliesFromNull += 2

	pos.refreshDerivedState()
	pos.LastMove = kingRecapture

	pos.Plies = append(pos.Plies, plyRecord{BoardKey: pos.BoardKey, Hands: pos.Hands, Checker: ColorNB})
}

// UnmakeDropAndKingRecapture reverses MakeDropAndKingRecapture. Moves must
// be passed in the same order they were made in.
func (pos *Position) UnmakeDropAndKingRecapture(drop, kingRecapture Move) {
	n := len(pos.History)
	st := pos.History[n-1]
	pos.History = pos.History[:n-1]
	pos.Plies = pos.Plies[:len(pos.Plies)-1]

	us := pos.SideToMove
	them := us.Opponent()

	king := pos.removePieceKeepExt(kingRecapture.To) // kingRecapture.To == drop.To
	pos.removeFromHand(them, drop.Piece)
	pos.placePieceKeepExt(king, kingRecapture.From)
	pos.addToHand(us, drop.Piece)

	pos.Ext.PutPiece(king, kingRecapture.From)
	pos.Ext.RemovePiece(drop.To)

	pos.Checkers = st.Checkers
	pos.Pinned = st.Pinned
	pos.DiscoveredCheckCandidates = st.DiscoveredCheckCandidates
	pos.ContinuousCheck = st.ContinuousCheck
	pos.PliesFromNull = st.PliesFromNull
	pos.BoardKey = st.BoardKey
	pos.HandKeySum = st.HandKeySum
	pos.PositionKey = st.PositionKey
	if len(pos.History) > 0 {
		pos.LastMove = pos.History[len(pos.History)-1].Move
	} else {
		pos.LastMove = NoMove
	}
}

// MakeNullMove passes the turn without moving a piece. Precondition: the
// side to move is not in check.
func (pos *Position) MakeNullMove() { pos.MakeMove(NoMove, false) }

// UnmakeNullMove reverses MakeNullMove.
func (pos *Position) UnmakeNullMove() { pos.UnmakeMove(NoMove) }

// ComputeBoardKey recomputes the board (piece placement + side) component
// of the Zobrist key from scratch, for init and debug assertions.
func (pos *Position) ComputeBoardKey() uint64 {
	var k uint64
	for sq := Square(0); sq < 81; sq++ {
		if p := pos.PieceOn[sq]; p != NoPiece {
			k += PieceKey(p, sq)
		}
	}
	if pos.SideToMove == White {
		k += SideToMoveKey()
	}
	return k
}

func (pos *Position) computeHandKeySum(c Color) uint64 {
	var k uint64
	for _, pt := range HandKinds {
		n := pos.Hands[c].Count(pt)
		for i := 1; i <= n; i++ {
			k += HandKey(c, pt, i)
		}
	}
	return k
}

// ComputePositionKey recomputes the full Zobrist key from scratch.
func (pos *Position) ComputePositionKey() uint64 {
	return pos.ComputeBoardKey() + pos.computeHandKeySum(Black) + pos.computeHandKeySum(White)
}

// declarationPoints is the Declaration-Win point value of pt (5 for
// rook/bishop and their promotions, 1 for anything else but King),
// recovered from original_source/src/position.cc (spec.md §4.F).
func declarationPoints(pt PieceType) int {
	switch pt {
	case Bishop, Rook:
		return 5
	case King, NoPieceType:
		return 0
	default:
		return 1
	}
}

// WinDeclarationIsPossible implements the five entering-king conditions
// (spec.md §4.F).
func (pos *Position) WinDeclarationIsPossible(isCSARule bool) bool {
	us := pos.SideToMove
	king := pos.KingSquare[us]
	if !king.InPromotionZone(us) {
		return false
	}
	if pos.Checkers.Any() {
		return false
	}
	zone := promotionZoneBB[us]
	nonKingInZone := 0
	points := 0
	for sq := Square(0); sq < 81; sq++ {
		if !zone.Test(sq) {
			continue
		}
		p := pos.PieceOn[sq]
		if p == NoPiece || p.Color() != us || p.Type() == King {
			continue
		}
		nonKingInZone++
		points += declarationPoints(p.Type())
	}
	if nonKingInZone < 10 {
		return false
	}
	for _, pt := range HandKinds {
		points += declarationPoints(pt) * pos.Hands[us].Count(pt)
	}
	threshold := 31
	if isCSARule {
		if us == Black {
			threshold = 28
		} else {
			threshold = 27
		}
	}
	return points >= threshold
}
