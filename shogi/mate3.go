package shogi

// MateInThree searches for a forced mate in three plies (check, every
// opponent evasion, mating reply) starting from an adjacent check — the
// opponent cannot interpose a check delivered from a square next to their
// own king, so only capturing the checker or moving the king can be tried
// (spec.md §4.H). It returns the opening check and the proof-piece set
// the whole line consumes.
func MateInThree(pos *Position) (Move, ProofPieceSet, bool) {
	for _, check := range AdjacentChecks(pos, nil) {
		if !pos.MoveGivesCheck(check) {
			continue
		}
		if !check.Drop && !pos.NonDropMoveIsLegal(check) {
			continue // AdjacentChecks is pseudo-legal only; reject moves that expose our own king
		}
		proof, ok := tryMatingLine(pos, check)
		if ok {
			merged := proof
			if check.Drop {
				merged = addDrop(merged, check.Piece)
			}
			if check.IsCapture() {
				merged = removeCapture(merged, check.Captured.UnpromotedType())
			}
			return check, merged, true
		}
	}
	return NoMove, nil, false
}

// tryMatingLine plays check and reports whether every legal reply leads to
// mate in one more ply, leaving pos unchanged either way. When check is a
// drop whose only legal reply is the opponent's king recapturing the
// dropped piece, it replays the pair through
// MakeDropAndKingRecapture/UnmakeDropAndKingRecapture instead of two
// independent MakeMove/UnmakeMove calls — the one evasion shape the fused
// primitive exists for.
func tryMatingLine(pos *Position, check Move) (ProofPieceSet, bool) {
	pos.MakeMove(check, true)
	evasions := LegalMoves(pos)
	recapture, fused := soleKingRecapture(check, evasions)
	pos.UnmakeMove(check)

	if !fused {
		pos.MakeMove(check, true)
		proof, ok := allEvasionsLeadToMate(pos)
		pos.UnmakeMove(check)
		return proof, ok
	}

	pos.MakeDropAndKingRecapture(check, recapture)
	_, proof, ok := MateInOneProof(pos)
	pos.UnmakeDropAndKingRecapture(check, recapture)
	return proof, ok
}

// soleKingRecapture reports whether check is a drop whose only legal
// evasion is the opponent's king capturing the dropped piece.
func soleKingRecapture(check Move, evasions []Move) (Move, bool) {
	if !check.Drop || len(evasions) != 1 {
		return NoMove, false
	}
	e := evasions[0]
	if e.Drop || e.Piece != King || e.To != check.To {
		return NoMove, false
	}
	return e, true
}

// allEvasionsLeadToMate reports whether, for every one of the side to
// move's legal replies, the opponent can deliver mate in one more ply; if
// so it returns the union of the proof-piece sets those mating replies
// need (spec.md §4.H's "Inner"/"Frontier" combination, collapsed into one
// uniform union-then-adjust rule — see DESIGN.md).
func allEvasionsLeadToMate(pos *Position) (ProofPieceSet, bool) {
	evasions := LegalMoves(pos)
	if len(evasions) == 0 {
		return ProofPieceSet{}, true // already mate; trivially "every" evasion (none) leads to mate
	}
	merged := ProofPieceSet{}
	for _, e := range evasions {
		pos.MakeMove(e, pos.MoveGivesCheck(e))
		_, proof, ok := MateInOneProof(pos)
		pos.UnmakeMove(e)
		if !ok {
			return nil, false
		}
		merged = unionProof(merged, proof)
	}
	return merged, true
}
