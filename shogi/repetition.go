package shogi

// RepetitionOutcome classifies a recurring position per spec.md §8's S6
// scenario and §7's sennichite rule.
type RepetitionOutcome int

const (
	RepNone RepetitionOutcome = iota
	RepDraw
	RepPerpetualCheckByUs
	RepPerpetualCheckByThem
	RepSuperior
	RepInferior
)

// DetectRepetition scans the ply history for the current position's board
// (piece placement + side to move) recurring:
//   - four occurrences with identical hands on both sides is sennichite;
//     if every intervening move was check by one color, that color loses
//     (perpetual check reverses the draw result) rather than a plain draw.
//   - a same-board recurrence where the side to move's hand strictly
//     dominates (or is dominated by) its hand at the earlier occurrence,
//     without four repeats, is a superior/inferior repetition (the side
//     holding strictly more is winning, regardless of repeat count).
func (pos *Position) DetectRepetition() RepetitionOutcome {
	if len(pos.Plies) == 0 {
		return RepNone
	}
	cur := pos.Plies[len(pos.Plies)-1]
	us := pos.SideToMove

	exactMatches := 0
	var firstExactIdx = -1
	for i := len(pos.Plies) - 2; i >= 0; i-- {
		rec := pos.Plies[i]
		if rec.BoardKey != cur.BoardKey {
			continue
		}
		if rec.Hands == cur.Hands {
			exactMatches++
			if firstExactIdx == -1 || i < firstExactIdx {
				firstExactIdx = i
			}
			if exactMatches == 3 {
				return pos.classifyFold(firstExactIdx)
			}
			continue
		}
		curHand := cur.Hands[us]
		oldHand := rec.Hands[us]
		if curHand.Dominates(oldHand) && curHand != oldHand {
			return RepSuperior
		}
		if oldHand.Dominates(curHand) && curHand != oldHand {
			return RepInferior
		}
	}
	return RepNone
}

// classifyFold determines whether the four-fold repetition spanning
// [firstIdx, current] was a perpetual check by one side.
func (pos *Position) classifyFold(firstIdx int) RepetitionOutcome {
	span := pos.Plies[firstIdx:]

	// A perpetual check run means every ply in the cycle that delivered
	// check was delivered by the same color, and that color checked on
	// every one of its own moves within the cycle (half the plies).
	blackChecks, whiteChecks, otherMoves := 0, 0, 0
	for _, rec := range span {
		switch rec.Checker {
		case Black:
			blackChecks++
		case White:
			whiteChecks++
		default:
			otherMoves++
		}
	}
	total := len(span)
	if total == 0 {
		return RepDraw
	}
	if blackChecks == (total+1)/2 && whiteChecks == 0 {
		return RepPerpetualCheckByUs.flip(pos.SideToMove, Black)
	}
	if whiteChecks == (total+1)/2 && blackChecks == 0 {
		return RepPerpetualCheckByUs.flip(pos.SideToMove, White)
	}
	return RepDraw
}

// flip reinterprets a perpetual-check-by-color result as "by us" or "by
// them" relative to the side now to move: the checking color loses, so
// if the checking color is the side now to move, it is PerpetualCheckByUs
// (the current mover was doing the checking and must now be judged the
// loser); otherwise it is PerpetualCheckByThem.
func (r RepetitionOutcome) flip(sideToMove, checkingColor Color) RepetitionOutcome {
	if checkingColor == sideToMove {
		return RepPerpetualCheckByUs
	}
	return RepPerpetualCheckByThem
}
