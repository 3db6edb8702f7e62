package shogi

import "testing"

// buildPlies constructs a minimal ply history ending at the position
// described by the last entry, for exercising DetectRepetition's
// classification logic directly (spec.md §8 S6, invariants #16/#17)
// without needing a full legal move sequence that reproduces it.
func buildPlies(entries ...plyRecord) []plyRecord { return entries }

func TestRepetitionDrawOnFourthOccurrence(t *testing.T) {
	pos, _, err := FromSfen(StartposSfen)
	if err != nil {
		t.Fatalf("FromSfen: %v", err)
	}
	hands := pos.Hands
	boardA := uint64(0x1111)
	boardB := uint64(0x2222)
	pos.Plies = buildPlies(
		plyRecord{BoardKey: boardA, Hands: hands, Checker: ColorNB},
		plyRecord{BoardKey: boardB, Hands: hands, Checker: ColorNB},
		plyRecord{BoardKey: boardA, Hands: hands, Checker: ColorNB},
		plyRecord{BoardKey: boardB, Hands: hands, Checker: ColorNB},
		plyRecord{BoardKey: boardA, Hands: hands, Checker: ColorNB},
		plyRecord{BoardKey: boardB, Hands: hands, Checker: ColorNB},
		plyRecord{BoardKey: boardA, Hands: hands, Checker: ColorNB},
	)
	if got := pos.DetectRepetition(); got != RepDraw {
		t.Fatalf("DetectRepetition() = %v, want RepDraw", got)
	}
}

func TestRepetitionPerpetualCheck(t *testing.T) {
	pos, _, err := FromSfen(StartposSfen)
	if err != nil {
		t.Fatalf("FromSfen: %v", err)
	}
	hands := pos.Hands
	boardA := uint64(0x1111)
	boardB := uint64(0x2222)
	pos.SideToMove = White
	// Black checks on every one of its plies throughout the cycle;
	// White never checks. The checking side (Black) must lose.
	pos.Plies = buildPlies(
		plyRecord{BoardKey: boardA, Hands: hands, Checker: Black},
		plyRecord{BoardKey: boardB, Hands: hands, Checker: ColorNB},
		plyRecord{BoardKey: boardA, Hands: hands, Checker: Black},
		plyRecord{BoardKey: boardB, Hands: hands, Checker: ColorNB},
		plyRecord{BoardKey: boardA, Hands: hands, Checker: Black},
		plyRecord{BoardKey: boardB, Hands: hands, Checker: ColorNB},
		plyRecord{BoardKey: boardA, Hands: hands, Checker: Black},
	)
	got := pos.DetectRepetition()
	if got != RepPerpetualCheckByThem {
		t.Fatalf("DetectRepetition() = %v, want RepPerpetualCheckByThem (White to move, Black was checking)", got)
	}
}

// Invariant #17: a same-board recurrence with a strictly dominating hand
// for the side to move is a Superior repetition, even without four repeats.
func TestRepetitionDominance(t *testing.T) {
	pos, _, err := FromSfen(StartposSfen)
	if err != nil {
		t.Fatalf("FromSfen: %v", err)
	}
	boardA := uint64(0x1111)
	emptyHands := pos.Hands
	withPawn := pos.Hands
	withPawn[Black] = withPawn[Black].Add(Pawn)

	pos.SideToMove = Black
	pos.Hands = withPawn
	pos.Plies = buildPlies(
		plyRecord{BoardKey: boardA, Hands: emptyHands, Checker: ColorNB},
		plyRecord{BoardKey: boardA, Hands: withPawn, Checker: ColorNB},
	)
	if got := pos.DetectRepetition(); got != RepSuperior {
		t.Fatalf("DetectRepetition() = %v, want RepSuperior", got)
	}
}

func TestRepetitionNoneWhenNotRecurring(t *testing.T) {
	pos, _, err := FromSfen(StartposSfen)
	if err != nil {
		t.Fatalf("FromSfen: %v", err)
	}
	hands := pos.Hands
	pos.Plies = buildPlies(
		plyRecord{BoardKey: 1, Hands: hands, Checker: ColorNB},
		plyRecord{BoardKey: 2, Hands: hands, Checker: ColorNB},
	)
	if got := pos.DetectRepetition(); got != RepNone {
		t.Fatalf("DetectRepetition() = %v, want RepNone", got)
	}
}
