package shogi

import "fmt"

// csaPieceCodes maps CSA's two-letter piece codes to (kind, promoted),
// reproduced from original_source/src/notations.cc's g_piece_type_from_csa.
var csaPieceCodes = map[string]struct {
	Kind     PieceType
	Promoted bool
}{
	"FU": {Pawn, false},
	"KY": {Lance, false},
	"KE": {Knight, false},
	"GI": {Silver, false},
	"KI": {Gold, false},
	"KA": {Bishop, false},
	"HI": {Rook, false},
	"OU": {King, false},
	"TO": {Pawn, true},
	"NY": {Lance, true},
	"NK": {Knight, true},
	"NG": {Silver, true},
	"UM": {Bishop, true},
	"RY": {Rook, true},
}

func csaSquare(s string) (Square, error) {
	if len(s) != 2 {
		return SquareNone, fmt.Errorf("shogi: invalid csa square %q", s)
	}
	f := int(s[0] - '1')
	r := int(s[1] - '1')
	if f < 0 || f > 8 || r < 0 || r > 8 {
		return SquareNone, fmt.Errorf("shogi: invalid csa square %q", s)
	}
	return NewSquare(File(f), Rank(r)), nil
}

// ParseCSAMove parses CSA move notation (the trailing six characters of a
// "+7776FU"-style record: 2-digit from or "00" for a drop, 2-digit to,
// 2-letter piece code) against pos, following
// original_source/src/notations.cc's Csa::ParseMove (spec.md §6).
func ParseCSAMove(csa string, pos *Position) (Move, error) {
	if len(csa) != 6 && len(csa) != 7 {
		return NoMove, fmt.Errorf("shogi: invalid csa move %q", csa)
	}
	offset := len(csa) - 6
	fromStr := csa[offset : offset+2]
	toStr := csa[offset+2 : offset+4]
	pieceStr := csa[offset+4 : offset+6]

	entry, ok := csaPieceCodes[pieceStr]
	if !ok {
		return NoMove, fmt.Errorf("shogi: invalid csa piece code %q", pieceStr)
	}
	to, err := csaSquare(toStr)
	if err != nil {
		return NoMove, err
	}
	us := pos.SideToMove

	if fromStr == "00" {
		return Move{From: SquareNone, To: to, Piece: entry.Kind, Color: us, Drop: true}, nil
	}
	from, err := csaSquare(fromStr)
	if err != nil {
		return NoMove, err
	}
	moving := pos.PieceOn[from]
	if moving == NoPiece {
		return NoMove, fmt.Errorf("shogi: no piece on %s", from)
	}
	return Move{
		From:      from,
		To:        to,
		Piece:     moving.UnpromotedType(),
		Color:     us,
		Promotion: entry.Promoted && !moving.IsPromoted(),
		Captured:  pos.PieceOn[to],
	}, nil
}
