package shogi

import (
	"fmt"
	"strconv"
	"strings"
)

// StartposSfen is the SFEN for the standard shogi starting position.
const StartposSfen = "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 1"

// ToSfen formats pos as SFEN position text: board, side to move, hands,
// move number (spec.md §6).
func (pos *Position) ToSfen(moveNumber int) string {
	var b strings.Builder
	for r := Rank(0); r < RankNB; r++ {
		run := 0
		// SFEN reads each rank right-to-left, file 9 down to file 1 —
		// the reverse of this engine's increasing internal file index.
		for fi := FileNB - 1; fi >= 0; fi-- {
			f := File(fi)
			p := pos.PieceOn[NewSquare(f, r)]
			if p == NoPiece {
				run++
				continue
			}
			if run > 0 {
				b.WriteString(strconv.Itoa(run))
				run = 0
			}
			b.WriteString(sfenPieceLetters(p))
		}
		if run > 0 {
			b.WriteString(strconv.Itoa(run))
		}
		if r != RankNB-1 {
			b.WriteByte('/')
		}
	}
	b.WriteByte(' ')
	b.WriteString(pos.SideToMove.String())
	b.WriteByte(' ')
	hands := sfenHands(pos)
	if hands == "" {
		hands = "-"
	}
	b.WriteString(hands)
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(moveNumber))
	return b.String()
}

func sfenPieceLetters(p Piece) string {
	letter := string(p.UnpromotedType().Letter())
	if p.Color() == Black {
		letter = strings.ToUpper(letter)
	} else {
		letter = strings.ToLower(letter)
	}
	if p.IsPromoted() {
		return "+" + letter
	}
	return letter
}

// sfenHands renders hand content in SFEN order: Black R,B,G,S,N,L,P then
// White, each with a count prefix when >1 (spec.md §6).
func sfenHands(pos *Position) string {
	var b strings.Builder
	for c := Black; c < ColorNB; c++ {
		for _, pt := range HandKinds {
			n := pos.Hands[c].Count(pt)
			if n == 0 {
				continue
			}
			if n > 1 {
				b.WriteString(strconv.Itoa(n))
			}
			letter := string(pt.Letter())
			if c == Black {
				letter = strings.ToUpper(letter)
			} else {
				letter = strings.ToLower(letter)
			}
			b.WriteString(letter)
		}
	}
	return b.String()
}

// FromSfen parses SFEN position text into a fresh *Position and returns
// the trailing move number.
func FromSfen(sfen string) (*Position, int, error) {
	fields := strings.Fields(sfen)
	if len(fields) < 3 {
		return nil, 0, fmt.Errorf("shogi: invalid sfen %q", sfen)
	}
	pos := NewPosition()
	if err := parseSfenBoard(pos, fields[0]); err != nil {
		return nil, 0, err
	}
	switch fields[1] {
	case "b":
		pos.SideToMove = Black
	case "w":
		pos.SideToMove = White
	default:
		return nil, 0, fmt.Errorf("shogi: invalid side to move %q", fields[1])
	}
	if err := parseSfenHands(pos, fields[2]); err != nil {
		return nil, 0, err
	}
	moveNumber := 1
	if len(fields) >= 4 {
		n, err := strconv.Atoi(fields[3])
		if err == nil {
			moveNumber = n
		}
	}
	pos.BoardKey = pos.ComputeBoardKey()
	pos.HandKeySum[Black] = pos.computeHandKeySum(Black)
	pos.HandKeySum[White] = pos.computeHandKeySum(White)
	pos.PositionKey = pos.ComputePositionKey()
	pos.refreshDerivedState()
	pos.Plies = append(pos.Plies, plyRecord{BoardKey: pos.BoardKey, Hands: pos.Hands, Checker: ColorNB})
	return pos, moveNumber, nil
}

func parseSfenBoard(pos *Position, board string) error {
	ranks := strings.Split(board, "/")
	if len(ranks) != RankNB {
		return fmt.Errorf("shogi: invalid sfen board %q", board)
	}
	for r, row := range ranks {
		// SFEN reads each rank right-to-left, file 9 down to file 1;
		// fi walks this engine's increasing internal file index downward
		// to match.
		fi := FileNB - 1
		promoted := false
		for i := 0; i < len(row); i++ {
			ch := row[i]
			switch {
			case ch == '+':
				promoted = true
			case ch >= '1' && ch <= '9':
				fi -= int(ch - '0')
				promoted = false
			default:
				pt := pieceTypeFromLetter(byteToUpper(ch))
				if pt == NoPieceType {
					return fmt.Errorf("shogi: invalid sfen piece %q", string(ch))
				}
				c := Black
				if ch >= 'a' && ch <= 'z' {
					c = White
				}
				sq := NewSquare(File(fi), Rank(r))
				pos.placePiece(NewPiece(c, pt, promoted), sq)
				fi--
				promoted = false
			}
		}
	}
	return nil
}

func byteToUpper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

func parseSfenHands(pos *Position, hands string) error {
	if hands == "-" {
		return nil
	}
	count := 0
	for i := 0; i < len(hands); i++ {
		ch := hands[i]
		if ch >= '0' && ch <= '9' {
			count = count*10 + int(ch-'0')
			continue
		}
		pt := pieceTypeFromLetter(byteToUpper(ch))
		if pt == NoPieceType {
			return fmt.Errorf("shogi: invalid sfen hand piece %q", string(ch))
		}
		c := Black
		if ch >= 'a' && ch <= 'z' {
			c = White
		}
		n := count
		if n == 0 {
			n = 1
		}
		for k := 0; k < n; k++ {
			pos.addToHand(c, pt)
		}
		count = 0
	}
	return nil
}
