package shogi

// Huffman position codec: packs a position into a fixed 256-bit (32-byte)
// stream (spec.md §4.K). Ported directly from
// original_source/src/huffman_code.cc (Gikou's HuffmanCode), including its
// LSB-first bit stream and its board/hand code split (a hand piece code is
// the board code with its leading always-1 bit dropped, since every
// non-empty board code happens to start with a 1 bit).
type huffmanEntry struct {
	Bits   uint64
	Length int
}

var huffmanCodeTable = map[PieceType]huffmanEntry{
	NoPieceType: {0x00, 1},
	Pawn:        {0x01, 2},
	Lance:       {0x03, 4},
	Knight:      {0x0b, 4},
	Silver:      {0x07, 4},
	Gold:        {0x0f, 5},
	Bishop:      {0x1f, 6},
	Rook:        {0x3f, 6},
}

const huffmanNotFound = PieceType(255)

// huffmanDecoderTable[length-1][bits] -> kind, built once in init().
var huffmanDecoderTable [6][64]PieceType

func init() {
	for length := 0; length < 6; length++ {
		for bits := 0; bits < 64; bits++ {
			huffmanDecoderTable[length][bits] = huffmanNotFound
		}
	}
	for pt, entry := range huffmanCodeTable {
		huffmanDecoderTable[entry.Length-1][entry.Bits] = pt
	}
}

// HuffmanCode is the 256-bit packed representation (four 64-bit words,
// least-significant-bit-first within the stream).
type HuffmanCode [4]uint64

type bitStream struct {
	words [4]uint64
	pos   int
}

func (b *bitStream) get() uint64 {
	v := (b.words[b.pos/64] >> uint(b.pos%64)) & 1
	b.pos++
	return v
}

func (b *bitStream) read(count int) uint64 {
	var v uint64
	for i := 0; i < count; i++ {
		v |= b.get() << uint(i)
	}
	return v
}

func (b *bitStream) put(v uint64) {
	b.words[b.pos/64] |= (v & 1) << uint(b.pos%64)
	b.pos++
}

func (b *bitStream) write(value uint64, count int) {
	for i := 0; i < count; i++ {
		b.put((value >> uint(i)) & 1)
	}
}

func (b *bitStream) eof() bool { return b.pos == 256 }

// encodePiece returns the bit pattern and length for p, dropping the
// leading kind bit when isHand (hand pieces never carry a promoted flag
// of their own — "promoted pawn in hand" does not exist).
func encodePiece(p Piece, isHand bool) (uint64, int) {
	if p == NoPiece {
		e := huffmanCodeTable[NoPieceType]
		return e.Bits, e.Length
	}
	pt := p.UnpromotedType()
	e := huffmanCodeTable[pt]
	bits, length := e.Bits, e.Length
	if isHand {
		bits >>= 1
		length--
	}
	bits |= uint64(p.Color()) << uint(length)
	length++
	if pt != Gold {
		var promoted uint64
		if !isHand && p.IsPromoted() {
			promoted = 1
		}
		bits |= promoted << uint(length)
		length++
	}
	return bits, length
}

func decodePiece(bs *bitStream, isHand bool) Piece {
	var code uint64
	i := 0
	if isHand {
		code = 1
		i = 1
	}
	pt := huffmanNotFound
	for pt == huffmanNotFound {
		code |= bs.get() << uint(i)
		pt = huffmanDecoderTable[i][code]
		i++
	}
	if pt == NoPieceType {
		return NoPiece
	}
	color := Color(bs.get())
	promoted := false
	if pt != Gold {
		promoted = bs.get() == 1
	}
	return NewPiece(color, pt, promoted)
}

// EncodeHuffman packs pos into its 256-bit Huffman representation.
// Precondition: a standard 40-piece set (no piece missing or duplicated).
func EncodeHuffman(pos *Position) HuffmanCode {
	bs := &bitStream{}
	bs.put(uint64(pos.SideToMove))
	bs.write(uint64(pos.KingSquare[Black]), 7)
	bs.write(uint64(pos.KingSquare[White]), 7)

	for sq := Square(0); sq < 81; sq++ {
		p := pos.PieceOn[sq]
		if p.Type() == King {
			continue
		}
		bits, length := encodePiece(p, false)
		bs.write(bits, length)
	}

	for c := Black; c < ColorNB; c++ {
		for _, pt := range HandKinds {
			count := pos.Hands[c].Count(pt)
			for i := 0; i < count; i++ {
				bits, length := encodePiece(NewPiece(c, pt, false), true)
				bs.write(bits, length)
			}
		}
	}

	return HuffmanCode(bs.words)
}

// DecodeHuffman unpacks a 256-bit Huffman code into a fresh *Position.
func DecodeHuffman(code HuffmanCode) *Position {
	pos := NewPosition()
	bs := &bitStream{words: code}

	pos.SideToMove = Color(bs.get())
	blackKing := Square(bs.read(7))
	whiteKing := Square(bs.read(7))
	pos.placePiece(NewPiece(Black, King, false), blackKing)
	pos.placePiece(NewPiece(White, King, false), whiteKing)

	for sq := Square(0); sq < 81; sq++ {
		if pos.PieceOn[sq] != NoPiece {
			continue
		}
		p := decodePiece(bs, false)
		if p != NoPiece {
			pos.placePiece(p, sq)
		}
	}

	for !bs.eof() {
		p := decodePiece(bs, true)
		pos.addToHand(p.Color(), p.Type())
	}

	pos.refreshDerivedState()
	pos.Plies = append(pos.Plies, plyRecord{BoardKey: pos.BoardKey, Hands: pos.Hands, Checker: ColorNB})
	return pos
}
