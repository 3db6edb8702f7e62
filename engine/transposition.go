package engine

import "github.com/nekomata/shogicore/shogi"

// TTFlag indicates the type of bound a TTEntry's score represents,
// grounded on the teacher's TTFlag (internal/engine/transposition.go).
type TTFlag uint8

const (
	TTExact TTFlag = iota
	TTLowerBound
	TTUpperBound
)

// packedMove is a 32-bit encoding of a shogi.Move: 7 bits from (81 for a
// drop), 7 bits to, 4 bits piece kind, 1 bit promotion, 1 bit drop,
// 1 bit color. Unlike the teacher's 16-bit chess Move (board-only, no
// drop/hand state to carry), a shogi hash move needs these few extra
// bits, so the table budgets 4 bytes for it instead of 2.
type packedMove uint32

func packMove(m shogi.Move) packedMove {
	if m.IsNone() {
		return packedMove(uint32(shogi.SquareNone) << 7)
	}
	from := uint32(shogi.SquareNone)
	if !m.Drop {
		from = uint32(m.From)
	}
	v := from
	v |= uint32(m.To) << 7
	v |= uint32(m.Piece) << 14
	if m.Promotion {
		v |= 1 << 18
	}
	if m.Drop {
		v |= 1 << 19
	}
	if m.Color == shogi.White {
		v |= 1 << 20
	}
	return packedMove(v)
}

func unpackMove(v packedMove, pos *shogi.Position) shogi.Move {
	u := uint32(v)
	from := shogi.Square(u & 0x7F)
	to := shogi.Square((u >> 7) & 0x7F)
	pt := shogi.PieceType((u >> 14) & 0xF)
	promo := (u>>18)&1 != 0
	drop := (u>>19)&1 != 0
	color := shogi.Black
	if (u>>20)&1 != 0 {
		color = shogi.White
	}
	if to == shogi.SquareNone {
		return shogi.NoMove
	}
	m := shogi.Move{To: to, Piece: pt, Color: color, Promotion: promo, Drop: drop}
	if drop {
		m.From = shogi.SquareNone
	} else {
		m.From = from
		if pos != nil {
			m.Captured = pos.PieceOn[to]
		}
	}
	return m
}

// TTEntry is one 16-byte transposition table slot (spec.md §4.J): a key32
// for verification, a packed hash move, a bounded score, the depth it was
// searched to, the bound type, a generation age, and a skip_mate3 flag
// used by the search driver to avoid redundant mate-in-3 probes.
type TTEntry struct {
	Key32     uint32
	Move      packedMove
	Score     int16
	Depth     int8
	Flag      TTFlag
	Age       uint8
	SkipMate3 bool
}

const bucketEntries = 4

// ttBucket is 4 entries (one cache line's worth in the original's 64-byte
// C++ layout; this Go struct's size is indicative, not byte-exact).
type ttBucket [bucketEntries]TTEntry

// TranspositionTable is a shared, lock-free-contract hash table: any
// thread may Probe or Store; a torn write under race is tolerated by the
// key32 check (spec.md §5).
type TranspositionTable struct {
	buckets []ttBucket
	mask    uint64
	age     uint8
}

// NewTranspositionTable allocates a table sized to sizeMiB mebibytes,
// rounded down to a power-of-two bucket count.
func NewTranspositionTable(sizeMiB int) *TranspositionTable {
	const bucketSize = 64
	numBuckets := (uint64(sizeMiB) * 1024 * 1024) / bucketSize
	numBuckets = roundDownToPowerOf2(numBuckets)
	if numBuckets == 0 {
		numBuckets = 1
	}
	return &TranspositionTable{
		buckets: make([]ttBucket, numBuckets),
		mask:    numBuckets - 1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

func (tt *TranspositionTable) bucketFor(key uint64) *ttBucket {
	return &tt.buckets[key&tt.mask]
}

// Probe scans the key's bucket for a matching key32, refreshes its age,
// and returns it. A slot is "empty" iff Key32 == 0 (the zero value), so a
// real position whose key32 happens to be exactly 0 is indistinguishable
// from an empty slot — the same collision risk every key32-only TT
// design accepts.
func (tt *TranspositionTable) Probe(key uint64) (TTEntry, bool) {
	b := tt.bucketFor(key)
	key32 := uint32(key >> 32)
	for i := range b {
		if b[i].Key32 == key32 && b[i].Key32 != 0 {
			b[i].Age = tt.age
			return b[i], true
		}
	}
	return TTEntry{}, false
}

// replacementScore ranks how eager the slot is to be overwritten: a
// previous-generation entry is cheap to evict; among same-generation
// entries, shallower ones are, per spec.md §4.J's replacement rule.
func replacementScore(e TTEntry, currentAge uint8) int {
	generationPenalty := 0
	if e.Age != currentAge {
		generationPenalty = 1
	}
	return generationPenalty*1000 - int(e.Depth)
}

// Store saves an entry, preferring an empty slot, then a same-key slot
// (merged so a nil new move keeps the old hash move and a set
// SkipMate3 flag is preserved), else the slot with the highest
// replacementScore (spec.md §4.J).
func (tt *TranspositionTable) Store(key uint64, depth int, score int, flag TTFlag, move shogi.Move) {
	b := tt.bucketFor(key)
	key32 := uint32(key >> 32)

	for i := range b {
		if b[i].Key32 == 0 {
			tt.write(&b[i], key32, depth, score, flag, move, false)
			return
		}
	}
	for i := range b {
		if b[i].Key32 == key32 {
			skipMate3 := b[i].SkipMate3
			keepMove := move
			if move.IsNone() && !b[i].Move.isNoneFor() {
				keepMove = unpackMove(b[i].Move, nil)
			}
			tt.write(&b[i], key32, depth, score, flag, keepMove, skipMate3)
			return
		}
	}
	worst := 0
	worstScore := replacementScore(b[0], tt.age)
	for i := 1; i < bucketEntries; i++ {
		s := replacementScore(b[i], tt.age)
		if s > worstScore {
			worstScore = s
			worst = i
		}
	}
	tt.write(&b[worst], key32, depth, score, flag, move, false)
}

func (v packedMove) isNoneFor() bool {
	u := uint32(v)
	to := shogi.Square((u >> 7) & 0x7F)
	return to == shogi.SquareNone
}

func (tt *TranspositionTable) write(e *TTEntry, key32 uint32, depth, score int, flag TTFlag, move shogi.Move, skipMate3 bool) {
	e.Key32 = key32
	e.Move = packMove(move)
	e.Score = int16(score)
	e.Depth = int8(depth)
	e.Flag = flag
	e.Age = tt.age
	e.SkipMate3 = skipMate3
}

// NewSearch ticks the age generation counter.
func (tt *TranspositionTable) NewSearch() { tt.age++ }

// Clear empties every entry.
func (tt *TranspositionTable) Clear() {
	for i := range tt.buckets {
		tt.buckets[i] = ttBucket{}
	}
	tt.age = 0
}

// Prefetch is a compiler hint in the original; portable Go has no manual
// cache-prefetch intrinsic, so this is a documented no-op (see DESIGN.md).
func (tt *TranspositionTable) Prefetch(key uint64) { _ = key }

// InsertMoves walks moves from root, storing each ply's played move as
// that position's hash move (spec.md §4.J).
func (tt *TranspositionTable) InsertMoves(root *shogi.Position, moves []shogi.Move) {
	applied := make([]shogi.Move, 0, len(moves))
	for _, m := range moves {
		tt.Store(root.PositionKey, 0, 0, TTExact, m)
		gives := root.MoveGivesCheck(m)
		root.MakeMove(m, gives)
		applied = append(applied, m)
	}
	for i := len(applied) - 1; i >= 0; i-- {
		root.UnmakeMove(applied[i])
	}
}

// ExtractMoves follows hash moves from root (after replaying prefix)
// until an entry is missing, its move is illegal, or the position repeats
// (spec.md §4.J).
func (tt *TranspositionTable) ExtractMoves(root *shogi.Position, prefix []shogi.Move) []shogi.Move {
	applied := make([]shogi.Move, 0, len(prefix)+16)
	for _, m := range prefix {
		gives := root.MoveGivesCheck(m)
		root.MakeMove(m, gives)
		applied = append(applied, m)
	}
	defer func() {
		for i := len(applied) - 1; i >= 0; i-- {
			root.UnmakeMove(applied[i])
		}
	}()

	var pv []shogi.Move
	for len(pv) < 64 {
		entry, ok := tt.Probe(root.PositionKey)
		if !ok {
			break
		}
		m := unpackMove(entry.Move, root)
		if m.IsNone() || !root.MoveIsLegal(m) {
			break
		}
		if root.DetectRepetition() != shogi.RepNone {
			break
		}
		pv = append(pv, m)
		gives := root.MoveGivesCheck(m)
		root.MakeMove(m, gives)
		applied = append(applied, m)
	}
	return pv
}

// GetPonderMove looks up best's successor's hash move from root.
func (tt *TranspositionTable) GetPonderMove(root *shogi.Position, best shogi.Move) shogi.Move {
	if best.IsNone() || !root.MoveIsLegal(best) {
		return shogi.NoMove
	}
	gives := root.MoveGivesCheck(best)
	root.MakeMove(best, gives)
	defer root.UnmakeMove(best)
	entry, ok := tt.Probe(root.PositionKey)
	if !ok {
		return shogi.NoMove
	}
	reply := unpackMove(entry.Move, root)
	if !root.MoveIsLegal(reply) {
		return shogi.NoMove
	}
	return reply
}
