package board

// Fancy magic bitboard attack generation for sliding pieces (bishop, rook).
// Each square has a precomputed magic multiplier that maps the relevant
// occupancy subset to a dense index into a per-square attack table, built
// once at init() by ray-casting every possible blocker arrangement.

type magic struct {
	mask   Bitboard
	magic  uint64
	shift  uint8
	offset uint32
}

var (
	bishopMagics [NumSquares]magic
	rookMagics   [NumSquares]magic

	bishopTable [5248]Bitboard
	rookTable   [102400]Bitboard
)

// Precomputed magic multipliers. Found offline by trial-and-error search;
// init() uses them as given and does not re-check them for collisions.
var bishopMagicNumbers = [64]uint64{
	0x0002020202020200, 0x0002020202020000, 0x0004010202000000, 0x0004040080000000,
	0x0001104000000000, 0x0000821040000000, 0x0000410410400000, 0x0000104104104000,
	0x0000040404040400, 0x0000020202020200, 0x0000040102020000, 0x0000040400800000,
	0x0000011040000000, 0x0000008210400000, 0x0000004104104000, 0x0000002082082000,
	0x0004000808080800, 0x0002000404040400, 0x0001000202020200, 0x0000800802004000,
	0x0000800400A00000, 0x0000200100884000, 0x0000400082082000, 0x0000200041041000,
	0x0002080010101000, 0x0001040008080800, 0x0000208004010400, 0x0000404004010200,
	0x0000840000802000, 0x0000404002011000, 0x0000808001041000, 0x0000404000820800,
	0x0001041000202000, 0x0000820800101000, 0x0000104400080800, 0x0000020080080080,
	0x0000404040040100, 0x0000808100020100, 0x0001010100020800, 0x0000808080010400,
	0x0000820820004000, 0x0000410410002000, 0x0000082088001000, 0x0000002011000800,
	0x0000080100400400, 0x0001010101000200, 0x0002020202000400, 0x0001010101000200,
	0x0000410410400000, 0x0000208208200000, 0x0000002084100000, 0x0000000020880000,
	0x0000001002020000, 0x0000040408020000, 0x0004040404040000, 0x0002020202020000,
	0x0000104104104000, 0x0000002082082000, 0x0000000020841000, 0x0000000000208800,
	0x0000000010020200, 0x0000000404080200, 0x0000040404040400, 0x0002020202020200,
}

var rookMagicNumbers = [64]uint64{
	0x0080001020400080, 0x0040001000200040, 0x0080081000200080, 0x0080040800100080,
	0x0080020400080080, 0x0080010200040080, 0x0080008001000200, 0x0080002040800100,
	0x0000800020400080, 0x0000400020005000, 0x0000801000200080, 0x0000800800100080,
	0x0000800400080080, 0x0000800200040080, 0x0000800100020080, 0x0000800040800100,
	0x0000208000400080, 0x0000404000201000, 0x0000808010002000, 0x0000808008001000,
	0x0000808004000800, 0x0000808002000400, 0x0000010100020004, 0x0000020000408104,
	0x0000208080004000, 0x0000200040005000, 0x0000100080200080, 0x0000080080100080,
	0x0000040080080080, 0x0000020080040080, 0x0000010080800200, 0x0000800080004100,
	0x0000204000800080, 0x0000200040401000, 0x0000100080802000, 0x0000080080801000,
	0x0000040080800800, 0x0000020080800400, 0x0000020001010004, 0x0000800040800100,
	0x0000204000808000, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000010002008080, 0x0000004081020004,
	0x0000204000800080, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000800100020080, 0x0000800041000080,
	0x00FFFCDDFCED714A, 0x007FFCDDFCED714A, 0x003FFFCDFFD88096, 0x0000040810002101,
	0x0001000204080011, 0x0001000204000801, 0x0001000082000401, 0x0001FFFAABFAD1A2,
}

func init() {
	initBishopMagics()
	initRookMagics()
}

func initBishopMagics() {
	var offset uint32
	for sq := ZeroSquare; sq < NumSquares; sq++ {
		mask := bishopMask(sq)
		n := mask.PopCount()

		bishopMagics[sq] = magic{
			mask:   mask,
			magic:  bishopMagicNumbers[sq],
			shift:  uint8(64 - n),
			offset: offset,
		}

		num := 1 << n
		for i := 0; i < num; i++ {
			occ := indexToOccupancy(i, n, mask)
			idx := (uint64(occ) * bishopMagicNumbers[sq]) >> (64 - n)
			bishopTable[offset+uint32(idx)] = bishopAttacksSlow(sq, occ)
		}
		offset += uint32(num)
	}
}

func initRookMagics() {
	var offset uint32
	for sq := ZeroSquare; sq < NumSquares; sq++ {
		mask := rookMask(sq)
		n := mask.PopCount()

		rookMagics[sq] = magic{
			mask:   mask,
			magic:  rookMagicNumbers[sq],
			shift:  uint8(64 - n),
			offset: offset,
		}

		num := 1 << n
		for i := 0; i < num; i++ {
			occ := indexToOccupancy(i, n, mask)
			idx := (uint64(occ) * rookMagicNumbers[sq]) >> (64 - n)
			rookTable[offset+uint32(idx)] = rookAttacksSlow(sq, occ)
		}
		offset += uint32(num)
	}
}

// bishopMask returns the relevant blocker mask, excluding board edges.
func bishopMask(sq Square) Bitboard {
	return bishopAttacksSlow(sq, EmptyBitboard) &^ (BitRank(Rank1) | BitRank(Rank8) | BitFile(FileA) | BitFile(FileH))
}

// rookMask returns the relevant blocker mask, excluding board edges (unless
// the rook itself sits on that edge, in which case the far edge square still
// matters to occupancy and is excluded by definition of the ray).
func rookMask(sq Square) Bitboard {
	f, r := sq.File(), sq.Rank()

	var mask Bitboard
	for i := FileB; i <= FileG; i++ {
		if i != f {
			mask |= BitMask(NewSquare(i, r))
		}
	}
	for i := Rank2; i <= Rank7; i++ {
		if i != r {
			mask |= BitMask(NewSquare(f, i))
		}
	}
	return mask
}

func indexToOccupancy(index, bits int, mask Bitboard) Bitboard {
	var occ Bitboard
	for i := 0; i < bits; i++ {
		sq := mask.LSB()
		mask &= mask - 1
		if index&(1<<i) != 0 {
			occ |= BitMask(sq)
		}
	}
	return occ
}

func bishopAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	f, r := int(sq.File()), int(sq.Rank())

	for ff, rr := f+1, r+1; ff <= 7 && rr <= 7; ff, rr = ff+1, rr+1 {
		s := NewSquare(File(ff), Rank(rr))
		attacks |= BitMask(s)
		if occupied.IsSet(s) {
			break
		}
	}
	for ff, rr := f-1, r+1; ff >= 0 && rr <= 7; ff, rr = ff-1, rr+1 {
		s := NewSquare(File(ff), Rank(rr))
		attacks |= BitMask(s)
		if occupied.IsSet(s) {
			break
		}
	}
	for ff, rr := f+1, r-1; ff <= 7 && rr >= 0; ff, rr = ff+1, rr-1 {
		s := NewSquare(File(ff), Rank(rr))
		attacks |= BitMask(s)
		if occupied.IsSet(s) {
			break
		}
	}
	for ff, rr := f-1, r-1; ff >= 0 && rr >= 0; ff, rr = ff-1, rr-1 {
		s := NewSquare(File(ff), Rank(rr))
		attacks |= BitMask(s)
		if occupied.IsSet(s) {
			break
		}
	}
	return attacks
}

func rookAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	f, r := int(sq.File()), int(sq.Rank())

	for rr := r + 1; rr <= 7; rr++ {
		s := NewSquare(File(f), Rank(rr))
		attacks |= BitMask(s)
		if occupied.IsSet(s) {
			break
		}
	}
	for rr := r - 1; rr >= 0; rr-- {
		s := NewSquare(File(f), Rank(rr))
		attacks |= BitMask(s)
		if occupied.IsSet(s) {
			break
		}
	}
	for ff := f + 1; ff <= 7; ff++ {
		s := NewSquare(File(ff), Rank(r))
		attacks |= BitMask(s)
		if occupied.IsSet(s) {
			break
		}
	}
	for ff := f - 1; ff >= 0; ff-- {
		s := NewSquare(File(ff), Rank(r))
		attacks |= BitMask(s)
		if occupied.IsSet(s) {
			break
		}
	}
	return attacks
}

// BishopAttackboard returns bishop attacks/moves from sq given board occupancy.
func BishopAttackboard(occ Bitboard, sq Square) Bitboard {
	m := &bishopMagics[sq]
	idx := ((uint64(occ) & uint64(m.mask)) * m.magic) >> m.shift
	return bishopTable[m.offset+uint32(idx)]
}

// RookAttackboard returns rook attacks/moves from sq given board occupancy.
func RookAttackboard(occ Bitboard, sq Square) Bitboard {
	m := &rookMagics[sq]
	idx := ((uint64(occ) & uint64(m.mask)) * m.magic) >> m.shift
	return rookTable[m.offset+uint32(idx)]
}
