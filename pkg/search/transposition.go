package search

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/seekerror/logw"
	"go.uber.org/atomic"
)

// Bound represents the bound of a -- possibly inexact -- search score,
// relative to the window it was produced with.
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// TranspositionTable represents a transposition table to speed up search performance.
// Caveat: evaluation heuristics that depend on the game history (notably, hasCastled or
// last move) may be unsuitable for position-keyed caching. If the recent history is short,
// then the table may only be used for depth greater than some limit. Must be thread-safe.
type TranspositionTable interface {
	// Read returns the bound, depth, score and best move for the given position hash, if present.
	Read(hash board.ZobristHash) (Bound, int, eval.Score, board.Move, bool)
	// Write stores the entry into the table, depending on table semantics and replacement policy.
	Write(hash board.ZobristHash, bound Bound, ply, depth int, score eval.Score, move board.Move) bool

	// NewGeneration marks the start of a new root search, aging existing entries for replacement
	// priority without invalidating them.
	NewGeneration()

	// Size returns the size of the table in bytes.
	Size() uint64
	// Used returns the utilization as a fraction [0;1], sampled over a fixed number of entries.
	Used() float64
}

type TranspositionTableFactory func(ctx context.Context, size uint64) TranspositionTable

const clusterSize = 3

// ttEntry is a single lock-free transposition slot, packed into two 64-bit
// words: data holds the payload, and keyXorData holds hash XOR data so a
// concurrent reader can detect (and discard) a torn write by recomputing the
// hash and comparing it to the probed one, without ever taking a lock.
type ttEntry struct {
	keyXorData atomic.Uint64
	data       atomic.Uint64
}

func packData(bound Bound, generation uint8, depth int, score eval.Score, move board.Move) uint64 {
	d := uint64(depth)
	if d > 0xff {
		d = 0xff
	}
	genBound := (uint64(generation&0x3f) << 2) | uint64(bound&0x3)
	return uint64(uint32(score)) | (uint64(packMove(move)) << 32) | (d << 48) | (genBound << 56)
}

func unpackData(data uint64) (bound Bound, generation uint8, depth int, score eval.Score, move board.Move) {
	score = eval.Score(int32(uint32(data)))
	move = unpackMove(uint16(data >> 32))
	depth = int((data >> 48) & 0xff)
	genBound := uint8((data >> 56) & 0xff)
	bound = Bound(genBound & 0x3)
	generation = genBound >> 2
	return
}

func packMove(m board.Move) uint16 {
	return uint16(m.From) | (uint16(m.To) << 6) | (uint16(m.Promotion) << 12)
}

func unpackMove(v uint16) board.Move {
	if v == 0 {
		return board.Move{}
	}
	return board.Move{
		From:      board.Square(v & 0x3f),
		To:        board.Square((v >> 6) & 0x3f),
		Promotion: board.Piece((v >> 12) & 0x7),
	}
}

// priority returns the replacement priority of an occupied entry: deeper and
// more recent entries are worth more, so are kept over shallower/older ones.
func priority(generation, entryGen uint8, depth int) int {
	age := int(generation-entryGen) & 0x3f
	return depth - age*4
}

// table is a clustered transposition table: each hash bucket holds a small
// cluster of entries, and a write picks the least valuable slot to evict
// rather than unconditionally overwriting a single slot per bucket.
type table struct {
	clusters   [][clusterSize]ttEntry
	mask       uint64
	generation atomic.Uint32
}

func NewTranspositionTable(ctx context.Context, size uint64) TranspositionTable {
	entrySize := uint64(16) // bytes per ttEntry (two uint64 words)
	n := uint64(1 << (63 - bits.LeadingZeros64(size/(entrySize*clusterSize)+1)))
	if n == 0 {
		n = 1
	}

	logw.Infof(ctx, "Allocating %vMB TT with %v clusters of %v entries", size>>20, n, clusterSize)

	return &table{
		clusters: make([][clusterSize]ttEntry, n),
		mask:     n - 1,
	}
}

func (t *table) Size() uint64 {
	return uint64(len(t.clusters)) * clusterSize * 16
}

func (t *table) Used() float64 {
	const sample = 1000
	n := len(t.clusters)
	if n > sample {
		n = sample
	}
	gen := uint8(t.generation.Load())

	used := 0
	for i := 0; i < n; i++ {
		for e := range t.clusters[i] {
			data := t.clusters[i][e].data.Load()
			if data == 0 {
				continue
			}
			_, entryGen, _, _, _ := unpackData(data)
			if entryGen == gen {
				used++
			}
		}
	}
	return float64(used) / float64(n*clusterSize)
}

func (t *table) NewGeneration() {
	t.generation.Add(1)
}

func (t *table) Read(hash board.ZobristHash) (Bound, int, eval.Score, board.Move, bool) {
	cluster := &t.clusters[uint64(hash)&t.mask]
	for e := range cluster {
		data := cluster[e].data.Load()
		kxd := cluster[e].keyXorData.Load()
		if data == 0 && kxd == 0 {
			continue
		}
		if kxd^data != uint64(hash) {
			continue // torn write, or a different position: skip
		}
		bound, _, depth, score, move := unpackData(data)
		return bound, depth, score, move, true
	}
	return 0, 0, eval.InvalidScore, board.Move{}, false
}

func (t *table) Write(hash board.ZobristHash, bound Bound, ply, depth int, score eval.Score, move board.Move) bool {
	gen := uint8(t.generation.Load())
	fresh := packData(bound, gen, depth, score, move)

	cluster := &t.clusters[uint64(hash)&t.mask]

	var victim *ttEntry
	victimPriority := int(^uint(0) >> 1)
	for e := range cluster {
		data := cluster[e].data.Load()
		kxd := cluster[e].keyXorData.Load()

		if data == 0 && kxd == 0 {
			victim = &cluster[e]
			victimPriority = -1 << 30
			break
		}
		if kxd^data == uint64(hash) {
			_, entryGen, entryDepth, _, _ := unpackData(data)
			if entryGen == gen && entryDepth > depth && bound != ExactBound {
				return false // keep: fresher, deeper entry for the same position
			}
			victim = &cluster[e]
			victimPriority = -1 << 30
			break
		}

		_, entryGen, entryDepth, _, _ := unpackData(data)
		p := priority(gen, entryGen, entryDepth)
		if p < victimPriority {
			victimPriority = p
			victim = &cluster[e]
		}
	}
	if victim == nil {
		victim = &cluster[0]
	}

	victim.data.Store(fresh)
	victim.keyXorData.Store(uint64(hash) ^ fresh)
	return true
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%v @ %v%%]", t.Size(), int(100*t.Used()))
}

// WriteFilter is a predicate on the Write operation.
type WriteFilter func(hash board.ZobristHash, bound Bound, ply, depth int, score eval.Score, move board.Move) bool

// WriteLimited is a TranspositionTable wrapper that ignores certain writes, such as
// less than a given minimum depth. Useful if evaluation uses recent move history.
type WriteLimited struct {
	Filter WriteFilter
	TT     TranspositionTable
}

func (w WriteLimited) Read(hash board.ZobristHash) (Bound, int, eval.Score, board.Move, bool) {
	return w.TT.Read(hash)
}

func (w WriteLimited) Write(hash board.ZobristHash, bound Bound, ply, depth int, score eval.Score, move board.Move) bool {
	if w.Filter(hash, bound, ply, depth, score, move) {
		return false
	}
	return w.TT.Write(hash, bound, ply, depth, score, move)
}

func (w WriteLimited) NewGeneration() { w.TT.NewGeneration() }
func (w WriteLimited) Size() uint64   { return w.TT.Size() }
func (w WriteLimited) Used() float64  { return w.TT.Used() }

// NewMinDepthTranspositionTable creates depth-limited TranspositionTables.
func NewMinDepthTranspositionTable(min int) TranspositionTableFactory {
	return func(ctx context.Context, size uint64) TranspositionTable {
		return WriteLimited{
			Filter: func(hash board.ZobristHash, bound Bound, ply, depth int, score eval.Score, move board.Move) bool {
				return depth < min
			},
			TT: NewTranspositionTable(ctx, size),
		}
	}
}

// NoTranspositionTable is a Nop implementation.
type NoTranspositionTable struct{}

func (n NoTranspositionTable) Read(hash board.ZobristHash) (Bound, int, eval.Score, board.Move, bool) {
	return 0, 0, eval.InvalidScore, board.Move{}, false
}

func (n NoTranspositionTable) Write(hash board.ZobristHash, bound Bound, ply, depth int, score eval.Score, move board.Move) bool {
	return false
}

func (n NoTranspositionTable) NewGeneration() {}
func (n NoTranspositionTable) Size() uint64   { return 0 }
func (n NoTranspositionTable) Used() float64  { return 0 }
