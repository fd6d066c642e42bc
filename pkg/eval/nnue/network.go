// Package nnue implements an Efficiently Updatable Neural Network evaluator:
// a shallow, integer-quantised network with incremental feature updates,
// fused into the classical evaluator by the eval package.
//
// The feature set is a plain 12x64 one-hot encoding of (color, piece-type,
// square) -- the simpler alternative to a HalfKP king-relative feature set --
// so a king move is an ordinary incremental update rather than a full
// accumulator refresh.
package nnue

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/corvidchess/corvid/pkg/board"
)

const (
	// Magic is the leading 4-byte tag of a network file.
	Magic uint32 = 0x4e4e5545 // "NNUE"
	// Version is the only network file format version understood by this loader.
	Version uint32 = 1

	// NumFeatures is the input feature count: 2 colors x 6 piece types x 64 squares.
	NumFeatures = 2 * 6 * 64

	// activationScaleBits scales the final affine output down to a
	// centipawn-comparable range: result >>= activationScaleBits.
	activationScaleBits = 6
)

// Network holds quantised weights and biases for a 3-layer perceptron:
// input (NumFeatures, per perspective) -> Hidden (clipped ReLU) ->
// Hidden2 (clipped ReLU) -> 1 (scalar output).
type Network struct {
	Hidden  int // hidden layer width H
	Hidden2 int // second layer width

	// FeatureWeights[f][h] is the contribution of feature f to hidden unit h,
	// shared between both perspectives (mirrored by square/color at lookup).
	FeatureWeights [][]int16 // NumFeatures x Hidden
	FeatureBias    []int16   // Hidden

	// L1Weights/L1Bias project the concatenated two-perspective accumulator
	// (2*Hidden) down to Hidden2.
	L1Weights [][]int8 // Hidden2 x (2*Hidden)
	L1Bias    []int32  // Hidden2

	// OutWeights/OutBias produce the final scalar.
	OutWeights []int8 // Hidden2
	OutBias    int32
}

// Load parses a network file: magic + version + dimensions + layer weights
// and biases, all little-endian. Rejects mismatched magic or version; per
// spec this is fatal to NNUE only, not to the engine (classical eval
// continues to be used), so callers should treat a non-nil error as "disable
// NNUE" rather than a hard failure.
func Load(r io.Reader) (*Network, error) {
	br := bufio.NewReader(r)

	var magic, version uint32
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("nnue: read magic: %w", err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("nnue: bad magic 0x%x", magic)
	}
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("nnue: read version: %w", err)
	}
	if version != Version {
		return nil, fmt.Errorf("nnue: unsupported version %v", version)
	}

	var hidden, hidden2 uint32
	if err := binary.Read(br, binary.LittleEndian, &hidden); err != nil {
		return nil, fmt.Errorf("nnue: read hidden dim: %w", err)
	}
	if err := binary.Read(br, binary.LittleEndian, &hidden2); err != nil {
		return nil, fmt.Errorf("nnue: read hidden2 dim: %w", err)
	}

	n := &Network{Hidden: int(hidden), Hidden2: int(hidden2)}

	n.FeatureWeights = make([][]int16, NumFeatures)
	for f := 0; f < NumFeatures; f++ {
		n.FeatureWeights[f] = make([]int16, n.Hidden)
		if err := binary.Read(br, binary.LittleEndian, n.FeatureWeights[f]); err != nil {
			return nil, fmt.Errorf("nnue: read feature weights[%v]: %w", f, err)
		}
	}
	n.FeatureBias = make([]int16, n.Hidden)
	if err := binary.Read(br, binary.LittleEndian, n.FeatureBias); err != nil {
		return nil, fmt.Errorf("nnue: read feature bias: %w", err)
	}

	n.L1Weights = make([][]int8, n.Hidden2)
	for i := range n.L1Weights {
		n.L1Weights[i] = make([]int8, 2*n.Hidden)
		if err := binary.Read(br, binary.LittleEndian, n.L1Weights[i]); err != nil {
			return nil, fmt.Errorf("nnue: read L1 weights[%v]: %w", i, err)
		}
	}
	n.L1Bias = make([]int32, n.Hidden2)
	if err := binary.Read(br, binary.LittleEndian, n.L1Bias); err != nil {
		return nil, fmt.Errorf("nnue: read L1 bias: %w", err)
	}

	n.OutWeights = make([]int8, n.Hidden2)
	if err := binary.Read(br, binary.LittleEndian, n.OutWeights); err != nil {
		return nil, fmt.Errorf("nnue: read output weights: %w", err)
	}
	if err := binary.Read(br, binary.LittleEndian, &n.OutBias); err != nil {
		return nil, fmt.Errorf("nnue: read output bias: %w", err)
	}

	return n, nil
}

// featureIndex returns the feature index for a piece of the given color on
// sq, as seen from persp's perspective (mirrored vertically for Black, so
// both perspectives share the same feature-weight table).
func featureIndex(persp, color board.Color, piece board.Piece, sq board.Square) int {
	relColor := color
	relSq := sq
	if persp == board.Black {
		relColor = color.Opponent()
		relSq = board.NewSquare(sq.File(), board.Rank7-sq.Rank()+board.Rank1)
	}
	pieceIdx := int(piece - board.Pawn) // 0..5
	return (int(relColor)*6+pieceIdx)*64 + int(relSq)
}

// clippedReLU clamps x into [0, 127] (the quantised activation range).
func clippedReLU(x int32) int32 {
	if x < 0 {
		return 0
	}
	if x > 127 {
		return 127
	}
	return x
}

// Forward evaluates the network for the given pair of perspective
// accumulators, returning a centipawn score from stm's point of view.
func (n *Network) Forward(acc *Accumulator, stm board.Color) int32 {
	own, opp := acc.Values[stm], acc.Values[stm.Opponent()]

	hidden2 := make([]int32, n.Hidden2)
	for i := 0; i < n.Hidden2; i++ {
		sum := n.L1Bias[i]
		for h := 0; h < n.Hidden; h++ {
			sum += int32(n.L1Weights[i][h]) * clippedReLU(int32(own[h]))
			sum += int32(n.L1Weights[i][n.Hidden+h]) * clippedReLU(int32(opp[h]))
		}
		hidden2[i] = sum
	}

	out := n.OutBias
	for i := 0; i < n.Hidden2; i++ {
		out += int32(n.OutWeights[i]) * clippedReLU(hidden2[i])
	}

	return out >> activationScaleBits
}

// clampInt16 saturates x into the int16 activation range, guarding against
// overflow on repeated incremental updates.
func clampInt16(x int32) int16 {
	if x > math.MaxInt16 {
		return math.MaxInt16
	}
	if x < math.MinInt16 {
		return math.MinInt16
	}
	return int16(x)
}
