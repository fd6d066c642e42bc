package eval

import (
	"encoding/json"
	"io"
)

// Weights holds every tunable evaluation parameter as a flat name->value
// map, suitable for an external SPSA parameter tuner to mutate and for
// persisting as JSON (the only persisted state the core evaluator needs; no
// pack library targets a flat tunable-parameter config, so this uses
// encoding/json directly -- see DESIGN.md).
type Weights struct {
	values map[string]int
}

// DefaultWeights returns the built-in, hand-tuned parameter set.
func DefaultWeights() *Weights {
	w := &Weights{values: map[string]int{}}
	for k, v := range defaults {
		w.values[k] = v
	}
	return w
}

// Get returns the current value of the named weight, or def if unset.
func (w *Weights) Get(name string, def int) int {
	if w == nil {
		return def
	}
	if v, ok := w.values[name]; ok {
		return v
	}
	return def
}

// Set overrides the named weight, as an SPSA tuner would between trials.
func (w *Weights) Set(name string, value int) {
	w.values[name] = value
}

// Names returns every known weight name, for a tuner to enumerate.
func (w *Weights) Names() []string {
	ret := make([]string, 0, len(defaults))
	for k := range defaults {
		ret = append(ret, k)
	}
	return ret
}

// Save persists the weights as a JSON name->value mapping.
func (w *Weights) Save(out io.Writer) error {
	return json.NewEncoder(out).Encode(w.values)
}

// LoadWeights reads a JSON name->value mapping previously written by Save,
// seeded with DefaultWeights for any name the file omits.
func LoadWeights(in io.Reader) (*Weights, error) {
	w := DefaultWeights()
	var overrides map[string]int
	if err := json.NewDecoder(in).Decode(&overrides); err != nil {
		return nil, err
	}
	for k, v := range overrides {
		w.values[k] = v
	}
	return w, nil
}

// defaults are the built-in centipawn/millipawn values for every tunable
// term in the classical evaluator. Piece values are in centipawns; other
// terms are smaller per-instance bonuses/penalties also in centipawns
// unless noted.
var defaults = map[string]int{
	"material.pawn.mg":   82,
	"material.pawn.eg":   94,
	"material.knight.mg": 337,
	"material.knight.eg": 281,
	"material.bishop.mg": 365,
	"material.bishop.eg": 297,
	"material.rook.mg":   477,
	"material.rook.eg":   512,
	"material.queen.mg":  1025,
	"material.queen.eg":  936,

	"mobility.knight.mg": 4,
	"mobility.knight.eg": 4,
	"mobility.bishop.mg": 5,
	"mobility.bishop.eg": 5,
	"mobility.rook.mg":   2,
	"mobility.rook.eg":   4,
	"mobility.queen.mg":  1,
	"mobility.queen.eg":  2,

	"pawn.passed.mg":    20,
	"pawn.passed.eg":    40,
	"pawn.isolated.mg":  -12,
	"pawn.isolated.eg":  -8,
	"pawn.doubled.mg":   -10,
	"pawn.doubled.eg":   -20,
	"pawn.backward.mg":  -8,
	"pawn.backward.eg":  -4,
	"pawn.candidate.mg": 8,
	"pawn.candidate.eg": 14,

	"king.shelter": 6,
	"king.storm":   -5,
	"king.weak":    -4,
	"king.attack":  -8,

	"threat.minor":  10,
	"threat.rook":   14,
	"space":         1,
	"tempo":         16,
	"contempt.max":  40,
	"contempt.band": 200,

	"nnue.max_weight": 24,
}
