package align

import (
	"fmt"
	"math"
)

// Search defaults.
const (
	DefaultBeamSize               = 20
	DefaultBreadthFirstThreshold  = 3
	DefaultExpansionsPerReference = 500
	DefaultLookaheadFactor        = 1.5
	DefaultPunctuationWeight      = 1.0
	DefaultProgressWeight         = 1.0
)

// Options configures one search. Zero values of MaxExpansions,
// ExpansionsPerReference, Lookahead and LookaheadFactor select derived
// defaults.
type Options struct {
	// BeamSize is the number of candidates kept per expansion.
	BeamSize int

	// BreadthFirstThreshold is the depth up to which the frontier stays FIFO.
	BreadthFirstThreshold int

	// MaxExpansions is the expansion budget between restarts.
	// 0 means R * ExpansionsPerReference.
	MaxExpansions int

	// ExpansionsPerReference derives the budget when MaxExpansions is 0.
	// 0 means DefaultExpansionsPerReference.
	ExpansionsPerReference int

	// Lookahead caps candidate segment lengths. 0 derives the cap from
	// LookaheadFactor and the length of the reference being aligned.
	Lookahead int

	// LookaheadFactor scales the reference length into a lookahead.
	LookaheadFactor float64

	// PunctuationWeight multiplies the score of segments ending in . ? ! or ,
	PunctuationWeight float64

	// ProgressWeight controls how strongly the frontier favors nodes close
	// to completion.
	ProgressWeight float64
}

// DefaultOptions returns the standard search configuration.
func DefaultOptions() Options {
	return Options{
		BeamSize:              DefaultBeamSize,
		BreadthFirstThreshold: DefaultBreadthFirstThreshold,
		LookaheadFactor:       DefaultLookaheadFactor,
		PunctuationWeight:     DefaultPunctuationWeight,
		ProgressWeight:        DefaultProgressWeight,
	}
}

// Validate checks that the options can drive a terminating search.
func (o Options) Validate() error {
	if o.BeamSize < 1 {
		return fmt.Errorf("beam size must be at least 1, got %d", o.BeamSize)
	}
	if o.BreadthFirstThreshold < 0 {
		return fmt.Errorf("breadth-first threshold must not be negative, got %d", o.BreadthFirstThreshold)
	}
	if o.MaxExpansions < 0 {
		return fmt.Errorf("max expansions must not be negative, got %d", o.MaxExpansions)
	}
	if o.ExpansionsPerReference < 0 {
		return fmt.Errorf("expansions per reference must not be negative, got %d", o.ExpansionsPerReference)
	}
	if o.Lookahead < 0 {
		return fmt.Errorf("lookahead must not be negative, got %d", o.Lookahead)
	}
	if o.LookaheadFactor < 0 || math.IsNaN(o.LookaheadFactor) {
		return fmt.Errorf("lookahead factor must not be negative, got %v", o.LookaheadFactor)
	}
	if o.PunctuationWeight < 0 || math.IsNaN(o.PunctuationWeight) {
		return fmt.Errorf("punctuation weight must not be negative, got %v", o.PunctuationWeight)
	}
	if o.ProgressWeight < 0 || math.IsNaN(o.ProgressWeight) {
		return fmt.Errorf("progress weight must not be negative, got %v", o.ProgressWeight)
	}
	return nil
}

// MaxExpansionsFor returns the expansion budget for a corpus of r references.
func (o Options) MaxExpansionsFor(r int) int {
	if o.MaxExpansions > 0 {
		return o.MaxExpansions
	}
	per := o.ExpansionsPerReference
	if per == 0 {
		per = DefaultExpansionsPerReference
	}
	return max(1, r*per)
}

// LookaheadFor returns the longest candidate segment tried for a reference
// of refLen tokens.
func (o Options) LookaheadFor(refLen int) int {
	if o.Lookahead > 0 {
		return o.Lookahead
	}
	factor := o.LookaheadFactor
	if factor == 0 {
		factor = DefaultLookaheadFactor
	}
	return max(1, int(math.Ceil(factor*float64(refLen))))
}
