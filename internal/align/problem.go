// Package align segments an unsegmented hypothesis token stream into one
// contiguous token group per reference sentence.
//
// The search is a beam-limited, completion-biased best-first search over
// partial alignments. A Driver owns all mutable search state (frontier,
// duplicate cache, node arena), so independent runs never interfere.
package align

import (
	"strings"

	amerrors "github.com/Aman-CERP/amanalign/internal/errors"
)

// Problem is the fixed input of one alignment run: the reference corpus and
// the hypothesis stream. It is never mutated after construction.
type Problem struct {
	refs      [][]string
	lowerRefs [][]string
	hyp       []string
	lowerHyp  []string
}

// NewProblem builds a Problem from tokenized references and hypothesis
// tokens. The input slices are copied. An empty reference corpus is rejected.
func NewProblem(refs [][]string, hyp []string) (*Problem, error) {
	if len(refs) == 0 {
		return nil, amerrors.New(amerrors.ErrCodeEmptyReference, "reference corpus has no sentences", nil).
			WithSuggestion("Check that the reference file has one tokenized sentence per line")
	}

	p := &Problem{
		refs:      make([][]string, len(refs)),
		lowerRefs: make([][]string, len(refs)),
		hyp:       append([]string(nil), hyp...),
		lowerHyp:  lowerTokens(hyp),
	}
	for i, r := range refs {
		p.refs[i] = append([]string(nil), r...)
		p.lowerRefs[i] = lowerTokens(r)
	}
	return p, nil
}

// NumRefs returns R, the number of reference sentences.
func (p *Problem) NumRefs() int { return len(p.refs) }

// HypLen returns the number of hypothesis tokens.
func (p *Problem) HypLen() int { return len(p.hyp) }

// Reference returns reference sentence i as given.
func (p *Problem) Reference(i int) []string { return p.refs[i] }

// Hypothesis returns the hypothesis stream as given.
func (p *Problem) Hypothesis() []string { return p.hyp }

func lowerTokens(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ToLower(t)
	}
	return out
}
