package config

import (
	"errors"
	"strings"

	"github.com/Aman-CERP/amanalign/internal/scoring"
)

// SearchFlags holds raw command-line values. Numeric values are kept as
// strings so a malformed value can be reported and skipped instead of
// aborting the run. Empty strings mean "not given".
type SearchFlags struct {
	WER               bool
	PunctuationWeight string
	BeamSize          string
	BreadthFirst      string
	MaxExpand         string
	Lookahead         string
}

// ApplySearchFlags overrides the search section with the given flags.
// Malformed values keep the configured value and are returned as
// ERR_104 warnings for the caller to report.
func (c *Config) ApplySearchFlags(f SearchFlags) []error {
	if f.WER {
		c.Search.Optimizer = string(scoring.PolicyWER)
	}

	var warnings []error
	setInt := func(flag, raw string, dst *int) {
		if strings.TrimSpace(raw) == "" {
			return
		}
		n, err := parseInt(raw)
		if err != nil {
			warnings = append(warnings, valueError("--"+flag, raw, err))
			return
		}
		*dst = n
	}

	if raw := f.PunctuationWeight; strings.TrimSpace(raw) != "" {
		if w, err := parseFloat64(raw); err != nil {
			warnings = append(warnings, valueError("--punctuation-weight", raw, err))
		} else {
			c.Search.PunctuationWeight = w
		}
	}
	setInt("beamsize", f.BeamSize, &c.Search.BeamSize)
	setInt("breadthfirst", f.BreadthFirst, &c.Search.BreadthFirstThreshold)
	setInt("maxexpand", f.MaxExpand, &c.Search.MaxExpansions)
	setInt("lookahead", f.Lookahead, &c.Search.Lookahead)

	if c.Search.BeamSize < 1 {
		warnings = append(warnings, valueError("--beamsize", f.BeamSize, errBeamTooSmall))
		c.Search.BeamSize = NewConfig().Search.BeamSize
	}
	return warnings
}

var errBeamTooSmall = errors.New("must be at least 1")
