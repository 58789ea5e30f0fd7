package bkt

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
)

// ErrInvalidParams reports a parameter outside the closed unit interval.
var ErrInvalidParams = errors.New("bkt: invalid parameters")

// Params holds the four probabilities of the standard BKT model for one
// knowledge tag. All four must lie in [0,1]. Params are static configuration:
// loaded once, validated up front, never mutated at runtime.
type Params struct {
	// PInit is the prior mastery before any observation.
	PInit float64
	// PTransit is the probability of learning per practice opportunity.
	PTransit float64
	// PSlip is the probability a mastered learner answers incorrectly.
	PSlip float64
	// PGuess is the probability an unmastered learner answers correctly.
	PGuess float64
}

// DefaultParams returns the parameter set used when a tag has no override.
func DefaultParams() Params {
	return Params{
		PInit:    0.3,
		PTransit: 0.3,
		PSlip:    0.1,
		PGuess:   0.2,
	}
}

// ParamsFromEnv reads the ZHITUI_BKT_* variables over the defaults.
// Malformed values fail here; range checks belong to Validate.
func ParamsFromEnv() (Params, error) {
	p := DefaultParams()
	fields := []struct {
		env string
		dst *float64
	}{
		{"ZHITUI_BKT_P_INIT", &p.PInit},
		{"ZHITUI_BKT_P_TRANSIT", &p.PTransit},
		{"ZHITUI_BKT_P_SLIP", &p.PSlip},
		{"ZHITUI_BKT_P_GUESS", &p.PGuess},
	}
	for _, f := range fields {
		v := os.Getenv(f.env)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Params{}, fmt.Errorf("%s=%q: not a number", f.env, v)
		}
		*f.dst = parsed
	}
	return p, nil
}

// Validate checks that every probability lies in [0,1].
func (p Params) Validate() error {
	fields := []struct {
		name string
		val  float64
	}{
		{"p_init", p.PInit},
		{"p_transit", p.PTransit},
		{"p_slip", p.PSlip},
		{"p_guess", p.PGuess},
	}
	for _, f := range fields {
		if math.IsNaN(f.val) || f.val < 0 || f.val > 1 {
			return fmt.Errorf("%w: %s = %v, want [0,1]", ErrInvalidParams, f.name, f.val)
		}
	}
	return nil
}

// ParamSet resolves per-tag parameter overrides over a shared default.
type ParamSet struct {
	def    Params
	perTag map[string]Params
}

// NewParamSet builds a ParamSet, validating the default and every override.
// Invalid parameters fail here, at configuration time, never mid-session.
func NewParamSet(def Params, perTag map[string]Params) (*ParamSet, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("default params: %w", err)
	}
	for tag, p := range perTag {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("params for tag %q: %w", tag, err)
		}
	}
	set := &ParamSet{def: def, perTag: make(map[string]Params, len(perTag))}
	for tag, p := range perTag {
		set.perTag[tag] = p
	}
	return set, nil
}

// For returns the parameters for a tag, falling back to the default.
func (s *ParamSet) For(tag string) Params {
	if p, ok := s.perTag[tag]; ok {
		return p
	}
	return s.def
}

// Default returns the fallback parameters.
func (s *ParamSet) Default() Params {
	return s.def
}
