// Package lcg classifies linear congruential generators with the Hull-Dobell
// theorem and produces their normalized output stream.
package lcg

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Params is the triple of a generator X_{n+1} = (a*X_n + c) mod m.
type Params struct {
	Multiplier int64 `yaml:"a" json:"a" mapstructure:"a"`
	Increment  int64 `yaml:"c" json:"c" mapstructure:"c"`
	Modulus    int64 `yaml:"m" json:"m" mapstructure:"m"`
}

// ErrDomain is matched by every *DomainError through errors.Is.
var ErrDomain = errors.New("lcg: domain error")

// DomainError reports an input the engine refuses to evaluate.
type DomainError struct {
	Field  string
	Value  int64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("lcg: invalid %s=%d: %s", e.Field, e.Value, e.Reason)
}

func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}

// Validate rejects a non-positive modulus and negative multiplier or
// increment. Values at or above the modulus are accepted.
func (p Params) Validate() error {
	if p.Modulus <= 0 {
		return &DomainError{Field: "m", Value: p.Modulus, Reason: "modulus must be positive"}
	}
	if p.Multiplier < 0 {
		return &DomainError{Field: "a", Value: p.Multiplier, Reason: "multiplier must not be negative"}
	}
	if p.Increment < 0 {
		return &DomainError{Field: "c", Value: p.Increment, Reason: "increment must not be negative"}
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("a=%d c=%d m=%d", p.Multiplier, p.Increment, p.Modulus)
}

var (
	// NumericalRecipes is the generator from Numerical Recipes, full period.
	NumericalRecipes = Params{Multiplier: 1664525, Increment: 1013904223, Modulus: 1 << 32}
	// ANSIC is the example generator of the ANSI C standard rand().
	ANSIC = Params{Multiplier: 1103515245, Increment: 12345, Modulus: 1 << 31}
	// RANDU is IBM's multiplicative generator; c=0 rules out a full period.
	RANDU = Params{Multiplier: 65539, Increment: 0, Modulus: 1 << 31}
)

var presets = map[string]Params{
	"numerical-recipes": NumericalRecipes,
	"ansi-c":            ANSIC,
	"randu":             RANDU,
}

// Preset looks up a named parameter set, ignoring case.
func Preset(name string) (Params, bool) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Presets returns the names of all known parameter sets, sorted.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
