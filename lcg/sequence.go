package lcg

import (
	"math"

	"github.com/iochen/lcglab/utils/numtheory"
)

// MaxSequenceLength bounds Generate; it is a 1024x1024 image.
const MaxSequenceLength = 1 << 20

// Seed is the fixed initial state X0.
const Seed = 1

// Stream unfolds the recurrence one term at a time. A zero Stream has no
// modulus and yields only zeros; create one with NewStream.
type Stream struct {
	a, c, m uint64
	x       uint64
}

// NewStream returns a Stream positioned at X0.
func NewStream(p Params) (*Stream, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	m := uint64(p.Modulus)
	return &Stream{
		a: uint64(p.Multiplier) % m,
		c: uint64(p.Increment) % m,
		m: m,
		x: Seed % m,
	}, nil
}

// Next advances the stream and returns the new state X_i in [0, m).
func (s *Stream) Next() uint64 {
	if s.m == 0 {
		return 0
	}
	// both terms are below m < 2^63, so the sum cannot overflow
	s.x = (numtheory.MulMod(s.a, s.x, s.m) + s.c) % s.m
	return s.x
}

// Float64 advances the stream and returns X_i / m.
func (s *Stream) Float64() float64 {
	if s.m == 0 {
		return 0
	}
	f := float64(s.Next()) / float64(s.m)
	// above 2^53, X_i = m-1 can round to m
	if f >= 1 {
		return math.Nextafter(1, 0)
	}
	return f
}

// Reset rewinds the stream to X0.
func (s *Stream) Reset() {
	if s.m == 0 {
		s.x = 0
		return
	}
	s.x = Seed % s.m
}

// Generate returns the first length normalized terms X_1/m ... X_length/m.
func Generate(p Params, length int) ([]float64, error) {
	if length < 0 || length > MaxSequenceLength {
		return nil, &DomainError{Field: "length", Value: int64(length), Reason: "length out of range"}
	}
	s, err := NewStream(p)
	if err != nil {
		return nil, err
	}
	seq := make([]float64, length)
	for i := range seq {
		seq[i] = s.Float64()
	}
	return seq, nil
}
