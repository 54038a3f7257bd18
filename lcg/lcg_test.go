package lcg

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_NumericalRecipes(t *testing.T) {
	v, err := Analyze(NumericalRecipes)
	require.NoError(t, err)
	assert.True(t, v.IsFullPeriod)
	assert.Equal(t, Conditions{true, true, true}, v.Conditions)
	assert.Equal(t, fullPeriodMessage, v.Recommendation)
	assert.Equal(t, []uint64{2}, v.PrimeFactors)
}

// The ANSI C example constants meet all three conditions on 2^31:
// c is odd and a-1 = 4 * 275878811.
func TestAnalyze_ANSIC(t *testing.T) {
	v, err := Analyze(ANSIC)
	require.NoError(t, err)
	assert.True(t, v.IsFullPeriod)
	assert.Equal(t, Conditions{true, true, true}, v.Conditions)
}

func TestAnalyze_RANDU(t *testing.T) {
	v, err := Analyze(RANDU)
	require.NoError(t, err)
	assert.False(t, v.IsFullPeriod)
	assert.Equal(t, Conditions{RelativelyPrime: false, PrimeFactorsDivisible: true, DivisibleBy4: false}, v.Conditions)
	assert.Equal(t, warningMessage+relativelyPrimeHint+divisibleBy4Hint, v.Recommendation)
}

func TestAnalyze_EveryFailingConditionReported(t *testing.T) {
	// gcd(6, 12) = 6, a-1 = 1 is divisible by neither 2 nor 3 nor 4.
	v, err := Analyze(Params{Multiplier: 2, Increment: 6, Modulus: 12})
	require.NoError(t, err)
	assert.False(t, v.IsFullPeriod)
	assert.Equal(t, Conditions{}, v.Conditions)
	assert.Equal(t, warningMessage+relativelyPrimeHint+primeFactorsHint+divisibleBy4Hint, v.Recommendation)

	v, err = Analyze(Params{Multiplier: 2, Increment: 1, Modulus: 9})
	require.NoError(t, err)
	assert.Equal(t, Conditions{RelativelyPrime: true, PrimeFactorsDivisible: false, DivisibleBy4: true}, v.Conditions)
	assert.Equal(t, warningMessage+primeFactorsHint, v.Recommendation)
}

func TestAnalyze_ZeroMultiplier(t *testing.T) {
	// a-1 = -1 is divisible by no prime
	v, err := Analyze(Params{Multiplier: 0, Increment: 1, Modulus: 8})
	require.NoError(t, err)
	assert.False(t, v.Conditions.PrimeFactorsDivisible)
	assert.False(t, v.Conditions.DivisibleBy4)
}

func TestAnalyze_ModulusOne(t *testing.T) {
	v, err := Analyze(Params{Multiplier: 0, Increment: 0, Modulus: 1})
	require.NoError(t, err)
	assert.True(t, v.IsFullPeriod)
	assert.Equal(t, Conditions{true, true, true}, v.Conditions)
	assert.Empty(t, v.PrimeFactors)
	assert.NotNil(t, v.PrimeFactors)
}

func TestDomainErrors(t *testing.T) {
	cases := []struct {
		p     Params
		field string
	}{
		{Params{Multiplier: 5, Increment: 3, Modulus: 0}, "m"},
		{Params{Multiplier: 5, Increment: 3, Modulus: -16}, "m"},
		{Params{Multiplier: -5, Increment: 3, Modulus: 16}, "a"},
		{Params{Multiplier: 5, Increment: -3, Modulus: 16}, "c"},
	}
	for _, tc := range cases {
		v, err := Analyze(tc.p)
		require.Error(t, err, tc.p.String())
		assert.False(t, v.IsFullPeriod)
		assert.True(t, errors.Is(err, ErrDomain))
		var de *DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, tc.field, de.Field)

		seq, err := Generate(tc.p, 10)
		assert.Nil(t, seq)
		assert.True(t, errors.Is(err, ErrDomain))
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	first, err := Generate(NumericalRecipes, 4096)
	require.NoError(t, err)
	second, err := Generate(NumericalRecipes, 4096)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerate_FirstTerms(t *testing.T) {
	seq, err := Generate(Params{Multiplier: 5, Increment: 3, Modulus: 16}, 4)
	require.NoError(t, err)
	// 1 -> 8 -> 11 -> 10 -> 5
	assert.Equal(t, []float64{8.0 / 16, 11.0 / 16, 10.0 / 16, 5.0 / 16}, seq)

	seq, err = Generate(NumericalRecipes, 2)
	require.NoError(t, err)
	x1 := uint64(1664525 + 1013904223)
	x2 := (1664525*x1 + 1013904223) % (1 << 32)
	assert.Equal(t, []float64{float64(x1) / (1 << 32), float64(x2) / (1 << 32)}, seq)
}

func TestGenerate_Range(t *testing.T) {
	for _, p := range []Params{NumericalRecipes, ANSIC, RANDU, {Multiplier: 1<<62 + 7, Increment: 1<<62 + 1, Modulus: 1<<63 - 1}} {
		seq, err := Generate(p, 10000)
		require.NoError(t, err)
		for i, v := range seq {
			require.True(t, v >= 0 && v < 1, "%s: value %d out of range: %v", p, i, v)
		}
	}
}

func TestGenerate_Lengths(t *testing.T) {
	seq, err := Generate(NumericalRecipes, 0)
	require.NoError(t, err)
	assert.NotNil(t, seq)
	assert.Empty(t, seq)

	_, err = Generate(NumericalRecipes, -1)
	assert.True(t, errors.Is(err, ErrDomain))

	_, err = Generate(NumericalRecipes, MaxSequenceLength+1)
	assert.True(t, errors.Is(err, ErrDomain))
}

func TestGenerate_ModulusOne(t *testing.T) {
	seq, err := Generate(Params{Multiplier: 7, Increment: 3, Modulus: 1}, 64)
	require.NoError(t, err)
	for _, v := range seq {
		assert.Zero(t, v)
	}
}

func TestStream_ExactForLargeOperands(t *testing.T) {
	p := Params{Multiplier: 6364136223846793005, Increment: 1442695040888963407, Modulus: 1<<63 - 25}
	s, err := NewStream(p)
	require.NoError(t, err)

	a, c, m := big.NewInt(p.Multiplier), big.NewInt(p.Increment), big.NewInt(p.Modulus)
	x := big.NewInt(Seed)
	for i := 0; i < 1000; i++ {
		x.Mul(x, a).Add(x, c).Mod(x, m)
		require.Equal(t, x.Uint64(), s.Next(), "term %d", i+1)
	}
}

func TestStream_FullPeriodVisitsEveryResidue(t *testing.T) {
	full := Params{Multiplier: 5, Increment: 3, Modulus: 16}
	v, err := Analyze(full)
	require.NoError(t, err)
	require.True(t, v.IsFullPeriod)
	assert.Len(t, distinctInOnePeriod(t, full), 16)

	short := Params{Multiplier: 3, Increment: 1, Modulus: 16}
	v, err = Analyze(short)
	require.NoError(t, err)
	require.False(t, v.IsFullPeriod)
	assert.Less(t, len(distinctInOnePeriod(t, short)), 16)
}

func distinctInOnePeriod(t *testing.T, p Params) map[uint64]struct{} {
	s, err := NewStream(p)
	require.NoError(t, err)
	seen := make(map[uint64]struct{})
	for i := int64(0); i < p.Modulus; i++ {
		seen[s.Next()] = struct{}{}
	}
	return seen
}

func TestStream_Reset(t *testing.T) {
	s, err := NewStream(ANSIC)
	require.NoError(t, err)
	first := []uint64{s.Next(), s.Next(), s.Next()}
	s.Reset()
	assert.Equal(t, first, []uint64{s.Next(), s.Next(), s.Next()})
}

func TestPreset(t *testing.T) {
	p, ok := Preset(" ANSI-C ")
	require.True(t, ok)
	assert.Equal(t, ANSIC, p)
	_, ok = Preset("minstd")
	assert.False(t, ok)
	assert.Equal(t, []string{"ansi-c", "numerical-recipes", "randu"}, Presets())
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
	assert.Equal(t, Summary{Length: 1, Min: 0.5, Max: 0.5, Mean: 0.5}, Summarize([]float64{0.5}))

	s := Summarize([]float64{0, 0.25, 0.5, 0.75})
	assert.Equal(t, 4, s.Length)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 0.75, s.Max)
	assert.InDelta(t, 0.375, s.Mean, 1e-12)
	assert.Greater(t, s.StdDev, 0.0)

	seq, err := Generate(Params{Multiplier: 5, Increment: 3, Modulus: 16}, 16)
	require.NoError(t, err)
	// one full period is every k/16 once
	assert.InDelta(t, 7.5/16, Summarize(seq).Mean, 1e-12)
}

func TestPixels(t *testing.T) {
	assert.Equal(t, []byte{0, 63, 127, 191}, Pixels([]float64{0, 0.25, 0.5, 0.75}))
	assert.Empty(t, Pixels(nil))
}

func TestStream_ZeroValue(t *testing.T) {
	var s Stream
	assert.NotPanics(t, func() {
		assert.Equal(t, uint64(0), s.Next())
		assert.Equal(t, 0.0, s.Float64())
		s.Reset()
	})
}
