package lcg

import (
	"strings"

	"github.com/iochen/lcglab/utils/numtheory"
)

const (
	fullPeriodMessage = "Excellent! These parameters satisfy the Hull-Dobell Theorem for a full-period generator (period = m). " +
		"This will yield a sequence that visits every integer from 0 to m-1."
	warningMessage = "Warning: These parameters do NOT yield a full period. " +
		"The sequence will repeat earlier than expected, potentially leading to poor pseudo-randomness."

	relativelyPrimeHint = " 'c' and 'm' should be relatively prime."
	primeFactorsHint    = " 'a-1' should be divisible by all prime factors of 'm'."
	divisibleBy4Hint    = " Since 'm' is divisible by 4, 'a-1' must also be divisible by 4."
)

// Conditions holds the three Hull-Dobell conditions, each evaluated on its own.
type Conditions struct {
	RelativelyPrime       bool `json:"relativelyPrime"`
	PrimeFactorsDivisible bool `json:"primeFactorsDivisible"`
	DivisibleBy4          bool `json:"divisibleBy4"`
}

// Verdict is the result of Analyze.
type Verdict struct {
	IsFullPeriod   bool       `json:"isFullPeriod"`
	Conditions     Conditions `json:"conditions"`
	Recommendation string     `json:"recommendation"`
	PrimeFactors   []uint64   `json:"primeFactors"`
}

// Analyze checks p against the Hull-Dobell theorem:
// the generator has period m iff gcd(c, m) = 1, every prime factor of m
// divides a-1, and 4 divides a-1 whenever 4 divides m.
func Analyze(p Params) (Verdict, error) {
	if err := p.Validate(); err != nil {
		return Verdict{}, err
	}

	m := uint64(p.Modulus)
	// a >= 0, so a-1 >= -1 and the remainders below are zero exactly when
	// the divisor divides a-1.
	aMinus1 := p.Multiplier - 1

	factors := numtheory.PrimeFactors(m)
	cond := Conditions{
		RelativelyPrime:       numtheory.GCD(uint64(p.Increment), m) == 1,
		PrimeFactorsDivisible: true,
		DivisibleBy4:          m%4 != 0 || aMinus1%4 == 0,
	}
	for _, f := range factors {
		if aMinus1%int64(f) != 0 {
			cond.PrimeFactorsDivisible = false
		}
	}

	v := Verdict{
		IsFullPeriod: cond.RelativelyPrime && cond.PrimeFactorsDivisible && cond.DivisibleBy4,
		Conditions:   cond,
		PrimeFactors: factors,
	}
	if v.PrimeFactors == nil {
		v.PrimeFactors = []uint64{}
	}
	v.Recommendation = recommend(cond)
	return v, nil
}

func recommend(cond Conditions) string {
	if cond.RelativelyPrime && cond.PrimeFactorsDivisible && cond.DivisibleBy4 {
		return fullPeriodMessage
	}
	var b strings.Builder
	b.WriteString(warningMessage)
	if !cond.RelativelyPrime {
		b.WriteString(relativelyPrimeHint)
	}
	if !cond.PrimeFactorsDivisible {
		b.WriteString(primeFactorsHint)
	}
	if !cond.DivisibleBy4 {
		b.WriteString(divisibleBy4Hint)
	}
	return b.String()
}
