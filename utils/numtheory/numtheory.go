package numtheory

import "math/bits"

// GCD returns the greatest common divisor of a and b using the Euclidean
// algorithm. GCD(0, 0) is 0.
func GCD(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// PrimeFactors returns the distinct prime factors of n in ascending order.
// n <= 1 has no prime factors.
func PrimeFactors(n uint64) []uint64 {
	var factors []uint64
	rem := n
	for d := uint64(2); d <= rem/d; d++ {
		if rem%d != 0 {
			continue
		}
		factors = append(factors, d)
		for rem%d == 0 {
			rem /= d
		}
	}
	if rem > 1 {
		factors = append(factors, rem)
	}
	return factors
}

// MulMod returns (a*b) mod m without losing the high bits of the product.
func MulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}
