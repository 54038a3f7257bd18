package base64

import "strings"

const CHAR = "0123456789-abcdefghijklmnopqrstuvwxyz_ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Encode writes the low 6*length bits of raw, most significant digit first.
func Encode(raw uint64, length int) []byte {
	b := make([]byte, length)
	for i := 0; i < length; i++ {
		b[length-i-1] = CHAR[(raw>>(uint(i)*6))&63]
	}
	return b
}

// Len returns how many digits Encode needs for num; at least 1.
func Len(num uint64) int {
	l := 1
	for num >>= 6; num > 0; num >>= 6 {
		l++
	}
	return l
}

// Key joins the shortest encodings of nums with '.'.
func Key(nums ...uint64) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = string(Encode(n, Len(n)))
	}
	return strings.Join(parts, ".")
}
