package utils

import (
	"crypto/rand"
	"math/big"
)

const codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateInviteCode generates a random uppercase code of length n.
// Ambiguous characters (0/O, 1/I) are excluded so codes survive retyping.
func GenerateInviteCode(n int) string {
	b := make([]byte, n)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			return ""
		}
		b[i] = codeCharset[num.Int64()]
	}
	return string(b)
}
