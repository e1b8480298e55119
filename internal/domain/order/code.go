// internal/domain/order/code.go
package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

const (
	codePrefix    = "#ORD-"
	codeAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeSuffixLen = 5

	// maxCodeAttempts bounds the collision redraw loop. At 36^5 possible
	// suffixes repeated collisions are effectively impossible, so hitting
	// the ceiling indicates something badly wrong with storage or entropy.
	maxCodeAttempts = 10
)

// codePattern matches a well-formed order code
var codePattern = regexp.MustCompile(`^#ORD-[A-Z0-9]{5}$`)

// IsValidOrderCode reports whether code has the canonical order-code shape
func IsValidOrderCode(code string) bool {
	return codePattern.MatchString(code)
}

// randomCodeSuffix draws codeSuffixLen characters uniformly from the
// order-code alphabet
func randomCodeSuffix() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	suffix := make([]byte, codeSuffixLen)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		suffix[i] = codeAlphabet[n.Int64()]
	}
	return string(suffix), nil
}
