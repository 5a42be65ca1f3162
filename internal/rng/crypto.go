package rng

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Crypto draws uniform integers from the operating system's entropy pool.
// crypto/rand.Int rejection-samples internally, so the result carries no
// modulo bias. The zero value is ready to use.
type Crypto struct {
	// Reader overrides the entropy source; nil means crypto/rand.Reader.
	Reader io.Reader
}

// Intn returns a random number in [0, n). Entropy failure is unrecoverable
// and panics: a table must never fall back to a weaker shuffle.
func (c Crypto) Intn(n int) int {
	source := c.Reader
	if source == nil {
		source = rand.Reader
	}

	v, err := rand.Int(source, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("rng: entropy source failed: %v", err))
	}
	return int(v.Int64())
}
