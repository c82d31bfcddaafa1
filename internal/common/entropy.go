package common

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
)

// Entropy is the single randomness source of the service: noise bytes, frame
// identifiers and base image selection all draw from it. It is safe for
// concurrent use. A seeded Entropy replays the same stream, which makes frame
// output reproducible.
type Entropy struct {
	mu  sync.Mutex
	src *rand.ChaCha8
	rng *rand.Rand
}

// NewEntropy creates an entropy source from a 32 byte seed
func NewEntropy(seed [32]byte) *Entropy {
	src := rand.NewChaCha8(seed)
	return &Entropy{
		src: src,
		rng: rand.New(src),
	}
}

// NewSeededEntropy creates a deterministic entropy source from a numeric seed
func NewSeededEntropy(seed uint64) *Entropy {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:8], seed)
	return NewEntropy(s)
}

// NewSystemEntropy creates an entropy source seeded from crypto/rand
func NewSystemEntropy() (*Entropy, error) {
	var s [32]byte
	if _, err := crand.Read(s[:]); err != nil {
		return nil, fmt.Errorf("failed to seed entropy: %w", err)
	}
	return NewEntropy(s), nil
}

// Read fills p with random bytes. It never fails.
func (e *Entropy) Read(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.src.Read(p)
}

// IntN returns a uniform value in [0, n). It panics if n <= 0.
func (e *Entropy) IntN(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.IntN(n)
}
