// Package identity generates identifiers for sessions and event correlation.
//
// Ids use the UUID v4 text layout but come from math/rand, not crypto/rand:
// they correlate analytics records and are never used for access control.
package identity

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Source produces identifiers.
type Source interface {
	NewID() string
}

// Generator is a Source over a seeded math/rand source. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator with a fixed seed. Equal seeds give equal sequences.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// New creates a generator seeded from the clock.
func New() *Generator {
	return NewGenerator(time.Now().UnixNano())
}

// NewID returns a 36-character 8-4-4-4-12 id with version 4 and an RFC 4122 variant.
func (g *Generator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// math/rand never fails to read; keep the contract anyway
		return uuid.NewString()
	}
	return id.String()
}

// Func adapts a function to Source.
type Func func() string

func (f Func) NewID() string { return f() }
