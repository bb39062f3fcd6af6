// Package ident generates compact process-unique identifiers for new roadmap entities.
package ident

import (
	"encoding/binary"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator produces identifiers made of a base36 millisecond timestamp
// followed by a base36 random component. Collisions are not checked.
type Generator struct {
	mu     sync.Mutex
	now    func() time.Time
	random func() uint64
	last   int64
}

// Option customizes a Generator.
type Option func(*Generator)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithRandom replaces the random source, mainly for tests.
func WithRandom(random func() uint64) Option {
	return func(g *Generator) { g.random = random }
}

// NewGenerator creates a Generator backed by the wall clock and uuid v4 randomness.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		now:    time.Now,
		random: uuidRandom,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// New returns a fresh identifier.
func (g *Generator) New() string {
	g.mu.Lock()
	ms := g.now().UnixMilli()
	// the time component never goes backwards, even if the clock does
	if ms < g.last {
		ms = g.last
	}
	g.last = ms
	r := g.random()
	g.mu.Unlock()

	return strconv.FormatInt(ms, 36) + strconv.FormatUint(r, 36)
}

func uuidRandom() uint64 {
	u := uuid.New()
	return binary.BigEndian.Uint64(u[8:])
}
