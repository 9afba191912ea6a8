package dataprocessing

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator hands out identifiers for trade entries and exits.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random version 4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator issues prefix-1, prefix-2, ... and is safe for concurrent use.
type SequenceGenerator struct {
	Prefix string

	mu   sync.Mutex
	next int
}

// NewSequenceGenerator returns a generator starting at prefix-1.
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{Prefix: prefix}
}

func (g *SequenceGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%d", g.Prefix, g.next)
}
