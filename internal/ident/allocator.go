// Package ident hands out the short two-character identifiers shared by
// lists and tasks.
package ident

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const (
	letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"

	// Capacity is the size of the identifier space.
	Capacity = len(letters) * len(digits)
)

// ErrExhausted is returned by Allocate when every identifier is in use.
var ErrExhausted = errors.New("identifier space exhausted")

// ErrInvalidID is returned by Reserve for a malformed identifier.
var ErrInvalidID = errors.New("invalid identifier")

// ErrInUse is returned by Reserve when the identifier is already allocated.
var ErrInUse = errors.New("identifier already in use")

// Allocator tracks which identifiers are in use. The zero value is not
// usable; construct one with New.
type Allocator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	inUse map[string]struct{}
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithRand replaces the random source, mainly so tests are repeatable.
func WithRand(r *rand.Rand) Option {
	return func(a *Allocator) {
		a.rng = r
	}
}

// New returns an empty Allocator.
func New(opts ...Option) *Allocator {
	a := &Allocator{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		inUse: make(map[string]struct{}, Capacity),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate draws identifiers uniformly at random, resampling on collision,
// until it finds a free one.
func (a *Allocator) Allocate() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.inUse) >= Capacity {
		return "", ErrExhausted
	}
	for {
		n := a.rng.Intn(Capacity)
		id := string([]byte{letters[n/len(digits)], digits[n%len(digits)]})
		if _, taken := a.inUse[id]; taken {
			continue
		}
		a.inUse[id] = struct{}{}
		return id, nil
	}
}

// Release returns id to the free pool. Unknown ids are ignored.
func (a *Allocator) Release(id string) {
	a.mu.Lock()
	delete(a.inUse, id)
	a.mu.Unlock()
}

// Reserve marks an existing id as in use, as when reseeding from storage.
func (a *Allocator) Reserve(id string) error {
	if !Valid(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, taken := a.inUse[id]; taken {
		return fmt.Errorf("%w: %s", ErrInUse, id)
	}
	a.inUse[id] = struct{}{}
	return nil
}

// Reset forgets every allocation.
func (a *Allocator) Reset() {
	a.mu.Lock()
	a.inUse = make(map[string]struct{}, Capacity)
	a.mu.Unlock()
}

// InUse reports how many identifiers are currently allocated.
func (a *Allocator) InUse() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.inUse)
}

// Valid reports whether id is an uppercase letter followed by a digit.
func Valid(id string) bool {
	if len(id) != 2 {
		return false
	}
	return id[0] >= 'A' && id[0] <= 'Z' && id[1] >= '0' && id[1] <= '9'
}
