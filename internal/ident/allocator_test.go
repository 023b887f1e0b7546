package ident

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAllocator() *Allocator {
	return New(WithRand(rand.New(rand.NewSource(42))))
}

func TestAllocateProducesValidUniqueIDs(t *testing.T) {
	a := newTestAllocator()
	seen := make(map[string]bool)

	for i := 0; i < Capacity; i++ {
		id, err := a.Allocate()
		require.NoError(t, err)
		assert.True(t, Valid(id), "allocated %q", id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Equal(t, Capacity, a.InUse())
}

func TestAllocateExhausted(t *testing.T) {
	a := newTestAllocator()
	for i := 0; i < 260; i++ {
		_, err := a.Allocate()
		require.NoError(t, err)
	}

	_, err := a.Allocate()
	require.ErrorIs(t, err, ErrExhausted)
}

func TestReleaseThenAllocateReturnsFreedID(t *testing.T) {
	a := newTestAllocator()
	var ids []string
	for i := 0; i < Capacity; i++ {
		id, err := a.Allocate()
		require.NoError(t, err)
		ids = append(ids, id)
	}

	freed := ids[17]
	a.Release(freed)
	assert.Equal(t, Capacity-1, a.InUse())

	id, err := a.Allocate()
	require.NoError(t, err)
	assert.Equal(t, freed, id, "only one free id remains")

	_, err = a.Allocate()
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestReleaseUnknownIsNoop(t *testing.T) {
	a := newTestAllocator()
	_, err := a.Allocate()
	require.NoError(t, err)

	a.Release("Z9Z")
	a.Release("")
	assert.Equal(t, 1, a.InUse())
}

func TestReserve(t *testing.T) {
	a := newTestAllocator()

	require.NoError(t, a.Reserve("A0"))
	assert.Equal(t, 1, a.InUse())

	assert.ErrorIs(t, a.Reserve("A0"), ErrInUse)
	assert.ErrorIs(t, a.Reserve("a0"), ErrInvalidID)
	assert.ErrorIs(t, a.Reserve("AA"), ErrInvalidID)
	assert.ErrorIs(t, a.Reserve("A10"), ErrInvalidID)

	for i := 0; i < Capacity-1; i++ {
		id, err := a.Allocate()
		require.NoError(t, err)
		assert.NotEqual(t, "A0", id)
	}
}

func TestReset(t *testing.T) {
	a := newTestAllocator()
	for i := 0; i < 10; i++ {
		_, err := a.Allocate()
		require.NoError(t, err)
	}

	a.Reset()
	assert.Equal(t, 0, a.InUse())
}

func TestValid(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"A0", true},
		{"Z9", true},
		{"M5", true},
		{"", false},
		{"A", false},
		{"0A", false},
		{"a1", false},
		{"B12", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.id))
		})
	}
}
