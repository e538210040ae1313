package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllow_BurstThenDeny(t *testing.T) {
	krl := New(0.001, 3) // effectively no refill during the test

	for i := range 3 {
		assert.True(t, krl.Allow("key"), "request %d should be within burst", i)
	}
	assert.False(t, krl.Allow("key"), "burst exhausted")
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	krl := New(0.001, 1)

	assert.True(t, krl.Allow("alice"))
	assert.False(t, krl.Allow("alice"))

	// A different key has its own bucket.
	assert.True(t, krl.Allow("bob"))
}

func TestReset_RestoresBurst(t *testing.T) {
	krl := New(0.001, 1)

	assert.True(t, krl.Allow("key"))
	assert.False(t, krl.Allow("key"))

	krl.Reset("key")
	assert.True(t, krl.Allow("key"), "reset should restore the full burst")
}
