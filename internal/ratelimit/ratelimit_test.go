package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial requests", burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst is rejected", burst: 2, calls: 5, wantPass: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(0.001, tt.burst, 0)
			defer l.Stop()

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if l.Allow("client") {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l := New(0.001, 1, 0)
	defer l.Stop()

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
}

func TestLimiter_SweepDropsIdleKeys(t *testing.T) {
	l := New(1, 1, 0)
	l.idle = time.Minute
	defer l.Stop()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	l.Allow("old")

	now = now.Add(2 * time.Minute)
	l.Allow("fresh")
	l.sweep()

	assert.Equal(t, 1, l.size())
}
