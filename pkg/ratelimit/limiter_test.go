package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlidingWindowAllow(t *testing.T) {
	sw := NewSlidingWindow(3, time.Minute)

	assert.True(t, sw.Allow())
	assert.True(t, sw.Allow())
	assert.True(t, sw.Allow())
	assert.False(t, sw.Allow(), "fourth request exceeds the window")
}

func TestSlidingWindowExpiry(t *testing.T) {
	sw := NewSlidingWindow(2, 50*time.Millisecond)

	assert.True(t, sw.Allow())
	assert.True(t, sw.Allow())
	assert.False(t, sw.Allow())

	time.Sleep(60 * time.Millisecond)
	assert.True(t, sw.Allow(), "old requests fall out of the window")
}

func TestSlidingWindowReset(t *testing.T) {
	sw := NewSlidingWindow(1, time.Minute)

	assert.True(t, sw.Allow())
	assert.False(t, sw.Allow())

	sw.Reset()
	assert.True(t, sw.Allow())
}

func TestSlidingWindowWait(t *testing.T) {
	sw := NewSlidingWindow(1, 30*time.Millisecond)

	sw.Wait()
	start := time.Now()
	sw.Wait()
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestUnlimited(t *testing.T) {
	var l Limiter = Unlimited{}
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow())
	}
	l.Wait()
	l.Reset()
}
