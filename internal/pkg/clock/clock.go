// Package clock supplies the current instant as an injectable capability.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current instant.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock in UTC.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a controllable clock for tests. The zero value is not usable; use NewFixed.
type Fixed struct {
	mu      sync.Mutex
	current time.Time
}

// NewFixed returns a clock pinned to t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{current: t.UTC()}
}

// MustParse returns a clock pinned to an RFC 3339 instant. It panics on malformed input.
func MustParse(value string) *Fixed {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return NewFixed(t)
}

func (c *Fixed) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Set moves the clock to t.
func (c *Fixed) Set(t time.Time) {
	c.mu.Lock()
	c.current = t.UTC()
	c.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new instant.
func (c *Fixed) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}
