// Package simulation drives delivery services through ticks and scores them.
package simulation

import (
	"sync/atomic"
	"time"
)

// Config holds the settings a running simulation picks up on every tick. It may
// be changed from any goroutine.
type Config struct {
	millisPerTick atomic.Int64
	paused        atomic.Bool
}

// NewConfig creates a Config. A non-positive millisPerTick runs ticks back to back.
func NewConfig(millisPerTick int64) *Config {
	c := &Config{}
	c.millisPerTick.Store(millisPerTick)
	return c
}

func (c *Config) MillisPerTick() int64 {
	return c.millisPerTick.Load()
}

func (c *Config) SetMillisPerTick(millis int64) {
	c.millisPerTick.Store(millis)
}

// TickDuration returns the wall-clock budget of a tick.
func (c *Config) TickDuration() time.Duration {
	return time.Duration(c.MillisPerTick()) * time.Millisecond
}

func (c *Config) Paused() bool {
	return c.paused.Load()
}

func (c *Config) SetPaused(paused bool) {
	c.paused.Store(paused)
}
