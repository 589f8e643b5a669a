package searcher

import (
	"context"
	"errors"
	"time"
)

// Stats describes one search call.
type Stats struct {
	// Depth is the deepest completed iteration for tree searches and the
	// number of completed rounds for MCTS.
	Depth   int
	Elapsed time.Duration
	Nodes   int64
}

type collector struct {
	startTime time.Time
}

func (m *collector) Start() {
	m.startTime = time.Now()
}

func (m *collector) Complete(depth int, nodes int64) Stats {
	return Stats{
		Depth:   depth,
		Elapsed: time.Since(m.startTime),
		Nodes:   nodes,
	}
}

// errDeadline aborts a search in progress. It never leaves the package.
var errDeadline = errors.New("search deadline exceeded")

// clock samples the wall clock and the context every interval nodes.
type clock struct {
	ctx      context.Context
	deadline time.Time
	interval int64
	nodes    int64
}

func newClock(ctx context.Context, duration time.Duration, interval int) *clock {
	c := &clock{ctx: ctx, interval: int64(interval)}
	if c.interval <= 0 {
		c.interval = CheckInterval
	}
	if duration > 0 {
		c.deadline = time.Now().Add(duration)
	}
	return c
}

// tick counts a visited node and checks the clock on every interval.
func (c *clock) tick() error {
	c.nodes++
	if c.nodes%c.interval != 0 {
		return nil
	}
	return c.check()
}

func (c *clock) check() error {
	if c.ctx.Err() != nil {
		return errDeadline
	}
	if !c.deadline.IsZero() && time.Now().After(c.deadline) {
		return errDeadline
	}
	return nil
}
