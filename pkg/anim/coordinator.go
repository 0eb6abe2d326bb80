package anim

import (
	"time"

	"go.uber.org/zap"
)

// Kind names an independent group of animated properties.
type Kind int

const (
	NodeFill Kind = iota // node fill alpha
	Link                 // link alpha and color
	Label                // label alpha and scale
)

func (k Kind) String() string {
	switch k {
	case NodeFill:
		return "node-fill"
	case Link:
		return "link"
	case Label:
		return "label"
	default:
		return "unknown"
	}
}

// Coordinator runs at most one batch per Kind.
type Coordinator struct {
	batches map[Kind]*Batch
	ease    Easing
	logger  *zap.Logger
}

// NewCoordinator creates a coordinator using ease for every batch.
func NewCoordinator(ease Easing, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		batches: make(map[Kind]*Batch),
		ease:    ease,
		logger:  logger,
	}
}

// Animate stops any in-flight batch of the same kind and starts a new one
// from the targets' current values.
func (c *Coordinator) Animate(kind Kind, targets []Target, duration time.Duration, now time.Time) {
	if prev, ok := c.batches[kind]; ok {
		prev.Stop()
		c.logger.Debug("animation superseded", zap.Stringer("kind", kind), zap.Int("tweens", prev.Len()))
	}
	c.batches[kind] = NewBatch(targets, now, duration, c.ease)
}

// Advance steps every batch to now and drops the ones that finished.
func (c *Coordinator) Advance(now time.Time) {
	for kind, b := range c.batches {
		if b.Advance(now) {
			delete(c.batches, kind)
		}
	}
}

// Stop halts the batch of the given kind.
func (c *Coordinator) Stop(kind Kind) {
	if b, ok := c.batches[kind]; ok {
		b.Stop()
		delete(c.batches, kind)
	}
}

// StopAll halts every batch.
func (c *Coordinator) StopAll() {
	for kind := range c.batches {
		c.Stop(kind)
	}
}

// Active reports whether a batch of kind is in flight.
func (c *Coordinator) Active(kind Kind) bool {
	_, ok := c.batches[kind]
	return ok
}

// Len returns the number of in-flight batches.
func (c *Coordinator) Len() int { return len(c.batches) }
