// Package anim interpolates numeric properties over time.
//
// A Batch groups tweens that start together and share a duration and easing.
// The Coordinator keeps at most one batch per Kind, so re-triggering one kind
// of animation never restarts another.
package anim

import (
	"math"
	"time"
)

// Easing maps linear progress in [0,1] to eased progress in [0,1].
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// QuadOut decelerates toward the target.
func QuadOut(t float64) float64 { return t * (2 - t) }

// CubicInOut accelerates then decelerates.
func CubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := 2*t - 2
	return 0.5*f*f*f + 1
}

// Target is one property to animate and the value it should reach.
type Target struct {
	Value *float64
	To    float64
}

type tween struct {
	value    *float64
	from, to float64
}

// Batch animates a set of properties from their values at creation time.
type Batch struct {
	tweens   []tween
	start    time.Time
	duration time.Duration
	ease     Easing
	done     bool
}

// NewBatch captures the current value of every target.
func NewBatch(targets []Target, start time.Time, duration time.Duration, ease Easing) *Batch {
	if ease == nil {
		ease = QuadOut
	}
	b := &Batch{
		tweens:   make([]tween, 0, len(targets)),
		start:    start,
		duration: duration,
		ease:     ease,
	}
	for _, t := range targets {
		if t.Value == nil {
			continue
		}
		b.tweens = append(b.tweens, tween{value: t.Value, from: *t.Value, to: t.To})
	}
	return b
}

// Advance writes interpolated values for now and reports whether every
// tween has reached its target.
func (b *Batch) Advance(now time.Time) bool {
	if b.done {
		return true
	}
	progress := 1.0
	if b.duration > 0 {
		progress = float64(now.Sub(b.start)) / float64(b.duration)
	}
	progress = math.Max(0, math.Min(1, progress))
	eased := b.ease(progress)

	for _, tw := range b.tweens {
		if progress >= 1 {
			*tw.value = tw.to
			continue
		}
		*tw.value = tw.from + (tw.to-tw.from)*eased
	}
	if progress >= 1 {
		b.done = true
	}
	return b.done
}

// Stop freezes the batch where it is.
func (b *Batch) Stop() { b.done = true }

// Done reports whether the batch has finished or was stopped.
func (b *Batch) Done() bool { return b.done }

// Len returns the number of tweens in the batch.
func (b *Batch) Len() int { return len(b.tweens) }
