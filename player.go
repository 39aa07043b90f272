package icitools

import (
	"time"

	"github.com/emmabritton/ici-tools/ici"
)

// Player tracks the current frame of an animation as time passes.
type Player struct {
	a       *ici.Animation
	frame   int
	elapsed time.Duration
	forward bool
	done    bool
}

// NewPlayer returns a Player positioned at the first frame to be shown,
// which is the last frame for the reversed play types.
func NewPlayer(a *ici.Animation) *Player {
	p := &Player{a: a}
	p.Reset()
	return p
}

// Reset rewinds to the first frame to be shown.
func (p *Player) Reset() {
	p.frame, p.elapsed, p.forward, p.done = 0, 0, true, false
	switch p.a.Play {
	case ici.OnceReversed, ici.LoopsReversed:
		p.frame, p.forward = len(p.a.Frames)-1, false
	}
}

// Frame returns the index of the frame to show.
func (p *Player) Frame() int {
	return p.frame
}

// Done reports whether an animation that plays once has finished.
func (p *Player) Done() bool {
	return p.done
}

// Advance moves time on by d, stepping through as many frames as have
// expired.
func (p *Player) Advance(d time.Duration) {
	p.elapsed += d
	for !p.done {
		// Zero length frames still get shown for a moment
		duration := p.a.Frames[p.frame].Duration
		if duration <= 0 {
			duration = time.Millisecond
		}
		if p.elapsed < duration {
			return
		}
		p.elapsed -= duration
		p.step()
	}
}

func (p *Player) step() {
	last := len(p.a.Frames) - 1

	switch p.a.Play {
	case ici.Once:
		if p.frame == last {
			p.done = true
			return
		}
		p.frame++
	case ici.OnceReversed:
		if p.frame == 0 {
			p.done = true
			return
		}
		p.frame--
	case ici.Loops:
		p.frame = (p.frame + 1) % (last + 1)
	case ici.LoopsReversed:
		p.frame = (p.frame + last) % (last + 1)
	case ici.LoopsBoth:
		if last == 0 {
			return
		}
		if p.forward && p.frame == last || !p.forward && p.frame == 0 {
			p.forward = !p.forward
		}
		if p.forward {
			p.frame++
		} else {
			p.frame--
		}
	}
}
