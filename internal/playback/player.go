// Package playback simulates playing back a score in step with its MIDI
// file. No audio is produced; a timer advances the position once per second
// and the page on display follows the position.
package playback

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

const (
	step     = time.Second
	skipSize = 10 * time.Second
)

// Player tracks the simulated playback position.
type Player struct {
	mu        sync.Mutex
	total     time.Duration
	position  time.Duration
	pageCount int
	playing   bool
	cancel    context.CancelFunc

	// Interval is the wall-clock time between steps.
	Interval time.Duration

	// OnUpdate is called after the position changes, from the goroutine
	// that changed it.
	OnUpdate func(position, total time.Duration, page int)
}

func NewPlayer() *Player {
	return &Player{Interval: step}
}

// Load resets the player for a piece of the given length spread over
// pageCount pages.
func (p *Player) Load(total time.Duration, pageCount int) {
	p.Pause()
	p.mu.Lock()
	p.total = total
	p.pageCount = pageCount
	p.position = 0
	p.mu.Unlock()
	p.notify()
}

// Play starts advancing the position until the end is reached, Pause or
// Stop is called, or ctx is cancelled. It does nothing while already playing
// or when nothing is loaded.
func (p *Player) Play(ctx context.Context) {
	p.mu.Lock()
	if p.playing || p.total <= 0 {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.playing = true
	p.cancel = cancel
	interval := p.Interval
	p.mu.Unlock()

	log.Printf("[PLAYBACK] play from %s", FormatClock(p.Position()))
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !p.advance(ctx) {
					return
				}
			}
		}
	}()
}

// Advance moves the position forward by one step. Once the position passes
// the end, playback stops and Advance reports false.
func (p *Player) Advance() bool {
	return p.advance(context.Background())
}

// advance steps unless ctx, the context of the playback run that scheduled
// the tick, has been cancelled. The check runs under mu, where Pause and Stop
// cancel, so no step lands after they return.
func (p *Player) advance(ctx context.Context) bool {
	p.mu.Lock()
	if ctx.Err() != nil {
		p.mu.Unlock()
		return false
	}
	if p.position > p.total {
		p.stopLocked()
		p.mu.Unlock()
		return false
	}
	p.position += step
	p.mu.Unlock()
	p.notify()
	return true
}

// Pause halts playback and keeps the position.
func (p *Player) Pause() {
	p.mu.Lock()
	p.stopLocked()
	p.mu.Unlock()
}

// Stop halts playback and rewinds to the start.
func (p *Player) Stop() {
	p.mu.Lock()
	p.stopLocked()
	p.position = 0
	p.mu.Unlock()
	p.notify()
}

func (p *Player) stopLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.playing = false
}

// Rewind jumps back ten seconds.
func (p *Player) Rewind() { p.Seek(p.Position() - skipSize) }

// Forward jumps ahead ten seconds.
func (p *Player) Forward() { p.Seek(p.Position() + skipSize) }

// Seek moves to d, clamped to the length of the piece.
func (p *Player) Seek(d time.Duration) {
	p.mu.Lock()
	p.position = max(0, min(p.total, d))
	p.mu.Unlock()
	p.notify()
}

func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *Player) Total() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Page returns the page matching the current position, assuming the pages
// take equal time.
func (p *Player) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageLocked()
}

func (p *Player) pageLocked() int {
	if p.total <= 0 || p.pageCount <= 0 {
		return 0
	}
	page := int(float64(p.position) / float64(p.total) * float64(p.pageCount))
	return max(0, min(p.pageCount-1, page))
}

func (p *Player) notify() {
	p.mu.Lock()
	pos, total, page := p.position, p.total, p.pageLocked()
	cb := p.OnUpdate
	p.mu.Unlock()
	if cb != nil {
		cb(pos, total, page)
	}
}

// FormatClock renders d as mm:ss.
func FormatClock(d time.Duration) string {
	sec := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}
