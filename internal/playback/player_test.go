package playback

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestPageMapping(t *testing.T) {
	p := NewPlayer()
	p.Load(100*time.Second, 4)

	type testCase struct {
		at   time.Duration
		page int
	}
	cases := []testCase{
		{0, 0},
		{24 * time.Second, 0},
		{25 * time.Second, 1},
		{74 * time.Second, 2},
		{99 * time.Second, 3},
		{100 * time.Second, 3},
	}
	for _, c := range cases {
		p.Seek(c.at)
		if got := p.Page(); got != c.page {
			t.Errorf("Page at %v = %d, want %d", c.at, got, c.page)
		}
	}
}

func TestSkipClamps(t *testing.T) {
	p := NewPlayer()
	p.Load(25*time.Second, 1)

	p.Rewind()
	if got := p.Position(); got != 0 {
		t.Errorf("rewind from 0 gave %v", got)
	}
	p.Forward()
	p.Forward()
	if got := p.Position(); got != 20*time.Second {
		t.Errorf("two forwards gave %v", got)
	}
	p.Forward()
	if got := p.Position(); got != 25*time.Second {
		t.Errorf("forward past end gave %v", got)
	}
	p.Rewind()
	if got := p.Position(); got != 15*time.Second {
		t.Errorf("rewind gave %v", got)
	}
}

func TestAdvanceStopsPastEnd(t *testing.T) {
	p := NewPlayer()
	p.Load(2*time.Second, 2)

	var pages []int
	p.OnUpdate = func(_, _ time.Duration, page int) { pages = append(pages, page) }

	steps := 0
	for p.Advance() {
		steps++
		if steps > 10 {
			t.Fatal("player never stopped")
		}
	}
	if steps != 3 {
		t.Errorf("advanced %d times, want 3", steps)
	}
	if d := cmp.Diff([]int{1, 1, 1}, pages); d != "" {
		t.Errorf("pages (-want +got):\n%s", d)
	}

	p.Stop()
	if p.Position() != 0 || p.Page() != 0 {
		t.Errorf("stop left position %v page %d", p.Position(), p.Page())
	}
}

func TestPlay(t *testing.T) {
	p := NewPlayer()
	p.Interval = time.Millisecond
	p.Load(3*time.Second, 3)

	done := make(chan struct{})
	p.OnUpdate = func(pos, total time.Duration, _ int) {
		if pos > total {
			close(done)
		}
	}
	p.Play(context.Background())
	if !p.Playing() {
		t.Fatal("not playing after Play")
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("playback did not reach the end")
	}
	deadline := time.Now().Add(5 * time.Second)
	for p.Playing() {
		if time.Now().After(deadline) {
			t.Fatal("player still playing past the end")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPlayWithoutLoad(t *testing.T) {
	p := NewPlayer()
	p.Play(context.Background())
	if p.Playing() {
		t.Error("playing with nothing loaded")
	}
}

func TestPause(t *testing.T) {
	p := NewPlayer()
	p.Interval = time.Hour
	p.Load(time.Minute, 1)
	p.Seek(30 * time.Second)
	p.Play(context.Background())
	p.Pause()
	if p.Playing() {
		t.Error("still playing after Pause")
	}
	if got := p.Position(); got != 30*time.Second {
		t.Errorf("pause moved position to %v", got)
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[time.Duration]string{
		0:                        "00:00",
		59500 * time.Millisecond: "00:59",
		61 * time.Second:         "01:01",
		125 * time.Minute:        "125:00",
	}
	for d, want := range cases {
		if got := FormatClock(d); got != want {
			t.Errorf("FormatClock(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestTickAfterPauseIgnored(t *testing.T) {
	p := NewPlayer()
	p.Load(time.Minute, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if p.advance(ctx) {
		t.Error("advanced with a cancelled run")
	}
	if got := p.Position(); got != 0 {
		t.Errorf("position = %v, want 0", got)
	}
}

func TestPauseStopsTicks(t *testing.T) {
	p := NewPlayer()
	p.Interval = time.Microsecond
	p.Load(time.Hour, 1)
	for i := 0; i < 50; i++ {
		p.Play(context.Background())
		time.Sleep(50 * time.Microsecond)
		p.Pause()
		paused := p.Position()
		time.Sleep(200 * time.Microsecond)
		if got := p.Position(); got != paused {
			t.Fatalf("round %d: position moved from %v to %v after Pause", i, paused, got)
		}
	}
}
