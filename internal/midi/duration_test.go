package midi

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func writeSMF(t *testing.T, bpm float64, trackTicks ...uint32) []byte {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(96)
	for i, n := range trackTicks {
		var tr smf.Track
		if i == 0 && bpm > 0 {
			tr.Add(0, smf.MetaTempo(bpm))
		}
		tr.Add(0, midi.NoteOn(0, 60, 100))
		tr.Add(n, midi.NoteOff(0, 60))
		tr.Close(0)
		if err := s.Add(tr); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDuration(t *testing.T) {
	type testCase struct {
		name  string
		bpm   float64
		ticks []uint32
		want  time.Duration
	}
	cases := []testCase{
		{name: "default tempo", ticks: []uint32{96 * 4}, want: 2 * time.Second},
		{name: "fast", bpm: 240, ticks: []uint32{96 * 8}, want: 2 * time.Second},
		{name: "longest track", bpm: 60, ticks: []uint32{96, 96 * 3, 96 * 2}, want: 3 * time.Second},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data := writeSMF(t, c.bpm, c.ticks...)
			got, err := Duration(bytes.NewReader(data))
			if err != nil {
				t.Fatal(err)
			}
			if got != c.want {
				t.Errorf("Duration = %v, want %v", got, c.want)
			}
		})
	}
}

func TestDurationEmpty(t *testing.T) {
	data := writeSMF(t, 0, 0)
	_, err := Duration(bytes.NewReader(data))
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}
}

func TestDurationGarbage(t *testing.T) {
	if _, err := Duration(bytes.NewReader([]byte("not a midi file"))); err == nil {
		t.Error("garbage parsed without error")
	}
}

func TestDurationFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "score.mid")
	if err := os.WriteFile(name, writeSMF(t, 120, 96*2), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := DurationFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if got != time.Second {
		t.Errorf("DurationFile = %v, want 1s", got)
	}
}
