// Package midi estimates how long a Standard MIDI File plays.
//
// The estimate is coarse on purpose: the longest track is converted to time
// with a single tempo, the last Set Tempo event found in the file.
package midi

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gitlab.com/gomidi/midi/v2/smf"
)

// defaultTempo is the SMF default of 120 bpm in microseconds per quarter.
const defaultTempo = 500000

var (
	ErrUnsupportedTimeFormat = errors.New("only metric time formats are supported")
	ErrEmpty                 = errors.New("file has no playable length")
)

// DurationFile opens the named file and estimates its duration.
func DurationFile(name string) (time.Duration, error) {
	fd, err := os.Open(name)
	if err != nil {
		return 0, err
	}
	defer fd.Close()
	d, err := Duration(fd)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

// Duration reads a Standard MIDI File and estimates its duration.
func Duration(r io.Reader) (time.Duration, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return 0, fmt.Errorf("read smf: %w", err)
	}
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || ticks.Resolution() == 0 {
		return 0, ErrUnsupportedTimeFormat
	}

	tempo := int64(defaultTempo)
	var maxTicks int64
	for _, track := range s.Tracks {
		var total int64
		for _, ev := range track {
			total += int64(ev.Delta)
			var bpm float64
			if ev.Message.GetMetaTempo(&bpm) && bpm > 0 {
				tempo = int64(60_000_000/bpm + 0.5)
			}
		}
		maxTicks = max(maxTicks, total)
	}

	micros := maxTicks * tempo / int64(ticks.Resolution())
	if micros <= 0 {
		return 0, ErrEmpty
	}
	return time.Duration(micros) * time.Microsecond, nil
}
