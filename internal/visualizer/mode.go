package visualizer

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how hairs are lit.
type Mode int

const (
	// Ambient pulses every hair on its own sine wave.
	Ambient Mode = iota
	// BeatReactive flashes random hairs on onsets and beats.
	BeatReactive
	// SequentialScan lights one hair at a time, in order.
	SequentialScan

	numModes
)

// ErrUnknownMode is returned by ParseMode and Engine.Draw.
var ErrUnknownMode = errors.New("unknown visualizer mode")

var modeNames = [numModes]string{
	Ambient:        "ambient",
	BeatReactive:   "beat",
	SequentialScan: "scan",
}

// String returns the config name of the mode.
func (m Mode) String() string {
	if m < 0 || m >= numModes {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode parses a config or flag value. The aliases "sine" and
// "photogrammetry" are accepted too.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ambient", "sine", "wave":
		return Ambient, nil
	case "beat":
		return BeatReactive, nil
	case "scan", "photogrammetry":
		return SequentialScan, nil
	}
	return Ambient, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}
