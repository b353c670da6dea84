package types

import (
	"fmt"
	"strings"
)

// Level is the severity of an event. Levels are ordered: Verbose is the
// lowest and Fatal the highest.
type Level int

const (
	LevelVerbose Level = iota
	LevelDebug
	LevelInformation
	LevelWarning
	LevelError
	LevelFatal
)

var levelNames = [...]string{
	LevelVerbose:     "Verbose",
	LevelDebug:       "Debug",
	LevelInformation: "Information",
	LevelWarning:     "Warning",
	LevelError:       "Error",
	LevelFatal:       "Fatal",
}

// String returns the canonical name of the level, e.g. "Information".
func (l Level) String() string {
	if l < LevelVerbose || l > LevelFatal {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel converts a level name to a Level. Matching is case-insensitive
// and accepts the common short forms used by structured log formats
// ("inf", "wrn", "warn", "err", "ftl", ...).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verbose", "vrb", "trace", "trc":
		return LevelVerbose, nil
	case "debug", "dbg":
		return LevelDebug, nil
	case "information", "info", "inf", "":
		return LevelInformation, nil
	case "warning", "warn", "wrn":
		return LevelWarning, nil
	case "error", "err", "eror":
		return LevelError, nil
	case "fatal", "ftl", "critical", "crit":
		return LevelFatal, nil
	default:
		return 0, fmt.Errorf("unknown level %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
