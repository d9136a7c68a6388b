package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// LevelTrace sits one notch below [slog.LevelDebug] and carries the raw
// request and response payloads exchanged with the generation backend.
// slog defines no Trace constant; -8 keeps the four-step spacing of the
// built-in levels.
const LevelTrace = slog.Level(-8)

// ParseLogLevel maps the log_level config string to an [slog.Level].
// Matching is case-insensitive and ignores surrounding whitespace. The
// empty string selects info, "trace" selects [LevelTrace], and
// "warning" is accepted as an alias for "warn". Anything else is an
// error listing the valid names.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (valid: trace, debug, info, warn, error)", s)
	}
}

// ReplaceLogLevelNames is a ReplaceAttr hook that prints [LevelTrace]
// as "TRACE". slog labels unknown levels relative to the nearest
// built-in one, which would make trace lines read "DEBUG-4".
func ReplaceLogLevelNames(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		level, ok := a.Value.Any().(slog.Level)
		if ok && level == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}
