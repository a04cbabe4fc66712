package logging

import (
	"log/slog"
	"strings"
)

type LogAttrFormat string

const (
	LogAttrFormatText LogAttrFormat = "TEXT"
	LogAttrFormatJSON LogAttrFormat = "JSON"
)

// LevelFromString accepts the slog level names, also with an offset like
// "WARN+2". Anything else falls back to INFO.
func LevelFromString(str *string) slog.Level {
	if str == nil {
		return slog.LevelInfo
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(*str))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// AttrFormatFromString defaults to JSON, only "text" selects the text format.
func AttrFormatFromString(str *string) LogAttrFormat {
	if str != nil && strings.EqualFold(strings.TrimSpace(*str), string(LogAttrFormatText)) {
		return LogAttrFormatText
	}
	return LogAttrFormatJSON
}
