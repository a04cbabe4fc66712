package publish

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// pahoLogger routes paho's package level loggers into slog.
type pahoLogger struct {
	logger *slog.Logger
	level  slog.Level
}

func newMqttLogger(logger *slog.Logger, level slog.Level) *pahoLogger {
	return &pahoLogger{logger: logger, level: level}
}

func (l *pahoLogger) Println(v ...any) {
	l.logger.Log(context.Background(), l.level, strings.TrimSpace(fmt.Sprintln(v...)))
}

func (l *pahoLogger) Printf(format string, v ...any) {
	l.logger.Log(context.Background(), l.level, strings.TrimSpace(fmt.Sprintf(format, v...)))
}
