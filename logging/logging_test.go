package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/icodeforyou/solarcalc-go/database"
)

func TestLevelFromString(t *testing.T) {
	str := func(s string) *string { return &s }
	tests := []struct {
		in   *string
		want slog.Level
	}{
		{nil, slog.LevelInfo},
		{str("debug"), slog.LevelDebug},
		{str("INFO"), slog.LevelInfo},
		{str("Warn"), slog.LevelWarn},
		{str("error"), slog.LevelError},
		{str("verbose"), slog.LevelInfo},
		{str(" warn+2 "), slog.LevelWarn + 2},
	}
	for _, tt := range tests {
		if got := LevelFromString(tt.in); got != tt.want {
			t.Errorf("got %v, wanted %v", got, tt.want)
		}
	}
}

func TestMultiHandler(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	)).With(slog.String("module", "test"))

	logger.Info("calculation done", slog.String("payback", "8.2"))

	if !strings.Contains(a.String(), "module=test") || !strings.Contains(a.String(), "payback=8.2") {
		t.Errorf("text handler got %q", a.String())
	}
	if !strings.Contains(b.String(), `"module":"test"`) || !strings.Contains(b.String(), `"payback":"8.2"`) {
		t.Errorf("json handler got %q", b.String())
	}
}

func TestMultiHandlerLevels(t *testing.T) {
	var info, debug bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&info, nil),
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Errorf("debug must be enabled when one handler accepts it")
	}

	slog.New(h).Debug("irr iteration")
	if info.Len() != 0 {
		t.Errorf("info handler got a debug record: %q", info.String())
	}
	if !strings.Contains(debug.String(), "irr iteration") {
		t.Errorf("debug handler got %q", debug.String())
	}
}

func TestAttrFormatFromString(t *testing.T) {
	str := func(s string) *string { return &s }
	if f := AttrFormatFromString(nil); f != LogAttrFormatJSON {
		t.Errorf("got %v, wanted JSON", f)
	}
	if f := AttrFormatFromString(str("text")); f != LogAttrFormatText {
		t.Errorf("got %v, wanted TEXT", f)
	}
	if f := AttrFormatFromString(str("yaml")); f != LogAttrFormatJSON {
		t.Errorf("got %v, wanted JSON", f)
	}
}

type fakeLogWriter struct {
	rows []database.LogEntryRow
	ctxs []context.Context
}

func (f *fakeLogWriter) SaveLogEntry(ctx context.Context, r database.LogEntryRow) error {
	f.rows = append(f.rows, r)
	f.ctxs = append(f.ctxs, ctx)
	return nil
}

func TestSQLiteHandlerJSON(t *testing.T) {
	w := &fakeLogWriter{}
	logger := slog.New(&SQLiteHandler{db: w, minLevel: slog.LevelInfo, format: LogAttrFormatJSON}).
		With(slog.String("module", "estimate"))

	logger.Debug("calculation done")
	logger.WithGroup("irr").Warn("irr did not converge", slog.Int("iterations", 100))

	if len(w.rows) != 1 {
		t.Fatalf("got %d rows, wanted 1", len(w.rows))
	}
	row := w.rows[0]
	if row.Message != "irr did not converge" || row.Level != int(slog.LevelWarn) {
		t.Errorf("got %+v", row)
	}
	if time.Since(row.Timestamp) > time.Minute {
		t.Errorf("got timestamp %v", row.Timestamp)
	}

	var attrs map[string]string
	if err := json.Unmarshal([]byte(row.Attrs), &attrs); err != nil {
		t.Fatalf("attrs %q: %v", row.Attrs, err)
	}
	if row.Module != "estimate" {
		t.Errorf("got module %q, wanted \"estimate\"", row.Module)
	}
	if _, ok := attrs["module"]; ok || attrs["irr.iterations"] != "100" {
		t.Errorf("got attrs %v", attrs)
	}
}

func TestSQLiteHandlerText(t *testing.T) {
	w := &fakeLogWriter{}
	logger := slog.New(&SQLiteHandler{db: w, minLevel: slog.LevelDebug, format: LogAttrFormatText})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	logger.InfoContext(ctx, "http request", slog.String("url", "/chart?state=Ohio;size=5"))
	logger.Info("no attributes")

	if len(w.rows) != 2 {
		t.Fatalf("got %d rows, wanted 2", len(w.rows))
	}
	if w.rows[0].Attrs != `url=/chart?state\=Ohio\;size\=5` {
		t.Errorf("got attrs %q", w.rows[0].Attrs)
	}
	if w.ctxs[0].Err() != nil {
		t.Errorf("log entry must be saved without the cancellation")
	}
	if w.rows[1].Attrs != "" {
		t.Errorf("got attrs %q, wanted none", w.rows[1].Attrs)
	}
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("disk full")
}

func TestMultiHandlerContinuesAfterError(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(
		failingHandler{slog.NewTextHandler(&bytes.Buffer{}, nil)},
		slog.NewTextHandler(&buf, nil))

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "server stopped", 0)
	err := h.Handle(context.Background(), r)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("got %v, wanted the handler error", err)
	}
	if !strings.Contains(buf.String(), "server stopped") {
		t.Errorf("second handler got %q", buf.String())
	}
}
