package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestServiceHandlerFormatsLine(t *testing.T) {
	var buf bytes.Buffer
	h := newServiceHandler("near-rt-ric", slog.LevelInfo, &buf)
	log := slog.New(h)

	log.Info("cycle dispatched", slog.Int("cycle", 3))

	line := buf.String()
	if !strings.Contains(line, "near-rt-ric") {
		t.Fatalf("expected service name in output, got %q", line)
	}
	if !strings.Contains(line, "[INFO]") {
		t.Fatalf("expected level tag in output, got %q", line)
	}
	if !strings.Contains(line, "cycle dispatched") {
		t.Fatalf("expected message in output, got %q", line)
	}
	if !strings.Contains(line, "cycle=3") {
		t.Fatalf("expected attr in output, got %q", line)
	}
}

func TestServiceHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	h := newServiceHandler("near-rt-ric", slog.LevelWarn, &buf)
	log := slog.New(h)

	log.Info("should be suppressed")
	if buf.Len() != 0 {
		t.Fatalf("expected Info to be suppressed below Warn level, got %q", buf.String())
	}

	log.Warn("should appear")
	if buf.Len() == 0 {
		t.Fatal("expected Warn to be emitted")
	}
}

func TestServiceHandlerWithGroupPrefixesAttrKeys(t *testing.T) {
	var buf bytes.Buffer
	h := newServiceHandler("near-rt-ric", slog.LevelInfo, &buf)
	log := slog.New(h).WithGroup("cycle").With(slog.Int("id", 1))

	log.Info("opened")
	if !strings.Contains(buf.String(), "cycle.id=1") {
		t.Fatalf("expected grouped attr key, got %q", buf.String())
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if ParseLevel("bogus") != slog.LevelInfo {
		t.Fatal("expected an unrecognized level string to default to Info")
	}
	if ParseLevel("DEBUG") != slog.LevelDebug {
		t.Fatal("expected ParseLevel to be case-insensitive")
	}
}

func TestNewWritesToStdout(t *testing.T) {
	log := New(DefaultConfig())
	if log == nil {
		t.Fatal("expected New to return a non-nil logger")
	}
	log.InfoContext(context.Background(), "smoke test")
}
