// Package logging provides structured logging for the RIC core, producing
// output in the same ServiceFormatter-compatible line format used across
// the rest of this codebase's services:
//
//	<ISO8601_time> <service_name> [<LEVEL>] <source>: <message>[ key=value ...]
//
// This keeps RIC process logs parseable by the same log-shipping pipeline
// as every other component, without pulling in a heavier structured-logging
// dependency than the standard library's slog.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
)

// Config holds the logging configuration.
type Config struct {
	Level       slog.Level
	ServiceName string
}

// DefaultConfig returns Info-level logging identified as "near-rt-ric".
func DefaultConfig() Config {
	return Config{Level: slog.LevelInfo, ServiceName: "near-rt-ric"}
}

// ParseLevel converts a string log level to slog.Level, defaulting to Info
// on an unrecognized value.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// serviceHandler is a slog.Handler that formats records as:
//
//	<ISO8601_time> <service_name> [<LEVEL>] <source>: <message>[ key=value ...]
type serviceHandler struct {
	serviceName string
	level       slog.Level
	writer      io.Writer
	mu          *sync.Mutex
	attrs       []slog.Attr
	groups      []string
}

func newServiceHandler(serviceName string, level slog.Level, writer io.Writer) *serviceHandler {
	return &serviceHandler{serviceName: serviceName, level: level, writer: writer, mu: &sync.Mutex{}}
}

func (h *serviceHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *serviceHandler) Handle(_ context.Context, r slog.Record) error {
	timeStr := r.Time.Format("2006-01-02T15:04:05.000-07:00")
	source := callerSource(r.PC)

	var parts []string
	for _, a := range h.attrs {
		parts = append(parts, formatAttr(a, h.groups))
	}
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, formatAttr(a, nil))
		return true
	})

	msg := r.Message
	if len(parts) > 0 {
		msg = msg + " " + strings.Join(parts, " ")
	}

	line := fmt.Sprintf("%s %s [%s] %s: %s\n", timeStr, h.serviceName, r.Level.String(), source, msg)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write([]byte(line))
	return err
}

func (h *serviceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &serviceHandler{serviceName: h.serviceName, level: h.level, writer: h.writer, mu: h.mu, attrs: newAttrs, groups: h.groups}
}

func (h *serviceHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &serviceHandler{serviceName: h.serviceName, level: h.level, writer: h.writer, mu: h.mu, attrs: h.attrs, groups: newGroups}
}

func callerSource(pc uintptr) string {
	if pc == 0 {
		return "unknown"
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	f, _ := frames.Next()
	if f.Function == "" {
		return "unknown"
	}
	parts := strings.Split(f.Function, "/")
	last := parts[len(parts)-1]
	if idx := strings.Index(last, "."); idx >= 0 {
		return last[:idx]
	}
	return last
}

func formatAttr(a slog.Attr, groups []string) string {
	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	return fmt.Sprintf("%s=%s", key, a.Value.String())
}

// New builds a *slog.Logger writing to stdout with the service handler.
func New(cfg Config) *slog.Logger {
	return slog.New(newServiceHandler(cfg.ServiceName, cfg.Level, os.Stdout))
}
