package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/flock/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor by logging finished spans.
type Bridge struct {
	logger  ports.Logger
	verbose bool
}

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger, verbose bool) *Bridge {
	return &Bridge{logger: logger, verbose: verbose}
}

// OnStart does nothing.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs failed spans as warnings and, when verbose, every other span as info.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}

	line := describe(s)
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "failed"
		}
		b.logger.Warn(line + ": " + desc)
		return
	}
	if b.verbose {
		b.logger.Info(line)
	}
}

// describe renders "name (duration) key=value ...".
func describe(s sdktrace.ReadOnlySpan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", s.Name(), s.EndTime().Sub(s.StartTime()).Round(time.Microsecond))
	for _, kv := range s.Attributes() {
		fmt.Fprintf(&b, " %s=%s", kv.Key, kv.Value.Emit())
	}
	return b.String()
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
