package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flock/internal/adapters/telemetry"
	"go.trai.ch/flock/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestBridge_LogsFailedSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	var got string
	log.EXPECT().Warn(gomock.Any()).Do(func(msg string) { got = msg })

	tp := telemetry.NewProvider(log, false)
	defer func() { require.NoError(t, tp.Shutdown(context.Background())) }()
	tracer := telemetry.NewOTelTracer(tp)

	_, ok := tracer.Start(context.Background(), "sheet.load")
	ok.End()

	_, span := tracer.Start(context.Background(), "rules.apply")
	span.SetAttribute("sheet", "hero.yaml")
	span.RecordError(errors.New("key not found"))
	span.End()

	assert.Contains(t, got, "rules.apply (")
	assert.Contains(t, got, "sheet=hero.yaml")
	assert.Contains(t, got, ": key not found")
}

func TestBridge_VerboseLogsEverySpan(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	var got []string
	log.EXPECT().Info(gomock.Any()).Do(func(msg string) { got = append(got, msg) }).Times(2)

	tp := telemetry.NewProvider(log, true)
	tracer := telemetry.NewOTelTracer(tp)

	ctx, parent := tracer.Start(context.Background(), "show")
	_, child := tracer.Start(ctx, "sheet.flatten")
	child.SetAttribute("keys", 12)
	child.SetAttribute("strict", false)
	child.SetAttribute("ratio", 0.5)
	child.SetAttribute("paths", []string{"a", "b"})
	child.SetAttribute("other", struct{ N int }{3})
	child.End()
	parent.End()

	require.Len(t, got, 2)
	assert.Contains(t, got[0], "sheet.flatten (")
	assert.Contains(t, got[0], "keys=12 strict=false ratio=0.5")
	assert.Contains(t, got[0], "other={3}")
	assert.Contains(t, got[1], "show (")
}

func TestNoOpTracer(t *testing.T) {
	ctx := context.Background()
	got, span := telemetry.NewNoOpTracer().Start(ctx, "anything")

	assert.Equal(t, ctx, got)
	span.SetAttribute("k", "v")
	span.RecordError(errors.New("ignored"))
	span.End()
}
