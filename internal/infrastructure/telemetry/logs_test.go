package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type captureExporter struct {
	mu     sync.Mutex
	bodies []string
}

func (e *captureExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.bodies = append(e.bodies, r.Body().AsString())
	}
	return nil
}

func (e *captureExporter) Shutdown(context.Context) error   { return nil }
func (e *captureExporter) ForceFlush(context.Context) error { return nil }

func TestLogExporter_Disabled(t *testing.T) {
	le, err := NewLogExporter(context.Background(), Config{}, nil)
	require.NoError(t, err)

	l := zap.NewNop()
	assert.Same(t, l, le.Attach(l))
	assert.NoError(t, le.Shutdown(context.Background()))
}

func TestLogExporter_AttachTees(t *testing.T) {
	exp := &captureExporter{}
	le := &LogExporter{
		sdk:    sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exp))),
		logger: zap.NewNop(),
	}
	core, local := observer.New(zap.InfoLevel)

	le.Attach(zap.New(core)).Info("document approved", zap.String("document_number", "PI-2026-0001"))

	assert.Equal(t, 1, local.Len())
	exp.mu.Lock()
	assert.Equal(t, []string{"document approved"}, exp.bodies)
	exp.mu.Unlock()
	assert.NoError(t, le.Shutdown(context.Background()))
}
