package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogExporter ships zap records to the collector next to the local output.
type LogExporter struct {
	sdk    *sdklog.LoggerProvider
	logger *zap.Logger
}

func NewLogExporter(ctx context.Context, cfg Config, logger *zap.Logger) (*LogExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	le := &LogExporter{logger: logger}
	if !cfg.LogsEnabled {
		return le, nil
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp log exporter: %w", err)
	}
	res, err := serviceResource(cfg)
	if err != nil {
		return nil, err
	}
	le.sdk = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(le.sdk)

	logger.Info("Log export enabled", zap.String("collector_endpoint", cfg.CollectorEndpoint))
	return le, nil
}

// Attach tees l into the exporter. Disabled, it returns l unchanged.
func (le *LogExporter) Attach(l *zap.Logger) *zap.Logger {
	if le.sdk == nil {
		return l
	}
	bridge := otelzap.NewCore(TracerName, otelzap.WithLoggerProvider(le.sdk))
	return l.WithOptions(zap.WrapCore(func(local zapcore.Core) zapcore.Core {
		return zapcore.NewTee(local, bridge)
	}))
}

func (le *LogExporter) Shutdown(ctx context.Context) error {
	if le.sdk == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := le.sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown log exporter: %w", err)
	}
	return nil
}
