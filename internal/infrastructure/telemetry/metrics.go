package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const defaultMetricsInterval = time.Minute

// MeterProvider pushes metrics to the collector on a fixed interval. Disabled,
// it leaves the global no-op provider in place.
type MeterProvider struct {
	sdk    *sdkmetric.MeterProvider
	logger *zap.Logger
}

func NewMeterProvider(ctx context.Context, cfg Config, logger *zap.Logger) (*MeterProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mp := &MeterProvider{logger: logger}
	if !cfg.MetricsEnabled {
		logger.Info("Metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}
	res, err := serviceResource(cfg)
	if err != nil {
		return nil, err
	}

	interval := cfg.MetricsInterval
	if interval <= 0 {
		interval = defaultMetricsInterval
	}
	mp.sdk = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp.sdk)

	logger.Info("Metrics enabled",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("interval", interval),
	)
	return mp, nil
}

func (mp *MeterProvider) Enabled() bool { return mp.sdk != nil }

// Shutdown exports what is pending, waiting at most shutdownTimeout.
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.sdk == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := mp.sdk.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown meter provider: %w", err)
	}
	mp.logger.Info("Meter provider stopped")
	return nil
}

// Metric attribute keys.
const (
	attrAction  = attribute.Key("action")
	attrVariant = attribute.Key("variant")
	attrOutcome = attribute.Key("outcome")
)

type documentInstruments struct {
	transitions metric.Int64Counter
	renders     metric.Int64Counter
	renderTime  metric.Float64Histogram
}

var (
	instrumentsOnce sync.Once
	instruments     documentInstruments
)

// documentMetrics creates the instruments on first use from the global
// provider. Instruments created before NewMeterProvider follow the SDK
// provider once it is installed.
func documentMetrics() *documentInstruments {
	instrumentsOnce.Do(func() {
		meter := otel.Meter(TracerName)
		var err, errs error
		instruments.transitions, errs = meter.Int64Counter("tradedocs.document.transitions",
			metric.WithDescription("Workflow actions applied to trade documents"),
			metric.WithUnit("{action}"))
		instruments.renders, err = meter.Int64Counter("tradedocs.pdf.renders",
			metric.WithDescription("PDF renderings by outcome"),
			metric.WithUnit("{render}"))
		errs = errors.Join(errs, err)
		instruments.renderTime, err = meter.Float64Histogram("tradedocs.pdf.render.duration",
			metric.WithDescription("Time spent rendering one PDF"),
			metric.WithUnit("s"),
			metric.WithExplicitBucketBoundaries(0.25, 0.5, 1, 2, 5, 10, 30))
		if errs = errors.Join(errs, err); errs != nil {
			otel.Handle(errs)
		}
	})
	return &instruments
}

// CountTransition records one workflow action, such as Approve, on a
// document type.
func CountTransition(ctx context.Context, docType, action string) {
	documentMetrics().transitions.Add(ctx, 1, metric.WithAttributes(
		AttrDocumentType.String(docType),
		attrAction.String(action),
	))
}

// RecordRender counts a rendering and, when it succeeded, its duration.
func RecordRender(ctx context.Context, docType, variant string, elapsed time.Duration, err error) {
	m := documentMetrics()
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(AttrDocumentType.String(docType), attrVariant.String(variant))
	m.renders.Add(ctx, 1, attrs, metric.WithAttributes(attrOutcome.String(outcome)))
	if err == nil {
		m.renderTime.Record(ctx, elapsed.Seconds(), attrs)
	}
}
