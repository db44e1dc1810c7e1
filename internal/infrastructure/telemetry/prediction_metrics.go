package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/bibbank/fraud-predictor/internal/domain/port"
)

// MeterName is the instrumentation scope of the prediction instruments.
const MeterName = "github.com/bibbank/fraud-predictor"

// PredictionMetrics records completed predictions as otel instruments.
type PredictionMetrics struct {
	predictions metric.Int64Counter
	duration    metric.Float64Histogram
	probability metric.Float64Histogram
}

var _ port.PredictionObserver = (*PredictionMetrics)(nil)

// NewPredictionMetrics registers the prediction instruments on the provider.
func NewPredictionMetrics(provider metric.MeterProvider) (*PredictionMetrics, error) {
	meter := provider.Meter(MeterName)

	predictions, err := meter.Int64Counter(
		"fraud_predictions",
		metric.WithDescription("Completed fraud predictions by verdict and risk level."),
	)
	if err != nil {
		return nil, fmt.Errorf("create predictions counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"fraud_prediction_duration",
		metric.WithDescription("Time spent deriving features and running inference."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25),
	)
	if err != nil {
		return nil, fmt.Errorf("create prediction duration histogram: %w", err)
	}

	probability, err := meter.Float64Histogram(
		"fraud_probability",
		metric.WithDescription("Fraud probability returned by the classifier."),
		metric.WithExplicitBucketBoundaries(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9),
	)
	if err != nil {
		return nil, fmt.Errorf("create probability histogram: %w", err)
	}

	return &PredictionMetrics{
		predictions: predictions,
		duration:    duration,
		probability: probability,
	}, nil
}

// ObservePrediction implements port.PredictionObserver.
func (m *PredictionMetrics) ObservePrediction(ctx context.Context, verdict, riskLevel string, probability float64, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("verdict", verdict),
		attribute.String("risk_level", riskLevel),
	)
	m.predictions.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	m.probability.Record(ctx, probability, metric.WithAttributes(attribute.String("verdict", verdict)))
}
