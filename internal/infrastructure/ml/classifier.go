package ml

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/fraud-predictor/internal/domain/model"
	"github.com/bibbank/fraud-predictor/internal/domain/port"
)

// fraudThreshold is the argmax boundary for two classes; ties go to legit.
const fraudThreshold = 0.5

type probabilityModel interface {
	fraudProbability(x []float64) float64
	describe() string
}

var _ port.Classifier = (*ArtifactClassifier)(nil)

// ArtifactClassifier implements port.Classifier over a validated artifact.
// It is immutable after construction and safe for concurrent use.
type ArtifactClassifier struct {
	model   probabilityModel
	encoder *encoder
	logger  *slog.Logger
	kind    string
	version string
}

// NewClassifier validates the artifact and compiles it into a classifier.
func NewClassifier(a *Artifact, logger *slog.Logger) (*ArtifactClassifier, error) {
	if a.Format != ArtifactFormat {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrArtifact, a.Format)
	}
	if err := a.CheckSchema(); err != nil {
		return nil, err
	}

	enc, err := newEncoder(a.Encoders)
	if err != nil {
		return nil, err
	}

	var m probabilityModel
	switch a.Kind {
	case KindRandomForest:
		m, err = compileForest(a.Forest, enc)
	case KindLogisticRegression:
		m, err = compileLogistic(a.Logistic, enc)
	default:
		err = fmt.Errorf("%w: unsupported model kind %q", ErrArtifact, a.Kind)
	}
	if err != nil {
		return nil, err
	}

	return &ArtifactClassifier{
		model:   m,
		encoder: enc,
		logger:  logger,
		kind:    a.Kind,
		version: a.Version,
	}, nil
}

// LoadClassifier reads, validates and compiles the artifact at location. Any
// failure is a configuration error; callers must not serve without a classifier.
func LoadClassifier(ctx context.Context, location string, logger *slog.Logger) (*ArtifactClassifier, error) {
	data, err := ReadArtifact(ctx, location)
	if err != nil {
		return nil, err
	}

	artifact, err := ParseArtifact(data)
	if err != nil {
		return nil, err
	}

	c, err := NewClassifier(artifact, logger)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", location, err)
	}

	logger.Info("classifier artifact loaded",
		slog.String("location", location),
		slog.String("kind", c.kind),
		slog.String("version", c.version),
		slog.String("model", c.model.describe()),
		slog.Int("columns", c.encoder.width()),
	)

	return c, nil
}

// PredictProba returns the probability of the fraud class for the record.
func (c *ArtifactClassifier) PredictProba(_ context.Context, record model.FeatureRecord) (float64, error) {
	x, err := c.encoder.encode(record.Fields())
	if err != nil {
		return 0, fmt.Errorf("encode record: %w", err)
	}

	p := c.model.fraudProbability(x)

	c.logger.Debug("classifier prediction",
		slog.String("kind", c.kind),
		slog.Float64("probability", p),
	)

	return p, nil
}

// Predict returns 1 when the fraud class is the more probable one.
func (c *ArtifactClassifier) Predict(ctx context.Context, record model.FeatureRecord) (int, error) {
	p, err := c.PredictProba(ctx, record)
	if err != nil {
		return 0, err
	}
	if p > fraudThreshold {
		return 1, nil
	}
	return 0, nil
}

// Version returns the artifact version string.
func (c *ArtifactClassifier) Version() string {
	return c.version
}

// Kind returns the model kind of the artifact.
func (c *ArtifactClassifier) Kind() string {
	return c.kind
}
