package port

import (
	"context"
	"time"

	"github.com/bibbank/fraud-predictor/internal/domain/model"
)

// Classifier defines the port for the pre-trained fraud classifier. It is
// loaded once before serving and shared read-only by every request.
type Classifier interface {
	// Predict returns the binary label for the record, 1 = fraudulent.
	Predict(ctx context.Context, record model.FeatureRecord) (int, error)

	// PredictProba returns the probability mass assigned to the fraud class.
	PredictProba(ctx context.Context, record model.FeatureRecord) (float64, error)

	// Version identifies the loaded artifact.
	Version() string
}

// PredictionObserver defines the port for recording completed predictions.
type PredictionObserver interface {
	ObservePrediction(ctx context.Context, verdict, riskLevel string, probability float64, elapsed time.Duration)
}
