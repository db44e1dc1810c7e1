package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bibbank/fraud-predictor/internal/application/dto"
	"github.com/bibbank/fraud-predictor/internal/domain/port"
	"github.com/bibbank/fraud-predictor/internal/domain/service"
	"github.com/bibbank/fraud-predictor/internal/domain/valueobject"
)

const tracerName = "github.com/bibbank/fraud-predictor/internal/application/usecase"

// PredictFraud is the use case for classifying a single transaction.
type PredictFraud struct {
	deriver    service.Deriver
	classifier port.Classifier
	observer   port.PredictionObserver
	validator  *dto.Validator
	tracer     trace.Tracer
	now        func() time.Time
}

// NewPredictFraud creates a new PredictFraud use case. A nil observer
// disables prediction metrics.
func NewPredictFraud(
	deriver service.Deriver,
	classifier port.Classifier,
	observer port.PredictionObserver,
	validator *dto.Validator,
) *PredictFraud {
	return &PredictFraud{
		deriver:    deriver,
		classifier: classifier,
		observer:   observer,
		validator:  validator,
		tracer:     otel.Tracer(tracerName),
		now:        time.Now,
	}
}

// Execute validates the request, derives the feature record, and asks the
// classifier for both the label and the fraud probability.
func (uc *PredictFraud) Execute(ctx context.Context, req dto.TransactionRequest) (dto.PredictionResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "PredictFraud")
	defer span.End()

	start := uc.now()

	// 1. Reject malformed submissions before touching the model.
	input, err := uc.validator.Input(req)
	if err != nil {
		span.SetStatus(codes.Error, "invalid input")
		return dto.PredictionResponse{}, err
	}

	// 2. Derive the feature record.
	record := uc.deriver.Derive(input)

	// 3. Run inference.
	label, err := uc.classifier.Predict(ctx, record)
	if err != nil {
		return dto.PredictionResponse{}, fail(span, fmt.Errorf("failed to predict label: %w", err))
	}
	probability, err := uc.classifier.PredictProba(ctx, record)
	if err != nil {
		return dto.PredictionResponse{}, fail(span, fmt.Errorf("failed to predict probability: %w", err))
	}

	verdict, err := valueobject.VerdictFromLabel(label)
	if err != nil {
		return dto.PredictionResponse{}, fail(span, fmt.Errorf("classifier returned invalid label: %w", err))
	}
	riskLevel := valueobject.RiskLevelFromScore(record.FraudRiskScore)

	// 4. Record the outcome.
	now := uc.now()
	if uc.observer != nil {
		uc.observer.ObservePrediction(ctx, verdict.String(), riskLevel.String(), probability, now.Sub(start))
	}
	span.SetAttributes(
		attribute.String("fraud.verdict", verdict.String()),
		attribute.String("fraud.risk_level", riskLevel.String()),
		attribute.Float64("fraud.probability", probability),
		attribute.String("fraud.model_version", uc.classifier.Version()),
	)

	return dto.PredictionResponse{
		ID:                 uuid.New(),
		Label:              verdict.Label(),
		Verdict:            verdict.String(),
		VerdictDisplay:     verdict.DisplayName(),
		Probability:        probability,
		ProbabilityPercent: dto.FormatPercent(probability),
		RiskLevel:          riskLevel.String(),
		ModelVersion:       uc.classifier.Version(),
		PredictedAt:        now.UTC(),
		Features:           dto.FromRecord(record),
	}, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
