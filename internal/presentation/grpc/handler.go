package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/fraud-predictor/internal/application/dto"
	"github.com/bibbank/fraud-predictor/internal/application/usecase"
)

// Compile-time assertion that FraudPredictorHandler implements FraudPredictorServer.
var _ FraudPredictorServer = (*FraudPredictorHandler)(nil)

// FraudPredictorHandler implements the gRPC FraudPredictorServer interface.
type FraudPredictorHandler struct {
	UnimplementedFraudPredictorServer
	predictFraud   *usecase.PredictFraud
	deriveFeatures *usecase.DeriveFeatures
	logger         *slog.Logger
}

// NewFraudPredictorHandler creates a new gRPC handler.
func NewFraudPredictorHandler(
	predictFraud *usecase.PredictFraud,
	deriveFeatures *usecase.DeriveFeatures,
	logger *slog.Logger,
) *FraudPredictorHandler {
	return &FraudPredictorHandler{
		predictFraud:   predictFraud,
		deriveFeatures: deriveFeatures,
		logger:         logger,
	}
}

// Proto-aligned request/response message types.

// TransactionMsg represents the proto Transaction message.
type TransactionMsg struct {
	Category     string  `json:"category"`
	Gender       string  `json:"gender"`
	State        string  `json:"state"`
	Amount       string  `json:"amt"`
	Lat          float64 `json:"lat"`
	Long         float64 `json:"long"`
	MerchLat     float64 `json:"merch_lat"`
	MerchLong    float64 `json:"merch_long"`
	CityPop      int64   `json:"city_pop"`
	Age          int32   `json:"age"`
	TransHour    int32   `json:"trans_hour"`
	TransDay     int32   `json:"trans_day"`
	TransWeekday int32   `json:"trans_weekday"`
	TransMonth   int32   `json:"trans_month"`
}

// FeatureFieldMsg represents the proto FeatureField message.
type FeatureFieldMsg struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FeaturesMsg represents the proto Features message.
type FeaturesMsg struct {
	RiskLevel      string             `json:"risk_level"`
	Fields         []*FeatureFieldMsg `json:"fields"`
	Distance       float64            `json:"distance"`
	LogAmt         float64            `json:"log_amt"`
	LogCityPop     float64            `json:"log_city_pop"`
	IsWeekend      int32              `json:"is_weekend"`
	OddHour        int32              `json:"odd_hour"`
	HighAmount     int32              `json:"high_amount"`
	LongDistance   int32              `json:"long_distance"`
	FraudRiskScore int32              `json:"fraud_risk_score"`
}

// PredictFraudRequest represents the proto PredictFraudRequest message.
type PredictFraudRequest struct {
	Transaction *TransactionMsg `json:"transaction"`
}

// PredictFraudResponse represents the proto PredictFraudResponse message.
type PredictFraudResponse struct {
	Features           *FeaturesMsg `json:"features"`
	PredictionID       string       `json:"prediction_id"`
	Verdict            string       `json:"verdict"`
	ProbabilityPercent string       `json:"probability_percent"`
	RiskLevel          string       `json:"risk_level"`
	ModelVersion       string       `json:"model_version"`
	PredictedAt        string       `json:"predicted_at"`
	Probability        float64      `json:"probability"`
	Label              int32        `json:"label"`
}

// DeriveFeaturesRequest represents the proto DeriveFeaturesRequest message.
type DeriveFeaturesRequest struct {
	Transaction *TransactionMsg `json:"transaction"`
}

// DeriveFeaturesResponse represents the proto DeriveFeaturesResponse message.
type DeriveFeaturesResponse struct {
	Features *FeaturesMsg `json:"features"`
}

// PredictFraud handles a fraud prediction request.
func (h *FraudPredictorHandler) PredictFraud(ctx context.Context, req *PredictFraudRequest) (*PredictFraudResponse, error) {
	if req == nil || req.Transaction == nil {
		return nil, status.Error(codes.InvalidArgument, "transaction is required")
	}

	txn, err := toTransactionRequest(req.Transaction)
	if err != nil {
		return nil, err
	}

	result, err := h.predictFraud.Execute(ctx, txn)
	if err != nil {
		return nil, h.toStatus("failed to predict fraud", err)
	}

	h.logger.Debug("prediction served",
		slog.String("prediction_id", result.ID.String()),
		slog.String("verdict", result.Verdict),
	)

	return &PredictFraudResponse{
		PredictionID:       result.ID.String(),
		Label:              int32(result.Label),
		Verdict:            result.Verdict,
		Probability:        result.Probability,
		ProbabilityPercent: result.ProbabilityPercent,
		RiskLevel:          result.RiskLevel,
		ModelVersion:       result.ModelVersion,
		PredictedAt:        result.PredictedAt.Format(time.RFC3339Nano),
		Features:           toFeaturesMsg(result.Features),
	}, nil
}

// DeriveFeatures handles a feature derivation request.
func (h *FraudPredictorHandler) DeriveFeatures(ctx context.Context, req *DeriveFeaturesRequest) (*DeriveFeaturesResponse, error) {
	if req == nil || req.Transaction == nil {
		return nil, status.Error(codes.InvalidArgument, "transaction is required")
	}

	txn, err := toTransactionRequest(req.Transaction)
	if err != nil {
		return nil, err
	}

	result, err := h.deriveFeatures.Execute(ctx, txn)
	if err != nil {
		return nil, h.toStatus("failed to derive features", err)
	}

	return &DeriveFeaturesResponse{Features: toFeaturesMsg(result)}, nil
}

func (h *FraudPredictorHandler) toStatus(msg string, err error) error {
	var inputErr *dto.InputError
	if errors.As(err, &inputErr) {
		return status.Error(codes.InvalidArgument, inputErr.Error())
	}

	h.logger.Error(msg, slog.String("error", err.Error()))
	return status.Error(codes.Internal, "internal error")
}

func toTransactionRequest(msg *TransactionMsg) (dto.TransactionRequest, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(msg.Amount))
	if err != nil {
		return dto.TransactionRequest{}, status.Errorf(codes.InvalidArgument, "invalid amt: %v", err)
	}

	return dto.TransactionRequest{
		Category:     msg.Category,
		Gender:       msg.Gender,
		State:        msg.State,
		Amount:       amount,
		Age:          int(msg.Age),
		Lat:          msg.Lat,
		Long:         msg.Long,
		CityPop:      msg.CityPop,
		MerchLat:     msg.MerchLat,
		MerchLong:    msg.MerchLong,
		TransHour:    int(msg.TransHour),
		TransDay:     int(msg.TransDay),
		TransWeekday: int(msg.TransWeekday),
		TransMonth:   int(msg.TransMonth),
	}, nil
}

func toFeaturesMsg(f dto.FeaturesResponse) *FeaturesMsg {
	fields := make([]*FeatureFieldMsg, 0, len(f.Fields))
	for _, fv := range f.Fields {
		fields = append(fields, &FeatureFieldMsg{Name: fv.Name, Value: fv.Value})
	}

	return &FeaturesMsg{
		RiskLevel:      f.RiskLevel,
		Fields:         fields,
		Distance:       f.Distance,
		LogAmt:         f.LogAmount,
		LogCityPop:     f.LogCityPop,
		IsWeekend:      int32(f.IsWeekend),
		OddHour:        int32(f.OddHour),
		HighAmount:     int32(f.HighAmount),
		LongDistance:   int32(f.LongDistance),
		FraudRiskScore: int32(f.FraudRiskScore),
	}
}
