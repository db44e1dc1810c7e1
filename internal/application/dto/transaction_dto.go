package dto

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bibbank/fraud-predictor/internal/domain/model"
	"github.com/bibbank/fraud-predictor/internal/domain/valueobject"
)

// TransactionRequest is the input DTO shared by the form, JSON and gRPC surfaces.
type TransactionRequest struct {
	Amount       decimal.Decimal `json:"amt" form:"amt" validate:"finite,gte=0"`
	Category     string          `json:"category" form:"category" validate:"required,category"`
	Gender       string          `json:"gender" form:"gender" validate:"required,gender"`
	State        string          `json:"state" form:"state" validate:"required,len=2,alpha"`
	Lat          float64         `json:"lat" form:"lat" validate:"finite,gte=-90,lte=90"`
	Long         float64         `json:"long" form:"long" validate:"finite,gte=-180,lte=180"`
	MerchLat     float64         `json:"merch_lat" form:"merch_lat" validate:"finite,gte=-90,lte=90"`
	MerchLong    float64         `json:"merch_long" form:"merch_long" validate:"finite,gte=-180,lte=180"`
	CityPop      int64           `json:"city_pop" form:"city_pop" validate:"gte=0"`
	Age          int             `json:"age" form:"age" validate:"gte=0"`
	TransHour    int             `json:"trans_hour" form:"trans_hour" validate:"gte=0,lte=23"`
	TransDay     int             `json:"trans_day" form:"trans_day" validate:"gte=1,lte=31"`
	TransWeekday int             `json:"trans_weekday" form:"trans_weekday" validate:"gte=0,lte=6"`
	TransMonth   int             `json:"trans_month" form:"trans_month" validate:"gte=1,lte=12"`
}

// DefaultTransactionRequest returns the values the form is pre-filled with.
func DefaultTransactionRequest() TransactionRequest {
	return TransactionRequest{
		Category:     valueobject.CategoryMiscPOS,
		Gender:       valueobject.GenderMale,
		State:        "CA",
		Amount:       decimal.RequireFromString("50.00"),
		Age:          35,
		Lat:          34.05,
		Long:         -118.24,
		CityPop:      100000,
		MerchLat:     34.06,
		MerchLong:    -118.25,
		TransHour:    12,
		TransDay:     21,
		TransWeekday: 3,
		TransMonth:   6,
	}
}

// Normalize trims free-text fields and upper-cases the state code.
func (r *TransactionRequest) Normalize() {
	r.Category = strings.TrimSpace(r.Category)
	r.Gender = strings.TrimSpace(r.Gender)
	r.State = strings.ToUpper(strings.TrimSpace(r.State))
}

// ToInput maps the request to the domain input.
func (r TransactionRequest) ToInput() model.TransactionInput {
	return model.TransactionInput{
		Category:     r.Category,
		Gender:       r.Gender,
		State:        r.State,
		Amount:       r.Amount.InexactFloat64(),
		Age:          r.Age,
		Lat:          r.Lat,
		Long:         r.Long,
		CityPop:      r.CityPop,
		MerchLat:     r.MerchLat,
		MerchLong:    r.MerchLong,
		TransHour:    r.TransHour,
		TransDay:     r.TransDay,
		TransWeekday: r.TransWeekday,
		TransMonth:   r.TransMonth,
	}
}

// FeatureValue is one row of the computed-features detail view.
type FeatureValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FeaturesResponse is the output DTO of feature derivation.
type FeaturesResponse struct {
	RiskLevel      string         `json:"risk_level"`
	Fields         []FeatureValue `json:"fields"`
	Distance       float64        `json:"distance"`
	LogAmount      float64        `json:"log_amt"`
	LogCityPop     float64        `json:"log_city_pop"`
	IsWeekend      int            `json:"is_weekend"`
	OddHour        int            `json:"odd_hour"`
	HighAmount     int            `json:"high_amount"`
	LongDistance   int            `json:"long_distance"`
	FraudRiskScore int            `json:"fraud_risk_score"`
}

// PredictionResponse is the output DTO returned after a prediction.
type PredictionResponse struct {
	PredictedAt        time.Time        `json:"predicted_at"`
	Verdict            string           `json:"verdict"`
	VerdictDisplay     string           `json:"verdict_display"`
	ProbabilityPercent string           `json:"probability_percent"`
	RiskLevel          string           `json:"risk_level"`
	ModelVersion       string           `json:"model_version"`
	Features           FeaturesResponse `json:"features"`
	Probability        float64          `json:"probability"`
	Label              int              `json:"label"`
	ID                 uuid.UUID        `json:"id"`
}

// IsFraudulent reports whether the classifier flagged the transaction.
func (p PredictionResponse) IsFraudulent() bool {
	return p.Label == 1
}

// FromRecord maps a derived feature record to the response DTO.
func FromRecord(r model.FeatureRecord) FeaturesResponse {
	fields := r.Fields()
	values := make([]FeatureValue, 0, len(fields))
	for _, f := range fields {
		values = append(values, FeatureValue{Name: f.Name, Value: f.String()})
	}

	return FeaturesResponse{
		RiskLevel:      valueobject.RiskLevelFromScore(r.FraudRiskScore).String(),
		Fields:         values,
		Distance:       r.Distance,
		LogAmount:      r.LogAmount,
		LogCityPop:     r.LogCityPop,
		IsWeekend:      r.IsWeekend,
		OddHour:        r.OddHour,
		HighAmount:     r.HighAmount,
		LongDistance:   r.LongDistance,
		FraudRiskScore: r.FraudRiskScore,
	}
}

// FormatPercent renders a probability as a percentage with two decimals.
// The value is scaled in float64 and rounded half to even on its exact
// binary value, so 0.28125 renders as "28.12%".
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p*100, 'f', 2, 64) + "%"
}
