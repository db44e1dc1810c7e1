package model

import (
	"fmt"
	"strconv"
)

// TransactionInput holds the raw attributes of a single submitted transaction.
// Range checks are the caller's concern; nothing here rejects values.
type TransactionInput struct {
	Category     string
	Gender       string
	State        string
	Amount       float64
	Age          int
	Lat          float64
	Long         float64
	CityPop      int64
	MerchLat     float64
	MerchLong    float64
	TransHour    int
	TransDay     int
	TransWeekday int
	TransMonth   int
}

// FeatureRecord is a TransactionInput enriched with the derived features the
// classifier was trained on. It is built once per submission and never mutated.
type FeatureRecord struct {
	TransactionInput

	Distance       float64
	LogAmount      float64
	LogCityPop     float64
	IsWeekend      int
	OddHour        int
	HighAmount     int
	LongDistance   int
	FraudRiskScore int
}

// Field is one column of the single-row classifier input.
type Field struct {
	Name   string
	Kind   FieldKind
	Text   string
	Number float64
}

// String renders the field value for display.
func (f Field) String() string {
	if f.Kind == FieldCategorical {
		return f.Text
	}
	return strconv.FormatFloat(f.Number, 'f', -1, 64)
}

// Fields returns the record as a single row in FeatureSchema order.
func (r FeatureRecord) Fields() []Field {
	values := map[string]Field{
		FieldCategory:       text(FieldCategory, r.Category),
		FieldGender:         text(FieldGender, r.Gender),
		FieldState:          text(FieldState, r.State),
		FieldAmount:         number(FieldAmount, r.Amount),
		FieldLat:            number(FieldLat, r.Lat),
		FieldLong:           number(FieldLong, r.Long),
		FieldCityPop:        number(FieldCityPop, float64(r.CityPop)),
		FieldMerchLat:       number(FieldMerchLat, r.MerchLat),
		FieldMerchLong:      number(FieldMerchLong, r.MerchLong),
		FieldTransHour:      number(FieldTransHour, float64(r.TransHour)),
		FieldTransDay:       number(FieldTransDay, float64(r.TransDay)),
		FieldTransWeekday:   number(FieldTransWeekday, float64(r.TransWeekday)),
		FieldTransMonth:     number(FieldTransMonth, float64(r.TransMonth)),
		FieldAge:            number(FieldAge, float64(r.Age)),
		FieldDistance:       number(FieldDistance, r.Distance),
		FieldOddHour:        number(FieldOddHour, float64(r.OddHour)),
		FieldHighAmount:     number(FieldHighAmount, float64(r.HighAmount)),
		FieldLongDistance:   number(FieldLongDistance, float64(r.LongDistance)),
		FieldFraudRiskScore: number(FieldFraudRiskScore, float64(r.FraudRiskScore)),
		FieldLogAmount:      number(FieldLogAmount, r.LogAmount),
		FieldLogCityPop:     number(FieldLogCityPop, r.LogCityPop),
		FieldIsWeekend:      number(FieldIsWeekend, float64(r.IsWeekend)),
	}

	row := make([]Field, 0, len(featureSchema))
	for _, sf := range featureSchema {
		f, ok := values[sf.Name]
		if !ok {
			panic(fmt.Sprintf("model: schema column %q has no record value", sf.Name))
		}
		row = append(row, f)
	}
	return row
}

func text(name, v string) Field {
	return Field{Name: name, Kind: FieldCategorical, Text: v}
}

func number(name string, v float64) Field {
	return Field{Name: name, Kind: FieldNumeric, Number: v}
}
