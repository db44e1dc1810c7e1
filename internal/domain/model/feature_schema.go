package model

// FieldKind distinguishes how a classifier input column is encoded.
type FieldKind int

const (
	// FieldNumeric columns are passed to the classifier as float64 values.
	FieldNumeric FieldKind = iota
	// FieldCategorical columns carry a string that the classifier encodes itself.
	FieldCategorical
)

// String returns the string representation.
func (k FieldKind) String() string {
	switch k {
	case FieldNumeric:
		return "numeric"
	case FieldCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// SchemaField names one column of the classifier input row.
type SchemaField struct {
	Name string
	Kind FieldKind
}

// Column names of the classifier input row.
const (
	FieldCategory       = "category"
	FieldGender         = "gender"
	FieldState          = "state"
	FieldAmount         = "amt"
	FieldLat            = "lat"
	FieldLong           = "long"
	FieldCityPop        = "city_pop"
	FieldMerchLat       = "merch_lat"
	FieldMerchLong      = "merch_long"
	FieldTransHour      = "trans_hour"
	FieldTransDay       = "trans_day"
	FieldTransWeekday   = "trans_weekday"
	FieldTransMonth     = "trans_month"
	FieldAge            = "age"
	FieldDistance       = "distance"
	FieldOddHour        = "odd_hour"
	FieldHighAmount     = "high_amount"
	FieldLongDistance   = "long_distance"
	FieldFraudRiskScore = "fraud_risk_score"
	FieldLogAmount      = "log_amt"
	FieldLogCityPop     = "log_city_pop"
	FieldIsWeekend      = "is_weekend"
)

// featureSchema is the exact column set and order the classifier artifact was
// trained on. Changing it invalidates every artifact.
var featureSchema = []SchemaField{
	{FieldCategory, FieldCategorical},
	{FieldGender, FieldCategorical},
	{FieldState, FieldCategorical},
	{FieldAmount, FieldNumeric},
	{FieldLat, FieldNumeric},
	{FieldLong, FieldNumeric},
	{FieldCityPop, FieldNumeric},
	{FieldMerchLat, FieldNumeric},
	{FieldMerchLong, FieldNumeric},
	{FieldTransHour, FieldNumeric},
	{FieldTransDay, FieldNumeric},
	{FieldTransWeekday, FieldNumeric},
	{FieldTransMonth, FieldNumeric},
	{FieldAge, FieldNumeric},
	{FieldDistance, FieldNumeric},
	{FieldOddHour, FieldNumeric},
	{FieldHighAmount, FieldNumeric},
	{FieldLongDistance, FieldNumeric},
	{FieldFraudRiskScore, FieldNumeric},
	{FieldLogAmount, FieldNumeric},
	{FieldLogCityPop, FieldNumeric},
	{FieldIsWeekend, FieldNumeric},
}

// FeatureSchema returns a copy of the classifier input schema in column order.
func FeatureSchema() []SchemaField {
	out := make([]SchemaField, len(featureSchema))
	copy(out, featureSchema)
	return out
}

// FeatureSchemaNames returns the schema column names in order.
func FeatureSchemaNames() []string {
	names := make([]string, len(featureSchema))
	for i, f := range featureSchema {
		names[i] = f.Name
	}
	return names
}
