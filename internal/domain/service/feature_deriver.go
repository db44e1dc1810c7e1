package service

import (
	"math"

	"github.com/bibbank/fraud-predictor/internal/domain/model"
)

const (
	// EarthRadiusKM is the sphere radius used for great-circle distances.
	EarthRadiusKM = 6371.0

	// HighAmountThreshold is the amount above which high_amount is set.
	HighAmountThreshold = 200.0

	// LongDistanceThresholdKM is the distance above which long_distance is set.
	LongDistanceThresholdKM = 50.0

	// Hours strictly before OddHourStart or strictly after OddHourEnd are odd.
	OddHourStart = 6
	OddHourEnd   = 22
)

// FeatureDeriver is a domain service that enriches a raw transaction with the
// features the classifier was trained on. It holds no state.
type FeatureDeriver struct{}

// NewFeatureDeriver creates a new FeatureDeriver instance.
func NewFeatureDeriver() *FeatureDeriver {
	return &FeatureDeriver{}
}

// Derive builds the FeatureRecord for in. It is total over every input: out of
// range hours, weekdays or months are computed on as given.
func (d *FeatureDeriver) Derive(in model.TransactionInput) model.FeatureRecord {
	distance := HaversineKM(in.Lat, in.Long, in.MerchLat, in.MerchLong)

	record := model.FeatureRecord{
		TransactionInput: in,
		Distance:         distance,
		LogAmount:        math.Log1p(in.Amount),
		LogCityPop:       math.Log1p(float64(in.CityPop)),
		IsWeekend:        flag(in.TransWeekday == 5 || in.TransWeekday == 6),
		OddHour:          oddHour(in.TransHour),
		HighAmount:       highAmount(in.Amount),
		LongDistance:     longDistance(distance),
	}
	record.FraudRiskScore = record.OddHour + record.HighAmount + record.LongDistance

	return record
}

// HaversineKM returns the great-circle distance in kilometers between two
// points given in degrees.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	cosLat := math.Cos(radians(lat1)) * math.Cos(radians(lat2))

	// Products are grouped as cos*cos*(sin^2) and each is rounded on its own:
	// the float64 conversions stop the compiler from fusing them into FMAs,
	// which would change the last bit on arm64 and amd64 v3.
	a := float64(sinLat*sinLat) + float64(cosLat*float64(sinLon*sinLon))
	c := 2 * math.Asin(math.Sqrt(a))

	return EarthRadiusKM * c
}

// degToRad is divided in float64 at init, not folded as an exact constant, so
// conversions round the same way as the reference vectors.
var degToRad = func(pi float64) float64 { return pi / 180 }(math.Pi)

func radians(deg float64) float64 {
	return deg * degToRad
}

func oddHour(hour int) int {
	return flag(hour < OddHourStart || hour > OddHourEnd)
}

func highAmount(amount float64) int {
	return flag(amount > HighAmountThreshold)
}

// longDistance is strict: exactly LongDistanceThresholdKM is not long.
func longDistance(km float64) int {
	return flag(km > LongDistanceThresholdKM)
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
