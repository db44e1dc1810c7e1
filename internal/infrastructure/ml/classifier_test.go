package ml_test

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/fraud-predictor/internal/domain/model"
	"github.com/bibbank/fraud-predictor/internal/domain/service"
	"github.com/bibbank/fraud-predictor/internal/infrastructure/ml"
)

// --- Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func loadArtifact(t *testing.T, name string) *ml.Artifact {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	a, err := ml.ParseArtifact(data)
	require.NoError(t, err)
	return a
}

func defaultInput() model.TransactionInput {
	return model.TransactionInput{
		Category:     "misc_pos",
		Gender:       "M",
		State:        "CA",
		Amount:       50,
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

func derive(in model.TransactionInput) model.FeatureRecord {
	return service.NewFeatureDeriver().Derive(in)
}

// --- Random forest ---

func TestLoadClassifier_RandomForest(t *testing.T) {
	c, err := ml.LoadClassifier(context.Background(), filepath.Join("testdata", "fraud_rf.json"), testLogger())
	require.NoError(t, err)

	assert.Equal(t, "rf-test-1", c.Version())
	assert.Equal(t, ml.KindRandomForest, c.Kind())
}

func TestRandomForest_Predictions(t *testing.T) {
	c, err := ml.NewClassifier(loadArtifact(t, "fraud_rf.json"), testLogger())
	require.NoError(t, err)

	risky := defaultInput()
	risky.Amount = 500
	risky.TransHour = 2
	risky.MerchLat, risky.MerchLong = 40.71, -74.00

	miscNet := defaultInput()
	miscNet.Category = "misc_net"

	oddHourOnly := defaultInput()
	oddHourOnly.TransHour = 2

	tests := []struct {
		name          string
		input         model.TransactionInput
		expectedProba float64
		expectedLabel int
	}{
		{name: "default transaction is legit", input: defaultInput(), expectedProba: 0.075, expectedLabel: 0},
		{name: "all flags set is fraudulent", input: risky, expectedProba: 0.75, expectedLabel: 1},
		{name: "one-hot category column is used", input: miscNet, expectedProba: 0.225, expectedLabel: 0},
		{name: "single flag stays on the legit side", input: oddHourOnly, expectedProba: 0.075, expectedLabel: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := derive(tt.input)

			proba, err := c.PredictProba(context.Background(), record)
			require.NoError(t, err)
			assert.InDelta(t, tt.expectedProba, proba, 1e-9)

			label, err := c.Predict(context.Background(), record)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedLabel, label)
		})
	}
}

func TestRandomForest_UnknownCategoryEncodesToZeros(t *testing.T) {
	c, err := ml.NewClassifier(loadArtifact(t, "fraud_rf.json"), testLogger())
	require.NoError(t, err)

	in := defaultInput()
	in.State = "ZZ"

	proba, err := c.PredictProba(context.Background(), derive(in))
	require.NoError(t, err)
	assert.InDelta(t, 0.075, proba, 1e-9)
}

func TestRandomForest_TieGoesToLegit(t *testing.T) {
	a := loadArtifact(t, "fraud_rf.json")
	a.Forest = &ml.ForestSpec{Trees: []ml.TreeSpec{
		{Nodes: []ml.NodeSpec{{Value: []float64{1, 1}}}},
	}}
	c, err := ml.NewClassifier(a, testLogger())
	require.NoError(t, err)

	record := derive(defaultInput())
	proba, err := c.PredictProba(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, 0.5, proba)

	label, err := c.Predict(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, 0, label)
}

func TestRandomForest_ProbabilityInUnitInterval(t *testing.T) {
	c, err := ml.NewClassifier(loadArtifact(t, "fraud_rf.json"), testLogger())
	require.NoError(t, err)

	for _, amt := range []float64{0, 10, 199, 201, 5000} {
		for _, hour := range []int{0, 6, 12, 23} {
			in := defaultInput()
			in.Amount = amt
			in.TransHour = hour

			p, err := c.PredictProba(context.Background(), derive(in))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
		}
	}
}

// --- Logistic regression ---

func TestLogisticRegression_Predictions(t *testing.T) {
	c, err := ml.LoadClassifier(context.Background(), filepath.Join("testdata", "fraud_logreg.json"), testLogger())
	require.NoError(t, err)
	assert.Equal(t, ml.KindLogisticRegression, c.Kind())

	in := defaultInput()
	in.Category = "travel"
	in.State = "NY"
	in.Amount = 500
	in.TransHour = 2
	record := derive(in)

	z := -5.0 + 2.0*float64(record.FraudRiskScore) + 0.5*math.Log1p(500) + 1.0 - 0.25
	expected := 1 / (1 + math.Exp(-z))

	proba, err := c.PredictProba(context.Background(), record)
	require.NoError(t, err)
	assert.InDelta(t, expected, proba, 1e-12)

	label, err := c.Predict(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, 1, label)

	legit, err := c.Predict(context.Background(), derive(defaultInput()))
	require.NoError(t, err)
	assert.Equal(t, 0, legit)
}

func TestLogisticRegression_UnknownCoefficientColumn(t *testing.T) {
	a := loadArtifact(t, "fraud_logreg.json")
	a.Logistic.Coefficients["category=crypto"] = 1.0

	_, err := ml.NewClassifier(a, testLogger())
	require.ErrorIs(t, err, ml.ErrArtifact)
}

// --- Fail-fast loading ---

func TestLoadClassifier_MissingFile(t *testing.T) {
	_, err := ml.LoadClassifier(context.Background(), filepath.Join(t.TempDir(), "missing.json"), testLogger())
	require.ErrorIs(t, err, ml.ErrArtifact)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadClassifier_EmptyLocation(t *testing.T) {
	_, err := ml.LoadClassifier(context.Background(), "", testLogger())
	require.ErrorIs(t, err, ml.ErrArtifact)
}

func TestLoadClassifier_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte("\x80\x04\x95 pickle bytes"), 0o600))

	_, err := ml.LoadClassifier(context.Background(), path, testLogger())
	require.ErrorIs(t, err, ml.ErrArtifact)
}

func TestLoadClassifier_Gzip(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "fraud_rf.json"))
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err = zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "fraud_rf.json.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	c, err := ml.LoadClassifier(context.Background(), path, testLogger())
	require.NoError(t, err)
	assert.Equal(t, "rf-test-1", c.Version())
}

func TestNewClassifier_RejectsInvalidArtifacts(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *ml.Artifact)
		wantErr error
	}{
		{
			name:    "unknown format",
			mutate:  func(a *ml.Artifact) { a.Format = "sklearn-pickle" },
			wantErr: ml.ErrArtifact,
		},
		{
			name:    "unknown kind",
			mutate:  func(a *ml.Artifact) { a.Kind = "gradient_boosting" },
			wantErr: ml.ErrArtifact,
		},
		{
			name:    "forest without trees",
			mutate:  func(a *ml.Artifact) { a.Forest = &ml.ForestSpec{} },
			wantErr: ml.ErrArtifact,
		},
		{
			name: "child index out of range",
			mutate: func(a *ml.Artifact) {
				a.Forest.Trees[0].Nodes[0].Right = 9
			},
			wantErr: ml.ErrArtifact,
		},
		{
			name: "child pointing backwards",
			mutate: func(a *ml.Artifact) {
				a.Forest.Trees[0].Nodes[0].Left = 0
			},
			wantErr: ml.ErrArtifact,
		},
		{
			name: "leaf with three classes",
			mutate: func(a *ml.Artifact) {
				a.Forest.Trees[0].Nodes[1].Value = []float64{1, 2, 3}
			},
			wantErr: ml.ErrArtifact,
		},
		{
			name: "leaf with zero weight",
			mutate: func(a *ml.Artifact) {
				a.Forest.Trees[0].Nodes[1].Value = []float64{0, 0}
			},
			wantErr: ml.ErrArtifact,
		},
		{
			name: "split on unknown column",
			mutate: func(a *ml.Artifact) {
				a.Forest.Trees[0].Nodes[0].Feature = "velocity"
			},
			wantErr: ml.ErrArtifact,
		},
		{
			name: "duplicate category",
			mutate: func(a *ml.Artifact) {
				a.Encoders["gender"] = ml.EncoderSpec{Categories: []string{"M", "M"}}
			},
			wantErr: ml.ErrArtifact,
		},
		{
			name: "features out of order",
			mutate: func(a *ml.Artifact) {
				a.Features[3], a.Features[4] = a.Features[4], a.Features[3]
			},
			wantErr: ml.ErrSchemaMismatch,
		},
		{
			name:    "missing feature",
			mutate:  func(a *ml.Artifact) { a.Features = a.Features[:21] },
			wantErr: ml.ErrSchemaMismatch,
		},
		{
			name:    "renamed feature",
			mutate:  func(a *ml.Artifact) { a.Features[0] = "merchant_category" },
			wantErr: ml.ErrSchemaMismatch,
		},
		{
			name:    "categorical feature without encoder",
			mutate:  func(a *ml.Artifact) { delete(a.Encoders, "state") },
			wantErr: ml.ErrSchemaMismatch,
		},
		{
			name: "numeric feature with encoder",
			mutate: func(a *ml.Artifact) {
				a.Encoders["amt"] = ml.EncoderSpec{Categories: []string{"low"}}
			},
			wantErr: ml.ErrSchemaMismatch,
		},
		{
			name: "encoder without categories",
			mutate: func(a *ml.Artifact) {
				a.Encoders["gender"] = ml.EncoderSpec{}
			},
			wantErr: ml.ErrSchemaMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := loadArtifact(t, "fraud_rf.json")
			tt.mutate(a)

			c, err := ml.NewClassifier(a, testLogger())
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, c)
		})
	}
}

func TestPredictProba_RejectsNonFiniteValues(t *testing.T) {
	c, err := ml.NewClassifier(loadArtifact(t, "fraud_rf.json"), testLogger())
	require.NoError(t, err)

	in := defaultInput()
	in.Amount = math.Inf(1)

	_, err = c.PredictProba(context.Background(), derive(in))
	require.Error(t, err)
}

func TestClassifier_ConcurrentReaders(t *testing.T) {
	c, err := ml.NewClassifier(loadArtifact(t, "fraud_rf.json"), testLogger())
	require.NoError(t, err)

	record := derive(defaultInput())

	var wg sync.WaitGroup
	results := make([]float64, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := c.PredictProba(context.Background(), record)
			if err == nil {
				results[i] = p
			}
		}(i)
	}
	wg.Wait()

	for _, p := range results {
		assert.InDelta(t, 0.075, p, 1e-9)
	}
}
