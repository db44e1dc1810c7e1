package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/bibbank/fraud-predictor/internal/application/dto"
	"github.com/bibbank/fraud-predictor/internal/application/usecase"
	"github.com/bibbank/fraud-predictor/internal/domain/model"
	"github.com/bibbank/fraud-predictor/internal/domain/service"
)

// --- Mock implementations ---

type mockClassifier struct {
	err         error
	label       int
	probability float64
}

func (m *mockClassifier) Predict(_ context.Context, _ model.FeatureRecord) (int, error) {
	return m.label, m.err
}

func (m *mockClassifier) PredictProba(_ context.Context, _ model.FeatureRecord) (float64, error) {
	return m.probability, m.err
}

func (m *mockClassifier) Version() string { return "mock-1" }

// --- Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func buildHandler(classifier *mockClassifier) *FraudPredictorHandler {
	validator := dto.NewValidator()
	deriver := service.NewFeatureDeriver()

	return NewFraudPredictorHandler(
		usecase.NewPredictFraud(deriver, classifier, nil, validator),
		usecase.NewDeriveFeatures(deriver, validator),
		testLogger(),
	)
}

func validTransaction() *TransactionMsg {
	return &TransactionMsg{
		Category:     "misc_pos",
		Gender:       "M",
		State:        "CA",
		Amount:       "50.00",
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

func requireGRPCCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected gRPC status error, got %v", err)
	assert.Equal(t, want, st.Code())
}

// --- Tests ---

func TestPredictFraud(t *testing.T) {
	t.Run("nil request returns InvalidArgument", func(t *testing.T) {
		h := buildHandler(&mockClassifier{})
		_, err := h.PredictFraud(context.Background(), nil)
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("missing transaction returns InvalidArgument", func(t *testing.T) {
		h := buildHandler(&mockClassifier{})
		_, err := h.PredictFraud(context.Background(), &PredictFraudRequest{})
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("invalid amount returns InvalidArgument", func(t *testing.T) {
		h := buildHandler(&mockClassifier{})
		txn := validTransaction()
		txn.Amount = "not-a-number"

		_, err := h.PredictFraud(context.Background(), &PredictFraudRequest{Transaction: txn})

		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "invalid amt")
	})

	t.Run("amount overflowing float64 returns InvalidArgument", func(t *testing.T) {
		h := buildHandler(&mockClassifier{label: 1, probability: 0.5})
		txn := validTransaction()
		txn.Amount = "1e400"

		_, err := h.PredictFraud(context.Background(), &PredictFraudRequest{Transaction: txn})

		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "amt")
	})

	t.Run("out of range field returns InvalidArgument", func(t *testing.T) {
		h := buildHandler(&mockClassifier{})
		txn := validTransaction()
		txn.TransMonth = 13

		_, err := h.PredictFraud(context.Background(), &PredictFraudRequest{Transaction: txn})

		requireGRPCCode(t, err, codes.InvalidArgument)
		assert.Contains(t, err.Error(), "trans_month")
	})

	t.Run("happy path returns prediction", func(t *testing.T) {
		h := buildHandler(&mockClassifier{label: 1, probability: 0.8125})

		resp, err := h.PredictFraud(context.Background(), &PredictFraudRequest{Transaction: validTransaction()})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.PredictionID)
		assert.Equal(t, int32(1), resp.Label)
		assert.Equal(t, "FRAUDULENT", resp.Verdict)
		assert.Equal(t, "81.25%", resp.ProbabilityPercent)
		assert.Equal(t, "mock-1", resp.ModelVersion)
		assert.NotEmpty(t, resp.PredictedAt)
		require.NotNil(t, resp.Features)
		assert.Len(t, resp.Features.Fields, len(model.FeatureSchemaNames()))
	})

	t.Run("classifier failure returns Internal", func(t *testing.T) {
		h := buildHandler(&mockClassifier{err: fmt.Errorf("schema mismatch")})

		_, err := h.PredictFraud(context.Background(), &PredictFraudRequest{Transaction: validTransaction()})

		requireGRPCCode(t, err, codes.Internal)
		assert.NotContains(t, err.Error(), "schema mismatch")
	})
}

func TestDeriveFeatures(t *testing.T) {
	t.Run("nil request returns InvalidArgument", func(t *testing.T) {
		h := buildHandler(&mockClassifier{})
		_, err := h.DeriveFeatures(context.Background(), nil)
		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("unknown category returns InvalidArgument", func(t *testing.T) {
		h := buildHandler(&mockClassifier{})
		txn := validTransaction()
		txn.Category = "casino"

		_, err := h.DeriveFeatures(context.Background(), &DeriveFeaturesRequest{Transaction: txn})

		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("amount overflowing float64 returns InvalidArgument", func(t *testing.T) {
		h := buildHandler(&mockClassifier{})
		txn := validTransaction()
		txn.Amount = "1e400"

		_, err := h.DeriveFeatures(context.Background(), &DeriveFeaturesRequest{Transaction: txn})

		requireGRPCCode(t, err, codes.InvalidArgument)
	})

	t.Run("happy path returns features", func(t *testing.T) {
		h := buildHandler(&mockClassifier{})

		resp, err := h.DeriveFeatures(context.Background(), &DeriveFeaturesRequest{Transaction: validTransaction()})

		require.NoError(t, err)
		assert.InDelta(t, 1.444, resp.Features.Distance, 0.001)
		assert.Equal(t, int32(0), resp.Features.FraudRiskScore)
		assert.Equal(t, "LOW", resp.Features.RiskLevel)
	})
}

func TestServer_OverJSONCodec(t *testing.T) {
	srv, err := NewServer(buildHandler(&mockClassifier{probability: 0.075}), ServerConfig{}, testLogger())
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ctx := context.Background()

	client := NewFraudPredictorClient(conn)
	resp, err := client.PredictFraud(ctx, &PredictFraudRequest{Transaction: validTransaction()})
	require.NoError(t, err)
	assert.Equal(t, "LEGIT", resp.Verdict)
	assert.Equal(t, "7.50%", resp.ProbabilityPercent)

	txn := validTransaction()
	txn.Gender = "X"
	_, err = client.DeriveFeatures(ctx, &DeriveFeaturesRequest{Transaction: txn})
	requireGRPCCode(t, err, codes.InvalidArgument)

	healthResp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, healthResp.Status)
}

func TestNewServer_BadTLSFiles(t *testing.T) {
	_, err := NewServer(buildHandler(&mockClassifier{}), ServerConfig{
		TLSCertFile: "missing.pem",
		TLSKeyFile:  "missing-key.pem",
	}, testLogger())
	require.Error(t, err)
}
