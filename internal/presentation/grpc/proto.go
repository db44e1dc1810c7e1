package grpc

// proto.go defines the gRPC server interface for fraudpredictor/v1/fraud_predictor.proto.
// Messages are plain Go structs carried by the JSON codec registered in codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FraudPredictorServer is the server API for FraudPredictor.
type FraudPredictorServer interface {
	PredictFraud(context.Context, *PredictFraudRequest) (*PredictFraudResponse, error)
	DeriveFeatures(context.Context, *DeriveFeaturesRequest) (*DeriveFeaturesResponse, error)
	mustEmbedUnimplementedFraudPredictorServer()
}

// UnimplementedFraudPredictorServer provides forward-compatible default implementations.
type UnimplementedFraudPredictorServer struct{}

func (UnimplementedFraudPredictorServer) PredictFraud(context.Context, *PredictFraudRequest) (*PredictFraudResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PredictFraud not implemented")
}
func (UnimplementedFraudPredictorServer) DeriveFeatures(context.Context, *DeriveFeaturesRequest) (*DeriveFeaturesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DeriveFeatures not implemented")
}
func (UnimplementedFraudPredictorServer) mustEmbedUnimplementedFraudPredictorServer() {}

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "fraudpredictor.v1.FraudPredictor"

// RegisterFraudPredictorServer registers the FraudPredictorServer with the gRPC server.
func RegisterFraudPredictorServer(s grpclib.ServiceRegistrar, srv FraudPredictorServer) {
	s.RegisterService(&_FraudPredictor_serviceDesc, srv)
}

var _FraudPredictor_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FraudPredictorServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "PredictFraud", Handler: _FraudPredictor_PredictFraud_Handler},
		{MethodName: "DeriveFeatures", Handler: _FraudPredictor_DeriveFeatures_Handler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "fraudpredictor/v1/fraud_predictor.proto",
}

func _FraudPredictor_PredictFraud_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(PredictFraudRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FraudPredictorServer).PredictFraud(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/PredictFraud"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FraudPredictorServer).PredictFraud(ctx, req.(*PredictFraudRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _FraudPredictor_DeriveFeatures_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(DeriveFeaturesRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FraudPredictorServer).DeriveFeatures(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/DeriveFeatures"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FraudPredictorServer).DeriveFeatures(ctx, req.(*DeriveFeaturesRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// FraudPredictorClient is the client API for FraudPredictor. Calls must use
// the JSON content subtype, see CallOptions.
type FraudPredictorClient interface {
	PredictFraud(ctx context.Context, in *PredictFraudRequest, opts ...grpclib.CallOption) (*PredictFraudResponse, error)
	DeriveFeatures(ctx context.Context, in *DeriveFeaturesRequest, opts ...grpclib.CallOption) (*DeriveFeaturesResponse, error)
}

type fraudPredictorClient struct {
	cc grpclib.ClientConnInterface
}

// NewFraudPredictorClient creates a client bound to the connection.
func NewFraudPredictorClient(cc grpclib.ClientConnInterface) FraudPredictorClient {
	return &fraudPredictorClient{cc: cc}
}

func (c *fraudPredictorClient) PredictFraud(ctx context.Context, in *PredictFraudRequest, opts ...grpclib.CallOption) (*PredictFraudResponse, error) {
	out := new(PredictFraudResponse)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/PredictFraud", in, out, append(CallOptions(), opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fraudPredictorClient) DeriveFeatures(ctx context.Context, in *DeriveFeaturesRequest, opts ...grpclib.CallOption) (*DeriveFeaturesResponse, error) {
	out := new(DeriveFeaturesResponse)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/DeriveFeatures", in, out, append(CallOptions(), opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}
