// Package services implements the gRPC services. Messages are
// google.protobuf.Struct values carrying the same JSON fields as the HTTP
// API, so no generated code is needed.
package services

import (
	"context"
	"encoding/json"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/turtacn/H2Siting/internal/application/analysis"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

const (
	// FeasibilityServiceName is the fully qualified service name.
	FeasibilityServiceName = "h2siting.feasibility.v1.FeasibilityService"
	// AnalyzeMethod is the full method name of Analyze.
	AnalyzeMethod = "/" + FeasibilityServiceName + "/Analyze"
)

// FeasibilityServiceServer is the server API for FeasibilityService.
type FeasibilityServiceServer interface {
	Analyze(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// FeasibilityServiceDesc describes FeasibilityService for registration.
var FeasibilityServiceDesc = grpc.ServiceDesc{
	ServiceName: FeasibilityServiceName,
	HandlerType: (*FeasibilityServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Analyze", Handler: analyzeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "h2siting/feasibility/v1/feasibility.proto",
}

func analyzeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FeasibilityServiceServer).Analyze(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AnalyzeMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FeasibilityServiceServer).Analyze(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// FeasibilityService serves analyses over gRPC.
type FeasibilityService struct {
	svc    analysis.Service
	logger logging.Logger
}

// NewFeasibilityService creates a new FeasibilityService.
func NewFeasibilityService(svc analysis.Service, logger logging.Logger) *FeasibilityService {
	return &FeasibilityService{svc: svc, logger: logger}
}

// Analyze reads numeric "latitude" and "longitude" fields and returns the
// analysis result as a struct.
func (s *FeasibilityService) Analyze(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	input := &analysis.AnalyzeInput{
		Latitude:  numberField(req, "latitude"),
		Longitude: numberField(req, "longitude"),
		Transport: analysis.TransportGRPC,
	}
	res, err := s.svc.Analyze(ctx, input)
	if err != nil {
		return nil, toStatus(err)
	}

	raw, err := json.Marshal(res)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode result")
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, status.Error(codes.Internal, "encode result")
	}
	out, err := structpb.NewStruct(fields)
	if err != nil {
		s.logger.Error("result not representable as struct", logging.Err(err))
		return nil, status.Error(codes.Internal, "encode result")
	}
	return out, nil
}

func numberField(s *structpb.Struct, name string) *float64 {
	if s == nil {
		return nil
	}
	v, ok := s.GetFields()[name]
	if !ok {
		return nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return nil
	}
	f := n.NumberValue
	return &f
}

// toStatus maps an application error onto the gRPC code matching its HTTP
// status.
func toStatus(err error) error {
	var ae *errors.AppError
	msg := "internal server error"
	if errors.As(err, &ae) {
		msg = ae.Message
	}
	var code codes.Code
	switch errors.HTTPStatus(err) {
	case http.StatusBadRequest:
		code = codes.InvalidArgument
	case http.StatusUnauthorized:
		code = codes.Unauthenticated
	case http.StatusForbidden:
		code = codes.PermissionDenied
	case http.StatusNotFound:
		code = codes.NotFound
	case http.StatusConflict:
		code = codes.AlreadyExists
	case http.StatusTooManyRequests:
		code = codes.ResourceExhausted
	case http.StatusNotImplemented:
		code = codes.Unimplemented
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		code = codes.Unavailable
	default:
		code = codes.Internal
	}
	return status.Error(code, msg)
}

// FeasibilityClient calls FeasibilityService over an established connection.
type FeasibilityClient struct {
	cc grpc.ClientConnInterface
}

// NewFeasibilityClient creates a client on cc.
func NewFeasibilityClient(cc grpc.ClientConnInterface) *FeasibilityClient {
	return &FeasibilityClient{cc: cc}
}

// Analyze requests an analysis of (lat, lng).
func (c *FeasibilityClient) Analyze(ctx context.Context, lat, lng float64, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(map[string]interface{}{"latitude": lat, "longitude": lng})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, AnalyzeMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

//Personal.AI order the ending
