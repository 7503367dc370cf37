package services

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/turtacn/H2Siting/internal/application/analysis"
	"github.com/turtacn/H2Siting/internal/domain/feasibility"
	"github.com/turtacn/H2Siting/internal/testutil"
	"github.com/turtacn/H2Siting/pkg/errors"
)

func newTestClient(t *testing.T) *FeasibilityClient {
	t.Helper()
	catalog, err := feasibility.DefaultCatalog()
	require.NoError(t, err)
	engine, err := feasibility.NewEngine(catalog, feasibility.FixedSource(0))
	require.NoError(t, err)
	logger := testutil.NewMockLogger()

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	srv.RegisterService(&FeasibilityServiceDesc, NewFeasibilityService(analysis.NewService(engine, nil, nil, logger), logger))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewFeasibilityClient(conn)
}

func TestFeasibilityService_Analyze(t *testing.T) {
	client := newTestClient(t)

	out, err := client.Analyze(context.Background(), 22.4707, 70.0577)
	require.NoError(t, err)

	m := out.AsMap()
	assert.Equal(t, float64(82), m["feasibilityScore"])
	rec := m["recommendation"].(map[string]interface{})
	assert.Equal(t, "Solar Electrolysis", rec["name"])
	loc := m["location"].(map[string]interface{})
	assert.Equal(t, 22.4707, loc["lat"])
	assert.Len(t, m["projection"].(map[string]interface{})["values"], 6)
	assert.NotEmpty(t, m["policyAdvantages"])
}

func TestFeasibilityService_Analyze_MissingCoordinates(t *testing.T) {
	client := newTestClient(t)

	req, err := structpb.NewStruct(map[string]interface{}{"latitude": "22.4"})
	require.NoError(t, err)
	err = client.cc.Invoke(context.Background(), AnalyzeMethod, req, new(structpb.Struct))

	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, "Latitude and longitude are required.", st.Message())
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{errors.InvalidParam("bad"), codes.InvalidArgument},
		{errors.New(errors.ErrCodeCoordinateRange, "off the globe"), codes.InvalidArgument},
		{errors.NotFound("gone"), codes.NotFound},
		{errors.Unauthorized("who"), codes.Unauthenticated},
		{errors.New(errors.ErrCodeFeatureDisabled, "off"), codes.Unimplemented},
		{errors.New(errors.ErrCodeLLMFailed, "down"), codes.Unavailable},
		{context.Canceled, codes.Internal},
	}
	for _, tt := range tests {
		st, _ := status.FromError(toStatus(tt.err))
		assert.Equal(t, tt.code, st.Code(), tt.err.Error())
	}
	st, _ := status.FromError(toStatus(context.Canceled))
	assert.Equal(t, "internal server error", st.Message())
}

//Personal.AI order the ending
