package interceptors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var unaryInfo = &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

type fakeStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (f fakeStream) Context() context.Context { return f.ctx }

func TestRecoveryInterceptor(t *testing.T) {
	t.Run("panic becomes internal error", func(t *testing.T) {
		resp, err := RecoveryInterceptor()(context.Background(), nil, unaryInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
			panic("kaboom")
		})

		assert.Nil(t, resp)
		require.Error(t, err)
		assert.Equal(t, codes.Internal, status.Code(err))
		assert.Contains(t, err.Error(), "kaboom")
	})

	t.Run("passes through", func(t *testing.T) {
		resp, err := RecoveryInterceptor()(context.Background(), nil, unaryInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
			return "ok", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
	})

	t.Run("stream panic", func(t *testing.T) {
		info := &grpc.StreamServerInfo{FullMethod: "/grpc.health.v1.Health/Watch"}
		err := StreamRecoveryInterceptor()(nil, fakeStream{ctx: context.Background()}, info, func(srv interface{}, ss grpc.ServerStream) error {
			panic("stream kaboom")
		})

		assert.Equal(t, codes.Internal, status.Code(err))
	})
}

func TestLoggingInterceptorPreservesResult(t *testing.T) {
	wantErr := status.Error(codes.NotFound, "missing")

	tests := []struct {
		name string
		resp interface{}
		err  error
	}{
		{"success", "ok", nil},
		{"failure", nil, wantErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := LoggingInterceptor()(context.Background(), nil, unaryInfo, func(ctx context.Context, req interface{}) (interface{}, error) {
				return tt.resp, tt.err
			})
			assert.Equal(t, tt.resp, resp)
			assert.True(t, errors.Is(err, tt.err) || err == tt.err)
		})
	}
}

func TestRequestIDFrom(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(requestIDKey, "req-42"))
	assert.Equal(t, "req-42", requestIDFrom(ctx))

	generated := requestIDFrom(context.Background())
	assert.NotEmpty(t, generated)
	assert.NotEqual(t, "req-42", generated)
}
