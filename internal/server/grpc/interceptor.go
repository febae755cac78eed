package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/rpcapi"
	"github.com/dmitrijs2005/gophjournal/internal/server/auth"
	"github.com/dmitrijs2005/gophjournal/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// accessTokenInterceptor resolves the caller for every non-public method.
// The access_token metadata value may hold either a JWT or a session token.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if rpcapi.PublicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	token := metadataValue(ctx, common.AccessTokenHeaderName)
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	userID, err := s.users.Resolve(ctx, services.Credentials{AccessToken: token, SessionToken: token})
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, status.Error(codes.Unauthenticated, "unauthorized")
		}
		s.logger.Error(ctx, "resolve caller", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return handler(auth.WithUserID(ctx, userID), req)
}

func metadataValue(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
