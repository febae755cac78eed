package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/rpcapi"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var _ Client = (*GRPCClient)(nil)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpcapi.JournalServiceClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = access
	s.refreshToken = refresh
}

// accessTokenInterceptor attaches the access token. On Unauthenticated it
// rotates the session once and retries the call.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	access, refresh := s.tokens()

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil || rpcapi.PublicMethods[method] || refresh == "" {
		return err
	}
	if status.Code(err) != codes.Unauthenticated {
		return err
	}

	resp, rerr := s.client.RefreshToken(ctx, &rpcapi.RefreshTokenRequest{RefreshToken: refresh})
	if rerr != nil {
		s.setTokens("", "")
		return err
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)

	// tokens refreshed, retrying with the new access token
	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func NewJournalClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpcapi.NewJournalServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &rpcapi.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil

}

func (s *GRPCClient) Register(ctx context.Context, email, password, name string) error {

	_, err := s.client.Register(ctx, &rpcapi.RegisterRequest{Email: email, Password: password, Name: name})
	if err != nil {
		return s.mapError(err)
	}

	return nil

}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (*rpcapi.User, error) {

	resp, err := s.client.Login(ctx, &rpcapi.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}

	s.setTokens(resp.AccessToken, resp.RefreshToken)

	return resp.User, nil

}

// Logout forgets the tokens held by the client.
func (s *GRPCClient) Logout() {
	s.setTokens("", "")
}

func (s *GRPCClient) ListEntries(ctx context.Context) ([]*rpcapi.Entry, error) {
	resp, err := s.client.ListEntries(ctx, &rpcapi.ListEntriesRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Entries, nil
}

func (s *GRPCClient) AddEntry(ctx context.Context, title, content string) (*rpcapi.Entry, error) {
	resp, err := s.client.AddEntry(ctx, &rpcapi.AddEntryRequest{Title: title, Content: content})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Entry, nil
}

func (s *GRPCClient) UpdateEntry(ctx context.Context, id int64, title, content *string) (*rpcapi.Entry, error) {
	resp, err := s.client.UpdateEntry(ctx, &rpcapi.UpdateEntryRequest{ID: id, Title: title, Content: content})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Entry, nil
}

func (s *GRPCClient) DeleteEntry(ctx context.Context, id int64) error {
	_, err := s.client.DeleteEntry(ctx, &rpcapi.DeleteEntryRequest{ID: id})
	if err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) ExportEntries(ctx context.Context) (*rpcapi.ExportEntriesResponse, error) {
	resp, err := s.client.ExportEntries(ctx, &rpcapi.ExportEntriesRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.Unimplemented:
		return ErrNotSupported
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
