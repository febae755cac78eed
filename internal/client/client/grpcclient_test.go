package client

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/rpcapi"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

/*************
 * Fake rpcapi client
 *************/

type fakeRPC struct {
	// inputs captured
	lastRefreshTokenReq *rpcapi.RefreshTokenRequest
	lastRegisterReq     *rpcapi.RegisterRequest
	lastAddReq          *rpcapi.AddEntryRequest
	lastUpdateReq       *rpcapi.UpdateEntryRequest
	lastDeleteReq       *rpcapi.DeleteEntryRequest

	// outputs preset
	refreshTokenResp *rpcapi.RefreshTokenResponse
	refreshTokenErr  error

	pingResp *rpcapi.PingResponse
	pingErr  error

	loginResp *rpcapi.LoginResponse
	loginErr  error

	registerErr error

	listResp *rpcapi.ListEntriesResponse
	entry    *rpcapi.Entry
	entryErr error

	exportResp *rpcapi.ExportEntriesResponse
	exportErr  error
}

func (f *fakeRPC) Ping(ctx context.Context, in *rpcapi.PingRequest, opts ...grpc.CallOption) (*rpcapi.PingResponse, error) {
	return f.pingResp, f.pingErr
}
func (f *fakeRPC) Register(ctx context.Context, in *rpcapi.RegisterRequest, opts ...grpc.CallOption) (*rpcapi.RegisterResponse, error) {
	f.lastRegisterReq = in
	return &rpcapi.RegisterResponse{}, f.registerErr
}
func (f *fakeRPC) Login(ctx context.Context, in *rpcapi.LoginRequest, opts ...grpc.CallOption) (*rpcapi.LoginResponse, error) {
	return f.loginResp, f.loginErr
}
func (f *fakeRPC) RefreshToken(ctx context.Context, in *rpcapi.RefreshTokenRequest, opts ...grpc.CallOption) (*rpcapi.RefreshTokenResponse, error) {
	f.lastRefreshTokenReq = in
	return f.refreshTokenResp, f.refreshTokenErr
}
func (f *fakeRPC) ListEntries(ctx context.Context, in *rpcapi.ListEntriesRequest, opts ...grpc.CallOption) (*rpcapi.ListEntriesResponse, error) {
	return f.listResp, f.entryErr
}
func (f *fakeRPC) AddEntry(ctx context.Context, in *rpcapi.AddEntryRequest, opts ...grpc.CallOption) (*rpcapi.AddEntryResponse, error) {
	f.lastAddReq = in
	if f.entryErr != nil {
		return nil, f.entryErr
	}
	return &rpcapi.AddEntryResponse{Entry: f.entry}, nil
}
func (f *fakeRPC) DeleteEntry(ctx context.Context, in *rpcapi.DeleteEntryRequest, opts ...grpc.CallOption) (*rpcapi.DeleteEntryResponse, error) {
	f.lastDeleteReq = in
	if f.entryErr != nil {
		return nil, f.entryErr
	}
	return &rpcapi.DeleteEntryResponse{Success: true}, nil
}
func (f *fakeRPC) UpdateEntry(ctx context.Context, in *rpcapi.UpdateEntryRequest, opts ...grpc.CallOption) (*rpcapi.UpdateEntryResponse, error) {
	f.lastUpdateReq = in
	if f.entryErr != nil {
		return nil, f.entryErr
	}
	return &rpcapi.UpdateEntryResponse{Entry: f.entry}, nil
}
func (f *fakeRPC) ExportEntries(ctx context.Context, in *rpcapi.ExportEntriesRequest, opts ...grpc.CallOption) (*rpcapi.ExportEntriesResponse, error) {
	return f.exportResp, f.exportErr
}

/*************
 * Interceptor tests
 *************/

func TestInterceptor_RefreshesTokenOnUnauthenticatedAndRetries(t *testing.T) {
	f := &fakeRPC{
		refreshTokenResp: &rpcapi.RefreshTokenResponse{AccessToken: "A2", RefreshToken: "R2"},
	}
	c := &GRPCClient{
		client:       f,
		accessToken:  "A1",
		refreshToken: "R1",
	}

	callCount := 0
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		callCount++
		md, _ := metadata.FromOutgoingContext(ctx)
		toks := md.Get(common.AccessTokenHeaderName)
		require.Len(t, toks, 1)

		if callCount == 1 {
			require.Equal(t, "A1", toks[0])
			return status.Error(codes.Unauthenticated, "unauthorized")
		}
		require.Equal(t, "A2", toks[0])
		return nil
	}

	err := c.accessTokenInterceptor(context.Background(), rpcapi.ListEntriesMethod, nil, nil, nil, invoker)
	require.NoError(t, err)
	require.Equal(t, 2, callCount)
	require.Equal(t, "A2", c.accessToken)
	require.Equal(t, "R2", c.refreshToken)
	require.Equal(t, "R1", f.lastRefreshTokenReq.RefreshToken)
}

func TestInterceptor_NoRefreshIfNoRefreshToken(t *testing.T) {
	f := &fakeRPC{}
	c := &GRPCClient{
		client:      f,
		accessToken: "A1",
	}

	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, "unauthorized")
	}

	err := c.accessTokenInterceptor(context.Background(), rpcapi.ListEntriesMethod, nil, nil, nil, invoker)
	require.Error(t, err)
	require.Nil(t, f.lastRefreshTokenReq)
}

func TestInterceptor_NoRefreshForPublicMethods(t *testing.T) {
	f := &fakeRPC{}
	c := &GRPCClient{client: f, accessToken: "A1", refreshToken: "R1"}

	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, "unauthorized")
	}

	err := c.accessTokenInterceptor(context.Background(), rpcapi.RefreshTokenMethod, nil, nil, nil, invoker)
	require.Error(t, err)
	require.Nil(t, f.lastRefreshTokenReq)
}

func TestInterceptor_FailedRefreshClearsTokens(t *testing.T) {
	f := &fakeRPC{refreshTokenErr: status.Error(codes.Unauthenticated, "unauthorized")}
	c := &GRPCClient{client: f, accessToken: "A1", refreshToken: "R1"}

	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, "unauthorized")
	}

	err := c.accessTokenInterceptor(context.Background(), rpcapi.AddEntryMethod, nil, nil, nil, invoker)
	require.Equal(t, codes.Unauthenticated, status.Code(err))
	require.Empty(t, c.accessToken)
	require.Empty(t, c.refreshToken)
}

func TestInterceptor_IgnoresOtherErrors(t *testing.T) {
	f := &fakeRPC{}
	c := &GRPCClient{client: f, accessToken: "X", refreshToken: "R"}
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Internal, "boom")
	}
	err := c.accessTokenInterceptor(context.Background(), rpcapi.ListEntriesMethod, nil, nil, nil, invoker)
	require.Error(t, err)
	require.Nil(t, f.lastRefreshTokenReq)
}

func TestInterceptor_NoTokenSendsNoMetadata(t *testing.T) {
	c := &GRPCClient{}
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Empty(t, md.Get(common.AccessTokenHeaderName))
		return nil
	}
	require.NoError(t, c.accessTokenInterceptor(context.Background(), rpcapi.PingMethod, nil, nil, nil, invoker))
}

/*************
 * mapError tests
 *************/

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	require.Equal(t, ErrUnauthorized, c.mapError(status.Error(codes.Unauthenticated, "x")))
	require.Equal(t, ErrUnauthorized, c.mapError(status.Error(codes.PermissionDenied, "x")))
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.Unavailable, "x")))
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.DeadlineExceeded, "x")))
	require.Equal(t, ErrNotFound, c.mapError(status.Error(codes.NotFound, "x")))
	require.Equal(t, ErrAlreadyExists, c.mapError(status.Error(codes.AlreadyExists, "x")))
	require.Equal(t, ErrNotSupported, c.mapError(status.Error(codes.Unimplemented, "x")))

	err := c.mapError(status.Error(codes.InvalidArgument, "validation error: title is required"))
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorContains(t, err, "title is required")

	e := errors.New("plain")
	require.ErrorContains(t, c.mapError(e), "rpc error:")
}

/*************
 * Call tests
 *************/

func TestPing(t *testing.T) {
	c := &GRPCClient{client: &fakeRPC{pingResp: &rpcapi.PingResponse{Status: "OK"}}}
	require.NoError(t, c.Ping(context.Background()))

	c = &GRPCClient{client: &fakeRPC{pingResp: &rpcapi.PingResponse{Status: "NOT_OK"}}}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)

	c = &GRPCClient{client: &fakeRPC{pingErr: status.Error(codes.Unavailable, "down")}}
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestLogin_SetsTokensAndLogoutClears(t *testing.T) {
	f := &fakeRPC{loginResp: &rpcapi.LoginResponse{
		User:        &rpcapi.User{ID: "u1", Email: "ann@example.com"},
		AccessToken: "A", RefreshToken: "R",
	}}
	c := &GRPCClient{client: f}

	u, err := c.Login(context.Background(), "ann@example.com", "password1")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
	require.Equal(t, "A", c.accessToken)
	require.Equal(t, "R", c.refreshToken)

	c.Logout()
	require.Empty(t, c.accessToken)
	require.Empty(t, c.refreshToken)
}

func TestLogin_MapsError(t *testing.T) {
	c := &GRPCClient{client: &fakeRPC{loginErr: status.Error(codes.Unauthenticated, "unauthorized")}}
	_, err := c.Login(context.Background(), "ann@example.com", "bad")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestRegister(t *testing.T) {
	f := &fakeRPC{}
	c := &GRPCClient{client: f}
	require.NoError(t, c.Register(context.Background(), "ann@example.com", "password1", "Ann"))
	require.Equal(t, "Ann", f.lastRegisterReq.Name)

	f.registerErr = status.Error(codes.AlreadyExists, "already exists")
	require.ErrorIs(t, c.Register(context.Background(), "ann@example.com", "password1", ""), ErrAlreadyExists)
}

func TestEntryCalls(t *testing.T) {
	f := &fakeRPC{
		entry:    &rpcapi.Entry{ID: 7, Title: "Trip", Content: "Went hiking"},
		listResp: &rpcapi.ListEntriesResponse{Entries: []*rpcapi.Entry{{ID: 7}}},
	}
	c := &GRPCClient{client: f}
	ctx := context.Background()

	e, err := c.AddEntry(ctx, "Trip", "Went hiking")
	require.NoError(t, err)
	require.Equal(t, int64(7), e.ID)
	require.Equal(t, "Trip", f.lastAddReq.Title)

	list, err := c.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	content := "Went swimming"
	_, err = c.UpdateEntry(ctx, 7, nil, &content)
	require.NoError(t, err)
	require.Nil(t, f.lastUpdateReq.Title)
	require.Equal(t, "Went swimming", *f.lastUpdateReq.Content)

	require.NoError(t, c.DeleteEntry(ctx, 7))
	require.Equal(t, int64(7), f.lastDeleteReq.ID)

	f.entryErr = status.Error(codes.NotFound, "not found")
	require.ErrorIs(t, c.DeleteEntry(ctx, 8), ErrNotFound)
	_, err = c.UpdateEntry(ctx, 8, &content, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestExportEntries(t *testing.T) {
	f := &fakeRPC{exportResp: &rpcapi.ExportEntriesResponse{Key: "k", URL: "http://s3/k"}}
	c := &GRPCClient{client: f}

	res, err := c.ExportEntries(context.Background())
	require.NoError(t, err)
	require.Equal(t, "http://s3/k", res.URL)

	f.exportErr = status.Error(codes.Unimplemented, "not configured")
	_, err = c.ExportEntries(context.Background())
	require.ErrorIs(t, err, ErrNotSupported)
}

func TestClose_WithoutConnection(t *testing.T) {
	require.NoError(t, (&GRPCClient{}).Close())
}
