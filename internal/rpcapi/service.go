package rpcapi

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "journal.JournalService"

// Full method names, as seen by interceptors.
const (
	PingMethod          = "/" + ServiceName + "/Ping"
	RegisterMethod      = "/" + ServiceName + "/Register"
	LoginMethod         = "/" + ServiceName + "/Login"
	RefreshTokenMethod  = "/" + ServiceName + "/RefreshToken"
	ListEntriesMethod   = "/" + ServiceName + "/ListEntries"
	AddEntryMethod      = "/" + ServiceName + "/AddEntry"
	DeleteEntryMethod   = "/" + ServiceName + "/DeleteEntry"
	UpdateEntryMethod   = "/" + ServiceName + "/UpdateEntry"
	ExportEntriesMethod = "/" + ServiceName + "/ExportEntries"
)

// PublicMethods need no access token.
var PublicMethods = map[string]bool{
	PingMethod:         true,
	RegisterMethod:     true,
	LoginMethod:        true,
	RefreshTokenMethod: true,
}

type JournalServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	ListEntries(context.Context, *ListEntriesRequest) (*ListEntriesResponse, error)
	AddEntry(context.Context, *AddEntryRequest) (*AddEntryResponse, error)
	DeleteEntry(context.Context, *DeleteEntryRequest) (*DeleteEntryResponse, error)
	UpdateEntry(context.Context, *UpdateEntryRequest) (*UpdateEntryResponse, error)
	ExportEntries(context.Context, *ExportEntriesRequest) (*ExportEntriesResponse, error)
}

// unary builds the method descriptor for one request/response call.
func unary[Req, Resp any](name, fullMethod string, call func(JournalServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(JournalServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(JournalServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*JournalServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", PingMethod, JournalServiceServer.Ping),
		unary("Register", RegisterMethod, JournalServiceServer.Register),
		unary("Login", LoginMethod, JournalServiceServer.Login),
		unary("RefreshToken", RefreshTokenMethod, JournalServiceServer.RefreshToken),
		unary("ListEntries", ListEntriesMethod, JournalServiceServer.ListEntries),
		unary("AddEntry", AddEntryMethod, JournalServiceServer.AddEntry),
		unary("DeleteEntry", DeleteEntryMethod, JournalServiceServer.DeleteEntry),
		unary("UpdateEntry", UpdateEntryMethod, JournalServiceServer.UpdateEntry),
		unary("ExportEntries", ExportEntriesMethod, JournalServiceServer.ExportEntries),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "journal.proto",
}

func RegisterJournalServiceServer(s grpc.ServiceRegistrar, srv JournalServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type JournalServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	ListEntries(ctx context.Context, in *ListEntriesRequest, opts ...grpc.CallOption) (*ListEntriesResponse, error)
	AddEntry(ctx context.Context, in *AddEntryRequest, opts ...grpc.CallOption) (*AddEntryResponse, error)
	DeleteEntry(ctx context.Context, in *DeleteEntryRequest, opts ...grpc.CallOption) (*DeleteEntryResponse, error)
	UpdateEntry(ctx context.Context, in *UpdateEntryRequest, opts ...grpc.CallOption) (*UpdateEntryResponse, error)
	ExportEntries(ctx context.Context, in *ExportEntriesRequest, opts ...grpc.CallOption) (*ExportEntriesResponse, error)
}

type journalServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewJournalServiceClient returns a client that sends every call with the
// JSON content-subtype.
func NewJournalServiceClient(cc grpc.ClientConnInterface) JournalServiceClient {
	return &journalServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *journalServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, PingMethod, in, opts)
}

func (c *journalServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, RegisterMethod, in, opts)
}

func (c *journalServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, LoginMethod, in, opts)
}

func (c *journalServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, RefreshTokenMethod, in, opts)
}

func (c *journalServiceClient) ListEntries(ctx context.Context, in *ListEntriesRequest, opts ...grpc.CallOption) (*ListEntriesResponse, error) {
	return invoke[ListEntriesResponse](ctx, c.cc, ListEntriesMethod, in, opts)
}

func (c *journalServiceClient) AddEntry(ctx context.Context, in *AddEntryRequest, opts ...grpc.CallOption) (*AddEntryResponse, error) {
	return invoke[AddEntryResponse](ctx, c.cc, AddEntryMethod, in, opts)
}

func (c *journalServiceClient) DeleteEntry(ctx context.Context, in *DeleteEntryRequest, opts ...grpc.CallOption) (*DeleteEntryResponse, error) {
	return invoke[DeleteEntryResponse](ctx, c.cc, DeleteEntryMethod, in, opts)
}

func (c *journalServiceClient) UpdateEntry(ctx context.Context, in *UpdateEntryRequest, opts ...grpc.CallOption) (*UpdateEntryResponse, error) {
	return invoke[UpdateEntryResponse](ctx, c.cc, UpdateEntryMethod, in, opts)
}

func (c *journalServiceClient) ExportEntries(ctx context.Context, in *ExportEntriesRequest, opts ...grpc.CallOption) (*ExportEntriesResponse, error) {
	return invoke[ExportEntriesResponse](ctx, c.cc, ExportEntriesMethod, in, opts)
}
