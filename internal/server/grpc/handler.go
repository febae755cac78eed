package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/rpcapi"
	"github.com/dmitrijs2005/gophjournal/internal/server/auth"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/dmitrijs2005/gophjournal/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

var _ rpcapi.JournalServiceServer = (*GRPCServer)(nil)

func (s *GRPCServer) Ping(ctx context.Context, req *rpcapi.PingRequest) (*rpcapi.PingResponse, error) {

	return &rpcapi.PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) Register(ctx context.Context, req *rpcapi.RegisterRequest) (*rpcapi.RegisterResponse, error) {

	s.logger.Info(ctx, "Registration request")

	u, err := s.users.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", u.ID)
	return &rpcapi.RegisterResponse{User: toUser(u)}, nil

}

func (s *GRPCServer) Login(ctx context.Context, req *rpcapi.LoginRequest) (*rpcapi.LoginResponse, error) {

	res, err := s.users.Login(ctx, req.Email, req.Password, sessionMeta(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.LoginResponse{
		User:         toUser(res.User),
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		ExpiresAt:    res.Tokens.ExpiresAt,
	}, nil

}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *rpcapi.RefreshTokenRequest) (*rpcapi.RefreshTokenResponse, error) {

	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.RefreshTokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
	}, nil

}

func (s *GRPCServer) ListEntries(ctx context.Context, req *rpcapi.ListEntriesRequest) (*rpcapi.ListEntriesResponse, error) {

	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.entries.List(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := make([]*rpcapi.Entry, 0, len(list))
	for _, e := range list {
		out = append(out, toEntry(e))
	}
	return &rpcapi.ListEntriesResponse{Entries: out}, nil

}

func (s *GRPCServer) AddEntry(ctx context.Context, req *rpcapi.AddEntryRequest) (*rpcapi.AddEntryResponse, error) {

	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	e, err := s.entries.Create(ctx, userID, req.Title, req.Content)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.AddEntryResponse{Entry: toEntry(e)}, nil

}

func (s *GRPCServer) DeleteEntry(ctx context.Context, req *rpcapi.DeleteEntryRequest) (*rpcapi.DeleteEntryResponse, error) {

	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.entries.Delete(ctx, req.ID, userID); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.DeleteEntryResponse{Success: true}, nil

}

func (s *GRPCServer) UpdateEntry(ctx context.Context, req *rpcapi.UpdateEntryRequest) (*rpcapi.UpdateEntryResponse, error) {

	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	e, err := s.entries.Update(ctx, req.ID, userID, models.EntryPatch{Title: req.Title, Content: req.Content})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.UpdateEntryResponse{Entry: toEntry(e)}, nil

}

func (s *GRPCServer) ExportEntries(ctx context.Context, req *rpcapi.ExportEntriesRequest) (*rpcapi.ExportEntriesResponse, error) {

	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if s.exporter == nil {
		return nil, status.Error(codes.Unimplemented, "export is not configured")
	}

	res, err := s.exporter.Export(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &rpcapi.ExportEntriesResponse{Key: res.Key, URL: res.URL}, nil

}

func callerID(ctx context.Context) (string, error) {
	id, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "unauthorized")
	}
	return id, nil
}

func sessionMeta(ctx context.Context) services.SessionMeta {
	var meta services.SessionMeta
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		meta.IPAddress = p.Addr.String()
	}
	meta.UserAgent = metadataValue(ctx, "user-agent")
	return meta
}

// toStatus maps service errors to gRPC codes. Validation messages are passed
// through; anything unexpected is logged and hidden.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorConflict):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrNotConfigured):
		return status.Error(codes.Unimplemented, "not configured")
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func toUser(u *models.User) *rpcapi.User {
	if u == nil {
		return nil
	}
	return &rpcapi.User{ID: u.ID, Email: u.Email, Name: u.Name}
}

func toEntry(e *models.Entry) *rpcapi.Entry {
	return &rpcapi.Entry{
		ID:        e.ID,
		Title:     e.Title,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
