// Package grpc exposes the journal over gRPC using the JSON codec and the
// service descriptor from internal/rpcapi.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/rpcapi"
	"github.com/dmitrijs2005/gophjournal/internal/server/metrics"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/dmitrijs2005/gophjournal/internal/server/services"
	"google.golang.org/grpc"
)

type UserService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Login(ctx context.Context, email, password string, meta services.SessionMeta) (*services.LoginResult, error)
	Resolve(ctx context.Context, c services.Credentials) (string, error)
	RefreshToken(ctx context.Context, sessionToken string) (*models.TokenPair, error)
}

type EntryService interface {
	Create(ctx context.Context, ownerID, title, content string) (*models.Entry, error)
	List(ctx context.Context, ownerID string) ([]*models.Entry, error)
	Delete(ctx context.Context, id int64, ownerID string) error
	Update(ctx context.Context, id int64, ownerID string, patch models.EntryPatch) (*models.Entry, error)
}

type Exporter interface {
	Export(ctx context.Context, ownerID string) (*models.ExportResult, error)
}

type GRPCServer struct {
	address  string
	users    UserService
	entries  EntryService
	exporter Exporter
	metrics  *metrics.Metrics
	logger   logging.Logger
}

// NewGRPCServer wires the journal service. ex and m may be nil.
func NewGRPCServer(a string, l logging.Logger, us UserService, es EntryService, ex Exporter, m *metrics.Metrics) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		users:    us,
		entries:  es,
		exporter: ex,
		metrics:  m,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	var chain []grpc.UnaryServerInterceptor
	if s.metrics != nil {
		chain = append(chain, s.metrics.UnaryServerInterceptor())
	}
	chain = append(chain, s.accessTokenInterceptor)

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(chain...))
	rpcapi.RegisterJournalServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
