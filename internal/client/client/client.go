package client

import (
	"context"

	"github.com/dmitrijs2005/gophjournal/internal/rpcapi"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, email, password, name string) error
	Login(ctx context.Context, email, password string) (*rpcapi.User, error)
	Logout()
	ListEntries(ctx context.Context) ([]*rpcapi.Entry, error)
	AddEntry(ctx context.Context, title, content string) (*rpcapi.Entry, error)
	UpdateEntry(ctx context.Context, id int64, title, content *string) (*rpcapi.Entry, error)
	DeleteEntry(ctx context.Context, id int64) error
	ExportEntries(ctx context.Context) (*rpcapi.ExportEntriesResponse, error)
}
