package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophjournal/internal/client/client"
	"github.com/dmitrijs2005/gophjournal/internal/client/config"
	"github.com/dmitrijs2005/gophjournal/internal/netx"
	"github.com/dmitrijs2005/gophjournal/internal/rpcapi"
)

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer
	user   *rpcapi.User

	// download is a seam for netx.DownloadPresignedURL.
	download func(ctx context.Context, url, path string) (int, error)
}

func NewApp(c *config.Config) (*App, error) {

	apiClient, err := client.NewJournalClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return newApp(c, apiClient, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, cl client.Client, in io.Reader, out io.Writer) *App {
	return &App{
		config:   c,
		client:   cl,
		reader:   bufio.NewReader(in),
		out:      out,
		download: netx.DownloadPresignedURL,
	}
}

// Run starts the REPL and closes the connection when it returns.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	fmt.Fprintln(a.out, "Welcome to the journal CLI (type 'help' for commands)")

	pingCtx, cancel := a.callCtx(ctx)
	if err := a.client.Ping(pingCtx); err != nil {
		fmt.Fprintf(a.out, "Warning: %v\n", err)
	}
	cancel()

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) getStatus() string {
	if a.user == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", a.user.Email)
}

// callCtx bounds a single server call by the configured timeout.
func (a *App) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
