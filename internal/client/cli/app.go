package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Santos2175/auth-app/internal/client/client"
	"github.com/Santos2175/auth-app/internal/client/config"
)

type App struct {
	config  *config.Config
	client  client.Client
	reader  *bufio.Reader
	out     io.Writer
	account *client.Account
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewHTTPClient(c.ServerURL, c.Timeout)
	if err != nil {
		return nil, err
	}

	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

// Run starts the REPL on stdin and returns when the user quits or input ends.
func (a *App) Run(ctx context.Context) {
	printlnFn(fmt.Sprintf("authctl connected to %s (type 'help' for commands)", a.config.ServerURL))
	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

func (a *App) isLoggedIn() bool {
	return a.account != nil && a.client.HasSession()
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return "(anonymous)"
	}
	if a.account.IsVerified {
		return fmt.Sprintf("(%s)", a.account.Email)
	}
	return fmt.Sprintf("(%s, unverified)", a.account.Email)
}
