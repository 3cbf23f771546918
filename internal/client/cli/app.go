package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"github.com/healthpod/healthpod/internal/client/bp"
	"github.com/healthpod/healthpod/internal/client/browser"
	"github.com/healthpod/healthpod/internal/client/config"
	"github.com/healthpod/healthpod/internal/client/pod"
	"github.com/healthpod/healthpod/internal/client/profile"
	"github.com/healthpod/healthpod/internal/client/transfer"
	"github.com/healthpod/healthpod/internal/common"
	"github.com/healthpod/healthpod/internal/logging"
)

// App wires the pod session to the interactive command handlers and holds
// the per-session state: the logged-in user name and the browsing position.
type App struct {
	config   *config.Config
	session  *pod.Session
	lister   *browser.Lister
	nav      *browser.NavigationState
	transfer *transfer.Controller
	bp       *bp.Adapter
	profile  *profile.Store
	reader   *bufio.Reader
	logger   logging.Logger
	userName string
}

func NewApp(c *config.Config) *App {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	client := pod.NewHTTPClient(c.PodServerURL, c.RequestTimeout)
	session := pod.NewSession(client, func() ([]byte, error) {
		return getPassword(os.Stdout, "Enter security key: ")
	})

	return &App{
		config:   c,
		session:  session,
		lister:   browser.NewLister(session, logger),
		nav:      browser.NewNavigationState(common.DataRoot),
		transfer: transfer.NewController(session, logger),
		bp:       bp.NewAdapter(session, logger),
		profile:  profile.NewStore(session, logger),
		reader:   bufio.NewReader(os.Stdin),
		logger:   logger,
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Client().LoggedIn()
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}
