package commands

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/portald-dev/portald/internal/authapi"
	"github.com/portald-dev/portald/internal/cli/userconfig"
	"github.com/portald-dev/portald/internal/config"
	"github.com/portald-dev/portald/internal/logger"
	"github.com/portald-dev/portald/internal/portal"
	"github.com/portald-dev/portald/internal/session"
)

// Session store kinds selectable with --store
const (
	StoreKeyring = "keyring"
	StoreFile    = "file"
)

// GlobalOptions are the persistent flags shared by every command
type GlobalOptions struct {
	APIBase  string
	Store    string
	LogLevel string
}

// Env bundles what a command needs to drive a portal.Controller
type Env struct {
	API      portal.Authenticator
	Store    session.Store
	Out      io.Writer
	Prompter Prompter
	Logger   zerolog.Logger
	Delay    time.Duration
	Sleep    func(time.Duration)
}

// controller builds a controller for route, recording navigation
func (e *Env) controller(route string, opts ...portal.Option) (*portal.Controller, *portal.Recorder) {
	nav := &portal.Recorder{}
	opts = append([]portal.Option{
		portal.WithRoute(portal.StaticRoute(route)),
		portal.WithRedirectDelay(e.Delay),
		portal.WithLogger(e.Logger),
	}, opts...)
	return portal.NewController(e.API, e.Store, nav, opts...), nav
}

// follow performs a recorded navigation: waiting out the delay and rendering
// the target view
func (e *Env) follow(nav *portal.Recorder) error {
	target, ok := nav.Last()
	if !ok {
		return nil
	}

	if target.Delay > 0 && e.Sleep != nil {
		e.Sleep(target.Delay)
	}

	if target.Path == portal.DashboardPath {
		ctrl, _ := e.controller(portal.DashboardPath)
		renderDashboard(e.Out, ctrl.Dashboard())
	}
	return nil
}

// newEnv resolves configuration, the API client and the session store
func newEnv(cmd *cobra.Command, g *GlobalOptions) (*Env, error) {
	logger.InitWithWriter(cmd.ErrOrStderr(), g.LogLevel, "console")

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	userCfg, err := userconfig.Load()
	if err != nil {
		return nil, err
	}

	baseURL := resolveAPIBase(g.APIBase, os.Getenv("API_BASE_URL"), userCfg.APIBaseURL, cfg.API.BaseURL)

	storeKind := g.Store
	if storeKind == "" {
		storeKind = userCfg.Store
	}

	store, err := openStore(storeKind, baseURL)
	if err != nil {
		return nil, err
	}

	return &Env{
		API:      authapi.New(baseURL, cfg.API.Timeout),
		Store:    store,
		Out:      cmd.OutOrStdout(),
		Prompter: newTerminalPrompter(),
		Logger:   logger.GetLogger(),
		Delay:    cfg.HTTP.RedirectDelay,
		Sleep:    time.Sleep,
	}, nil
}

// resolveAPIBase picks the first non-empty candidate, in priority order:
// flag, environment, user config, built-in default
func resolveAPIBase(candidates ...string) string {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return strings.TrimRight(c, "/")
		}
	}
	return ""
}

// openStore opens the session store of the given kind. Keychain entries are
// namespaced by the API host.
func openStore(kind, baseURL string) (session.Store, error) {
	switch strings.ToLower(kind) {
	case StoreKeyring, "":
		return session.NewKeyringStore(accountFor(baseURL)), nil
	case StoreFile:
		path, err := session.DefaultFilePath()
		if err != nil {
			return nil, err
		}
		return session.NewFileStore(path), nil
	default:
		return nil, fmt.Errorf("unknown store %q (use %s or %s)", kind, StoreKeyring, StoreFile)
	}
}

func accountFor(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}
	return u.Host
}
