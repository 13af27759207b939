// Package portal implements the session controller behind the auth form and
// the gated dashboard. Transports (web, CLI) own rendering; the controller
// owns form state, the Auth API exchange, the persisted session and routing.
package portal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/portald-dev/portald/internal/authapi"
	"github.com/portald-dev/portald/internal/session"
)

// DefaultRedirectDelay is the grace period between a successful login and
// the move to the dashboard
const DefaultRedirectDelay = 500 * time.Millisecond

// ErrSubmissionInFlight is returned when a submission is already pending
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// Authenticator performs the credential exchange
type Authenticator interface {
	Login(ctx context.Context, req authapi.LoginRequest) (*authapi.AuthResult, error)
	Signup(ctx context.Context, req authapi.SignupRequest) (*authapi.AuthResult, error)
}

// Locker guards against concurrent submissions. *sync.Mutex satisfies it.
type Locker interface {
	TryLock() bool
	Unlock()
}

// Controller is the SessionController
type Controller struct {
	api           Authenticator
	store         session.Store
	nav           Navigator
	route         RouteProvider
	redirectDelay time.Duration
	pending       Locker
	logger        zerolog.Logger

	mu   sync.Mutex
	form FormState
}

// Option configures a Controller
type Option func(*Controller)

// WithRoute sets the current route provider (default "/")
func WithRoute(route RouteProvider) Option {
	return func(c *Controller) {
		c.route = route
	}
}

// WithRedirectDelay sets the post-login grace period. Negative values are
// treated as zero.
func WithRedirectDelay(delay time.Duration) Option {
	return func(c *Controller) {
		c.redirectDelay = max(delay, 0)
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithPendingLock shares the in-flight guard between controllers serving the
// same client
func WithPendingLock(lock Locker) Option {
	return func(c *Controller) {
		c.pending = lock
	}
}

// WithMode sets the initial form mode. Invalid modes are ignored.
func WithMode(mode Mode) Option {
	return func(c *Controller) {
		if mode.valid() {
			c.form.Mode = mode
		}
	}
}

// NewController creates a controller over the given collaborators
func NewController(api Authenticator, store session.Store, nav Navigator, opts ...Option) *Controller {
	c := &Controller{
		api:           api,
		store:         store,
		nav:           nav,
		route:         StaticRoute(RootPath),
		redirectDelay: DefaultRedirectDelay,
		pending:       &sync.Mutex{},
		logger:        zerolog.Nop(),
		form:          FormState{Mode: ModeLogin},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Form returns a snapshot of the form state
func (c *Controller) Form() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// SelectMode switches the form tab and clears the previous status
func (c *Controller) SelectMode(mode Mode) error {
	if !mode.valid() {
		return ErrInvalidMode
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.form.Mode = mode
	c.form.StatusMessage = ""
	c.form.StatusIsSuccess = false
	return nil
}

// ResolveInitialView applies the routing guard for the current route and
// returns the view to render. Redirects always replace the current entry.
func (c *Controller) ResolveInitialView() View {
	route := c.route.CurrentRoute()
	state := c.loadState()

	c.mu.Lock()
	mode := c.form.Mode
	c.mu.Unlock()

	switch {
	case route == DashboardPath && !state.Authenticated():
		c.logger.Debug().Str("route", route).Msg("No session token, redirecting to auth form")
		c.nav.Replace(RootPath)
		return ViewAuth
	case route == RootPath && state.Authenticated() && mode == ModeLogin:
		c.logger.Debug().Str("route", route).Msg("Session token present, redirecting to dashboard")
		c.nav.Replace(DashboardPath)
		return ViewDashboard
	}

	return viewFor(route, state)
}

// CurrentView returns the view for the current route without navigating
func (c *Controller) CurrentView() View {
	return viewFor(c.route.CurrentRoute(), c.loadState())
}

func viewFor(route string, state session.State) View {
	if route == DashboardPath && state.Authenticated() {
		return ViewDashboard
	}
	return ViewAuth
}

// Dashboard returns the greeting model for the dashboard view
func (c *Controller) Dashboard() DashboardModel {
	return newDashboardModel(c.loadState().DisplayName)
}

// SubmitForm sends the form to the Auth API. API failures never escape: they
// become the form status. The only error returned is ErrInvalidMode or
// ErrSubmissionInFlight, and neither touches the form.
func (c *Controller) SubmitForm(ctx context.Context, mode Mode, fields Fields) error {
	if !mode.valid() {
		return ErrInvalidMode
	}

	if !c.pending.TryLock() {
		return ErrSubmissionInFlight
	}
	defer c.pending.Unlock()

	c.mu.Lock()
	c.form.Mode = mode
	c.form.Email = fields.Email
	c.form.Password = fields.Password
	if mode == ModeSignup {
		c.form.FullName = fields.FullName
	}
	c.form.StatusMessage = ""
	c.form.StatusIsSuccess = false
	c.mu.Unlock()

	if mode == ModeSignup {
		c.signup(ctx, fields)
		return nil
	}

	c.login(ctx, fields)
	return nil
}

func (c *Controller) signup(ctx context.Context, fields Fields) {
	_, err := c.api.Signup(ctx, authapi.SignupRequest{
		FullName: fields.FullName,
		Email:    fields.Email,
		Password: fields.Password,
	})
	if err != nil {
		c.fail(err, "Signup failed")
		return
	}

	c.logger.Info().Str("email", fields.Email).Msg("Signup succeeded")
	c.setStatus(MessageSignupSuccess, true, func(f *FormState) {
		f.Mode = ModeLogin
	})
}

func (c *Controller) login(ctx context.Context, fields Fields) {
	result, err := c.api.Login(ctx, authapi.LoginRequest{
		Email:    fields.Email,
		Password: fields.Password,
	})
	if err != nil {
		c.fail(err, "Login failed")
		return
	}

	if err := c.persist(result); err != nil {
		c.logger.Error().Err(err).Msg("Failed to persist session")
		// A token without its display name, or a stale token, must not outlive a failed login
		if cerr := c.store.Clear(); cerr != nil {
			c.logger.Error().Err(cerr).Msg("Failed to roll back partial session")
		}
		c.setStatus(MessageSessionFailed, false, nil)
		return
	}

	c.logger.Info().
		Str("email", fields.Email).
		Bool("token", result.HasToken()).
		Str("shape", result.Shape.String()).
		Msg("Login succeeded")

	c.setStatus(welcomeMessage(result.FullName), true, nil)
	c.nav.NavigateAfter(DashboardPath, c.redirectDelay)
}

// persist writes the fields present in result; missing ones are left unset
func (c *Controller) persist(result *authapi.AuthResult) error {
	if result.Token != "" {
		if err := c.store.Set(session.TokenKey, result.Token); err != nil {
			return err
		}
	}
	if result.FullName != "" {
		if err := c.store.Set(session.DisplayNameKey, result.FullName); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) fail(err error, msg string) {
	message := authapi.UserMessage(err)
	c.logger.Warn().Err(err).Str("status", message).Msg(msg)
	c.setStatus(message, false, nil)
}

func (c *Controller) setStatus(message string, success bool, mutate func(*FormState)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if mutate != nil {
		mutate(&c.form)
	}
	c.form.StatusMessage = message
	c.form.StatusIsSuccess = success
}

// Logout clears every session key and returns to the auth form. Calling it
// without a session only navigates.
func (c *Controller) Logout() {
	if err := c.store.Clear(); err != nil {
		c.logger.Error().Err(err).Msg("Failed to clear session")
	}
	c.nav.Replace(RootPath)
}

func (c *Controller) loadState() session.State {
	state, err := session.Load(c.store)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to read session, treating as signed out")
		return session.State{}
	}
	return state
}
