package server

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/portald-dev/portald/internal/portal"
)

const messageSubmissionPending = "A request is already in progress"

// tab is one entry of the login/signup switcher
type tab struct {
	Label  string
	Href   string
	Active bool
}

// authPageData feeds templates/auth.html
type authPageData struct {
	Form           portal.FormState
	Tabs           []tab
	SubmitLabel    string
	RefreshURL     string
	RefreshSeconds int
}

// dashboardPageData feeds templates/dashboard.html
type dashboardPageData struct {
	User portal.DashboardModel
}

func newAuthPageData(form portal.FormState) authPageData {
	// Never echo the password back into the page
	form.Password = ""

	return authPageData{
		Form: form,
		Tabs: []tab{
			{Label: portal.ModeLogin.Label(), Href: "/?mode=login", Active: form.Mode == portal.ModeLogin},
			{Label: portal.ModeSignup.Label(), Href: "/?mode=signup", Active: form.Mode == portal.ModeSignup},
		},
		SubmitLabel: form.Mode.Label(),
	}
}

// redirect translates a recorded navigation into an HTTP redirect
func redirect(c *gin.Context, nav portal.Navigation) {
	status := http.StatusFound
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		status = http.StatusSeeOther
	}
	c.Redirect(status, nav.Path)
}

func (s *Server) authPage(c *gin.Context) {
	mode, err := portal.ParseMode(c.Query("mode"))
	if err != nil {
		mode = portal.ModeLogin
	}

	ctrl, nav := s.controller(c, mode)
	ctrl.ResolveInitialView()

	if target, ok := nav.Last(); ok {
		redirect(c, target)
		return
	}

	c.HTML(http.StatusOK, "auth.html", newAuthPageData(ctrl.Form()))
}

func (s *Server) submitForm(c *gin.Context) {
	mode, err := portal.ParseMode(c.PostForm("mode"))
	if err != nil {
		form := portal.FormState{Mode: portal.ModeLogin, StatusMessage: err.Error()}
		c.HTML(http.StatusBadRequest, "auth.html", newAuthPageData(form))
		return
	}

	ctrl, nav := s.controller(c, mode)

	fields := portal.Fields{
		FullName: c.PostForm("fullName"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	if err := ctrl.SubmitForm(c.Request.Context(), mode, fields); err != nil {
		if errors.Is(err, portal.ErrSubmissionInFlight) {
			form := ctrl.Form()
			form.StatusMessage = messageSubmissionPending
			c.HTML(http.StatusConflict, "auth.html", newAuthPageData(form))
			return
		}
		s.logger.Error().Err(err).Msg("Unexpected submission error")
		c.HTML(http.StatusBadRequest, "auth.html", newAuthPageData(ctrl.Form()))
		return
	}

	data := newAuthPageData(ctrl.Form())

	if target, ok := nav.Last(); ok {
		if target.Delay <= 0 {
			redirect(c, target)
			return
		}
		// Show the welcome message for the grace period, then move on
		data.RefreshURL = target.Path
		data.RefreshSeconds = refreshSeconds(target.Delay)
	}

	c.HTML(http.StatusOK, "auth.html", data)
}

// refreshSeconds rounds up, meta refresh only understands whole seconds
func refreshSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

func (s *Server) dashboardPage(c *gin.Context) {
	ctrl, nav := s.controller(c, portal.ModeLogin)
	view := ctrl.ResolveInitialView()

	if target, ok := nav.Last(); ok {
		redirect(c, target)
		return
	}

	if view != portal.ViewDashboard {
		c.Redirect(http.StatusFound, portal.RootPath)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, "dashboard.html", dashboardPageData{User: ctrl.Dashboard()})
}

func (s *Server) logout(c *gin.Context) {
	ctrl, nav := s.controller(c, portal.ModeLogin)
	ctrl.Logout()

	target, ok := nav.Last()
	if !ok {
		target = portal.Navigation{Path: portal.RootPath, Replace: true}
	}
	redirect(c, target)
}
