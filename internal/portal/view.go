package portal

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Mode is the intent of the auth form
type Mode string

const (
	ModeLogin  Mode = "login"
	ModeSignup Mode = "signup"
)

// ErrInvalidMode is returned for anything other than login or signup
var ErrInvalidMode = errors.New("invalid form mode")

// ParseMode validates s as a Mode. The empty string selects login.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLogin, "":
		return ModeLogin, nil
	case ModeSignup:
		return ModeSignup, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

func (m Mode) valid() bool {
	return m == ModeLogin || m == ModeSignup
}

// Label is the tab and button caption
func (m Mode) Label() string {
	if m == ModeSignup {
		return "Sign Up"
	}
	return "Login"
}

// Routes
const (
	RootPath      = "/"
	DashboardPath = "/dashboard"
)

// View is one of the two mutually exclusive screens
type View int

const (
	ViewAuth View = iota
	ViewDashboard
)

func (v View) String() string {
	if v == ViewDashboard {
		return "dashboard"
	}
	return "auth"
}

// FormState is the transient state of the auth form
type FormState struct {
	Mode            Mode
	FullName        string
	Email           string
	Password        string
	StatusMessage   string
	StatusIsSuccess bool
}

// Fields are the user-entered values of a submission
type Fields struct {
	FullName string
	Email    string
	Password string
}

// Status messages
const (
	MessageSignupSuccess = "Signup successful. Please login."
	MessageSessionFailed = "Failed to save session"
)

func welcomeMessage(name string) string {
	return strings.TrimSpace("Welcome " + name)
}

// Dashboard placeholders used when no display name is persisted
const (
	DefaultDisplayName = "Friend"
	DefaultInitial     = "U"
)

// DashboardModel is what the dashboard view greets the user with
type DashboardModel struct {
	DisplayName string
	Initial     string
}

func newDashboardModel(name string) DashboardModel {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultDisplayName
	}

	initial := DefaultInitial
	if r, _ := utf8.DecodeRuneInString(name); r != utf8.RuneError {
		initial = string(unicode.ToUpper(r))
	}

	return DashboardModel{DisplayName: name, Initial: initial}
}
