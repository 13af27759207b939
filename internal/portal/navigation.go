package portal

import (
	"sync"
	"time"
)

// Navigator moves the client to another route
type Navigator interface {
	// Replace navigates without leaving a history entry
	Replace(path string)
	// NavigateAfter navigates once delay has elapsed
	NavigateAfter(path string, delay time.Duration)
}

// RouteProvider reports the route the client is currently on
type RouteProvider interface {
	CurrentRoute() string
}

// StaticRoute is a RouteProvider for a fixed path
type StaticRoute string

func (r StaticRoute) CurrentRoute() string {
	return string(r)
}

// RouteFunc adapts a function to RouteProvider
type RouteFunc func() string

func (f RouteFunc) CurrentRoute() string {
	return f()
}

// Navigation is one recorded navigation
type Navigation struct {
	Path    string
	Replace bool
	Delay   time.Duration
}

// Recorder is a Navigator that remembers the last navigation instead of
// performing it. Transports inspect it after the controller returns.
type Recorder struct {
	mu   sync.Mutex
	last *Navigation
}

func (r *Recorder) Replace(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = &Navigation{Path: path, Replace: true}
}

func (r *Recorder) NavigateAfter(path string, delay time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = &Navigation{Path: path, Delay: delay}
}

// Last returns the most recent navigation, if any
func (r *Recorder) Last() (Navigation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return Navigation{}, false
	}
	return *r.last, true
}
