package state

import "sync"

// Controller owns one user's State and serialises every dispatch.
type Controller struct {
	mu      sync.RWMutex
	state   State
	loaded  bool
	loading bool
	stale   bool
}

// NewController creates a controller holding the initial state for userID.
func NewController(userID string) *Controller {
	return &Controller{state: Initial(userID)}
}

// Dispatch applies actions in order and returns the resulting state. A
// dispatch that lands while a load is running marks that load stale, since
// the load's bulk sets may overwrite it.
func (c *Controller) Dispatch(actions ...Action) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		c.stale = true
	}
	return c.apply(actions)
}

// Fill applies the results of a load without marking it stale.
func (c *Controller) Fill(actions ...Action) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(actions)
}

func (c *Controller) apply(actions []Action) State {
	for _, a := range actions {
		c.state = Reduce(c.state, a)
	}
	return c.state
}

// State returns the current state. The returned value must be treated as
// read-only.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Loaded reports whether a load has completed successfully.
func (c *Controller) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// BeginLoad starts a load. Callers must not run loads for the same
// controller concurrently.
func (c *Controller) BeginLoad() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = true
	c.stale = false
}

// EndLoad finishes the load started by BeginLoad and reports whether a
// dispatch arrived while it ran. The controller counts as loaded once any
// load has succeeded.
func (c *Controller) EndLoad(ok bool) (stale bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stale = c.stale
	c.loading, c.stale = false, false
	if ok {
		c.loaded = true
	}
	return stale
}

// Registry holds one controller per signed-in user.
type Registry struct {
	mu          sync.Mutex
	controllers map[string]*Controller
}

func NewRegistry() *Registry {
	return &Registry{controllers: make(map[string]*Controller)}
}

// Get returns the controller for userID, if one exists.
func (r *Registry) Get(userID string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controllers[userID]
	return c, ok
}

// GetOrCreate returns the controller for userID, creating it when missing.
func (r *Registry) GetOrCreate(userID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controllers[userID]
	if !ok {
		c = NewController(userID)
		r.controllers[userID] = c
	}
	return c
}

// Dispatch forwards actions to the user's controller. Users with no
// controller have no in-memory state yet and are skipped; their data is
// picked up by the next session load.
func (r *Registry) Dispatch(userID string, actions ...Action) {
	if c, ok := r.Get(userID); ok {
		c.Dispatch(actions...)
	}
}

// Drop discards the user's state.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.controllers, userID)
}

// Len returns the number of users with in-memory state.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}
