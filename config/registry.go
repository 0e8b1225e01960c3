package config

import (
	"sort"
	"sync"
)

// DefaultEnvironment is used when no environment name is given.
const DefaultEnvironment = "default"

// Registry holds one Configuration per environment name. Configurations are
// created on first access and kept for the lifetime of the Registry.
type Registry struct {
	mu      sync.Mutex
	configs map[string]*Configuration
}

func NewRegistry() *Registry {
	return &Registry{configs: make(map[string]*Configuration)}
}

// Get returns the Configuration for env, creating it if needed.
func (r *Registry) Get(env string) *Configuration {
	if env == "" {
		env = DefaultEnvironment
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.configs[env]
	if !ok {
		c = New(env)
		r.configs[env] = c
	}
	return c
}

// Configure passes the Configuration for env to fn.
func (r *Registry) Configure(env string, fn func(*Configuration) error) error {
	return fn(r.Get(env))
}

// Environments lists the registered environment names in sorted order.
func (r *Registry) Environments() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
