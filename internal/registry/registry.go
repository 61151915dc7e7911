// ABOUTME: Immutable string-keyed registry mapping function names to descriptors
// ABOUTME: Fails fast at construction on name collisions or nil handlers

package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrNameCollision indicates two modules exported the same fully-qualified name.
var ErrNameCollision = errors.New("function name collision")

// ErrNilHandler indicates a descriptor was registered without a handler.
var ErrNilHandler = errors.New("nil function handler")

// Handler executes one function against a loosely-typed argument bag.
// Handlers validate their own required parameters and return plain errors
// with human-readable messages; the dispatcher converts those into failure
// envelopes.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// ParamSpec describes one function parameter as surfaced in the manifest.
type ParamSpec struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Required    bool     `json:"required,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Function is one invocable capability: manifest metadata plus its handler.
type Function struct {
	Name        string
	Description string
	Parameters  map[string]ParamSpec
	Handler     Handler
}

// Module groups related functions under a shared namespace key.
// A function named "createScene" in the module keyed "scene" registers
// as "scene.createScene".
type Module struct {
	Key       string
	Functions []Function
}

// Registry is the immutable function catalogue. Built once at startup,
// read-only for the life of the process.
type Registry struct {
	functions map[string]*Function
	names     []string // sorted fully-qualified names
}

// New builds a registry by merging all module exports into one flat
// namespace. Returns ErrNameCollision if two entries share a fully-qualified
// name, and ErrNilHandler if any entry lacks a handler. Both are startup
// configuration errors and should abort the process.
func New(modules ...Module) (*Registry, error) {
	functions := make(map[string]*Function)

	for _, mod := range modules {
		for i := range mod.Functions {
			fn := mod.Functions[i]
			fullName := fmt.Sprintf("%s.%s", mod.Key, fn.Name)

			if _, exists := functions[fullName]; exists {
				return nil, fmt.Errorf("%w: %q", ErrNameCollision, fullName)
			}
			if fn.Handler == nil {
				return nil, fmt.Errorf("%w: %q", ErrNilHandler, fullName)
			}

			registered := fn
			registered.Name = fullName
			functions[fullName] = &registered
		}
	}

	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Registry{
		functions: functions,
		names:     names,
	}, nil
}

// ListFunctions returns the sorted fully-qualified names of all registered
// functions. Used by the unauthenticated status probe.
func (r *Registry) ListFunctions() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// GetFunctionDetails returns the descriptor for a fully-qualified name,
// or false if no such function is registered.
func (r *Registry) GetFunctionDetails(name string) (*Function, bool) {
	fn, ok := r.functions[name]
	return fn, ok
}

// GetAllFunctions returns the full name-to-descriptor mapping.
// The returned map is a copy; the descriptors themselves are shared and
// must not be mutated.
func (r *Registry) GetAllFunctions() map[string]*Function {
	out := make(map[string]*Function, len(r.functions))
	for name, fn := range r.functions {
		out[name] = fn
	}
	return out
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	return len(r.functions)
}
