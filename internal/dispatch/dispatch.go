// ABOUTME: Dispatcher resolving function names to handlers and wrapping results
// ABOUTME: Applies a per-call execution timeout and recovers handler panics

package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/slugline-app/slugline-gateway/internal/registry"
)

// DefaultTimeout bounds a single function execution. Handlers are I/O-bound,
// not CPU-bound, so the bound is generous.
const DefaultTimeout = 30 * time.Second

// FunctionNotFoundError is returned when the requested name is not in the
// registry. The gateway validates scope membership against the same registry
// before dispatching, so hitting this indicates a routing bug upstream; it is
// surfaced as an error rather than a failure envelope.
type FunctionNotFoundError struct {
	Name string
}

func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("Function %s not found", e.Name)
}

// Result is the uniform envelope returned for every function execution.
// Exactly one of Data or Error is meaningful; there is no partial success.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Name    string `json:"name,omitempty"`
}

// Dispatcher executes registered functions. It holds no mutable state across
// calls beyond the read-only registry reference, so a single instance is safe
// for concurrent use.
type Dispatcher struct {
	registry *registry.Registry
	logger   *slog.Logger
	timeout  time.Duration
}

// Config contains configuration options for the Dispatcher.
type Config struct {
	Registry *registry.Registry
	Logger   *slog.Logger
	Timeout  time.Duration
}

// New creates a Dispatcher with the given configuration.
func New(cfg Config) *Dispatcher {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		registry: cfg.Registry,
		logger:   logger,
		timeout:  timeout,
	}
}

// ExecuteFunction looks up name in the registry and runs its handler with
// the supplied argument bag. A missing name returns a FunctionNotFoundError.
// Every other outcome, including handler errors and panics, resolves to an
// envelope: the error path never re-raises, so the HTTP layer can always
// serialize a normal response carrying the failure payload.
func (d *Dispatcher) ExecuteFunction(ctx context.Context, name string, args map[string]any) (*Result, error) {
	fn, ok := d.registry.GetFunctionDetails(name)
	if !ok {
		return nil, &FunctionNotFoundError{Name: name}
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	data, err := d.invoke(ctx, fn, args)
	if err != nil {
		d.logger.Warn("function execution failed",
			"function", name,
			"error", err,
		)
		return &Result{
			Success: false,
			Error:   err.Error(),
			Name:    name,
		}, nil
	}

	d.logger.Debug("function executed", "function", name)
	return &Result{
		Success: true,
		Data:    data,
	}, nil
}

// invoke runs the handler, converting panics into errors so a misbehaving
// handler cannot take down the request.
func (d *Dispatcher) invoke(ctx context.Context, fn *registry.Function, args map[string]any) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	if args == nil {
		args = map[string]any{}
	}

	return fn.Handler(ctx, args)
}
