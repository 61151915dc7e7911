package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slugline-app/slugline-gateway/internal/registry"
)

func testDispatcher(t *testing.T, timeout time.Duration, fns ...registry.Function) *Dispatcher {
	t.Helper()
	reg, err := registry.New(registry.Module{Key: "test", Functions: fns})
	require.NoError(t, err)
	return New(Config{Registry: reg, Timeout: timeout})
}

func TestExecuteFunction_Success(t *testing.T) {
	d := testDispatcher(t, 0, registry.Function{
		Name: "echo",
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			return map[string]any{"echoed": args["msg"]}, nil
		},
	})

	result, err := d.ExecuteFunction(context.Background(), "test.echo", map[string]any{"msg": "hello"})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, map[string]any{"echoed": "hello"}, result.Data)
	assert.Empty(t, result.Error)
	assert.Empty(t, result.Name)
}

func TestExecuteFunction_HandlerError(t *testing.T) {
	d := testDispatcher(t, 0, registry.Function{
		Name: "fail",
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			return nil, errors.New("Scene title is required")
		},
	})

	result, err := d.ExecuteFunction(context.Background(), "test.fail", nil)
	require.NoError(t, err, "handler errors resolve to failure envelopes, never surface")

	assert.False(t, result.Success)
	assert.Equal(t, "Scene title is required", result.Error)
	assert.Equal(t, "test.fail", result.Name)
	assert.Nil(t, result.Data)
}

func TestExecuteFunction_NotFound(t *testing.T) {
	d := testDispatcher(t, 0)

	result, err := d.ExecuteFunction(context.Background(), "nonexistent.fn", nil)
	assert.Nil(t, result)

	var notFound *FunctionNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nonexistent.fn", notFound.Name)
	assert.Equal(t, "Function nonexistent.fn not found", err.Error())
}

func TestExecuteFunction_PanicRecovered(t *testing.T) {
	d := testDispatcher(t, 0, registry.Function{
		Name: "boom",
		Handler: func(_ context.Context, _ map[string]any) (any, error) {
			panic("nil map write")
		},
	})

	result, err := d.ExecuteFunction(context.Background(), "test.boom", nil)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "handler panic")
	assert.Contains(t, result.Error, "nil map write")
}

func TestExecuteFunction_NilArgsBecomeEmptyBag(t *testing.T) {
	d := testDispatcher(t, 0, registry.Function{
		Name: "inspect",
		Handler: func(_ context.Context, args map[string]any) (any, error) {
			require.NotNil(t, args)
			return len(args), nil
		},
	})

	result, err := d.ExecuteFunction(context.Background(), "test.inspect", nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Data)
}

func TestExecuteFunction_TimeoutCancelsContext(t *testing.T) {
	d := testDispatcher(t, 20*time.Millisecond, registry.Function{
		Name: "slow",
		Handler: func(ctx context.Context, _ map[string]any) (any, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
				return "done", nil
			}
		},
	})

	result, err := d.ExecuteFunction(context.Background(), "test.slow", nil)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "context deadline exceeded")
}
