package tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interop-desk/mcpgate/pkg/apperrors"
)

func echoDef() Definition {
	return Definition{
		Name:        "echo",
		Description: "Echoes its arguments back.",
		Params: []Param{
			{Name: "text", Type: ParamString, Required: true},
			{Name: "count", Type: ParamNumber},
			{Name: "mode", Type: ParamString, Enum: []string{"plain", "loud"}},
		},
	}
}

func echoHandler(_ context.Context, args Args) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(args.String("text")), nil
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(echoDef(), echoHandler))

	err := r.Register(echoDef(), echoHandler)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidArgs))
}

func TestRegistry_Register_Invalid(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register(Definition{}, echoHandler))
	assert.Error(t, r.Register(Definition{Name: "noop"}, nil))
}

func TestRegistry_Definitions_Order(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Definition{Name: "b"}, echoHandler))
	require.NoError(t, r.Register(Definition{Name: "a"}, echoHandler))

	defs := r.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "b", defs[0].Name)
	assert.Equal(t, "a", defs[1].Name)
}

func TestRegistry_Dispatch(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoDef(), echoHandler))

	result, err := r.Dispatch(context.Background(), "echo", map[string]any{"text": "hello"})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "hello", result.Content[0].(mcp.TextContent).Text)
}

func TestRegistry_Dispatch_UnknownTool(t *testing.T) {
	r := NewRegistry()

	_, err := r.Dispatch(context.Background(), "nope", nil)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeToolNotFound))
}

func TestRegistry_Dispatch_Validation(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoDef(), echoHandler))

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing required", map[string]any{}},
		{"unknown argument", map[string]any{"text": "x", "bogus": 1}},
		{"wrong string type", map[string]any{"text": 42}},
		{"wrong number type", map[string]any{"text": "x", "count": "three"}},
		{"enum violation", map[string]any{"text": "x", "mode": "whisper"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Dispatch(context.Background(), "echo", tt.args)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidArgs))
		})
	}
}

func TestRegistry_Dispatch_OptionalOmitted(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoDef(), echoHandler))

	_, err := r.Dispatch(context.Background(), "echo", map[string]any{"text": "x"})
	assert.NoError(t, err)

	_, err = r.Dispatch(context.Background(), "echo", map[string]any{"text": "x", "count": float64(3), "mode": "loud"})
	assert.NoError(t, err)
}

func TestRegistry_DispatchHook(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoDef(), echoHandler))

	var gotName string
	var gotErr error
	calls := 0
	r.SetDispatchHook(func(name string, isError bool, err error) {
		calls++
		gotName = name
		gotErr = err
	})

	_, _ = r.Dispatch(context.Background(), "echo", map[string]any{"text": "x"})
	assert.Equal(t, 1, calls)
	assert.Equal(t, "echo", gotName)
	assert.NoError(t, gotErr)

	_, _ = r.Dispatch(context.Background(), "missing", nil)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "missing", gotName)
	assert.Error(t, gotErr)
}

func TestArgs_Number(t *testing.T) {
	args := Args{"f": float64(2.5), "i": 7, "i64": int64(9)}

	assert.Equal(t, 2.5, args.Number("f"))
	assert.Equal(t, float64(7), args.Number("i"))
	assert.Equal(t, float64(9), args.Number("i64"))
	assert.Equal(t, float64(0), args.Number("missing"))
}
