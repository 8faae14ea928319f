// Package tools declares the gateway's tool surface: typed definitions,
// argument validation, and dispatch to handlers. Arguments are validated
// against the declared schema before a handler ever runs.
package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/interop-desk/mcpgate/pkg/apperrors"
)

// ParamType is the primitive type of a tool parameter.
type ParamType string

const (
	ParamString ParamType = "string"
	ParamNumber ParamType = "number"
)

// Param describes one parameter of a tool.
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []string
}

// Definition describes a tool: its identity, human-readable metadata, and
// parameter schema.
type Definition struct {
	Name        string
	Title       string
	Description string
	Params      []Param
}

// Args holds validated tool arguments.
type Args map[string]any

// String returns the named string argument. Validation guarantees the type
// for declared parameters.
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Number returns the named numeric argument.
func (a Args) Number(name string) float64 {
	switch v := a[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Handler executes a tool call with already-validated arguments.
type Handler func(ctx context.Context, args Args) (*mcp.CallToolResult, error)

type registration struct {
	def     Definition
	handler Handler
}

// DispatchHook observes completed dispatches (for metrics/logging). isError
// reflects the tool-level error flag; err is a dispatch failure.
type DispatchHook func(name string, isError bool, err error)

// Registry holds the declared tools and dispatches calls to them.
type Registry struct {
	order  []string
	byName map[string]registration
	hook   DispatchHook
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]registration)}
}

// SetDispatchHook installs a hook invoked after every dispatch.
func (r *Registry) SetDispatchHook(hook DispatchHook) {
	r.hook = hook
}

// Register adds a tool. Names must be unique.
func (r *Registry) Register(def Definition, handler Handler) error {
	if def.Name == "" {
		return apperrors.New(apperrors.ErrCodeInvalidArgs, "tool definition requires a name", nil)
	}
	if handler == nil {
		return apperrors.New(apperrors.ErrCodeInvalidArgs, "tool "+def.Name+" requires a handler", nil)
	}
	if _, exists := r.byName[def.Name]; exists {
		return apperrors.New(apperrors.ErrCodeInvalidArgs, "tool "+def.Name+" already registered", nil)
	}
	r.byName[def.Name] = registration{def: def, handler: handler}
	r.order = append(r.order, def.Name)
	return nil
}

// Definitions returns the registered definitions in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.byName[name].def)
	}
	return defs
}

// Dispatch validates args against the named tool's schema and invokes its
// handler. On validation failure the handler is never called.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	reg, ok := r.byName[name]
	if !ok {
		err := apperrors.New(apperrors.ErrCodeToolNotFound, "unknown tool: "+name, nil)
		r.observe(name, false, err)
		return nil, err
	}
	if err := validate(reg.def, args); err != nil {
		r.observe(name, false, err)
		return nil, err
	}
	result, err := reg.handler(ctx, Args(args))
	r.observe(name, result != nil && result.IsError, err)
	return result, err
}

func (r *Registry) observe(name string, isError bool, err error) {
	if r.hook != nil {
		r.hook(name, isError, err)
	}
}

// Install registers every tool onto an MCP server instance. The installed
// handlers route through Dispatch so schema validation always precedes
// handler execution.
func (r *Registry) Install(s *server.MCPServer) {
	for _, name := range r.order {
		reg := r.byName[name]
		toolName := name
		s.AddTool(buildTool(reg.def), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return r.Dispatch(ctx, toolName, req.GetArguments())
		})
	}
}

func buildTool(def Definition) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(def.Description),
	}
	if def.Title != "" {
		opts = append(opts, mcp.WithTitleAnnotation(def.Title))
	}
	for _, p := range def.Params {
		var propOpts []mcp.PropertyOption
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		if p.Description != "" {
			propOpts = append(propOpts, mcp.Description(p.Description))
		}
		if len(p.Enum) > 0 {
			propOpts = append(propOpts, mcp.Enum(p.Enum...))
		}
		switch p.Type {
		case ParamNumber:
			opts = append(opts, mcp.WithNumber(p.Name, propOpts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		}
	}
	return mcp.NewTool(def.Name, opts...)
}

func validate(def Definition, args map[string]any) error {
	params := make(map[string]Param, len(def.Params))
	for _, p := range def.Params {
		params[p.Name] = p
	}
	for name := range args {
		if _, ok := params[name]; !ok {
			return apperrors.New(apperrors.ErrCodeInvalidArgs,
				fmt.Sprintf("%s: unknown argument %q", def.Name, name), nil)
		}
	}
	for _, p := range def.Params {
		value, present := args[p.Name]
		if !present {
			if p.Required {
				return apperrors.New(apperrors.ErrCodeInvalidArgs,
					fmt.Sprintf("%s: missing required argument %q", def.Name, p.Name), nil)
			}
			continue
		}
		switch p.Type {
		case ParamString:
			s, ok := value.(string)
			if !ok {
				return apperrors.New(apperrors.ErrCodeInvalidArgs,
					fmt.Sprintf("%s: argument %q must be a string", def.Name, p.Name), nil)
			}
			if len(p.Enum) > 0 && !contains(p.Enum, s) {
				return apperrors.New(apperrors.ErrCodeInvalidArgs,
					fmt.Sprintf("%s: argument %q must be one of %v", def.Name, p.Name, p.Enum), nil)
			}
		case ParamNumber:
			switch value.(type) {
			case float64, int, int64:
			default:
				return apperrors.New(apperrors.ErrCodeInvalidArgs,
					fmt.Sprintf("%s: argument %q must be a number", def.Name, p.Name), nil)
			}
		}
	}
	return nil
}

func contains(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}
