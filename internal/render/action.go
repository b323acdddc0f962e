package render

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/specialistvlad/propgraph/internal/component"
	"github.com/specialistvlad/propgraph/internal/docmodel"
)

// ActionRequest is an action as clients send it. The target is given by
// index or by name.
type ActionRequest struct {
	Component *int                       `json:"component,omitempty" yaml:"component,omitempty"`
	Name      string                     `json:"name,omitempty" yaml:"name,omitempty"`
	Action    string                     `json:"action" yaml:"action"`
	Args      map[string]json.RawMessage `json:"args,omitempty" yaml:"-"`
}

// ErrNoTarget is returned for requests naming no component.
var ErrNoTarget = errors.New("action request names no component")

// ParseActionRequest decodes a JSON action request.
func ParseActionRequest(data []byte) (ActionRequest, error) {
	var req ActionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return ActionRequest{}, fmt.Errorf("invalid action request: %w", err)
	}
	if req.Action == "" {
		return ActionRequest{}, errors.New("invalid action request: action is required")
	}
	return req, nil
}

// Resolve turns the request into an action on dm.
func (r ActionRequest) Resolve(dm *docmodel.DocumentModel) (component.Action, error) {
	var idx int
	switch {
	case r.Component != nil:
		idx = *r.Component
	case r.Name != "":
		found, ok := dm.ComponentByName(r.Name)
		if !ok {
			return component.Action{}, fmt.Errorf("%w: no component named %q", docmodel.ErrUnknownComponent, r.Name)
		}
		idx = found
	default:
		return component.Action{}, ErrNoTarget
	}

	args := make(map[string]cty.Value, len(r.Args))
	for name, raw := range r.Args {
		v, err := decodeArg(raw)
		if err != nil {
			return component.Action{}, fmt.Errorf("argument %q: %w", name, err)
		}
		args[name] = v
	}
	return component.Action{Component: idx, Name: r.Action, Args: args}, nil
}

func decodeArg(raw json.RawMessage) (cty.Value, error) {
	ty, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return cty.NilVal, err
	}
	return ctyjson.Unmarshal(raw, ty)
}
