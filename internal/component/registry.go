package component

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/specialistvlad/propgraph/internal/ctxlog"
)

// Module is implemented by catalogs that contribute component types.
type Module interface {
	Register(r *Registry)
}

// Registry maps component type names to definitions.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds a definition. Registering a type twice is a programmer
// error, so it panics.
func (r *Registry) Register(def *Definition) {
	if def == nil || def.Type == "" {
		panic("component definition must have a type")
	}
	if _, exists := r.defs[def.Type]; exists {
		panic(fmt.Sprintf("component type '%s' already registered", def.Type))
	}
	slog.Debug("Registering component type.", "type", def.Type, "props", len(def.Props))
	r.defs[def.Type] = def
}

// Lookup returns the definition for typ.
func (r *Registry) Lookup(typ string) (*Definition, bool) {
	def, ok := r.defs[typ]
	return def, ok
}

// Types lists the registered types in lexical order.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.defs))
	for t := range r.defs {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Validate checks every definition for internal consistency. The document
// model assumes these hold, so the app refuses to start otherwise.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	if _, ok := r.defs[ErrorType]; !ok {
		errs = append(errs, fmt.Sprintf("type '%s' must be registered", ErrorType))
	}

	for _, typ := range r.Types() {
		def := r.defs[typ]
		seen := make(map[string]struct{}, len(def.Props))
		for i, p := range def.Props {
			if p.Name == "" {
				errs = append(errs, fmt.Sprintf("type '%s': prop %d has no name", typ, i))
				continue
			}
			if _, dup := seen[p.Name]; dup {
				errs = append(errs, fmt.Sprintf("type '%s': prop '%s' declared twice", typ, p.Name))
			}
			seen[p.Name] = struct{}{}
			if p.New == nil {
				errs = append(errs, fmt.Sprintf("type '%s': prop '%s' has no updater", typ, p.Name))
			}
		}
		if def.Children == ChildrenFromProp {
			if _, ok := def.PropIndex(def.ChildrenProp); !ok {
				errs = append(errs, fmt.Sprintf("type '%s': children prop '%s' does not exist", typ, def.ChildrenProp))
			}
		}
		for name, fn := range def.Actions {
			if fn == nil {
				errs = append(errs, fmt.Sprintf("type '%s': action '%s' has no handler", typ, name))
			}
		}
		logger.Debug("Validated component type.", "type", typ)
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return errors.New("component registry validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}
