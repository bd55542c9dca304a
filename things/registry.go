package things

// This file contains the type registry: a mapping of type name to parent
// type name and field defaults. Construction walks the named parent chain
// root-first and merges defaults explicitly, instead of relying on any
// runtime inheritance.

import (
	"fmt"
)

// Defaults are the inheritable per-type field presets. Pointer fields
// distinguish "unset, inherit from parent" from a deliberate zero.
type Defaults struct {
	Group   *string
	Classes *string
	Width   *float64
	Height  *float64
	Opacity *float64
	Hidden  *bool
	Repeat  *bool
	OffsetX *float64
	OffsetY *float64

	SpriteWidth  *float64
	SpriteHeight *float64
}

type typeDef struct {
	parent   string
	defaults Defaults
}

// Registry maps type names to their parent and defaults.
type Registry struct {
	types map[string]typeDef
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: map[string]typeDef{}}
}

// Register adds a type. The parent may be empty for a root type; it does
// not need to exist yet, but must by the time Make is called.
func (r *Registry) Register(name, parent string, d Defaults) error {
	if name == "" {
		return fmt.Errorf("things: a type needs a name")
	}
	if _, ok := r.types[name]; ok {
		return fmt.Errorf("things: type %q registered twice", name)
	}
	r.types[name] = typeDef{parent: parent, defaults: d}
	return nil
}

// Make constructs a Thing of the named type: the parent chain is resolved
// root-first and each level's set defaults are merged over the previous
// ones.
func (r *Registry) Make(name string) (*Thing, error) {
	chain, err := r.chain(name)
	if err != nil {
		return nil, err
	}

	t := &Thing{
		Title:   name,
		Opacity: 1,
	}
	for i := len(chain) - 1; i >= 0; i-- {
		d := r.types[chain[i]].defaults
		if d.Group != nil {
			t.Group = *d.Group
		}
		if d.Classes != nil {
			t.Classes = *d.Classes
		}
		if d.Width != nil {
			t.Right = t.Left + *d.Width
		}
		if d.Height != nil {
			t.Bottom = t.Top + *d.Height
		}
		if d.Opacity != nil {
			t.Opacity = *d.Opacity
		}
		if d.Hidden != nil {
			t.Hidden = *d.Hidden
		}
		if d.Repeat != nil {
			t.Repeat = *d.Repeat
		}
		if d.OffsetX != nil {
			t.OffsetX = *d.OffsetX
		}
		if d.OffsetY != nil {
			t.OffsetY = *d.OffsetY
		}
		if d.SpriteWidth != nil {
			t.SpriteWidth = *d.SpriteWidth
		}
		if d.SpriteHeight != nil {
			t.SpriteHeight = *d.SpriteHeight
		}
	}
	t.Changed = true
	return t, nil
}

// chain returns the type and its ancestors, leaf first.
func (r *Registry) chain(name string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for cur := name; cur != ""; {
		if seen[cur] {
			return nil, fmt.Errorf("things: inheritance cycle through %q", cur)
		}
		seen[cur] = true
		def, ok := r.types[cur]
		if !ok {
			return nil, fmt.Errorf("things: unknown type %q", cur)
		}
		out = append(out, cur)
		cur = def.parent
	}
	return out, nil
}

// Helpers for registering literals.

func String(s string) *string  { return &s }
func Float(f float64) *float64 { return &f }
func Bool(b bool) *bool        { return &b }
