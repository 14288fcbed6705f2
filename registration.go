package dottree

import "io"

// Registration is a deferred format registration. Packages that provide a
// Writer expose values of this type so callers opt in explicitly instead of
// relying on import side-effects (init functions).
//
// For example, in a package "tomlout":
//
//	var TOML = dottree.NewFormat("toml", ".toml", func(w io.Writer) dottree.Writer { ... })
//
// Usage:
//
//	r, _ := dottree.NewRegistry(dottree.Builtin(), tomlout.TOML)
type Registration func(r *Registry) error

// NewFormat wraps a Writer constructor into a Registration.
func NewFormat(name, ext string, fn func(w io.Writer) Writer) Registration {
	return func(r *Registry) error {
		return r.Register(Format{Name: name, Extension: ext, NewWriter: fn})
	}
}

// Group groups multiple registrations into one, e.g.:
//
//	dottree.NewRegistry(dottree.Group(dottree.YAMLFormat, dottree.JSONFormat), other)
func Group(regs ...Registration) Registration {
	return func(r *Registry) error { return Apply(r, regs...) }
}

// Apply applies one or more registrations to an existing registry. Stops at the
// first error and returns it.
func Apply(r *Registry, regs ...Registration) error {
	for _, reg := range regs {
		if err := reg(r); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry constructs a new registry and applies the provided registrations.
func NewRegistry(regs ...Registration) (*Registry, error) {
	r := newRegistry()
	if err := Apply(r, regs...); err != nil {
		return nil, err
	}
	return r, nil
}
