package dottree

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
)

var ErrUnknownFormat = errors.New("unknown format")

// Format describes an output format: a name, the conventional file
// extension, and a constructor for its Writer.
type Format struct {
	Name      string
	Extension string
	NewWriter func(w io.Writer) Writer
}

// Registry maps format names and extensions to Formats. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Format
}

func newRegistry() *Registry {
	return &Registry{formats: make(map[string]Format)}
}

// validateName accepts "name" or "namespace.name".
func validateName(name string) error {
	if name == "" {
		return errors.New("format name is empty")
	}
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return fmt.Errorf("format %q invalid name (at most one namespace separator)", name)
	}
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("format %q invalid name (empty namespace or name)", name)
		}
	}
	return nil
}

func (r *Registry) Register(f Format) error {
	if err := validateName(f.Name); err != nil {
		return err
	}
	if f.NewWriter == nil {
		return fmt.Errorf("format %q has no writer constructor", f.Name)
	}
	if f.Extension != "" && !strings.HasPrefix(f.Extension, ".") {
		return fmt.Errorf("format %q invalid extension %q (must start with '.')", f.Name, f.Extension)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formats[f.Name]; exists {
		return fmt.Errorf("format %q already registered", f.Name)
	}
	r.formats[f.Name] = f
	return nil
}

func (r *Registry) Lookup(name string) (Format, error) {
	r.mu.RLock()
	f, ok := r.formats[name]
	r.mu.RUnlock()
	if !ok {
		return Format{}, fmt.Errorf("format %q: %w", name, ErrUnknownFormat)
	}
	return f, nil
}

// ByExtension finds the format registered for ext (".yml"). Matching is
// case-insensitive. When several formats share an extension the one with
// the lexically smallest name wins.
func (r *Registry) ByExtension(ext string) (Format, error) {
	for _, name := range r.Names() {
		f, _ := r.Lookup(name)
		if f.Extension != "" && strings.EqualFold(f.Extension, ext) {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("extension %q: %w", ext, ErrUnknownFormat)
}

// Names returns the registered format names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
