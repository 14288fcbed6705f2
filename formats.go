package dottree

import "io"

var (
	yamlFormat = Format{
		Name:      "yaml",
		Extension: ".yml",
		NewWriter: func(w io.Writer) Writer { return NewYAMLWriter(w) },
	}
	jsonFormat = Format{
		Name:      "json",
		Extension: ".json",
		NewWriter: func(w io.Writer) Writer { return NewJSONWriter(w) },
	}
)

var (
	// YAMLFormat registers "yaml" (extension .yml), backed by YAMLWriter.
	YAMLFormat Registration = func(r *Registry) error { return r.Register(yamlFormat) }

	// JSONFormat registers "json" (extension .json), backed by JSONWriter.
	JSONFormat Registration = func(r *Registry) error { return r.Register(jsonFormat) }
)

// Builtin bundles the formats shipped with this package.
func Builtin() Registration {
	return Group(YAMLFormat, JSONFormat)
}
