// Package jsonschema provides the minimal JSON Schema representation used
// for export. Handlers compose descriptors bottom-up: a container emits the
// descriptor of its element type as a sub-descriptor.
package jsonschema

// Schema is a small recursive descriptor. Keep this struct minimal and
// extend incrementally.
type Schema struct {
	// Core
	Type   string `json:"type,omitempty"`
	Format string `json:"format,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// Union (null-or-shape for nullable bindings)
	AnyOf []*Schema `json:"anyOf,omitempty"`
}
