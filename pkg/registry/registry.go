// Package registry tracks client-rendered component usages discovered
// during code generation.
package registry

import (
	"crypto/md5"
	"encoding/hex"
)

// Kind classifies how a client component is rendered.
type Kind string

// Client component kinds.
const (
	// ClientSideRendered components are hydrated on the client from
	// server-produced markup.
	ClientSideRendered Kind = "csr"

	// ClientSideNative components render entirely on the client.
	ClientSideNative Kind = "native"
)

// idPrefix is prepended to every content-derived component id.
const idPrefix = "zx-"

// ClientComponent is the metadata recorded for one client-rendered
// component usage site.
type ClientComponent struct {
	Kind Kind   `yaml:"kind"`
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	ID   string `yaml:"id"`
}

// Registry is an append-only list of client component usages.
//
// Repeated usages of the same component produce repeated entries, one per
// usage site; entries are never deduplicated. The id is pure in (path,
// name), so duplicates share identical ids.
type Registry struct {
	components []ClientComponent
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{}
}

// Register appends a usage record and returns it. The id is the hex digest
// of a 16-byte content hash over path followed by name, with a fixed prefix.
func (r *Registry) Register(name, path string, kind Kind) ClientComponent {
	c := ClientComponent{
		Kind: kind,
		Name: name,
		Path: path,
		ID:   ComponentID(name, path),
	}
	r.components = append(r.components, c)
	return c
}

// Components returns the registered usages in registration order.
// The returned slice is a copy; mutating it does not affect the registry.
func (r *Registry) Components() []ClientComponent {
	out := make([]ClientComponent, len(r.components))
	copy(out, r.components)
	return out
}

// Len returns the number of registered usages.
func (r *Registry) Len() int {
	return len(r.components)
}

// ComponentID derives the stable content-addressed id for a component.
// The hash is used for addressing, not integrity.
func ComponentID(name, path string) string {
	sum := md5.Sum([]byte(path + name))
	return idPrefix + hex.EncodeToString(sum[:])
}
