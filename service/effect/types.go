package effect

import (
	"github.com/viant/x"
)

// Types registers the Go types effect payloads convert into, keyed by
// instruction kind.
type Types struct {
	x.Registry
}

// Register adds a payload type to the registry.
func (t *Types) Register(dataType *x.Type) {
	t.Registry.Register(dataType)
}

// Lookup returns a payload type from the registry, or nil when the name is
// unknown.
func (t *Types) Lookup(name string) *x.Type {
	return t.Registry.Lookup(name)
}

// NewTypes creates a new payload type registry.
func NewTypes(options ...x.RegistryOption) *Types {
	return &Types{
		Registry: *x.NewRegistry(options...),
	}
}
