package provider

import (
	"errors"
	"fmt"

	"github.com/casualjim/muse/content"
	"github.com/casualjim/muse/fault"
	"github.com/casualjim/muse/internal/registry"
)

// ErrDuplicateProvider is returned when a (kind, name) pair is registered
// twice. First registration wins; re-registration is a programming error,
// not a runtime condition to silently tolerate.
var ErrDuplicateProvider = errors.New("provider already registered")

// Registry maps (content kind, provider name) to a Descriptor. Population
// happens once at process start; reads dominate afterwards.
type Registry struct {
	kinds map[content.Kind]registry.Registry[Descriptor]
}

// NewRegistry builds an empty registry with a table per content kind.
func NewRegistry() *Registry {
	kinds := make(map[content.Kind]registry.Registry[Descriptor], len(content.Kinds()))
	for _, kind := range content.Kinds() {
		kinds[kind] = registry.New[Descriptor]()
	}
	return &Registry{kinds: kinds}
}

// Register validates d and inserts it keyed by (kind, name). Returns
// ErrDuplicateProvider when the key is already taken and the validation
// error when the descriptor is malformed.
func (r *Registry) Register(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if !r.kinds[d.Kind].Add(d.Name, d) {
		return fmt.Errorf("%w: %s/%s", ErrDuplicateProvider, d.Kind, d.Name)
	}
	return nil
}

// Resolve returns the descriptor registered under (kind, name), or a
// fault.ProviderNotFound error when the pair is absent.
func (r *Registry) Resolve(kind content.Kind, name string) (Descriptor, error) {
	table, ok := r.kinds[kind]
	if !ok {
		return Descriptor{}, fault.Newf(fault.ProviderNotFound, "unknown content kind %q", kind)
	}
	d, ok := table.Get(name)
	if !ok {
		return Descriptor{}, fault.Newf(fault.ProviderNotFound, "no %s provider named %q", kind, name)
	}
	return d, nil
}

// Names lists the providers registered for kind, in registration order.
func (r *Registry) Names(kind content.Kind) []string {
	table, ok := r.kinds[kind]
	if !ok {
		return nil
	}
	return table.Names()
}

// Default is the process wide registry. Adapters register themselves here
// during program initialization.
var Default = NewRegistry()

// Register adds d to the Default registry.
func Register(d Descriptor) error {
	return Default.Register(d)
}

// Resolve looks up (kind, name) in the Default registry.
func Resolve(kind content.Kind, name string) (Descriptor, error) {
	return Default.Resolve(kind, name)
}

// Names lists providers of kind in the Default registry.
func Names(kind content.Kind) []string {
	return Default.Names(kind)
}
