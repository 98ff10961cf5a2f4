package provider

import (
	"errors"
	"fmt"

	"github.com/casualjim/muse/content"
)

// Descriptor is the registry entry for one provider: its unique name within
// a content kind, its declared capabilities, and the implementation. Owned
// by the registry for the lifetime of the process.
type Descriptor struct {
	Name         string
	Kind         content.Kind
	Capabilities Capabilities
	Provider     Provider
}

// Validate checks the descriptor is fit for registration. The registry
// calls it on every Register so malformed providers fail at startup
// instead of mid-request.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return errors.New("provider name is required")
	}
	if !d.Kind.Valid() {
		return fmt.Errorf("provider %q: unknown content kind %q", d.Name, d.Kind)
	}
	if d.Provider == nil {
		return fmt.Errorf("provider %q has no implementation", d.Name)
	}
	if err := d.Capabilities.Validate(); err != nil {
		return fmt.Errorf("provider %q: %w", d.Name, err)
	}
	return nil
}
