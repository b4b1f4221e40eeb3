// Package instrument holds the question sets for each respondent role.
// The default catalog is embedded; a deployment may replace it with its
// own YAML file of the same shape.
package instrument

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/procs/pkg/types"
)

//go:embed instruments.yaml
var defaultYAML []byte

// Catalog maps each role to its instrument.
type Catalog struct {
	byRole map[types.Role]types.Instrument
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultYAML))
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening instruments file: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load decodes a YAML list of instruments. Every role must appear exactly
// once and every instrument must pass Validate.
func Load(r io.Reader) (*Catalog, error) {
	var list []types.Instrument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&list); err != nil {
		return nil, fmt.Errorf("decoding instruments: %w", err)
	}

	c := &Catalog{byRole: make(map[types.Role]types.Instrument, len(list))}
	for _, in := range list {
		if err := in.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byRole[in.Role]; dup {
			return nil, fmt.Errorf("instrument %s defined twice", in.Role)
		}
		c.byRole[in.Role] = in
	}
	for _, role := range types.Roles {
		if _, ok := c.byRole[role]; !ok {
			return nil, fmt.Errorf("no instrument for role %s", role)
		}
	}
	return c, nil
}

// For returns the instrument for role.
func (c *Catalog) For(role types.Role) (types.Instrument, error) {
	in, ok := c.byRole[role]
	if !ok {
		return types.Instrument{}, types.ErrRoleUnknown
	}
	return in, nil
}

// All returns the instruments in role-picker order.
func (c *Catalog) All() []types.Instrument {
	all := make([]types.Instrument, 0, len(types.Roles))
	for _, role := range types.Roles {
		all = append(all, c.byRole[role])
	}
	return all
}
