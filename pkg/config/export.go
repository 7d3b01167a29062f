package config

import (
	"github.com/arthur-debert/modplan/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
)

// MarshalTOML renders the merged registry in the registry file format, so
// the output can be edited and loaded back as a user registry file.
func (r *Registry) MarshalTOML() ([]byte, error) {
	data, err := toml.Marshal(registryFile{Games: r.Games()})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode registry")
	}
	return data, nil
}
