package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/porter/pkg/domain/types"
	"gopkg.in/yaml.v3"
)

// File is porter's optional configuration file. It carries per-host
// credentials so CI images do not have to pass tokens through the
// environment.
type File struct {
	Credentials []*Credentials `yaml:"credentials,omitempty"`
}

// Credentials holds access credentials for one GitHub host
type Credentials struct {
	Host       string `yaml:"host"`
	Username   string `yaml:"username,omitempty"`
	OAuthToken string `yaml:"oauthToken,omitempty" masq:"secret"`
}

// LoadFile reads and parses the configuration file at path
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file",
			goerr.V("path", path),
			goerr.T(types.ErrTagConfig),
		)
	}

	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file",
			goerr.V("path", path),
			goerr.T(types.ErrTagConfig),
		)
	}

	return &file, nil
}

// TokenForHost returns the OAuth token registered for the host, or an empty
// string when the host has no entry
func (f *File) TokenForHost(host string) string {
	for _, cred := range f.Credentials {
		if cred.Host == host {
			return cred.OAuthToken
		}
	}

	return ""
}
