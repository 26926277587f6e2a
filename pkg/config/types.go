package config

import (
	"github.com/SaaSy-Solutions/statemock/pkg/mock"
	"github.com/SaaSy-Solutions/statemock/pkg/stateful"
)

// DefaultPort is the port the server binds when none is configured.
const DefaultPort = 4280

// ServerConfiguration holds server-level settings.
type ServerConfiguration struct {
	// Host is the interface to bind (empty = all interfaces)
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port is the TCP port to listen on
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// LogLevel is the minimum log level (debug, info, warn, error)
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`

	// LogFormat is the log output format (text, json)
	LogFormat string `json:"logFormat,omitempty" yaml:"logFormat,omitempty"`

	// AdminDisabled turns off the /__statemock/ admin endpoints
	AdminDisabled bool `json:"adminDisabled,omitempty" yaml:"adminDisabled,omitempty"`
}

// DefaultServerConfiguration returns the settings used when a collection
// carries no server block.
func DefaultServerConfiguration() *ServerConfiguration {
	return &ServerConfiguration{
		Port:      DefaultPort,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// StatefulEndpoint binds a state machine configuration to a path pattern.
// The machine's fields sit inline next to path_pattern in the config file.
type StatefulEndpoint struct {
	PathPattern     string `json:"path_pattern" yaml:"path_pattern"`
	stateful.Config `yaml:",inline"`
}

// Collection is the root of a statemock configuration file.
type Collection struct {
	// Version is the config format version
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Name is a human-readable collection name
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Server holds server-level settings (first file's block wins on merge)
	Server *ServerConfiguration `json:"server,omitempty" yaml:"server,omitempty"`

	// Mocks are root-level static definitions, in declaration order
	Mocks []*mock.Mock `json:"mocks,omitempty" yaml:"mocks,omitempty"`

	// Folders group further definitions
	Folders []*mock.Folder `json:"folders,omitempty" yaml:"folders,omitempty"`

	// Stateful are the state machine endpoints
	Stateful []*StatefulEndpoint `json:"stateful,omitempty" yaml:"stateful,omitempty"`
}

// Merge appends another collection's definitions and stateful endpoints to
// this one. Server settings are kept from the receiver unless it has none.
func (c *Collection) Merge(other *Collection) {
	if other == nil {
		return
	}
	c.Mocks = append(c.Mocks, other.Mocks...)
	c.Folders = append(c.Folders, other.Folders...)
	c.Stateful = append(c.Stateful, other.Stateful...)
	if c.Server == nil {
		c.Server = other.Server
	}
}
