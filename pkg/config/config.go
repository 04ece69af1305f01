package config

import "github.com/sirupsen/logrus"

type Config interface {
	AllowNonRootAccess() bool
	EventBuffer() int
	// Defaults returns the geometry values applied when the daemon starts,
	// keyed by field name.
	Defaults() map[string]float64

	SetAllowNonRootAccess(bool)
	SetEventBuffer(int)
	SetDefault(field string, value float64)
	UnsetDefault(field string)

	LogrusFields() logrus.Fields

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
