package settings

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultMaxDepth bounds how deep nested objects may go before a conversion is aborted.
const DefaultMaxDepth = 64

type Arguments struct {
	// Path to an optional YAML config file
	ConfigFile string `yaml:"-"`

	// File the demo driver writes its log to; empty means stdout only
	LogFile string `yaml:"logfile"`

	// Strongly verbose logging
	Verbose bool `yaml:"verbose"`

	// Development logger instead of production
	Debug bool `yaml:"debug"`

	// Print log messages to screen as well as to LogFile
	PrintToScreen bool `yaml:"print"`

	// Register nested and referenced types on first use when they declare a DocBuilder
	AutoRegister bool `yaml:"autoregister"`

	// Maximum nesting of objects inside one document
	MaxDepth int `yaml:"maxdepth"`
}

var (
	instance *Arguments
	once     sync.Once
)

// GetSettings returns the process wide settings, creating them with defaults on first use.
func GetSettings() *Arguments {
	once.Do(func() {
		instance = Defaults()
	})
	return instance
}

// Defaults returns a fresh Arguments value with every field at its default.
func Defaults() *Arguments {
	return &Arguments{
		PrintToScreen: true,
		AutoRegister:  true,
		MaxDepth:      DefaultMaxDepth,
	}
}

// LoadConfigFile overlays the values found in a YAML file on top of args.
// Keys missing from the file keep their current value.
func LoadConfigFile(path string, args *Arguments) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, args); err != nil {
		return fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	args.ConfigFile = path

	return Validate(args)
}

// Validate checks the arguments and returns an error if any value is out of range.
func Validate(args *Arguments) error {
	if args.MaxDepth < 1 {
		return fmt.Errorf("invalid max depth: %d (must be at least 1)", args.MaxDepth)
	}
	return nil
}
