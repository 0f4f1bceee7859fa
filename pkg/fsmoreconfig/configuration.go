// Package fsmoreconfig provides loading facilities for fsmore's YAML-based
// global configuration file, which holds default values for fsmore's copy
// and move options. Neither pkg/fsmore nor the fsmore command-line tool
// loads this file; the tool's flags carry their own defaults.
package fsmoreconfig

import (
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/fsmore/fsmore/pkg/encoding"
	"github.com/fsmore/fsmore/pkg/logging"
)

// configurationFileName is the name of the global configuration file within
// the user's home directory.
const configurationFileName = ".fsmore.yml"

// ByteSize is a uint64 value that supports unmarshalling from both
// human-friendly string representations ("64KiB") and plain numeric
// representations. It can be cast to a uint64 value, where it represents a
// byte count.
type ByteSize uint64

// UnmarshalText implements the text unmarshalling interface used when
// loading from YAML files.
func (s *ByteSize) UnmarshalText(textBytes []byte) error {
	value, err := humanize.ParseBytes(string(textBytes))
	if err != nil {
		return err
	}
	*s = ByteSize(value)
	return nil
}

// DestinationRuleConfiguration mirrors fsmore.DestinationRule in a form
// amenable to YAML unmarshalling.
type DestinationRuleConfiguration struct {
	// Kind is one of "disallow-existing", "allow-empty", or
	// "allow-non-empty".
	Kind string `yaml:"kind"`
	// OnFileCollision is one of "abort", "overwrite", or "skip".
	OnFileCollision string `yaml:"onFileCollision"`
	// OnSubdirectoryCollision is one of "abort" or "continue".
	OnSubdirectoryCollision string `yaml:"onSubdirectoryCollision"`
}

// CopyConfiguration holds the defaults applied to copy and move operations
// when not explicitly overridden by the caller (or, for the command-line
// tool, by a flag).
type CopyConfiguration struct {
	// Destination is the default destination collision policy.
	Destination DestinationRuleConfiguration `yaml:"destination"`
	// Symlinks is one of "keep" or "follow".
	Symlinks string `yaml:"symlinks"`
	// BrokenLinks is one of "keep" or "abort".
	BrokenLinks string `yaml:"brokenLinks"`
	// ReadBufferSize is the default read buffer size used when copying
	// file content.
	ReadBufferSize ByteSize `yaml:"readBufferSize"`
	// WriteBufferSize is the default write buffer size used when copying
	// file content.
	WriteBufferSize ByteSize `yaml:"writeBufferSize"`
	// ProgressUpdateByteInterval is the default minimum interval, in
	// bytes, between progress callback invocations during a single file's
	// copy.
	ProgressUpdateByteInterval ByteSize `yaml:"progressUpdateByteInterval"`
}

// Configuration is the global YAML configuration object type.
type Configuration struct {
	// Copy holds defaults for copy and move operations.
	Copy CopyConfiguration `yaml:"copy"`
	// LogLevel is the name of the default log level ("disabled", "error",
	// "warn", "info", "debug", or "trace").
	LogLevel string `yaml:"logLevel"`
}

// Default returns the configuration fsmore uses in the absence of a
// configuration file, or for any field a present file leaves zero-valued.
func Default() *Configuration {
	return &Configuration{
		Copy: CopyConfiguration{
			Destination: DestinationRuleConfiguration{
				Kind:                    "disallow-existing",
				OnFileCollision:         "abort",
				OnSubdirectoryCollision: "abort",
			},
			Symlinks:                   "keep",
			BrokenLinks:                "keep",
			ReadBufferSize:             64 * 1024,
			WriteBufferSize:            64 * 1024,
			ProgressUpdateByteInterval: 64 * 1024,
		},
		LogLevel: "info",
	}
}

// Path returns the path of the YAML-based global configuration file. It
// does not verify that the file exists.
func Path() (string, error) {
	homeDirectoryPath, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "unable to compute path to home directory")
	}
	return filepath.Join(homeDirectoryPath, configurationFileName), nil
}

// LoadConfiguration attempts to load the YAML-based global configuration
// file from path, starting from Default() so that a file which specifies
// only a handful of fields still yields a fully populated Configuration.
// A missing file is not an error; Default() is returned unmodified.
func LoadConfiguration(path string, logger *logging.Logger) (*Configuration, error) {
	result := Default()
	if err := encoding.LoadAndUnmarshalYAML(path, result); err != nil {
		if os.IsNotExist(err) {
			logger.Debugf("No configuration file found at %s, using defaults", path)
			return result, nil
		}
		return nil, err
	}
	return result, nil
}

// SaveConfiguration writes configuration to path as YAML.
func SaveConfiguration(path string, configuration *Configuration) error {
	return encoding.MarshalAndSaveYAML(path, configuration)
}
