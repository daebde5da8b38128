// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/invowk/pkgtarget/pkg/platform"
	"github.com/invowk/pkgtarget/pkg/target"
	"github.com/invowk/pkgtarget/pkg/types"
)

const (
	// LogLevelDebug logs probe details and resolution decisions.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs informational messages.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs warnings and errors only.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	defaultProbeTimeout = "500ms"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidProbeTimeout is returned when compat.probe_timeout is not a positive duration.
	ErrInvalidProbeTimeout = errors.New("invalid probe timeout")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum severity written to stderr.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidProbeTimeoutError is returned when a probe timeout does not parse
	// or is not positive.
	InvalidProbeTimeoutError struct {
		Value string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It collects field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Target replaces the capability-derived default target when set.
		Target string `json:"target" mapstructure:"target"`
		// Compat configures the Linux compatibility layer probe and policy.
		Compat CompatConfig `json:"compat" mapstructure:"compat"`
		// Log configures diagnostic logging.
		Log LogConfig `json:"log" mapstructure:"log"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// CompatConfig configures the compatibility layer.
	CompatConfig struct {
		// Enabled installs the compatibility policy when the layer works (default: true).
		Enabled bool `json:"enabled" mapstructure:"enabled"`
		// Roots replaces the built-in compatibility roots when non-empty.
		Roots []types.FilesystemPath `json:"roots" mapstructure:"roots"`
		// ProbeTimeout bounds the compatibility probe (default: "500ms",
		// capped at platform.MaxProbeTimeout).
		ProbeTimeout string `json:"probe_timeout" mapstructure:"probe_timeout"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Compat: CompatConfig{
			Enabled:      true,
			Roots:        []types.FilesystemPath{},
			ProbeTimeout: defaultProbeTimeout,
		},
		Log: LogConfig{Level: LogLevelWarn},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}

// IsValid returns whether the Config is valid, and a list of validation
// errors if it is not.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if c.Target != "" {
		if _, err := target.Parse(c.Target); err != nil {
			errs = append(errs, err)
		}
	}
	if ok, fieldErrs := c.Compat.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.Log.Level.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.UI.ColorScheme.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// IsValid returns whether the CompatConfig is valid, and a list of
// validation errors if it is not.
func (c CompatConfig) IsValid() (bool, []error) {
	var errs []error
	for _, root := range c.Roots {
		if ok, fieldErrs := root.IsValid(); !ok {
			errs = append(errs, fieldErrs...)
		}
	}
	if _, err := c.Timeout(); err != nil {
		errs = append(errs, err)
	}
	return len(errs) == 0, errs
}

// Timeout parses ProbeTimeout. An empty value means the platform default.
func (c CompatConfig) Timeout() (time.Duration, error) {
	if c.ProbeTimeout == "" {
		return platform.DefaultProbeTimeout, nil
	}
	d, err := time.ParseDuration(c.ProbeTimeout)
	if err != nil || d <= 0 {
		return 0, &InvalidProbeTimeoutError{Value: c.ProbeTimeout}
	}
	return d, nil
}

// ProbeOptions converts the compat settings into detector options. The probe
// is disabled entirely when the policy is disabled.
func (c CompatConfig) ProbeOptions() (platform.ProbeOptions, error) {
	timeout, err := c.Timeout()
	if err != nil {
		return platform.ProbeOptions{}, err
	}
	roots := make([]string, 0, len(c.Roots))
	for _, r := range c.Roots {
		roots = append(roots, r.String())
	}
	return platform.ProbeOptions{
		Roots:    roots,
		Timeout:  timeout,
		Disabled: !c.Enabled,
	}, nil
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels,
// and a list of validation errors if it is not.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface for InvalidProbeTimeoutError.
func (e *InvalidProbeTimeoutError) Error() string {
	return fmt.Sprintf("invalid probe timeout %q: must be a positive duration such as \"500ms\"", e.Value)
}

// Unwrap returns ErrInvalidProbeTimeout for errors.Is() compatibility.
func (e *InvalidProbeTimeoutError) Unwrap() error { return ErrInvalidProbeTimeout }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so errors.Is
// matches both the sentinel and the specific field sentinels.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
