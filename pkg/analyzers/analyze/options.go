package analyze

import (
	"fmt"
	"strings"
)

// ConfigurationOptionType represents the possible types of a
// ConfigurationOption's value.
type ConfigurationOptionType int

const (
	// BoolConfigurationOption reflects the boolean value type.
	BoolConfigurationOption ConfigurationOptionType = iota
	// IntConfigurationOption reflects the integer value type.
	IntConfigurationOption
	// StringConfigurationOption reflects the string value type.
	StringConfigurationOption
	// FloatConfigurationOption reflects a floating point value type.
	FloatConfigurationOption
	// StringsConfigurationOption reflects the array of strings value type.
	StringsConfigurationOption
)

// String is the argument type label shown in CLI help; booleans take none.
func (opt ConfigurationOptionType) String() string {
	switch opt {
	case BoolConfigurationOption:
		return ""
	case IntConfigurationOption:
		return "int"
	case StringConfigurationOption:
		return "string"
	case FloatConfigurationOption:
		return "float"
	case StringsConfigurationOption:
		return "string"
	}

	return ""
}

// ConfigurationOption is one tunable of an analyzer, set through facts.
type ConfigurationOption struct {
	// Name identifies the configuration option in facts.
	Name string
	// Description is the help text.
	Description string
	// Flag corresponds to the CLI token with "--" prepended.
	Flag string
	// Type specifies the kind of the option's value.
	Type ConfigurationOptionType
	// Default is the initial value.
	Default any
}

// FormatDefault renders the default value for CLI help.
func (opt ConfigurationOption) FormatDefault() string {
	if opt.Type == StringsConfigurationOption {
		if strs, ok := opt.Default.([]string); ok {
			return fmt.Sprintf("%q", strings.Join(strs, ","))
		}
	}

	if opt.Type == StringConfigurationOption {
		return fmt.Sprintf("%q", opt.Default)
	}

	return fmt.Sprint(opt.Default)
}

// FactInt reads an integer fact, tolerating float64 from decoded JSON.
func FactInt(facts map[string]any, key string, def int) int {
	switch value := facts[key].(type) {
	case int:
		return value
	case float64:
		return int(value)
	default:
		return def
	}
}

// FactFloat reads a float fact.
func FactFloat(facts map[string]any, key string, def float64) float64 {
	switch value := facts[key].(type) {
	case float64:
		return value
	case int:
		return float64(value)
	default:
		return def
	}
}

// FactBool reads a boolean fact.
func FactBool(facts map[string]any, key string, def bool) bool {
	if value, ok := facts[key].(bool); ok {
		return value
	}

	return def
}

// FactString reads a string fact.
func FactString(facts map[string]any, key, def string) string {
	if value, ok := facts[key].(string); ok {
		return value
	}

	return def
}
