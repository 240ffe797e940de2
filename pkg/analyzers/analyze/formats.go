package analyze

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Serialization format constants.
const (
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatBinary = "bin"
	FormatText   = "text"

	// formatBinaryAlias is the long spelling accepted on the CLI.
	formatBinaryAlias = "binary"
)

// ErrUnsupportedFormat indicates the requested output format is not
// supported.
var ErrUnsupportedFormat = errors.New("unsupported format")

// NormalizeFormat canonicalizes a user-provided output format string.
func NormalizeFormat(format string) string {
	normalized := strings.ToLower(strings.TrimSpace(format))
	if normalized == formatBinaryAlias {
		return FormatBinary
	}

	return normalized
}

// UniversalFormats returns the output formats every analyzer supports.
func UniversalFormats() []string {
	return []string{FormatJSON, FormatYAML, FormatBinary, FormatText}
}

// ValidateFormat checks whether a format is in the provided support list and
// returns its canonical spelling.
func ValidateFormat(format string, supported []string) (string, error) {
	normalized := NormalizeFormat(format)
	for _, candidate := range supported {
		if normalized == NormalizeFormat(candidate) {
			return normalized, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// SerializeValue writes value in a machine format. Text rendering is
// analyzer-specific and handled by each Serialize implementation.
func SerializeValue(value any, format string, writer io.Writer) error {
	switch NormalizeFormat(format) {
	case FormatJSON:
		if err := json.NewEncoder(writer).Encode(value); err != nil {
			return fmt.Errorf("json encode: %w", err)
		}

		return nil
	case FormatYAML:
		data, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}

		if _, err := writer.Write(data); err != nil {
			return fmt.Errorf("yaml write: %w", err)
		}

		return nil
	case FormatBinary:
		return EncodeEnvelope(value, writer)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// EncodeReport flattens a typed metrics struct into a Report through JSON,
// so in-memory reports and archive-loaded reports share one shape.
func EncodeReport(value any) (Report, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("reshape report: %w", err)
	}

	return report, nil
}

// DecodeReport re-shapes a generic report into typed metrics.
func DecodeReport[T any](report Report) (T, error) {
	var out T

	data, err := json.Marshal(report)
	if err != nil {
		return out, fmt.Errorf("encode report: %w", err)
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode report: %w", err)
	}

	return out, nil
}
