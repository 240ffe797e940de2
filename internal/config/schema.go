package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrSchemaViolation indicates the config document does not match the schema.
var ErrSchemaViolation = errors.New("config does not match schema")

// configSchema is the JSON Schema for gitglow config files. Explicit config
// paths are validated against it before viper unmarshalling so typos surface
// as named violations instead of silently ignored keys.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "analyzers": {"type": "array", "items": {"type": "string"}},
    "repo": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "branch": {"type": "string"},
        "since": {"type": "string"},
        "max_commits": {"type": "integer", "minimum": 0},
        "first_parent": {"type": "boolean"}
      }
    },
    "scan": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "source_dir": {"type": "string"},
        "extensions": {"type": "array", "items": {"type": "string"}},
        "ignore_dirs": {"type": "array", "items": {"type": "string"}}
      }
    },
    "github": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "repo": {"type": "string"},
        "token": {"type": "string"},
        "enrich_prs": {"type": "integer", "minimum": 0},
        "rate_rps": {"type": "number", "minimum": 0}
      }
    },
    "cache": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "dir": {"type": "string"},
        "ttl": {"type": "string"}
      }
    },
    "history": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "classify": {
          "type": "object",
          "additionalProperties": false,
          "properties": {"sentiment": {"type": "boolean"}}
        },
        "contributors": {
          "type": "object",
          "additionalProperties": false,
          "properties": {"top_authors": {"type": "integer", "minimum": 0}}
        }
      }
    },
    "static": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "complexity": {
          "type": "object",
          "additionalProperties": false,
          "properties": {
            "threshold": {"type": "integer", "minimum": 0},
            "top_functions": {"type": "integer", "minimum": 0}
          }
        },
        "depgraph": {
          "type": "object",
          "additionalProperties": false,
          "properties": {"max_graph_nodes": {"type": "integer", "minimum": 0}}
        },
        "sizes": {
          "type": "object",
          "additionalProperties": false,
          "properties": {"largest_files": {"type": "integer", "minimum": 0}}
        }
      }
    },
    "observability": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "otlp_endpoint": {"type": "string"},
        "otlp_insecure": {"type": "boolean"},
        "sample_ratio": {"type": "number", "minimum": 0, "maximum": 1},
        "log_json": {"type": "boolean"},
        "log_level": {"type": "string", "enum": ["debug", "info", "warn", "error"]}
      }
    }
  }
}`

// ValidateConfigFile checks a YAML config file against the embedded schema.
// An empty document is valid.
func ValidateConfigFile(path string) error {
	raw, readErr := os.ReadFile(path) //nolint:gosec // path is the user-supplied --config flag
	if readErr != nil {
		return fmt.Errorf("read config file: %w", readErr)
	}

	return ValidateConfigDocument(raw)
}

// ValidateConfigDocument checks raw YAML config bytes against the embedded schema.
func ValidateConfigDocument(raw []byte) error {
	var doc any

	yamlErr := yaml.Unmarshal(raw, &doc)
	if yamlErr != nil {
		return fmt.Errorf("parse config yaml: %w", yamlErr)
	}

	if doc == nil {
		return nil
	}

	result, validateErr := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if validateErr != nil {
		return fmt.Errorf("run schema validation: %w", validateErr)
	}

	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, resErr := range result.Errors() {
		violations = append(violations, resErr.String())
	}

	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(violations, "; "))
}
