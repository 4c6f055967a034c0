package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// Format identifies a schema file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCUE  Format = "cue"
)

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("unsupported schema file extension %q (supported: .yaml, .yml, .json, .cue)", filepath.Ext(path))
	}
}

// LoadFile reads and validates a schema file.
func LoadFile(path string) (*Registry, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// ReadFile decodes a schema file without validating it.
func ReadFile(path string) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read schema file: %w", err)
	}
	return Decode(data, format, path)
}

// Decode parses schema data in the given format. name is used in CUE
// diagnostics only.
func Decode(data []byte, format Format, name string) (Config, error) {
	var cfg Config
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode yaml schema: %w", err)
		}
	case FormatJSON:
		if err := decodeJSON(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode json schema: %w", err)
		}
	case FormatCUE:
		exported, err := exportCUE(data, name)
		if err != nil {
			return Config{}, err
		}
		if err := decodeJSON(exported, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode cue schema: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported schema format %q", format)
	}
	return cfg, nil
}

func decodeJSON(data []byte, cfg *Config) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// exportCUE evaluates a CUE document and exports it as JSON, which keeps
// field declaration order for the relation maps.
func exportCUE(data []byte, name string) ([]byte, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(name))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile cue schema: %w", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("cue schema is not concrete: %w", err)
	}
	out, err := value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to export cue schema: %w", err)
	}
	return out, nil
}
