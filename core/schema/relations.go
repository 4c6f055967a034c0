package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Relation maps a local attribute to the type its value references.
type Relation struct {
	Attribute string
	Type      string
}

// Relations is an ordered attribute -> type mapping. Files decode into it in
// declaration order, which is the order relations are resolved in.
type Relations []Relation

// Lookup returns the related type declared for attr.
func (r Relations) Lookup(attr string) (string, bool) {
	for _, rel := range r {
		if rel.Attribute == attr {
			return rel.Type, true
		}
	}
	return "", false
}

// UnmarshalYAML decodes a YAML mapping keeping key order.
func (r *Relations) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: relations must be a mapping", value.Line)
	}
	out := make(Relations, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: relation %q must name a type", val.Line, key.Value)
		}
		out = append(out, Relation{Attribute: key.Value, Type: val.Value})
	}
	*r = out
	return nil
}

// UnmarshalJSON decodes a JSON object keeping key order.
func (r *Relations) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("relations must be an object")
	}
	var out Relations
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		var typ string
		if err := dec.Decode(&typ); err != nil {
			return fmt.Errorf("relation %v must name a type: %w", keyTok, err)
		}
		out = append(out, Relation{Attribute: keyTok.(string), Type: typ})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}

// MarshalJSON encodes the relations as an object in declaration order.
func (r Relations) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rel := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(rel.Attribute)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(rel.Type)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
