package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Property is one named event property. Value holds a string, json.Number or
// other number, bool, nil, a nested map[string]any or a []any.
type Property struct {
	Name  string
	Value any
}

// Properties is the ordered property list of an event. Order follows the
// source document, which matters when two names differ only by case.
type Properties []Property

// Get returns the value of the property with exactly the given name. If the
// name occurs more than once the last occurrence wins.
func (p Properties) Get(name string) (any, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Name == name {
			return p[i].Value, true
		}
	}
	return nil, false
}

// UnmarshalJSON decodes a JSON object, preserving member order. Numbers are
// kept as json.Number so that integers render without exponent notation.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("properties: %w", err)
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("properties: expected object, got %v", tok)
	}

	out := Properties{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("properties: %w", err)
		}
		name, _ := keyTok.(string)
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("properties: %q: %w", name, err)
		}
		out = append(out, Property{Name: name, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("properties: %w", err)
	}
	*p = out
	return nil
}

// MarshalJSON encodes the properties as a JSON object in list order.
func (p Properties) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, prop := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(prop.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(prop.Value)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", prop.Name, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
