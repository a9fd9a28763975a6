package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FieldKind is the value type of a single extraction field.
type FieldKind string

const (
	FieldKindNumber FieldKind = "number"
	FieldKindString FieldKind = "string"
	FieldKindArray  FieldKind = "array"
)

// ItemSpec describes the elements of an array field.
type ItemSpec struct {
	Type FieldKind `json:"type"`
	Enum []string  `json:"enum,omitempty"`
}

// FieldSpec describes the shape of one field the model should extract.
type FieldSpec struct {
	Type     FieldKind `json:"type"`
	Min      *float64  `json:"min,omitempty"`
	Max      *float64  `json:"max,omitempty"`
	Enum     []string  `json:"enum,omitempty"`
	Guidance string    `json:"guidance,omitempty"`
	Items    *ItemSpec `json:"items,omitempty"`
}

// reservedFieldNames are stamped onto every successful extraction result, so
// a schema field of the same name would be overwritten.
var reservedFieldNames = map[string]bool{
	KeyAIProcessed: true,
	KeyFallback:    true,
	KeyProcessedAt: true,
	KeyWordCount:   true,
}

// SchemaField pairs a field name with its spec.
type SchemaField struct {
	Name string
	Spec FieldSpec
}

// ExtractionSchema is an ordered set of fields to extract from a transcript.
// It is encoded as a JSON object whose key order is preserved in both directions.
type ExtractionSchema []SchemaField

// Names returns the field names in schema order.
func (s ExtractionSchema) Names() []string {
	names := make([]string, len(s))
	for i := range s {
		names[i] = s[i].Name
	}
	return names
}

// Field looks up a field spec by name.
func (s ExtractionSchema) Field(name string) (FieldSpec, bool) {
	for i := range s {
		if s[i].Name == name {
			return s[i].Spec, true
		}
	}
	return FieldSpec{}, false
}

// Validate reports the first structural problem in the schema, wrapped in
// ErrInvalidSchema.
func (s ExtractionSchema) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: at least one field is required", ErrInvalidSchema)
	}
	seen := make(map[string]bool, len(s))
	for _, f := range s {
		if f.Name == "" {
			return fmt.Errorf("%w: field name must not be empty", ErrInvalidSchema)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, f.Name)
		}
		seen[f.Name] = true
		if reservedFieldNames[f.Name] {
			return fmt.Errorf("%w: field name %q is reserved", ErrInvalidSchema, f.Name)
		}

		switch f.Spec.Type {
		case FieldKindNumber:
			if f.Spec.Min != nil && f.Spec.Max != nil && *f.Spec.Min > *f.Spec.Max {
				return fmt.Errorf("%w: field %q has min greater than max", ErrInvalidSchema, f.Name)
			}
		case FieldKindString:
		case FieldKindArray:
			if f.Spec.Items == nil || f.Spec.Items.Type != FieldKindString {
				return fmt.Errorf("%w: array field %q must declare string items", ErrInvalidSchema, f.Name)
			}
		default:
			return fmt.Errorf("%w: field %q has unknown type %q", ErrInvalidSchema, f.Name, f.Spec.Type)
		}
	}
	return nil
}

// MarshalJSON encodes the schema as a JSON object in field order.
func (s ExtractionSchema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	out := bytes.NewBufferString("{")
	for i, f := range s {
		if i > 0 {
			out.WriteByte(',')
		}
		buf.Reset()
		if err := enc.Encode(f.Name); err != nil {
			return nil, err
		}
		out.Write(bytes.TrimRight(buf.Bytes(), "\n"))
		out.WriteByte(':')
		buf.Reset()
		if err := enc.Encode(f.Spec); err != nil {
			return nil, err
		}
		out.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	}
	out.WriteByte('}')
	return out.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping the order in which fields appear.
// Duplicate keys are rejected.
func (s *ExtractionSchema) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: expected a JSON object", ErrInvalidSchema)
	}

	var fields ExtractionSchema
	seen := make(map[string]bool)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
		}
		name, _ := keyTok.(string)
		if seen[name] {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, name)
		}
		seen[name] = true

		var spec FieldSpec
		if err := dec.Decode(&spec); err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrInvalidSchema, name, err)
		}
		fields = append(fields, SchemaField{Name: name, Spec: spec})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	*s = fields
	return nil
}

// Value implements driver.Valuer. The column must be JSON, not JSONB, to keep
// field order.
func (s ExtractionSchema) Value() (driver.Value, error) {
	return s.MarshalJSON()
}

// Scan implements sql.Scanner.
func (s *ExtractionSchema) Scan(src interface{}) error {
	b, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("scanning extraction schema: %w", err)
	}
	if b == nil {
		*s = nil
		return nil
	}
	return s.UnmarshalJSON(b)
}
